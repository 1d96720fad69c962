package scripting

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/tabletopsim/engine/internal/core/ecs"
)

// ErrRuleNotFound is returned when a registered rule name has no function.
var ErrRuleNotFound = errors.New("lua rule not found")

// Engine wraps a single gopher-lua VM for rule scripts and combat hooks.
// Single-goroutine access only (game loop).
type Engine struct {
	vm  *lua.LState
	log *zap.Logger

	readers map[string]componentReader
	rules   []string
	ruleFns map[string]*lua.LFunction

	// Bound only while a rule is running.
	store  *ecs.Store
	action *ecs.Action
}

// NewEngine creates a Lua engine and loads every script from the rules and
// combat subdirectories of scriptsDir. Missing directories are skipped.
func NewEngine(scriptsDir string, log *zap.Logger) (*Engine, error) {
	e := newEngine(log)
	for _, sub := range []string{"core", "rules", "combat"} {
		p := filepath.Join(scriptsDir, sub)
		if err := e.loadDir(p); err != nil {
			e.vm.Close()
			return nil, fmt.Errorf("load %s scripts: %w", sub, err)
		}
	}
	return e, nil
}

// NewEngineFromSource creates an engine from inline Lua, for tests and
// embedded defaults.
func NewEngineFromSource(src string, log *zap.Logger) (*Engine, error) {
	e := newEngine(log)
	if err := e.vm.DoString(src); err != nil {
		e.vm.Close()
		return nil, fmt.Errorf("load lua source: %w", err)
	}
	return e, nil
}

func newEngine(log *zap.Logger) *Engine {
	vm := lua.NewState(lua.Options{
		SkipOpenLibs: false,
	})
	vm.SetGlobal("API_VERSION", lua.LNumber(1))

	e := &Engine{
		vm:      vm,
		log:     log,
		readers: make(map[string]componentReader),
		ruleFns: make(map[string]*lua.LFunction),
	}
	vm.SetGlobal("register_rule", vm.NewFunction(e.luaRegisterRule))
	vm.SetGlobal("current", vm.NewFunction(e.luaCurrent))
	vm.SetGlobal("future", vm.NewFunction(e.luaFuture))
	vm.SetGlobal("staged", vm.NewFunction(e.luaStaged))
	vm.SetGlobal("has_tag", vm.NewFunction(e.luaHasTag))
	return e
}

// loadDir loads all .lua files in a directory in name order.
func (e *Engine) loadDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // skip missing dirs
		}
		return err
	}
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".lua" {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if err := e.vm.DoFile(path); err != nil {
			return fmt.Errorf("load %s: %w", path, err)
		}
		e.log.Debug("loaded lua script", zap.String("file", path))
	}
	return nil
}

// Close shuts down the Lua VM.
func (e *Engine) Close() {
	e.vm.Close()
}

// --- Lua helpers ---

// lInt reads an integer field from a Lua table.
func lInt(t *lua.LTable, key string) int {
	return int(lua.LVAsNumber(t.RawGetString(key)))
}

// lBool reads a boolean field from a Lua table.
func lBool(t *lua.LTable, key string) bool {
	return lua.LVAsBool(t.RawGetString(key))
}
