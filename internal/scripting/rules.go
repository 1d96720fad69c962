package scripting

import (
	"fmt"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/tabletopsim/engine/internal/core/ecs"
	"github.com/tabletopsim/engine/internal/rule"
)

// RuleNames returns the rules scripts registered, in registration order.
func (e *Engine) RuleNames() []string {
	out := make([]string, len(e.rules))
	copy(out, e.rules)
	return out
}

// Rule returns a rule.Rule that runs the named script rule. Script errors
// reject the action.
func (e *Engine) Rule(name string) (rule.Rule, error) {
	fn, ok := e.ruleFns[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrRuleNotFound, name)
	}
	return func(s *ecs.Store, a *ecs.Action) rule.Verdict {
		return e.callRule(name, fn, s, a)
	}, nil
}

// Install registers every script rule into set, prefixed with "lua:".
func (e *Engine) Install(set *rule.Set) error {
	for _, name := range e.rules {
		r, err := e.Rule(name)
		if err != nil {
			return err
		}
		if err := set.Register("lua:"+name, r); err != nil {
			return err
		}
	}
	return nil
}

func (e *Engine) callRule(name string, fn *lua.LFunction, s *ecs.Store, a *ecs.Action) rule.Verdict {
	e.store, e.action = s, a
	defer func() { e.store, e.action = nil, nil }()

	if err := e.vm.CallByParam(lua.P{
		Fn:      fn,
		NRet:    2,
		Protect: true,
	}, e.actionTable(a)); err != nil {
		e.log.Error("lua rule error", zap.String("rule", name), zap.Error(err))
		return rule.Rejectf("script error")
	}

	ok := e.vm.Get(-2)
	reason := e.vm.Get(-1)
	e.vm.Pop(2)

	if lua.LVAsBool(ok) {
		return rule.Accept()
	}
	if reason == lua.LNil {
		return rule.Rejectf("rejected")
	}
	return rule.Rejectf("%s", lua.LVAsString(reason))
}

func (e *Engine) actionTable(a *ecs.Action) *lua.LTable {
	t := e.vm.NewTable()
	t.RawSetString("id", lua.LString(a.ID().String()))
	tags := e.vm.NewTable()
	for _, tag := range a.Tags() {
		tags.Append(lua.LString(tag))
	}
	t.RawSetString("tags", tags)
	touched := e.vm.NewTable()
	for _, id := range a.Touched() {
		touched.Append(lua.LNumber(id))
	}
	t.RawSetString("touched", touched)
	return t
}

// --- functions visible to scripts ---

// register_rule(name, fn)
func (e *Engine) luaRegisterRule(L *lua.LState) int {
	name := L.CheckString(1)
	fn := L.CheckFunction(2)
	if _, ok := e.ruleFns[name]; !ok {
		e.rules = append(e.rules, name)
	}
	e.ruleFns[name] = fn
	return 0
}

func (e *Engine) reader(L *lua.LState, idx int) componentReader {
	name := L.CheckString(idx)
	r, ok := e.readers[name]
	if !ok {
		L.ArgError(idx, "unknown component "+name)
	}
	return r
}

func (e *Engine) bound(L *lua.LState) {
	if e.store == nil || e.action == nil {
		L.RaiseError("store access outside a rule")
	}
}

// current(entity, component) -> value | nil
func (e *Engine) luaCurrent(L *lua.LState) int {
	e.bound(L)
	id := ecs.EntityID(L.CheckInt64(1))
	r := e.reader(L, 2)
	L.Push(r.current(L, e.store, id))
	return 1
}

// future(entity, component) -> value | nil
func (e *Engine) luaFuture(L *lua.LState) int {
	e.bound(L)
	id := ecs.EntityID(L.CheckInt64(1))
	r := e.reader(L, 2)
	L.Push(r.future(L, e.store, e.action, id))
	return 1
}

// staged(component) -> {entity, ...}
func (e *Engine) luaStaged(L *lua.LState) int {
	e.bound(L)
	r := e.reader(L, 1)
	t := L.NewTable()
	for _, id := range r.staged(e.action) {
		t.Append(lua.LNumber(id))
	}
	L.Push(t)
	return 1
}

// has_tag(tag) -> bool
func (e *Engine) luaHasTag(L *lua.LState) int {
	e.bound(L)
	L.Push(lua.LBool(e.action.HasTag(ecs.ActionTag(L.CheckString(1)))))
	return 1
}
