package main

import (
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/text/language"

	"github.com/tabletopsim/engine/internal/config"
	"github.com/tabletopsim/engine/internal/core/ecs"
	"github.com/tabletopsim/engine/internal/core/event"
	coresys "github.com/tabletopsim/engine/internal/core/system"
	"github.com/tabletopsim/engine/internal/data"
	"github.com/tabletopsim/engine/internal/debug"
	"github.com/tabletopsim/engine/internal/dice"
	"github.com/tabletopsim/engine/internal/effect"
	"github.com/tabletopsim/engine/internal/game"
	"github.com/tabletopsim/engine/internal/rule"
	"github.com/tabletopsim/engine/internal/scripting"
	"github.com/tabletopsim/engine/internal/system"
	"github.com/tabletopsim/engine/internal/worldtime"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

// ── Startup display helpers ────────────────────────────────────────

func printBanner(name string) {
	fmt.Println()
	fmt.Println("\033[36;1m  ┌───────────────────────────────────────────┐\033[0m")
	fmt.Printf("\033[36;1m  │\033[0m %-41s \033[36;1m│\033[0m\n", name)
	fmt.Println("\033[36;1m  └───────────────────────────────────────────┘\033[0m")
	fmt.Println()
}

func printSection(title string) {
	lineLen := max(46-len(title)-1, 3)
	fmt.Printf("  \033[33m── %s %s\033[0m\n", title, strings.Repeat("─", lineLen))
}

func printStat(label string, count int) {
	numStr := fmt.Sprintf("%d", count)
	dotsLen := max(42-len(label)-len(numStr), 3)
	fmt.Printf("  %s \033[90m%s\033[0m \033[32m%s\033[0m\n", label, strings.Repeat("·", dotsLen), numStr)
}

func printOK(msg string) {
	fmt.Printf("  \033[32m✓\033[0m %s\n", msg)
}

func printReady(msg string) {
	fmt.Printf("  \033[32m▶\033[0m %s\n", msg)
}

// ── Main loop ─────────────────────────────────────────────────────

func run() error {
	// 1. Load config
	cfgPath := "config/tabletop.toml"
	if p := os.Getenv("TABLETOP_CONFIG"); p != "" {
		cfgPath = p
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// 2. Init logger
	log, err := newLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	printBanner(cfg.Game.Name)

	// 3. Content
	printSection("Content")
	roster, err := data.LoadRoster(cfg.Content.Path)
	if err != nil {
		return fmt.Errorf("load roster: %w", err)
	}
	world := ecs.NewWorld()
	clock := worldtime.New()
	spawned, err := roster.Spawn(world, clock.Passed())
	if err != nil {
		return fmt.Errorf("spawn roster: %w", err)
	}
	printStat("Actors", spawned)
	printStat("Component types", world.Store().Len())

	// 4. Rules and scripts
	printSection("Rules")
	lua, err := scripting.NewEngine(cfg.Rules.ScriptsDir, log)
	if err != nil {
		return fmt.Errorf("lua engine: %w", err)
	}
	defer lua.Close()
	scripting.ExposeDefaults(lua)

	arena := game.Arena{Width: cfg.Game.ArenaWidth, Height: cfg.Game.ArenaHeight}
	rules := game.DefaultRules(arena)
	if err := lua.Install(rules); err != nil {
		return fmt.Errorf("install lua rules: %w", err)
	}
	printStat("Rules", rules.Len())
	printStat("Max passes", cfg.Rules.MaxPasses)
	resolver := rule.NewResolver(rules, arena.Clamp(), cfg.Rules.MaxPasses, log)

	// 5. Events
	bus := event.NewBus()
	subscribeLogging(bus, log)
	event.Subscribe(bus, game.ClearSlain(world, log))

	// 6. Systems
	seed := cfg.Game.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	g := game.New(world, resolver, bus, log)
	input := make(chan game.Proposal, cfg.Game.InputBudget)

	runner := coresys.NewRunner()
	runner.Register(system.NewEventDispatchSystem(bus))
	runner.Register(system.NewInputSystem(input, g, cfg.Game.InputBudget, log))
	runner.Register(g)
	runner.Register(system.NewEffectSystem(world, effect.NewPipeline(log), clock, bus))
	if cfg.Debug.Enabled {
		tag, err := language.Parse(cfg.Debug.Language)
		if err != nil {
			return fmt.Errorf("debug language %q: %w", cfg.Debug.Language, err)
		}
		runner.Register(system.NewDebugSystem(world, debug.NewPrinter(os.Stdout, tag), cfg.Debug.Every, log))
	}
	runner.Register(system.NewCleanupSystem(world, log))
	runner.Register(system.NewClockSystem(clock, cfg.Game.RealTime))
	printOK("Systems registered")

	attacker := game.Attacker{
		Roller: dice.NewRoller(seed),
		Lua:    lua,
		Weapon: dice.D(8),
		BaseAC: 10,
	}
	plan := demoScript(roster, attacker, clock)

	// 7. Game loop
	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)

	ticker := time.NewTicker(cfg.Game.TickRate)
	defer ticker.Stop()

	printSection("Ready")
	printReady(fmt.Sprintf("Game loop started (tick: %s, seed: %d)", cfg.Game.TickRate, seed))
	fmt.Println()

	for {
		select {
		case <-ticker.C:
			plan.feed(runner.Ticks(), input, log)
			runner.Tick(cfg.Game.TickRate)
			if cfg.Game.MaxTicks > 0 && runner.Ticks() >= uint64(cfg.Game.MaxTicks) {
				log.Info("tick limit reached", zap.Uint64("ticks", runner.Ticks()))
				// Deliver the last tick's events before exiting.
				runner.TickPhase(coresys.PhaseInput, 0)
				return nil
			}
		case sig := <-shutdownCh:
			log.Info("shutdown signal received", zap.String("signal", sig.String()))
			runner.TickPhase(coresys.PhaseInput, 0)
			return nil
		}
	}
}

func subscribeLogging(bus *event.Bus, log *zap.Logger) {
	event.Subscribe(bus, func(e event.ActionCommitted) {
		log.Info("action committed",
			zap.String("action", e.ActionID.String()),
			zap.Int("entities", len(e.Entities)),
			zap.Int("passes", e.Passes),
		)
	})
	event.Subscribe(bus, func(e event.ActionDiscarded) {
		log.Warn("action discarded",
			zap.String("action", e.ActionID.String()),
			zap.Strings("reasons", e.Reasons),
		)
	})
	event.Subscribe(bus, func(e event.EffectExpired) {
		log.Info("effect expired",
			zap.Uint64("entity", uint64(e.EntityID)),
			zap.String("effect", e.Effect),
		)
	})
}

func newLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		zapCfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
		zapCfg.EncoderConfig.ConsoleSeparator = "  "
		zapCfg.DisableCaller = true
		zapCfg.DisableStacktrace = true
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	return zapCfg.Build()
}
