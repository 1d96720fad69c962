package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

type Config struct {
	Game    GameConfig    `toml:"game"`
	Rules   RulesConfig   `toml:"rules"`
	Content ContentConfig `toml:"content"`
	Debug   DebugConfig   `toml:"debug"`
	Logging LoggingConfig `toml:"logging"`
}

type GameConfig struct {
	Name        string        `toml:"name"`
	TickRate    time.Duration `toml:"tick_rate"`
	MaxTicks    int           `toml:"max_ticks"` // 0 = run until signalled
	Seed        int64         `toml:"seed"`      // 0 = seed from wall clock
	ArenaWidth  float32       `toml:"arena_width"`
	ArenaHeight float32       `toml:"arena_height"`
	InputBudget int           `toml:"input_budget"` // proposals accepted per tick
	RealTime    bool          `toml:"real_time"`    // advance world time by wall clock
}

type RulesConfig struct {
	ScriptsDir string `toml:"scripts_dir"`
	MaxPasses  int    `toml:"max_passes"`
}

type ContentConfig struct {
	Path string `toml:"path"`
}

type DebugConfig struct {
	Enabled  bool   `toml:"enabled"`
	Every    int    `toml:"every"`    // print every N ticks
	Language string `toml:"language"` // BCP 47 tag for number formatting
}

type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // "json" or "console"
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	cfg := defaults()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Game.TickRate <= 0 {
		return fmt.Errorf("game.tick_rate must be positive, got %s", c.Game.TickRate)
	}
	if c.Game.InputBudget < 1 {
		return fmt.Errorf("game.input_budget must be at least 1, got %d", c.Game.InputBudget)
	}
	if c.Rules.MaxPasses < 1 {
		return fmt.Errorf("rules.max_passes must be at least 1, got %d", c.Rules.MaxPasses)
	}
	if c.Game.ArenaWidth <= 0 || c.Game.ArenaHeight <= 0 {
		return fmt.Errorf("arena must have positive size, got %gx%g", c.Game.ArenaWidth, c.Game.ArenaHeight)
	}
	return nil
}

func defaults() *Config {
	return &Config{
		Game: GameConfig{
			Name:        "Tabletop",
			TickRate:    time.Second,
			ArenaWidth:  100,
			ArenaHeight: 100,
			InputBudget: 32,
		},
		Rules: RulesConfig{
			ScriptsDir: "scripts",
			MaxPasses:  3,
		},
		Content: ContentConfig{
			Path: "content/actors.yaml",
		},
		Debug: DebugConfig{
			Enabled:  true,
			Every:    1,
			Language: "en",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}
