// Package config provides YAML and TOML configuration loading for the
// engine, the battle balance and the servers.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/vovakirdan/tui-rpg/internal/rpg"
)

// Config contains the whole game configuration.
type Config struct {
	Engine     EngineConfig     `yaml:"engine" toml:"engine"`
	Battle     BattleConfig     `yaml:"battle" toml:"battle"`
	Teleport   TeleportConfig   `yaml:"teleport" toml:"teleport"`
	Difficulty DifficultyConfig `yaml:"difficulty" toml:"difficulty"`
	Logging    LoggingConfig    `yaml:"logging" toml:"logging"`
	Save       SaveConfig       `yaml:"save" toml:"save"`
	Server     ServerConfig     `yaml:"server" toml:"server"`
}

// EngineConfig defines the main loop and the state machine.
type EngineConfig struct {
	FPS           int   `yaml:"fps" toml:"fps"`
	Width         int   `yaml:"width" toml:"width"`
	Height        int   `yaml:"height" toml:"height"`
	Seed          int64 `yaml:"seed" toml:"seed"` // 0 = random
	StateCapacity int   `yaml:"state_capacity" toml:"state_capacity"`
	MapActions    int   `yaml:"map_actions" toml:"map_actions"`
}

// FormulaConfig defines one damage formula.
type FormulaConfig struct {
	BaseMin        int     `yaml:"base_min" toml:"base_min"`
	BaseMax        int     `yaml:"base_max" toml:"base_max"`
	StatMax        float64 `yaml:"stat_max" toml:"stat_max"`
	ScaleMax       float64 `yaml:"scale_max" toml:"scale_max"`
	AttackDivisor  float64 `yaml:"attack_divisor" toml:"attack_divisor"`
	DefenseDivisor float64 `yaml:"defense_divisor" toml:"defense_divisor"`
}

// BattleConfig defines the battle balance and pacing.
type BattleConfig struct {
	Spell             FormulaConfig `yaml:"spell" toml:"spell"`
	Attack            FormulaConfig `yaml:"attack" toml:"attack"`
	ActionStackSize   int           `yaml:"action_stack_size" toml:"action_stack_size"`
	EffectStackSize   int           `yaml:"effect_stack_size" toml:"effect_stack_size"`
	OpeningDelay      time.Duration `yaml:"opening_delay" toml:"opening_delay"`
	MessageDelay      time.Duration `yaml:"message_delay" toml:"message_delay"`
	IndicatorLifespan time.Duration `yaml:"indicator_lifespan" toml:"indicator_lifespan"`
	CloseDelay        time.Duration `yaml:"close_delay" toml:"close_delay"`
	CloseStep         int           `yaml:"close_step" toml:"close_step"`
	Enemies           int           `yaml:"enemies" toml:"enemies"` // quick battle size
}

// TeleportConfig defines the teleport fade.
type TeleportConfig struct {
	Step  int           `yaml:"step" toml:"step"`
	Delay time.Duration `yaml:"delay" toml:"delay"`
}

// LoggingConfig defines where and how much to log.
type LoggingConfig struct {
	Level string `yaml:"level" toml:"level"`
	File  string `yaml:"file" toml:"file"` // used while the TUI owns the terminal
}

// SaveConfig defines the save database.
type SaveConfig struct {
	Path string `yaml:"path" toml:"path"`
}

// ServerConfig defines the SSH server.
type ServerConfig struct {
	Host        string        `yaml:"host" toml:"host"`
	Port        int           `yaml:"port" toml:"port"`
	HostKeyPath string        `yaml:"host_key_path" toml:"host_key_path"`
	IdleTimeout time.Duration `yaml:"idle_timeout" toml:"idle_timeout"`
}

var logLevels = []string{"debug", "info", "warn", "error", "fatal"}

// Validate rejects configurations the engine cannot run with.
func (c *Config) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf(format, args...))
		}
	}

	check(c.Engine.FPS > 0, "engine.fps must be positive, got %d", c.Engine.FPS)
	check(c.Engine.Width > 0 && c.Engine.Height > 0, "engine size must be positive, got %dx%d", c.Engine.Width, c.Engine.Height)
	check(c.Engine.StateCapacity > 0, "engine.state_capacity must be positive")
	check(c.Engine.MapActions > 0, "engine.map_actions must be positive")

	for name, f := range map[string]FormulaConfig{"spell": c.Battle.Spell, "attack": c.Battle.Attack} {
		check(f.BaseMin <= f.BaseMax, "battle.%s: base_min %d > base_max %d", name, f.BaseMin, f.BaseMax)
		check(f.StatMax > 0, "battle.%s.stat_max must be positive", name)
		check(f.AttackDivisor != 0 && f.DefenseDivisor != 0, "battle.%s divisors must not be zero", name)
	}
	check(c.Battle.ActionStackSize > 0, "battle.action_stack_size must be positive")
	check(c.Battle.EffectStackSize > 0, "battle.effect_stack_size must be positive")
	check(c.Battle.Enemies > 0, "battle.enemies must be positive")

	check(c.Teleport.Step > 0, "teleport.step must be positive")
	check(c.Teleport.Delay > 0, "teleport.delay must be positive")

	check(c.Difficulty.InitialLevel >= 0 && c.Difficulty.InitialLevel <= 1,
		"difficulty.initial_level must be within [0, 1], got %g", c.Difficulty.InitialLevel)

	if c.Logging.Level != "" {
		check(contains(logLevels, strings.ToLower(c.Logging.Level)), "logging.level %q is unknown", c.Logging.Level)
	}
	check(c.Server.Port > 0 && c.Server.Port < 65536, "server.port %d out of range", c.Server.Port)

	if len(errs) > 0 {
		return fmt.Errorf("config: %w", errors.Join(errs...))
	}
	return nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func (f FormulaConfig) formula() rpg.Formula {
	return rpg.Formula{
		BaseMin:        f.BaseMin,
		BaseMax:        f.BaseMax,
		StatMax:        f.StatMax,
		ScaleMax:       f.ScaleMax,
		AttackDivisor:  f.AttackDivisor,
		DefenseDivisor: f.DefenseDivisor,
	}
}

// Balance returns the battle balance described by the configuration.
func (c *Config) Balance() rpg.Balance {
	b := c.Battle
	return rpg.Balance{
		Spell:             b.Spell.formula(),
		Attack:            b.Attack.formula(),
		ActionStackSize:   b.ActionStackSize,
		EffectStackSize:   b.EffectStackSize,
		OpeningDelay:      b.OpeningDelay,
		MessageDelay:      b.MessageDelay,
		IndicatorLifespan: b.IndicatorLifespan,
		CloseDelay:        b.CloseDelay,
		CloseStep:         b.CloseStep,
	}
}

// TickRate returns the duration of one frame.
func (c *Config) TickRate() time.Duration {
	if c.Engine.FPS <= 0 {
		return time.Second / 60
	}
	return time.Second / time.Duration(c.Engine.FPS)
}
