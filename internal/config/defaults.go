package config

import (
	_ "embed"
	"time"

	"gopkg.in/yaml.v3"
)

//go:embed defaults/rpg.yaml
var defaultYAML []byte

// DefaultYAML returns the embedded default configuration.
func DefaultYAML() []byte {
	return defaultYAML
}

// Default returns the embedded default configuration.
func Default() Config {
	var cfg Config
	if err := yaml.Unmarshal(defaultYAML, &cfg); err != nil {
		return fallback() // Fallback to hardcoded if embed fails
	}
	return cfg
}

func fallback() Config {
	formula := func(lo, hi int) FormulaConfig {
		return FormulaConfig{
			BaseMin:        lo,
			BaseMax:        hi,
			StatMax:        1000,
			ScaleMax:       100,
			AttackDivisor:  100,
			DefenseDivisor: 200,
		}
	}
	return Config{
		Engine: EngineConfig{
			FPS:           60,
			Width:         80,
			Height:        24,
			StateCapacity: 8,
			MapActions:    32,
		},
		Battle: BattleConfig{
			Spell:             formula(50, 70),
			Attack:            formula(40, 50),
			ActionStackSize:   32,
			EffectStackSize:   16,
			OpeningDelay:      time.Second,
			MessageDelay:      2 * time.Second,
			IndicatorLifespan: 900 * time.Millisecond,
			CloseDelay:        8 * time.Millisecond,
			CloseStep:         5,
			Enemies:           2,
		},
		Teleport: TeleportConfig{
			Step:  5,
			Delay: 10 * time.Millisecond,
		},
		Difficulty: DifficultyConfig{
			MaxAt:          20,
			StatMultiplier: 0.5,
		},
		Logging: LoggingConfig{
			Level: "info",
			File:  "~/.tui-rpg/rpg.log",
		},
		Save: SaveConfig{
			Path: "~/.tui-rpg/save.db",
		},
		Server: ServerConfig{
			Host:        "0.0.0.0",
			Port:        2323,
			HostKeyPath: "~/.tui-rpg/host_key",
			IdleTimeout: 10 * time.Minute,
		},
	}
}
