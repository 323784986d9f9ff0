package config

import "math"

// DifficultyConfig defines how enemies grow stronger as the player wins.
type DifficultyConfig struct {
	InitialLevel   float64 `yaml:"initial_level" toml:"initial_level"`     // 0.0 = easy, 1.0 = hard
	MaxAt          int     `yaml:"max_at" toml:"max_at"`                   // battles won at which max difficulty is reached
	StatMultiplier float64 `yaml:"stat_multiplier" toml:"stat_multiplier"` // multiplier added to enemy stats at max difficulty
}

// DifficultyManager computes the enemy strength from the number of battles
// already won.
type DifficultyManager struct {
	cfg          DifficultyConfig
	initialLevel float64
}

// NewDifficultyManager creates a new difficulty manager.
func NewDifficultyManager(cfg DifficultyConfig) *DifficultyManager {
	return &DifficultyManager{
		cfg:          cfg,
		initialLevel: clampF(cfg.InitialLevel, 0.0, 1.0),
	}
}

// SetInitialLevel overrides the initial difficulty level (0.0 to 1.0).
func (d *DifficultyManager) SetInitialLevel(level float64) {
	d.initialLevel = clampF(level, 0.0, 1.0)
}

// Level returns the current difficulty level (0.0 to 1.0).
func (d *DifficultyManager) Level(wins int) float64 {
	if d.cfg.MaxAt <= 0 {
		return d.initialLevel
	}
	progress := clampF(float64(wins)/float64(d.cfg.MaxAt), 0.0, 1.0)
	return d.initialLevel + progress*(1.0-d.initialLevel)
}

// Scale returns base raised by the current difficulty.
func (d *DifficultyManager) Scale(base int, wins int) int {
	level := d.Level(wins)
	return int(math.Round(float64(base) * (1.0 + level*d.cfg.StatMultiplier)))
}

// DifficultyPreset represents a named difficulty level.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
)

// InitialLevelForPreset returns the initial_level for a difficulty preset.
func InitialLevelForPreset(preset DifficultyPreset) float64 {
	switch preset {
	case DifficultyNormal:
		return 0.3
	case DifficultyHard:
		return 0.7
	default:
		return 0.0
	}
}

// ApplyPreset modifies the config based on a difficulty preset.
func ApplyPreset(cfg *Config, preset DifficultyPreset) {
	cfg.Difficulty.InitialLevel = InitialLevelForPreset(preset)
	if preset == DifficultyHard {
		cfg.Battle.Enemies++
	}
}

// clampF restricts a float64 to [min, max].
func clampF(val, min, max float64) float64 {
	return math.Max(min, math.Min(max, val))
}
