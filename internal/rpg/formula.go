package rpg

import (
	"time"

	"github.com/vovakirdan/tui-rpg/internal/core"
)

// Formula holds the balance constants of one damage formula.
//
// A base value is drawn in [BaseMin, BaseMax]. The attack, rescaled from
// [0, StatMax] to [0, ScaleMax], raises it by base*attack/AttackDivisor;
// the rescaled defense lowers it by base*defense/DefenseDivisor. The result
// never goes below zero.
type Formula struct {
	BaseMin        int
	BaseMax        int
	StatMax        float64
	ScaleMax       float64
	AttackDivisor  float64
	DefenseDivisor float64
}

// Apply computes the damage for a given base, attack and defense.
func (f Formula) Apply(base, attack, defense int) int {
	v := float64(base)
	v += v * core.Scale(float64(attack), 0, f.StatMax, 0, f.ScaleMax) / f.AttackDivisor
	v -= v * core.Scale(float64(defense), 0, f.StatMax, 0, f.ScaleMax) / f.DefenseDivisor
	if v < 0 {
		return 0
	}
	return int(v)
}

// Bounds returns the smallest and largest damage the formula can produce
// for the given attack and defense.
func (f Formula) Bounds(attack, defense int) (lo, hi int) {
	return f.Apply(f.BaseMin, attack, defense), f.Apply(f.BaseMax, attack, defense)
}

// Balance gathers the tunable numbers of a battle.
type Balance struct {
	Spell  Formula
	Attack Formula

	ActionStackSize   int
	EffectStackSize   int
	OpeningDelay      time.Duration
	MessageDelay      time.Duration
	IndicatorLifespan time.Duration
	CloseDelay        time.Duration
	CloseStep         int
}

// DefaultBalance returns the stock balance of the game.
func DefaultBalance() Balance {
	return Balance{
		Spell: Formula{
			BaseMin:        50,
			BaseMax:        70,
			StatMax:        1000,
			ScaleMax:       100,
			AttackDivisor:  100,
			DefenseDivisor: 200,
		},
		Attack: Formula{
			BaseMin:        40,
			BaseMax:        50,
			StatMax:        1000,
			ScaleMax:       100,
			AttackDivisor:  100,
			DefenseDivisor: 200,
		},
		ActionStackSize:   32,
		EffectStackSize:   16,
		OpeningDelay:      time.Second,
		MessageDelay:      2 * time.Second,
		IndicatorLifespan: 900 * time.Millisecond,
		CloseDelay:        8 * time.Millisecond,
		CloseStep:         5,
	}
}
