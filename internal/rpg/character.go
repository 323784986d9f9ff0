// Package rpg contains the role-playing layer of the engine: characters,
// spells, items, the inventory, maps and the turn-based battle engine.
package rpg

import (
	"strings"

	tkcore "github.com/KirkDiggler/rpg-toolkit/core"

	"github.com/vovakirdan/tui-rpg/internal/core"
)

// EntityType is reported by characters through the toolkit Entity interface.
const EntityType = "character"

var _ tkcore.Entity = (*Character)(nil)

// Character is a fighter, either a team member or an enemy.
//
// Bonus fields come from equipment and are added to the base stats when
// they are used in a computation. The stored hp and mp always stay within
// [0, max].
type Character struct {
	Name      string
	Level     int
	TeamOrder int

	HP, HPMax int
	MP, MPMax int
	Atk, Def  int
	Agt, Luck int

	HPBonus, MPBonus    int
	AtkBonus, DefBonus  int
	AgtBonus, LuckBonus int

	Sprite *core.Sprite
	Spells []*Spell

	// ResetFunc recomputes the level-dependent stats.
	ResetFunc func(ch *Character)

	// ExecFunc plays the turn of a non-player character.
	ExecFunc func(ch *Character, bt *Battle)
}

// GetID returns a stable identifier derived from the name.
func (ch *Character) GetID() string {
	return strings.ToLower(strings.ReplaceAll(ch.Name, " ", "-"))
}

// GetType returns the entity type.
func (ch *Character) GetType() string { return EntityType }

// Reset recomputes the stats through ResetFunc, if any.
func (ch *Character) Reset() {
	if ch.ResetFunc != nil {
		ch.ResetFunc(ch)
	}
	ch.HP = core.Clamp(ch.HP, 0, ch.MaxHP())
	ch.MP = core.Clamp(ch.MP, 0, ch.MaxMP())
}

// Exec plays the character's turn. Characters without ExecFunc attack a
// random member of the other side.
func (ch *Character) Exec(bt *Battle) {
	if ch.ExecFunc != nil {
		ch.ExecFunc(ch, bt)
		return
	}
	bt.Attack(ch, nil)
}

// Alive reports whether the character can still act.
func (ch *Character) Alive() bool { return ch.HP > 0 }

// MaxHP returns the hp ceiling including the bonus.
func (ch *Character) MaxHP() int { return ch.HPMax + ch.HPBonus }

// MaxMP returns the mp ceiling including the bonus.
func (ch *Character) MaxMP() int { return ch.MPMax + ch.MPBonus }

// Attack returns the effective attack.
func (ch *Character) Attack() int { return ch.Atk + ch.AtkBonus }

// Defense returns the effective defense.
func (ch *Character) Defense() int { return ch.Def + ch.DefBonus }

// Agility returns the effective agility.
func (ch *Character) Agility() int { return ch.Agt + ch.AgtBonus }

// Damage removes up to n hp and returns the amount actually removed.
func (ch *Character) Damage(n int) int {
	if n <= 0 {
		return 0
	}
	before := ch.HP
	ch.HP = core.Max(ch.HP-n, 0)
	return before - ch.HP
}

// Heal restores up to n hp without exceeding the maximum and returns the
// amount actually restored.
func (ch *Character) Heal(n int) int {
	if n <= 0 {
		return 0
	}
	before := ch.HP
	ch.HP = core.Min(ch.HP+n, ch.MaxHP())
	return ch.HP - before
}

// Restore gives back up to n mp and returns the amount restored.
func (ch *Character) Restore(n int) int {
	if n <= 0 {
		return 0
	}
	before := ch.MP
	ch.MP = core.Min(ch.MP+n, ch.MaxMP())
	return ch.MP - before
}

// Spend consumes mp. It fails, leaving mp untouched, when not enough is left.
func (ch *Character) Spend(mp int) bool {
	if mp > ch.MP {
		return false
	}
	ch.MP -= mp
	return true
}
