package adventure

import (
	"time"

	"github.com/vovakirdan/tui-rpg/internal/core"
	"github.com/vovakirdan/tui-rpg/internal/rpg"
)

// cureAmount is the hp restored by Cure.
const cureAmount = 50

// effectDelay is the time each frame of a spell effect stays on screen.
const effectDelay = 60 * time.Millisecond

var explosionSprite = &core.Sprite{
	Color: core.ColorOrange,
	Frames: [][]string{
		{"   ", " * ", "   "},
		{" * ", "*@*", " * "},
		{"\\*/", "*@*", "/*\\"},
		{". .", " * ", ". ."},
		{".  ", "   ", "  ."},
	},
}

var sparkleSprite = &core.Sprite{
	Color: core.ColorGreen,
	Frames: [][]string{
		{" + "},
		{"+ +"},
		{"+++"},
		{" + "},
	},
}

// FireMinor throws a small fire ball at one enemy.
var FireMinor = &rpg.Spell{
	Name:        "Fire Minor",
	Description: "A small amount of fire balls",
	MP:          10,
	Type:        rpg.SpellFire,
	Kind:        rpg.SelectOne,
	Sides:       rpg.SideMaskEnemies,
	ActionFunc:  fireMinorAction,
}

// Cure restores the hp of one team member, in battle and from the menu.
var Cure = &rpg.Spell{
	Name:        "Cure",
	Description: "Heal a team member",
	MP:          5,
	Type:        rpg.SpellHoly,
	Kind:        rpg.SelectOne,
	Sides:       rpg.SideMaskTeam,
	ActionFunc:  cureAction,
	UseFunc:     cureUse,
}

func fireMinorAction(bt *rpg.Battle, owner *rpg.Character, slt *rpg.Selection) {
	for _, te := range slt.Targets(bt) {
		tgt := te.Ch
		queueEffect(bt, owner, te, explosionSprite, func() {
			bt.Damage(owner, tgt, bt.Balance.Spell)
		})
	}
}

func cureAction(bt *rpg.Battle, owner *rpg.Character, slt *rpg.Selection) {
	for _, te := range slt.Targets(bt) {
		tgt := te.Ch
		queueEffect(bt, owner, te, sparkleSprite, func() {
			bt.Heal(owner, tgt, cureAmount)
		})
	}
}

// cureUse heals the caster outside of battle.
func cureUse(owner *rpg.Character, _ *rpg.Selection) {
	owner.Heal(cureAmount)
}

// effect plays an animation over an entity and applies its result once
// the animation is over.
type effect struct {
	anim  *core.Animation
	x, y  int
	apply func()
}

func queueEffect(bt *rpg.Battle, owner *rpg.Character, te *rpg.Entity, s *core.Sprite, apply func()) {
	x, y := te.Center()
	bt.Queue(owner, &effect{
		anim:  core.NewAnimation(s, effectDelay),
		x:     x,
		y:     y,
		apply: apply,
	})
}

func (e *effect) Update(dt time.Duration) bool {
	return e.anim.Update(dt)
}

func (e *effect) Draw(scr *core.Screen) {
	e.anim.Draw(scr, e.x, e.y)
}

func (e *effect) End() {
	e.apply()
}
