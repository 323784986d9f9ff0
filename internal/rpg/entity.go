package rpg

import (
	"time"

	"github.com/vovakirdan/tui-rpg/internal/core"
)

// Entity places a character on the battle field. The battle references the
// character, it does not own it.
type Entity struct {
	Ch   *Character
	X, Y int

	offset  int
	removed bool
}

// Alive reports whether the entity can act and be targeted.
func (e *Entity) Alive() bool {
	return !e.removed && e.Ch.Alive()
}

// Size returns the drawn size of the entity.
func (e *Entity) Size() (w, h int) {
	w, h = e.Ch.Sprite.Size()
	if w == 0 {
		w, h = 1, 1
	}
	return w, h
}

// Center returns the center of the entity's sprite.
func (e *Entity) Center() (x, y int) {
	w, h := e.Size()
	return e.X + e.offset + w/2, e.Y + h/2
}

// Draw paints the entity, grayed out once knocked out.
func (e *Entity) Draw(scr *core.Screen) {
	if e.removed {
		return
	}
	x := e.X + e.offset
	sprite := e.Ch.Sprite
	if sprite == nil {
		sprite = core.NewSprite(core.ColorDefault, "?")
	}
	if !e.Ch.Alive() {
		gray := *sprite
		gray.Color = core.ColorGray
		sprite = &gray
	}
	sprite.Draw(scr, 0, x, e.Y)

	_, h := e.Size()
	scr.DrawTextColor(x, e.Y+h, e.Ch.Name, core.ColorWhite)
}

// fadeout blinks the sprite of a removed enemy before it disappears.
type fadeout struct {
	sprite  *core.Sprite
	x, y    int
	elapsed time.Duration
}

const (
	fadeoutLifespan = 600 * time.Millisecond
	fadeoutBlink    = 100 * time.Millisecond
)

func (f *fadeout) Update(dt time.Duration) bool {
	f.elapsed += dt
	return f.elapsed >= fadeoutLifespan
}

func (f *fadeout) Draw(scr *core.Screen) {
	if (f.elapsed/fadeoutBlink)%2 == 0 {
		f.sprite.Draw(scr, 0, f.x, f.y)
	}
}

// attack moves the attacker toward its target and back. Damage is applied
// in End so the numbers only change once the animation is over.
type attack struct {
	bt       *Battle
	src, tgt *Entity
	dir      int
	elapsed  time.Duration
	step     int
}

const (
	attackReach = 4
	attackStep  = 30 * time.Millisecond
)

func (a *attack) Update(dt time.Duration) bool {
	a.elapsed += dt
	for a.elapsed >= attackStep {
		a.elapsed -= attackStep
		a.step++
	}
	if a.step <= attackReach {
		a.src.offset = a.dir * a.step
	} else {
		a.src.offset = a.dir * core.Max(2*attackReach-a.step, 0)
	}
	return a.step >= 2*attackReach
}

func (a *attack) End() {
	a.src.offset = 0
	a.bt.Damage(a.src.Ch, a.tgt.Ch, a.bt.Balance.Attack)
}

func (a *attack) Finish() {
	a.src.offset = 0
}
