package rpg

import (
	"strconv"
	"time"

	"github.com/vovakirdan/tui-rpg/internal/core"
)

// indicatorRise is how many rows an indicator floats up over its lifespan.
const indicatorRise = 2

// Indicator is the floating "+N" or "-N" shown above a character whose hp
// or mp changed. It is an ordinary action with a fixed lifespan.
type Indicator struct {
	Delta int
	Color core.Color

	target   *Entity
	lifespan time.Duration
	elapsed  time.Duration
}

// NewIndicator creates an indicator anchored on target.
func NewIndicator(target *Entity, delta int, c core.Color, lifespan time.Duration) *Indicator {
	return &Indicator{Delta: delta, Color: c, target: target, lifespan: lifespan}
}

// Text returns the displayed value.
func (ind *Indicator) Text() string {
	if ind.Delta > 0 {
		return "+" + strconv.Itoa(ind.Delta)
	}
	return strconv.Itoa(ind.Delta)
}

func (ind *Indicator) Update(dt time.Duration) bool {
	ind.elapsed += dt
	return ind.elapsed >= ind.lifespan
}

func (ind *Indicator) Draw(scr *core.Screen) {
	x, _ := ind.target.Center()
	rise := 0
	if ind.lifespan > 0 {
		rise = int(ind.elapsed * indicatorRise / ind.lifespan)
	}
	text := ind.Text()
	scr.DrawTextColor(x-len(text)/2, ind.target.Y-1-rise, text, ind.Color)
}
