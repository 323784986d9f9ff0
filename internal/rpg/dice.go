package rpg

import (
	"fmt"
	"math/rand/v2"

	"github.com/KirkDiggler/rpg-toolkit/dice"
)

// Dice draws the random numbers of the game from a toolkit roller.
type Dice struct {
	roller dice.Roller
}

// NewDice wraps r. A nil roller uses the toolkit default.
func NewDice(r dice.Roller) *Dice {
	if r == nil {
		r = dice.DefaultRoller
	}
	return &Dice{roller: r}
}

// Range returns a number in [lo, hi], both inclusive. Roller failures
// fall back to lo.
func (d *Dice) Range(lo, hi int) int {
	if hi <= lo {
		return lo
	}
	n, err := d.roller.Roll(hi - lo + 1)
	if err != nil {
		return lo
	}
	return lo + n - 1
}

// Pick returns an index in [0, n).
func (d *Dice) Pick(n int) int {
	if n <= 1 {
		return 0
	}
	return d.Range(0, n-1)
}

// seededRoller is a deterministic dice.Roller used when a seed is given.
type seededRoller struct {
	rng *rand.Rand
}

// SeededRoller returns a reproducible roller for the given seed.
func SeededRoller(seed int64) dice.Roller {
	return &seededRoller{rng: rand.New(rand.NewPCG(uint64(seed), 0x6d6f6c6b6f))}
}

func (r *seededRoller) Roll(size int) (int, error) {
	if size <= 0 {
		return 0, fmt.Errorf("rpg: invalid die size %d", size)
	}
	return r.rng.IntN(size) + 1, nil
}

func (r *seededRoller) RollN(count, size int) ([]int, error) {
	if count < 0 {
		return nil, fmt.Errorf("rpg: invalid die count %d", count)
	}
	out := make([]int, count)
	for i := range out {
		n, err := r.Roll(size)
		if err != nil {
			return nil, err
		}
		out[i] = n
	}
	return out, nil
}
