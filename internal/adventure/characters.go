package adventure

import (
	"github.com/vovakirdan/tui-rpg/internal/core"
	"github.com/vovakirdan/tui-rpg/internal/rpg"
)

var adventurerSprite = core.NewSprite(core.ColorCyan,
	" o ",
	"/|\\",
	"/ \\",
)

var blackCatSprite = &core.Sprite{
	Color: core.ColorMagenta,
	Frames: [][]string{{
		"/\\_/\\ ",
		"(o.o) ",
		" > ^ <",
	}},
}

// NewAdventurer creates the hero of the game at full health.
func NewAdventurer() *rpg.Character {
	ch := &rpg.Character{
		Name:      "Adventurer",
		Level:     1,
		Sprite:    adventurerSprite,
		Spells:    []*rpg.Spell{FireMinor, Cure},
		ResetFunc: resetAdventurer,
	}
	ch.Reset()
	ch.HP, ch.MP = ch.MaxHP(), ch.MaxMP()
	return ch
}

func resetAdventurer(ch *rpg.Character) {
	ch.HPMax = 120
	ch.MPMax = 50
	ch.Atk = 50
	ch.Def = 50
	ch.Agt = 50
	ch.Luck = 50
}

// NewBlackCat creates the stock enemy.
func NewBlackCat() *rpg.Character {
	return &rpg.Character{
		Name:     "Black cat",
		Level:    1,
		HP:       126,
		HPMax:    126,
		MP:       38,
		MPMax:    38,
		Atk:      22,
		Def:      19,
		Agt:      11,
		Luck:     14,
		Sprite:   blackCatSprite,
		ExecFunc: blackCatExec,
	}
}

// blackCatExec always goes for the first team member still standing.
func blackCatExec(ch *rpg.Character, bt *rpg.Battle) {
	for _, e := range bt.Team {
		if e.Alive() {
			bt.Attack(ch, e.Ch)
			return
		}
	}
	bt.Attack(ch, nil)
}

// blackCats returns n cats strengthened by the battles already won.
func (a *Adventure) blackCats(n int) []*rpg.Character {
	out := make([]*rpg.Character, 0, n)
	for range n {
		cat := NewBlackCat()
		cat.HPMax = a.Difficulty.Scale(cat.HPMax, a.wins)
		cat.HP = cat.HPMax
		cat.Atk = a.Difficulty.Scale(cat.Atk, a.wins)
		cat.Def = a.Difficulty.Scale(cat.Def, a.wins)
		out = append(out, cat)
	}
	return out
}
