package rpg

import (
	"fmt"
	"time"

	"github.com/vovakirdan/tui-rpg/internal/core"
)

// Bar is the player interface of a battle: it lets the current team member
// choose what to do and shows the state of the team.
type Bar interface {
	Start(bt *Battle)
	Handle(bt *Battle, ev core.Event)
	Update(bt *Battle, dt time.Duration)
	Draw(bt *Battle, scr *core.Screen)
	Finish(bt *Battle)
}

type barMenu int

const (
	barMain barMenu = iota
	barMagic
	barObjects
)

var barEntries = []string{"Attack", "Magic", "Objects"}

// DefaultBar is the stock battle bar: a main menu with attack, magic and
// objects, and a sub menu listing spells or items.
type DefaultBar struct {
	menu barMenu
	main int
	sub  int
}

// NewDefaultBar creates the stock battle bar.
func NewDefaultBar() *DefaultBar {
	return &DefaultBar{}
}

func (b *DefaultBar) Start(*Battle) {
	b.menu = barMain
	b.sub = 0
}

func (b *DefaultBar) Handle(bt *Battle, ev core.Event) {
	if ev.Type != core.EventKeyDown {
		return
	}
	cur := bt.Current()
	if cur == nil {
		return
	}

	switch ev.Key {
	case core.KeyUp:
		b.move(bt, cur, -1)
	case core.KeyDown:
		b.move(bt, cur, 1)
	case core.KeyEscape:
		b.menu = barMain
	case core.KeyEnter:
		b.choose(bt, cur)
	}
}

func (b *DefaultBar) entries(bt *Battle, cur *Character) int {
	switch b.menu {
	case barMagic:
		return len(cur.Spells)
	case barObjects:
		return len(b.items(bt))
	default:
		return len(barEntries)
	}
}

func (b *DefaultBar) move(bt *Battle, cur *Character, dir int) {
	n := b.entries(bt, cur)
	if n == 0 {
		return
	}
	if b.menu == barMain {
		b.main = (b.main + dir + n) % n
	} else {
		b.sub = (b.sub + dir + n) % n
	}
}

func (b *DefaultBar) items(bt *Battle) []*Item {
	var out []*Item
	for _, it := range bt.Inventory.Items() {
		if it.UsableInBattle() {
			out = append(out, it)
		}
	}
	return out
}

func (b *DefaultBar) choose(bt *Battle, cur *Character) {
	switch b.menu {
	case barMain:
		b.chooseMain(bt, cur)
	case barMagic:
		if b.sub >= len(cur.Spells) {
			return
		}
		sp := cur.Spells[b.sub]
		if !sp.Castable(cur) {
			return
		}
		var slt Selection
		sp.Select(bt, &slt)
		bt.Select(slt, func(s Selection) {
			if err := bt.Cast(cur, sp, s); err != nil {
				bt.Menu()
			}
		})
	case barObjects:
		items := b.items(bt)
		if b.sub >= len(items) {
			return
		}
		it := items[b.sub]
		slt := Selection{Kind: SelectOne, Sides: SideMaskTeam}
		slt.First(bt)
		bt.Select(slt, func(s Selection) {
			targets := s.Targets(bt)
			if len(targets) == 0 || bt.UseItem(cur, it, targets[0].Ch) != nil {
				bt.Menu()
			}
		})
	}
}

func (b *DefaultBar) chooseMain(bt *Battle, cur *Character) {
	switch b.main {
	case 0:
		slt := Selection{Kind: SelectOne, Sides: SideMaskEnemies}
		slt.First(bt)
		bt.Select(slt, func(s Selection) {
			if targets := s.Targets(bt); len(targets) > 0 {
				bt.Attack(cur, targets[0].Ch)
			}
		})
	case 1:
		if len(cur.Spells) > 0 {
			b.menu, b.sub = barMagic, 0
		}
	case 2:
		if len(b.items(bt)) > 0 {
			b.menu, b.sub = barObjects, 0
		}
	}
}

func (b *DefaultBar) Update(*Battle, time.Duration) {}

func (b *DefaultBar) Draw(bt *Battle, scr *core.Screen) {
	w, h := bt.Size()
	panel := core.NewRect(0, h-barHeight, w, barHeight)
	scr.DrawFrame(panel, core.ColorFrame)

	b.drawMenu(bt, scr, panel)
	b.drawTeam(bt, scr, panel)
}

func (b *DefaultBar) drawMenu(bt *Battle, scr *core.Screen, panel core.Rect) {
	cur := bt.Current()
	if cur == nil || !bt.isTeam(cur) {
		return
	}

	x, y := panel.X+2, panel.Y+1
	var labels []string
	var disabled []bool
	selected := b.main

	switch b.menu {
	case barMagic:
		for _, sp := range cur.Spells {
			labels = append(labels, fmt.Sprintf("%-12s %3d MP", sp.Name, sp.MP))
			disabled = append(disabled, !sp.Castable(cur))
		}
		selected = b.sub
	case barObjects:
		for _, it := range b.items(bt) {
			labels = append(labels, fmt.Sprintf("%-12s x%d", it.Name, bt.Inventory.Count(it)))
			disabled = append(disabled, false)
		}
		selected = b.sub
	default:
		labels = barEntries
		disabled = make([]bool, len(labels))
	}

	for i, label := range labels {
		if i >= panel.H-2 {
			break
		}
		c := core.ColorDefault
		switch {
		case disabled[i]:
			c = core.ColorGray
		case i == selected:
			c = core.ColorHighlight
		}
		cursor := "  "
		if i == selected {
			cursor = "▸ "
		}
		scr.DrawTextColor(x, y+i, cursor+label, c)
	}
}

func (b *DefaultBar) drawTeam(bt *Battle, scr *core.Screen, panel core.Rect) {
	x := panel.X + panel.W/2
	for i, e := range bt.Team {
		if i >= panel.H-2 {
			break
		}
		ch := e.Ch
		c := core.ColorDefault
		switch {
		case !ch.Alive():
			c = core.ColorGray
		case ch == bt.Current():
			c = core.ColorHighlight
		}
		line := fmt.Sprintf("%-10s HP %4d/%-4d MP %3d/%-3d", ch.Name, ch.HP, ch.MaxHP(), ch.MP, ch.MaxMP())
		scr.DrawTextColor(x, panel.Y+1+i, line, c)
	}
}

func (b *DefaultBar) Finish(*Battle) {}

func (bt *Battle) isTeam(ch *Character) bool {
	_, side := bt.EntityOf(ch)
	return side == SideTeam
}
