package rpg

import (
	"strings"
	"time"

	"github.com/vovakirdan/tui-rpg/internal/action"
	"github.com/vovakirdan/tui-rpg/internal/core"
)

// DefaultSolid lists the tiles the player cannot walk through.
const DefaultSolid = "#^T="

// Trigger is implemented by map actions that react to the player walking.
type Trigger interface {
	// Moved is called after every step, with the new player position.
	Moved(m *Map, x, y int)
}

// Exit is a Trigger that leaves the map. Exits are notified before the
// other triggers, which are skipped once an exit froze the map.
type Exit interface {
	Trigger
	IsExit()
}

// Map is a walkable tile grid. Objects placed on the map are actions living
// in the map's own stack.
type Map struct {
	Name    string
	Title   string
	Tiles   []string
	Solid   string
	Actions *action.Stack

	PlayerX, PlayerY int

	// Frozen blocks the player movements, e.g. during a teleport.
	Frozen bool

	steps int
}

// NewMap creates a map whose action stack holds up to capacity objects.
func NewMap(name, title string, tiles []string, capacity int) *Map {
	return &Map{
		Name:    name,
		Title:   title,
		Tiles:   tiles,
		Solid:   DefaultSolid,
		Actions: action.NewStack(capacity),
	}
}

// Size returns the map dimensions in tiles.
func (m *Map) Size() (w, h int) {
	for _, row := range m.Tiles {
		w = core.Max(w, len([]rune(row)))
	}
	return w, len(m.Tiles)
}

// Tile returns the tile at (x, y), or a space outside the map.
func (m *Map) Tile(x, y int) rune {
	if y < 0 || y >= len(m.Tiles) || x < 0 {
		return ' '
	}
	row := []rune(m.Tiles[y])
	if x >= len(row) {
		return ' '
	}
	return row[x]
}

// Walkable reports whether the player may stand on (x, y).
func (m *Map) Walkable(x, y int) bool {
	w, h := m.Size()
	if x < 0 || y < 0 || x >= w || y >= h {
		return false
	}
	t := m.Tile(x, y)
	return t != ' ' && !strings.ContainsRune(m.Solid, t)
}

// Steps returns the number of steps walked on this map.
func (m *Map) Steps() int { return m.steps }

// Place moves the player without counting a step.
func (m *Map) Place(x, y int) {
	m.PlayerX, m.PlayerY = x, y
}

// Add places an object on the map.
func (m *Map) Add(a action.Action) error {
	return m.Actions.Add(a)
}

// Move walks the player by (dx, dy) and notifies the triggers. It reports
// whether the player actually moved.
func (m *Map) Move(dx, dy int) bool {
	if m.Frozen {
		return false
	}
	x, y := m.PlayerX+dx, m.PlayerY+dy
	if !m.Walkable(x, y) {
		return false
	}
	m.PlayerX, m.PlayerY = x, y
	m.steps += core.Abs(dx) + core.Abs(dy)

	actions := m.Actions.Actions()
	for _, exits := range []bool{true, false} {
		for _, a := range actions {
			t, ok := a.(Trigger)
			if !ok {
				continue
			}
			if _, exit := a.(Exit); exit != exits {
				continue
			}
			t.Moved(m, x, y)
			if m.Frozen {
				return true
			}
		}
	}
	return true
}

// Handle moves the player on arrow keys and forwards the event to the
// objects of the map.
func (m *Map) Handle(ev core.Event) {
	if ev.Type == core.EventKeyDown {
		switch ev.Key {
		case core.KeyUp:
			m.Move(0, -1)
		case core.KeyDown:
			m.Move(0, 1)
		case core.KeyLeft:
			m.Move(-1, 0)
		case core.KeyRight:
			m.Move(1, 0)
		}
	}
	m.Actions.Handle(ev)
}

// Update advances the objects of the map.
func (m *Map) Update(dt time.Duration) {
	m.Actions.Update(dt)
}

// Origin returns the map coordinate shown in the top-left cell of scr, so
// the player stays in the middle of the view.
func (m *Map) Origin(scr *core.Screen) (x, y int) {
	w, h := m.Size()
	vw, vh := scr.Width(), scr.Height()-1
	x = core.Clamp(m.PlayerX-vw/2, 0, core.Max(w-vw, 0))
	y = core.Clamp(m.PlayerY-vh/2, 0, core.Max(h-vh, 0))
	return x, y
}

// ToScreen converts a map coordinate into a cell of scr.
func (m *Map) ToScreen(scr *core.Screen, x, y int) (sx, sy int) {
	ox, oy := m.Origin(scr)
	return x - ox, y - oy + 1
}

// Draw paints the visible part of the map, the player and the objects.
func (m *Map) Draw(scr *core.Screen) {
	ox, oy := m.Origin(scr)
	for sy := 1; sy < scr.Height(); sy++ {
		for sx := 0; sx < scr.Width(); sx++ {
			t := m.Tile(ox+sx, oy+sy-1)
			if t == ' ' {
				continue
			}
			scr.SetCell(sx, sy, t, tileColor(t))
		}
	}
	px, py := m.ToScreen(scr, m.PlayerX, m.PlayerY)
	scr.SetCell(px, py, '@', core.ColorHighlight)
	scr.DrawTextCentered(0, m.Title, core.ColorWhite)

	m.Actions.Draw(scr)
}

// Finish releases the objects of the map.
func (m *Map) Finish() {
	m.Actions.Finish()
}

func tileColor(t rune) core.Color {
	switch t {
	case '#', '^':
		return core.ColorGray
	case '~':
		return core.ColorBlue
	case '"', 'T':
		return core.ColorGreen
	case '+', '*':
		return core.ColorMagenta
	default:
		return core.ColorDefault
	}
}
