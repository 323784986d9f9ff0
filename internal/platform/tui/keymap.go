package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-rpg/internal/core"
)

// KeyMap binds terminal keys to the semantic keys of the engine.
type KeyMap struct {
	Up    key.Binding
	Down  key.Binding
	Left  key.Binding
	Right key.Binding
	Enter key.Binding
	Back  key.Binding
	Tab   key.Binding
	Save  key.Binding
	Quit  key.Binding
	Abort key.Binding
	Help  key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Enter, k.Back, k.Quit, k.Help}
}

// FullHelp returns key bindings for the full help view.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Left, k.Right},
		{k.Enter, k.Back, k.Tab},
		{k.Save, k.Quit, k.Abort, k.Help},
	}
}

// DefaultKeyMap returns default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "w", "k"),
			key.WithHelp("up/w", "move up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("down", "move down"),
		),
		Left: key.NewBinding(
			key.WithKeys("left", "a", "h"),
			key.WithHelp("left/a", "move left"),
		),
		Right: key.NewBinding(
			key.WithKeys("right", "d", "l"),
			key.WithHelp("right/d", "move right"),
		),
		Enter: key.NewBinding(
			key.WithKeys("enter", " "),
			key.WithHelp("enter", "confirm"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc", "b"),
			key.WithHelp("esc/b", "menu/back"),
		),
		Tab: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next"),
		),
		Save: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "save"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q"),
			key.WithHelp("q", "title/quit"),
		),
		Abort: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "exit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
	}
}

// Event translates a key message to an engine event. ok is false for keys
// without a binding.
func (k KeyMap) Event(msg tea.KeyMsg) (ev core.Event, ok bool) {
	switch {
	case key.Matches(msg, k.Abort):
		return core.Event{Type: core.EventQuit}, true
	case key.Matches(msg, k.Up):
		return core.Press(core.KeyUp), true
	case key.Matches(msg, k.Down):
		return core.Press(core.KeyDown), true
	case key.Matches(msg, k.Left):
		return core.Press(core.KeyLeft), true
	case key.Matches(msg, k.Right):
		return core.Press(core.KeyRight), true
	case key.Matches(msg, k.Enter):
		return core.Press(core.KeyEnter), true
	case key.Matches(msg, k.Back):
		return core.Press(core.KeyEscape), true
	case key.Matches(msg, k.Tab):
		return core.Press(core.KeyTab), true
	case key.Matches(msg, k.Save):
		return core.Press(core.KeySave), true
	case key.Matches(msg, k.Quit):
		return core.Press(core.KeyQuit), true
	}
	return core.Event{}, false
}
