package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tui-rpg/internal/adventure"
	"github.com/vovakirdan/tui-rpg/internal/core"
)

var helpStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))

// Model is the Bubble Tea model hosting one game. Key presses are queued
// and handed to the state machine on the next tick, together with the
// time elapsed since the previous one.
type Model struct {
	game     *adventure.Adventure
	screen   *core.Screen
	painter  *Painter
	keys     KeyMap
	help     help.Model
	fps      int
	events   []core.Event
	last     time.Time
	width    int
	height   int
	showHelp bool
	err      error
	quitting bool
}

// NewModel creates a new Bubble Tea model for the given game.
func NewModel(a *adventure.Adventure, fps int) Model {
	w, h := a.Size()
	return Model{
		game:    a,
		screen:  core.NewScreen(w, h),
		painter: defaultPainter,
		keys:    DefaultKeyMap(),
		help:    help.New(),
		fps:     fps,
		width:   w,
		height:  h,
	}
}

// Init starts the tick loop, on the splash screen unless the game was
// already given a state.
func (m Model) Init() tea.Cmd {
	if m.game.Machine.Depth() == 0 {
		m.game.Start()
	}
	return tickCmd(m.fps)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		m.layout()
		return m, nil

	case TickMsg:
		return m.handleTick(time.Time(msg))
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Help) {
		m.showHelp = !m.showHelp
		m.layout()
		return m, nil
	}
	if ev, ok := m.keys.Event(msg); ok {
		m.events = append(m.events, ev)
	}
	return m, nil
}

// layout gives the game the whole window minus the help line.
func (m *Model) layout() {
	h := m.height
	if m.showHelp {
		h--
	}
	if m.width <= 0 || h <= 0 {
		return
	}
	m.screen.Resize(m.width, h)
	m.game.Resize(m.width, h)
}

func (m Model) handleTick(now time.Time) (tea.Model, tea.Cmd) {
	dt := frameTime(m.fps)
	if !m.last.IsZero() {
		dt = min(now.Sub(m.last), maxFrame)
	}
	m.last = now

	events := m.events
	m.events = nil
	m.screen.Clear()
	if err := m.game.Frame(events, dt, m.screen); err != nil {
		m.err = err
		m.quitting = true
		return m, tea.Quit
	}
	if !m.game.Running() {
		m.quitting = true
		return m, tea.Quit
	}
	return m, tickCmd(m.fps)
}

// WithPainter returns a copy of m painting with p.
func (m Model) WithPainter(p *Painter) Model {
	m.painter = p
	return m
}

// Err returns the error that stopped the game, if any.
func (m Model) Err() error {
	return m.err
}

// View renders the current state to a string for display.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	view := m.painter.Paint(m.screen)
	if m.showHelp {
		view += "\n" + helpStyle.Render(m.help.View(m.keys))
	}
	return view
}

// Run starts the Bubble Tea program and blocks until the player quits.
func Run(a *adventure.Adventure, fps int) error {
	p := tea.NewProgram(NewModel(a, fps), tea.WithAltScreen())

	final, err := p.Run()
	if err != nil {
		return fmt.Errorf("tui: %w", err)
	}
	if fm, ok := final.(Model); ok && fm.err != nil {
		return fmt.Errorf("tui: %w", fm.err)
	}
	return nil
}
