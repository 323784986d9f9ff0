package game

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-rpg/internal/core"
)

// DefaultCapacity is the state stack depth used when none is configured.
const DefaultCapacity = 8

var (
	// ErrStackFull is returned by Push when the stack is at capacity.
	ErrStackFull = errors.New("game: state stack is full")

	// ErrStackEmpty is returned by Pop when there is nothing to pop.
	ErrStackEmpty = errors.New("game: state stack is empty")
)

// Inhibit is a mask of frame phases the machine skips.
type Inhibit uint8

const (
	InhibitInput Inhibit = 1 << iota
	InhibitUpdate
	InhibitDraw

	InhibitNone Inhibit = 0
)

// PanicFactory builds the state shown after an unrecoverable error.
type PanicFactory func(err error) State

// Machine is a bounded stack of states. Only the top one is current and
// receives input, updates and draws.
type Machine struct {
	states   []State
	capacity int
	inhibit  Inhibit
	running  bool
	log      *log.Logger

	panicFactory PanicFactory
	panicState   State
}

// Option configures a Machine.
type Option func(*Machine)

// WithCapacity sets the maximum stack depth.
func WithCapacity(n int) Option {
	return func(m *Machine) {
		if n > 0 {
			m.capacity = n
		}
	}
}

// WithLogger sets the logger used for transitions and failures.
func WithLogger(l *log.Logger) Option {
	return func(m *Machine) {
		if l != nil {
			m.log = l
		}
	}
}

// WithPanicState sets the factory of the error display state.
func WithPanicState(f PanicFactory) Option {
	return func(m *Machine) {
		m.panicFactory = f
	}
}

// New creates an empty running machine.
func New(opts ...Option) *Machine {
	m := &Machine{
		capacity: DefaultCapacity,
		running:  true,
		log:      log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.states = make([]State, 0, m.capacity)
	return m
}

// Current returns the state on top of the stack, nil when empty.
func (m *Machine) Current() State {
	if len(m.states) == 0 {
		return nil
	}
	return m.states[len(m.states)-1]
}

// Depth returns the number of stacked states.
func (m *Machine) Depth() int { return len(m.states) }

// Running reports whether Quit has not been called yet.
func (m *Machine) Running() bool { return m.running }

// Push suspends the current state and starts s on top of it.
func (m *Machine) Push(s State) error {
	if len(m.states) >= m.capacity {
		m.log.Warn("state push refused", "state", name(s), "depth", len(m.states))
		return ErrStackFull
	}
	if top := m.Current(); top != nil {
		top.Suspend()
	}
	m.states = append(m.states, s)
	m.log.Debug("state pushed", "state", name(s), "depth", len(m.states))
	s.Start()
	return nil
}

// Pop ends and finishes the current state and resumes the one below.
func (m *Machine) Pop() error {
	top := m.Current()
	if top == nil {
		return ErrStackEmpty
	}
	m.states[len(m.states)-1] = nil
	m.states = m.states[:len(m.states)-1]
	m.log.Debug("state popped", "state", name(top), "depth", len(m.states))

	top.End()
	top.Finish()

	if next := m.Current(); next != nil {
		next.Resume()
	}
	return nil
}

// Switch replaces the current state with s. With clear set the whole stack
// is discarded first, so scene transitions do not accumulate history. The
// depth never grows so Switch cannot fail.
func (m *Machine) Switch(s State, clear bool) {
	if clear {
		for len(m.states) > 0 {
			m.discardTop()
		}
	} else if len(m.states) > 0 {
		m.discardTop()
	}
	m.states = append(m.states, s)
	m.log.Debug("state switched", "state", name(s), "clear", clear, "depth", len(m.states))
	s.Start()
}

func (m *Machine) discardTop() {
	top := m.states[len(m.states)-1]
	m.states[len(m.states)-1] = nil
	m.states = m.states[:len(m.states)-1]
	top.End()
	top.Finish()
}

// Inhibit disables the given frame phases.
func (m *Machine) Inhibit(mask Inhibit) { m.inhibit |= mask }

// Allow re-enables the given frame phases.
func (m *Machine) Allow(mask Inhibit) { m.inhibit &^= mask }

// Inhibited reports whether every phase of mask is disabled.
func (m *Machine) Inhibited(mask Inhibit) bool { return m.inhibit&mask == mask }

// Handle routes ev to the current state. A quit event stops the machine
// regardless of the inhibit mask.
func (m *Machine) Handle(ev core.Event) {
	if ev.Type == core.EventQuit {
		m.Quit()
		return
	}
	if m.Inhibited(InhibitInput) {
		return
	}
	if s := m.Current(); s != nil {
		s.Handle(ev)
	}
}

// Update advances the current state by dt.
func (m *Machine) Update(dt time.Duration) error {
	if m.Inhibited(InhibitUpdate) {
		return nil
	}
	if s := m.Current(); s != nil {
		return s.Update(dt)
	}
	return nil
}

// Draw paints the current state.
func (m *Machine) Draw(scr *core.Screen) {
	if m.Inhibited(InhibitDraw) {
		return
	}
	if s := m.Current(); s != nil {
		s.Draw(scr)
	}
}

// Frame runs one iteration of the host loop: every pending event, one
// update with the measured delta, then one draw. An error or a runtime
// panic during the frame switches to the panic state; the error is only
// returned when no panic state could take over.
func (m *Machine) Frame(events []core.Event, dt time.Duration, scr *core.Screen) error {
	err := m.step(events, dt, scr)
	if err == nil {
		return nil
	}
	return m.Fail(err)
}

func (m *Machine) step(events []core.Event, dt time.Duration, scr *core.Screen) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = recovered(r)
		}
	}()

	for _, ev := range events {
		m.Handle(ev)
		if !m.running {
			return nil
		}
	}
	if err := m.Update(dt); err != nil {
		return err
	}
	m.Draw(scr)
	return nil
}

// Fail reports an unrecoverable error. The stack is cleared and replaced
// with the panic state. If there is no panic factory, or the panic state is
// the one failing, err is returned to the caller.
func (m *Machine) Fail(err error) error {
	m.log.Error("unrecoverable error", "err", err)

	if m.panicFactory == nil {
		return err
	}
	if m.panicState != nil && m.Current() == m.panicState {
		return fmt.Errorf("game: panic state failed: %w", err)
	}

	ps := m.panicFactory(err)
	if serr := m.safeSwitch(ps); serr != nil {
		return errors.Join(err, serr)
	}
	m.panicState = ps
	m.inhibit = InhibitNone
	return nil
}

func (m *Machine) safeSwitch(s State) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = recovered(r)
		}
	}()
	m.Switch(s, true)
	return nil
}

// Quit finishes every state, top first, and stops the machine.
func (m *Machine) Quit() {
	for len(m.states) > 0 {
		top := m.states[len(m.states)-1]
		m.states[len(m.states)-1] = nil
		m.states = m.states[:len(m.states)-1]
		top.Finish()
	}
	if m.running {
		m.log.Debug("machine stopped")
	}
	m.running = false
}

func recovered(r any) error {
	if err, ok := r.(error); ok {
		return fmt.Errorf("game: recovered: %w", err)
	}
	return fmt.Errorf("game: recovered: %v", r)
}

func name(s State) string {
	return fmt.Sprintf("%T", s)
}
