// Package action implements the per-frame unit of work used by the engine
// for anything that spans several frames: animations, dialogs, fades, battle
// effects. Actions are combined in parallel with a Stack and in sequence
// with a Script.
//
// Only Update is mandatory. Input handling, drawing and the end-of-life
// notifications are optional interfaces; the helpers in this package check
// for them so containers never need to.
package action

import (
	"errors"
	"time"

	"github.com/vovakirdan/tui-rpg/internal/core"
)

var (
	// ErrFull is returned when adding to a container at capacity. The
	// action was not taken and still belongs to the caller.
	ErrFull = errors.New("action: container is full")

	// ErrNil is returned when adding a nil action.
	ErrNil = errors.New("action: nil action")
)

// Action is something happening over time. Update advances it by dt and
// reports whether it is complete. Once it returned true the owner calls
// End then Finish and never updates or draws it again.
type Action interface {
	Update(dt time.Duration) bool
}

// Handler is implemented by actions that react to input.
type Handler interface {
	Handle(ev core.Event)
}

// Drawer is implemented by actions with a visual.
type Drawer interface {
	Draw(scr *core.Screen)
}

// Ender is implemented by actions that apply an effect when they complete
// naturally. It is not called on forced teardown.
type Ender interface {
	End()
}

// Finisher is implemented by actions holding resources. Finish runs exactly
// once, whether the action completed or was torn down.
type Finisher interface {
	Finish()
}

// Handle forwards ev to a if it handles input.
func Handle(a Action, ev core.Event) {
	if h, ok := a.(Handler); ok {
		h.Handle(ev)
	}
}

// Draw draws a if it has a visual.
func Draw(a Action, scr *core.Screen) {
	if d, ok := a.(Drawer); ok {
		d.Draw(scr)
	}
}

// End notifies a of its natural completion.
func End(a Action) {
	if e, ok := a.(Ender); ok {
		e.End()
	}
}

// Finish releases a.
func Finish(a Action) {
	if f, ok := a.(Finisher); ok {
		f.Finish()
	}
}

// Func adapts closures to the Action contract. Nil fields are no-ops and a
// nil UpdateFunc never completes.
type Func struct {
	HandleFunc func(ev core.Event)
	UpdateFunc func(dt time.Duration) bool
	DrawFunc   func(scr *core.Screen)
	EndFunc    func()
	FinishFunc func()
}

func (f *Func) Handle(ev core.Event) {
	if f.HandleFunc != nil {
		f.HandleFunc(ev)
	}
}

func (f *Func) Update(dt time.Duration) bool {
	if f.UpdateFunc != nil {
		return f.UpdateFunc(dt)
	}
	return false
}

func (f *Func) Draw(scr *core.Screen) {
	if f.DrawFunc != nil {
		f.DrawFunc(scr)
	}
}

func (f *Func) End() {
	if f.EndFunc != nil {
		f.EndFunc()
	}
}

func (f *Func) Finish() {
	if f.FinishFunc != nil {
		f.FinishFunc()
	}
}

// Wait returns an action that completes once d has elapsed.
func Wait(d time.Duration) Action {
	var elapsed time.Duration
	return &Func{
		UpdateFunc: func(dt time.Duration) bool {
			elapsed += dt
			return elapsed >= d
		},
	}
}
