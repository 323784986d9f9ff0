package action

import (
	"time"

	"github.com/vovakirdan/tui-rpg/internal/core"
)

// Stack runs a bounded set of actions concurrently. Every action is updated
// once per tick in insertion order and removed when it completes; the order
// in which actions complete does not affect the others.
type Stack struct {
	slots    []Action
	capacity int
	live     int
	gen      int // bumped by Finish
}

// NewStack creates a stack holding at most capacity live actions.
func NewStack(capacity int) *Stack {
	return &Stack{
		slots:    make([]Action, 0, capacity),
		capacity: capacity,
	}
}

// Add appends a to the stack. On error the caller keeps ownership and is
// expected to finish it.
func (s *Stack) Add(a Action) error {
	if a == nil {
		return ErrNil
	}
	if s.live >= s.capacity {
		return ErrFull
	}
	s.slots = append(s.slots, a)
	s.live++
	return nil
}

// Handle forwards ev to every live action.
func (s *Stack) Handle(ev core.Event) {
	for i := 0; i < len(s.slots); i++ {
		if a := s.slots[i]; a != nil {
			Handle(a, ev)
		}
	}
}

// Update updates every live action once. Completed actions are ended,
// finished and removed after the pass. Actions added while the pass runs
// wait for the next tick. A Finish called from within the pass ends it.
// It returns true when no live action remains.
func (s *Stack) Update(dt time.Duration) bool {
	gen, n := s.gen, len(s.slots)
	for i := 0; i < n && gen == s.gen; i++ {
		a := s.slots[i]
		if a == nil || !a.Update(dt) {
			continue
		}
		s.slots[i] = nil
		s.live--
		End(a)
		Finish(a)
	}
	s.compact()
	return s.live == 0
}

// compact drops the nil slots left by completed actions.
func (s *Stack) compact() {
	kept := s.slots[:0]
	for _, a := range s.slots {
		if a != nil {
			kept = append(kept, a)
		}
	}
	clear(s.slots[len(kept):])
	s.slots = kept
}

// Draw draws live actions in insertion order, the last added on top.
func (s *Stack) Draw(scr *core.Screen) {
	for _, a := range s.slots {
		if a != nil {
			Draw(a, scr)
		}
	}
}

// Finish tears the stack down: every remaining action is finished without
// being ended.
func (s *Stack) Finish() {
	slots := s.slots
	s.slots = nil
	s.live = 0
	s.gen++
	for _, a := range slots {
		if a != nil {
			Finish(a)
		}
	}
}

// Len returns the number of live actions.
func (s *Stack) Len() int { return s.live }

// Completed reports whether the stack has no live action.
func (s *Stack) Completed() bool { return s.live == 0 }

// Actions returns a snapshot of the live actions in insertion order.
func (s *Stack) Actions() []Action {
	out := make([]Action, 0, s.live)
	for _, a := range s.slots {
		if a != nil {
			out = append(out, a)
		}
	}
	return out
}
