package action

import (
	"time"

	"github.com/vovakirdan/tui-rpg/internal/core"
)

// Script runs actions one after the other. Only the action under the
// cursor receives input, updates and draws, and the cursor never moves
// back. A Script is itself an Action so it can run inside a Stack.
type Script struct {
	actions  []Action
	capacity int
	cursor   int
}

// NewScript creates a script holding at most capacity actions.
func NewScript(capacity int) *Script {
	return &Script{
		actions:  make([]Action, 0, capacity),
		capacity: capacity,
	}
}

// Append adds a at the end of the script.
func (s *Script) Append(a Action) error {
	if a == nil {
		return ErrNil
	}
	if len(s.actions) >= s.capacity {
		return ErrFull
	}
	s.actions = append(s.actions, a)
	return nil
}

// Start rewinds the cursor to the first action. Call it once, before the
// first update.
func (s *Script) Start() {
	s.cursor = 0
}

// Cursor returns the index of the running action.
func (s *Script) Cursor() int { return s.cursor }

// Len returns the number of appended actions.
func (s *Script) Len() int { return len(s.actions) }

// Completed reports whether the cursor has passed the last action.
func (s *Script) Completed() bool {
	return s.cursor >= len(s.actions)
}

func (s *Script) current() Action {
	if s.Completed() {
		return nil
	}
	return s.actions[s.cursor]
}

// Handle forwards ev to the running action.
func (s *Script) Handle(ev core.Event) {
	if a := s.current(); a != nil {
		Handle(a, ev)
	}
}

// Update updates the running action. When it completes it is ended and
// finished and the cursor moves on; the next action gets its first update
// on the following tick so every tick costs exactly one action update.
func (s *Script) Update(dt time.Duration) bool {
	a := s.current()
	if a == nil {
		return true
	}
	if a.Update(dt) {
		End(a)
		Finish(a)
		s.actions[s.cursor] = nil
		s.cursor++
	}
	return s.Completed()
}

// Draw draws the running action.
func (s *Script) Draw(scr *core.Screen) {
	if a := s.current(); a != nil {
		Draw(a, scr)
	}
}

// Finish releases the actions the cursor has not reached yet, including
// the running one.
func (s *Script) Finish() {
	for i := s.cursor; i < len(s.actions); i++ {
		if a := s.actions[i]; a != nil {
			s.actions[i] = nil
			Finish(a)
		}
	}
	s.cursor = len(s.actions)
}
