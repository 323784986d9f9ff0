package action

import (
	"time"

	"github.com/vovakirdan/tui-rpg/internal/core"
)

// Shared is a reference-counted action handle for actions owned both by a
// native container and by a foreign runtime such as a Lua script. Each
// owner holds one reference; the wrapped action is finished when the last
// one is released.
//
// A container that finishes a Shared only drops its own reference, so the
// other owner can keep calling into the action safely.
type Shared struct {
	act  Action
	refs int
}

// Share wraps a with a single reference held by the caller.
func Share(a Action) *Shared {
	return &Shared{act: a, refs: 1}
}

// Retain takes an additional reference and returns s for chaining.
func (s *Shared) Retain() *Shared {
	s.refs++
	return s
}

// Release drops one reference. The last release finishes the action.
// Releasing a dead handle is a no-op.
func (s *Shared) Release() {
	if s.refs <= 0 {
		return
	}
	s.refs--
	if s.refs == 0 {
		Finish(s.act)
	}
}

// Refs returns the number of live references.
func (s *Shared) Refs() int { return s.refs }

// Alive reports whether at least one reference remains.
func (s *Shared) Alive() bool { return s.refs > 0 }

// Action returns the wrapped action.
func (s *Shared) Action() Action { return s.act }

func (s *Shared) Handle(ev core.Event) {
	if s.Alive() {
		Handle(s.act, ev)
	}
}

func (s *Shared) Update(dt time.Duration) bool {
	if !s.Alive() {
		return true
	}
	return s.act.Update(dt)
}

func (s *Shared) Draw(scr *core.Screen) {
	if s.Alive() {
		Draw(s.act, scr)
	}
}

func (s *Shared) End() {
	if s.Alive() {
		End(s.act)
	}
}

// Finish releases the reference held by the calling container.
func (s *Shared) Finish() {
	s.Release()
}
