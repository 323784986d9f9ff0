package action

import (
	"time"

	"github.com/vovakirdan/tui-rpg/internal/core"
)

// Drawable is a pure rendering entity: it animates and draws but never
// sees input.
type Drawable interface {
	Update(dt time.Duration) bool
	Draw(scr *core.Screen)
}

// DrawableStack is the Stack counterpart for drawables, used for effects
// such as fading corpses that outlive the entity they belong to.
type DrawableStack struct {
	stack Stack
}

// NewDrawableStack creates a stack holding at most capacity drawables.
func NewDrawableStack(capacity int) *DrawableStack {
	return &DrawableStack{stack: *NewStack(capacity)}
}

// Add appends d to the stack.
func (s *DrawableStack) Add(d Drawable) error {
	if d == nil {
		return ErrNil
	}
	return s.stack.Add(d)
}

// Update updates every drawable, removing the completed ones. It returns
// true when the stack is empty.
func (s *DrawableStack) Update(dt time.Duration) bool {
	return s.stack.Update(dt)
}

// Draw draws every drawable in insertion order.
func (s *DrawableStack) Draw(scr *core.Screen) {
	s.stack.Draw(scr)
}

// Finish releases every remaining drawable.
func (s *DrawableStack) Finish() {
	s.stack.Finish()
}

// Len returns the number of live drawables.
func (s *DrawableStack) Len() int { return s.stack.Len() }

// Completed reports whether the stack is empty.
func (s *DrawableStack) Completed() bool { return s.stack.Completed() }
