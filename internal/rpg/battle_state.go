package rpg

import (
	"time"

	"github.com/vovakirdan/tui-rpg/internal/core"
)

// battleState is one phase of the turn loop.
type battleState interface {
	handle(bt *Battle, ev core.Event)
	update(bt *Battle, dt time.Duration) bool
	draw(bt *Battle, scr *core.Screen)
}

// openingState shows the field for a moment before the first turn.
type openingState struct {
	elapsed time.Duration
}

func (s *openingState) handle(*Battle, core.Event) {}

func (s *openingState) update(bt *Battle, dt time.Duration) bool {
	s.elapsed += dt
	if s.elapsed >= bt.Balance.OpeningDelay {
		bt.check()
	}
	return false
}

func (s *openingState) draw(bt *Battle, scr *core.Screen) {
	w, h := bt.Size()
	if bt.Balance.OpeningDelay <= 0 {
		return
	}
	// The field is revealed from the middle outwards.
	shown := int(s.elapsed) * w / int(bt.Balance.OpeningDelay)
	hidden := core.Max((w-shown)/2, 0)
	scr.DrawRect(core.NewRect(0, 0, hidden, h), ' ', core.ColorDefault)
	scr.DrawRect(core.NewRect(w-hidden, 0, hidden, h), ' ', core.ColorDefault)
}

// menuState gives the input to the bar of the current team member.
type menuState struct{}

func (s *menuState) handle(bt *Battle, ev core.Event) {
	bt.Bar.Handle(bt, ev)
}

func (s *menuState) update(*Battle, time.Duration) bool { return false }

func (s *menuState) draw(*Battle, *core.Screen) {}

// selectionState lets the player move the target cursor.
type selectionState struct {
	slt     Selection
	confirm func(Selection)
}

func (s *selectionState) handle(bt *Battle, ev core.Event) {
	if ev.Type != core.EventKeyDown {
		return
	}
	switch ev.Key {
	case core.KeyUp:
		if !s.slt.All() {
			s.slt.step(bt, -1)
		}
	case core.KeyDown:
		if !s.slt.All() {
			s.slt.step(bt, 1)
		}
	case core.KeyLeft, core.KeyRight:
		s.slt.toggleSide(bt)
	case core.KeyTab:
		s.slt.toggleAll(bt)
	case core.KeyEscape:
		bt.Menu()
	case core.KeyEnter:
		if len(s.slt.Targets(bt)) > 0 {
			s.confirm(s.slt)
		}
	}
}

func (s *selectionState) update(*Battle, time.Duration) bool { return false }

func (s *selectionState) draw(bt *Battle, scr *core.Screen) {
	for _, e := range s.slt.Targets(bt) {
		_, h := e.Size()
		scr.SetCell(e.X-2, e.Y+h/2, '▶', core.ColorHighlight)
	}
}

// resolvingState waits until the actions queued by the turn are over.
type resolvingState struct{}

func (s *resolvingState) handle(*Battle, core.Event) {}

func (s *resolvingState) update(bt *Battle, _ time.Duration) bool {
	if bt.Resolved() {
		bt.check()
	}
	return false
}

func (s *resolvingState) draw(*Battle, *core.Screen) {}

// messageState shows a centered message until it times out or the player
// presses enter.
type messageState struct {
	text    string
	next    func()
	elapsed time.Duration
	done    bool
}

func (s *messageState) handle(_ *Battle, ev core.Event) {
	if ev.Pressed(core.KeyEnter) {
		s.finish()
	}
}

func (s *messageState) finish() {
	if !s.done {
		s.done = true
		s.next()
	}
}

func (s *messageState) update(bt *Battle, dt time.Duration) bool {
	s.elapsed += dt
	if s.elapsed >= bt.Balance.MessageDelay {
		s.finish()
	}
	return false
}

func (s *messageState) draw(bt *Battle, scr *core.Screen) {
	w, h := bt.Size()
	width := len(s.text) + 6
	r := core.NewRect((w-width)/2, (h-barHeight)/2-1, width, 3)
	scr.DrawFrame(r, core.ColorFrame)
	scr.DrawTextCentered(r.Y+1, s.text, core.ColorHighlight)
}

// closingState fades the battle out.
type closingState struct {
	alpha   int
	elapsed time.Duration
}

func (s *closingState) handle(*Battle, core.Event) {}

func (s *closingState) update(bt *Battle, dt time.Duration) bool {
	if bt.Balance.CloseDelay <= 0 {
		s.alpha = 255
		return true
	}
	step := core.Max(bt.Balance.CloseStep, 1)
	s.elapsed += dt
	for s.elapsed > bt.Balance.CloseDelay && s.alpha < 255 {
		s.elapsed -= bt.Balance.CloseDelay
		s.alpha = core.Min(s.alpha+step, 255)
	}
	return s.alpha >= 255
}

func (s *closingState) draw(_ *Battle, scr *core.Screen) {
	scr.Shade(uint8(s.alpha))
}
