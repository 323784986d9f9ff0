// Package game implements the bounded stack of game states (splash, menu,
// map, battle, panic screen) and the per-frame routing of input, time and
// drawing to the current one.
package game

import (
	"time"

	"github.com/vovakirdan/tui-rpg/internal/core"
)

// State is one screen or mode of the game.
//
// Start runs when the state becomes current for the first time. Suspend and
// Resume bracket the time another state is pushed above it. End runs when
// it is popped or switched away, and Finish once when it is discarded.
// Update errors are fatal to the frame and lead to the panic state.
type State interface {
	Start()
	Handle(ev core.Event)
	Update(dt time.Duration) error
	Draw(scr *core.Screen)
	Suspend()
	Resume()
	End()
	Finish()
}

// BaseState provides no-op implementations of every State method. Embed it
// and override what the state needs.
type BaseState struct{}

func (BaseState) Start()                     {}
func (BaseState) Handle(core.Event)          {}
func (BaseState) Update(time.Duration) error { return nil }
func (BaseState) Draw(*core.Screen)          {}
func (BaseState) Suspend()                   {}
func (BaseState) Resume()                    {}
func (BaseState) End()                       {}
func (BaseState) Finish()                    {}
