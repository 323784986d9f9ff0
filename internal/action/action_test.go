package action

import (
	"errors"
	"fmt"
	"slices"
	"testing"
	"time"

	"github.com/vovakirdan/tui-rpg/internal/core"
)

// recorder records every call made on it into a shared log.
type recorder struct {
	name  string
	ticks int // updates needed before completion, 0 never completes
	log   *[]string

	updates int
}

func (p *recorder) record(call string) {
	*p.log = append(*p.log, p.name+"."+call)
}

func (p *recorder) Handle(core.Event) { p.record("handle") }

func (p *recorder) Update(time.Duration) bool {
	p.record("update")
	p.updates++
	return p.ticks > 0 && p.updates >= p.ticks
}

func (p *recorder) Draw(*core.Screen) { p.record("draw") }
func (p *recorder) End()              { p.record("end") }
func (p *recorder) Finish()           { p.record("finish") }

func count(log []string, call string) int {
	n := 0
	for _, l := range log {
		if l == call {
			n++
		}
	}
	return n
}

func TestStackDrawsInInsertionOrder(t *testing.T) {
	var log []string
	s := NewStack(8)
	for _, name := range []string{"a", "b", "c"} {
		if err := s.Add(&recorder{name: name, log: &log}); err != nil {
			t.Fatalf("Add(%s) error: %v", name, err)
		}
	}

	s.Draw(core.NewScreen(1, 1))

	expected := []string{"a.draw", "b.draw", "c.draw"}
	if !slices.Equal(log, expected) {
		t.Errorf("draw order = %v, expected %v", log, expected)
	}
}

func TestStackCompletedActionsAreEndedThenFinishedOnce(t *testing.T) {
	var log []string
	s := NewStack(8)
	s.Add(&recorder{name: "a", ticks: 1, log: &log})
	s.Add(&recorder{name: "b", ticks: 2, log: &log})
	s.Add(&recorder{name: "c", ticks: 1, log: &log})

	if s.Update(time.Millisecond) {
		t.Fatal("stack reported empty while b is still running")
	}
	if s.Len() != 1 {
		t.Fatalf("Len() = %d after first tick, expected 1", s.Len())
	}

	log = log[:0]
	if !s.Update(time.Millisecond) {
		t.Fatal("stack should be empty once b completed")
	}
	s.Update(time.Millisecond)
	s.Draw(core.NewScreen(1, 1))

	expected := []string{"b.update", "b.end", "b.finish"}
	if !slices.Equal(log, expected) {
		t.Errorf("calls after completion = %v, expected %v", log, expected)
	}
}

func TestStackNoSkipWhenNeighbourCompletes(t *testing.T) {
	var log []string
	s := NewStack(8)
	for i := range 5 {
		ticks := 0
		if i%2 == 0 {
			ticks = 1
		}
		s.Add(&recorder{name: fmt.Sprint(i), ticks: ticks, log: &log})
	}

	s.Update(time.Millisecond)

	for i := range 5 {
		if n := count(log, fmt.Sprintf("%d.update", i)); n != 1 {
			t.Errorf("action %d updated %d times in one tick, expected 1", i, n)
		}
	}
	if s.Len() != 2 {
		t.Errorf("Len() = %d, expected 2", s.Len())
	}
}

func TestStackActionAddedDuringUpdateWaitsForNextTick(t *testing.T) {
	var log []string
	s := NewStack(8)
	spawned := &recorder{name: "spawned", ticks: 1, log: &log}
	s.Add(&Func{
		UpdateFunc: func(time.Duration) bool { return true },
		EndFunc: func() {
			if err := s.Add(spawned); err != nil {
				t.Errorf("Add from End error: %v", err)
			}
		},
	})

	if s.Update(time.Millisecond) {
		t.Fatal("stack holds the spawned action and must not be empty")
	}
	if spawned.updates != 0 {
		t.Fatalf("spawned action was updated %d times in the tick it was added", spawned.updates)
	}
	if !s.Update(time.Millisecond) {
		t.Fatal("stack should be empty after the spawned action completed")
	}
}

func TestStackCapacity(t *testing.T) {
	var log []string
	s := NewStack(2)
	s.Add(&recorder{name: "a", log: &log})
	s.Add(&recorder{name: "b", log: &log})

	err := s.Add(&recorder{name: "c", log: &log})
	if !errors.Is(err, ErrFull) {
		t.Fatalf("Add past capacity error = %v, expected ErrFull", err)
	}
	if s.Len() != 2 {
		t.Errorf("Len() = %d after failed add, expected 2", s.Len())
	}
	if err := s.Add(nil); !errors.Is(err, ErrNil) {
		t.Errorf("Add(nil) error = %v, expected ErrNil", err)
	}
}

func TestStackUpdateEmptyReturnsTrue(t *testing.T) {
	if !NewStack(1).Update(time.Millisecond) {
		t.Error("empty stack update should report completion")
	}
}

func TestStackFinishSkipsEnd(t *testing.T) {
	var log []string
	s := NewStack(4)
	s.Add(&recorder{name: "a", log: &log})
	s.Add(&recorder{name: "b", log: &log})

	s.Finish()

	expected := []string{"a.finish", "b.finish"}
	if !slices.Equal(log, expected) {
		t.Errorf("Finish calls = %v, expected %v", log, expected)
	}
	if !s.Completed() {
		t.Error("stack should be empty after Finish")
	}
}

// finisher tears its stack down when it ends.
type finisher struct {
	recorder
	stack *Stack
}

func (f *finisher) End() {
	f.recorder.End()
	f.stack.Finish()
}

func TestStackFinishFromEnd(t *testing.T) {
	var log []string
	s := NewStack(4)
	s.Add(&finisher{recorder: recorder{name: "a", ticks: 1, log: &log}, stack: s})
	s.Add(&recorder{name: "b", log: &log})

	if !s.Update(time.Millisecond) {
		t.Fatal("Update() = false after Finish, expected an empty stack")
	}

	expected := []string{"a.update", "a.end", "b.finish", "a.finish"}
	if !slices.Equal(log, expected) {
		t.Errorf("calls = %v, expected %v", log, expected)
	}
	if s.Len() != 0 {
		t.Errorf("Len() = %d after Finish, expected 0", s.Len())
	}
	if err := s.Add(&recorder{name: "c", log: &log}); err != nil {
		t.Errorf("Add after Finish: %v", err)
	}
}

func TestStackHandleForwardsToAll(t *testing.T) {
	var log []string
	s := NewStack(4)
	s.Add(&recorder{name: "a", log: &log})
	s.Add(&recorder{name: "b", log: &log})

	s.Handle(core.Press(core.KeyEnter))

	if !slices.Equal(log, []string{"a.handle", "b.handle"}) {
		t.Errorf("Handle calls = %v", log)
	}
}

func TestFuncNilCallbacksAreInert(t *testing.T) {
	f := &Func{}
	f.Handle(core.Press(core.KeyUp))
	f.Draw(core.NewScreen(1, 1))
	f.End()
	f.Finish()
	if f.Update(time.Second) {
		t.Error("Func without UpdateFunc should never complete")
	}
}

func TestWait(t *testing.T) {
	w := Wait(30 * time.Millisecond)
	if w.Update(10*time.Millisecond) || w.Update(10*time.Millisecond) {
		t.Fatal("Wait completed early")
	}
	if !w.Update(10 * time.Millisecond) {
		t.Error("Wait should complete once the duration elapsed")
	}
}
