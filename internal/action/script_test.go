package action

import (
	"errors"
	"slices"
	"testing"
	"time"

	"github.com/vovakirdan/tui-rpg/internal/core"
)

func TestScriptRunsOneActionPerTick(t *testing.T) {
	var log []string
	s := NewScript(4)
	s.Append(&recorder{name: "a", ticks: 1, log: &log})
	s.Append(&recorder{name: "b", ticks: 2, log: &log})
	s.Start()

	scr := core.NewScreen(1, 1)
	prev := s.Cursor()
	ticks := 0
	for !s.Update(time.Millisecond) {
		ticks++
		if s.Cursor() < prev {
			t.Fatalf("cursor moved back from %d to %d", prev, s.Cursor())
		}
		prev = s.Cursor()
		s.Handle(core.Press(core.KeyEnter))
		s.Draw(scr)
	}

	expected := []string{
		"a.update", "a.end", "a.finish",
		"b.handle", "b.draw",
		"b.update", "b.handle", "b.draw",
		"b.update", "b.end", "b.finish",
	}
	if !slices.Equal(log, expected) {
		t.Errorf("calls = %v\nexpected %v", log, expected)
	}
	if ticks != 2 {
		t.Errorf("script completed after %d incomplete ticks, expected 2", ticks)
	}
	if !s.Completed() || s.Cursor() != 2 {
		t.Errorf("Completed() = %v, Cursor() = %d", s.Completed(), s.Cursor())
	}
}

func TestScriptNoSameTickCascade(t *testing.T) {
	var log []string
	s := NewScript(4)
	s.Append(&recorder{name: "a", ticks: 1, log: &log})
	s.Append(&recorder{name: "b", ticks: 1, log: &log})

	if s.Update(time.Millisecond) {
		t.Fatal("script completed in one tick with two actions")
	}
	if count(log, "b.update") != 0 {
		t.Error("next action must not be updated in the tick the previous one completed")
	}
}

func TestScriptCapacity(t *testing.T) {
	var log []string
	s := NewScript(1)
	if err := s.Append(&recorder{name: "a", log: &log}); err != nil {
		t.Fatalf("Append error: %v", err)
	}
	if err := s.Append(&recorder{name: "b", log: &log}); !errors.Is(err, ErrFull) {
		t.Errorf("Append past capacity error = %v, expected ErrFull", err)
	}
}

func TestScriptEmptyIsCompleted(t *testing.T) {
	s := NewScript(1)
	if !s.Completed() || !s.Update(time.Millisecond) {
		t.Error("empty script should be complete")
	}
}

func TestScriptFinishReleasesPendingOnly(t *testing.T) {
	var log []string
	s := NewScript(4)
	s.Append(&recorder{name: "a", ticks: 1, log: &log})
	s.Append(&recorder{name: "b", log: &log})
	s.Append(&recorder{name: "c", log: &log})

	s.Update(time.Millisecond)
	log = log[:0]
	s.Finish()

	if !slices.Equal(log, []string{"b.finish", "c.finish"}) {
		t.Errorf("Finish calls = %v", log)
	}
	s.Finish()
	if len(log) != 2 {
		t.Error("second Finish should not release anything")
	}
}

func TestScriptNestsInStack(t *testing.T) {
	var log []string
	script := NewScript(2)
	script.Append(&recorder{name: "a", ticks: 1, log: &log})
	script.Append(&recorder{name: "b", ticks: 1, log: &log})

	stack := NewStack(2)
	stack.Add(script)
	stack.Add(&recorder{name: "p", ticks: 1, log: &log})

	if stack.Update(time.Millisecond) {
		t.Fatal("script still has b pending")
	}
	if !stack.Update(time.Millisecond) {
		t.Fatal("stack should be empty once the script completed")
	}
	if count(log, "a.finish") != 1 || count(log, "b.finish") != 1 || count(log, "p.finish") != 1 {
		t.Errorf("every action should be finished once, log = %v", log)
	}
}

func TestDrawableStack(t *testing.T) {
	var log []string
	s := NewDrawableStack(1)
	if err := s.Add(&recorder{name: "d", ticks: 1, log: &log}); err != nil {
		t.Fatalf("Add error: %v", err)
	}
	if err := s.Add(&recorder{name: "e", log: &log}); !errors.Is(err, ErrFull) {
		t.Errorf("Add past capacity error = %v", err)
	}

	s.Draw(core.NewScreen(1, 1))
	if !s.Update(time.Millisecond) {
		t.Error("drawable stack should be empty after completion")
	}
	if !slices.Equal(log, []string{"d.draw", "d.update", "d.end", "d.finish"}) {
		t.Errorf("calls = %v", log)
	}
}

func TestSharedFinishesOnLastRelease(t *testing.T) {
	var log []string
	sh := Share(&recorder{name: "a", ticks: 1, log: &log})

	stack := NewStack(1)
	stack.Add(sh.Retain())
	if sh.Refs() != 2 {
		t.Fatalf("Refs() = %d, expected 2", sh.Refs())
	}

	stack.Update(time.Millisecond)
	if count(log, "a.finish") != 0 {
		t.Fatal("action finished while the foreign owner still holds it")
	}
	if count(log, "a.end") != 1 {
		t.Error("End should reach the wrapped action")
	}

	sh.Release()
	sh.Release()
	if count(log, "a.finish") != 1 {
		t.Errorf("finish count = %d, expected 1", count(log, "a.finish"))
	}
	if sh.Alive() || !sh.Update(time.Millisecond) {
		t.Error("dead handle should report completion")
	}
}
