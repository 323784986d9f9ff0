package registry

import (
	"slices"
	"testing"

	"github.com/vovakirdan/tui-rpg/internal/action"
)

func TestObjectTag(t *testing.T) {
	tests := []struct {
		value string
		name  string
		args  []string
	}{
		{"teleport|forest|4|2", "teleport", []string{"forest", "4", "2"}},
		{"spawner | 10 | 20", "spawner", []string{"10", "20"}},
		{"sign", "sign", nil},
		{"", "", nil},
	}
	for _, tt := range tests {
		obj := Object{Value: tt.value}
		if got := obj.Name(); got != tt.name {
			t.Errorf("Name(%q) = %q, expected %q", tt.value, got, tt.name)
		}
		if got := obj.Args(); !slices.Equal(got, tt.args) {
			t.Errorf("Args(%q) = %q, expected %q", tt.value, got, tt.args)
		}
	}
}

func TestObjectContains(t *testing.T) {
	obj := Object{X: 2, Y: 3, W: 2}
	tests := []struct {
		x, y     int
		expected bool
	}{
		{2, 3, true},
		{3, 3, true},
		{4, 3, false},
		{2, 4, false},
		{1, 3, false},
	}
	for _, tt := range tests {
		if got := obj.Contains(tt.x, tt.y); got != tt.expected {
			t.Errorf("Contains(%d, %d) = %v, expected %v", tt.x, tt.y, got, tt.expected)
		}
	}
}

func TestRegistry(t *testing.T) {
	r := New[string]()
	var seen string
	r.Register("wait", func(env string, obj Object) (action.Action, error) {
		seen = env + ":" + obj.Value
		return action.Wait(0), nil
	})
	r.Register("alpha", func(string, Object) (action.Action, error) { return nil, nil })

	if !r.Exists("wait") || r.Exists("missing") {
		t.Fatalf("Exists() does not reflect the registrations")
	}
	if got := r.List(); !slices.Equal(got, []string{"alpha", "wait"}) {
		t.Fatalf("List() = %v", got)
	}

	l, ok := r.Lookup("wait")
	if !ok {
		t.Fatalf("Lookup(wait) failed")
	}
	if _, err := l("env", Object{Value: "wait"}); err != nil {
		t.Fatalf("loader error: %v", err)
	}
	if seen != "env:wait" {
		t.Fatalf("loader saw %q", seen)
	}
}

func TestRegisterDuplicatePanics(t *testing.T) {
	r := New[int]()
	r.Register("x", func(int, Object) (action.Action, error) { return nil, nil })

	defer func() {
		if recover() == nil {
			t.Fatalf("duplicate Register did not panic")
		}
	}()
	r.Register("x", func(int, Object) (action.Action, error) { return nil, nil })
}
