// Package registry maps the tags of map objects to the loaders creating
// their actions. Content packages register their loaders in init()
// functions, allowing maps to reference actions without hardcoded
// dependencies.
package registry

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/vovakirdan/tui-rpg/internal/action"
)

// Separator splits the name of a tag from its arguments.
const Separator = "|"

// Object is a tagged rectangle placed on a map, e.g. a teleport with the
// value "teleport|forest|4|2".
type Object struct {
	X, Y, W, H int
	Value      string
}

// Name returns the tag name, the part of the value before the first
// separator.
func (o Object) Name() string {
	name, _, _ := strings.Cut(o.Value, Separator)
	return strings.TrimSpace(name)
}

// Args returns the tag arguments.
func (o Object) Args() []string {
	_, rest, ok := strings.Cut(o.Value, Separator)
	if !ok {
		return nil
	}
	args := strings.Split(rest, Separator)
	for i := range args {
		args[i] = strings.TrimSpace(args[i])
	}
	return args
}

// Contains reports whether (x, y) lies inside the object.
func (o Object) Contains(x, y int) bool {
	w, h := max(o.W, 1), max(o.H, 1)
	return x >= o.X && x < o.X+w && y >= o.Y && y < o.Y+h
}

// Loader creates the action of an object. E is the environment the
// content package needs, such as its game context.
type Loader[E any] func(env E, obj Object) (action.Action, error)

// Registry is a set of loaders indexed by tag name.
type Registry[E any] struct {
	mu      sync.RWMutex
	loaders map[string]Loader[E]
}

// New returns an empty registry.
func New[E any]() *Registry[E] {
	return &Registry[E]{loaders: make(map[string]Loader[E])}
}

// Register adds a loader to the registry.
// Typically called from an init() function.
// Panics if a loader with the same name is already registered.
func (r *Registry[E]) Register(name string, l Loader[E]) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.loaders[name]; exists {
		panic(fmt.Sprintf("registry: loader %q already registered", name))
	}
	r.loaders[name] = l
}

// Lookup returns the loader registered for the tag name.
func (r *Registry[E]) Lookup(name string) (Loader[E], bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	l, ok := r.loaders[name]
	return l, ok
}

// Exists checks if a loader with the given name is registered.
func (r *Registry[E]) Exists(name string) bool {
	_, ok := r.Lookup(name)
	return ok
}

// List returns the registered names, sorted.
func (r *Registry[E]) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]string, 0, len(r.loaders))
	for name := range r.loaders {
		result = append(result, name)
	}
	sort.Strings(result)
	return result
}
