package core

// Key identifies a semantic key the engine reacts to. The platform layer
// maps physical keys onto these.
type Key int

const (
	KeyNone Key = iota
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyEnter
	KeyEscape
	KeyTab
	KeySave // writes a report on the panic screen
	KeyQuit
)

var keyNames = map[Key]string{
	KeyNone:   "none",
	KeyUp:     "up",
	KeyDown:   "down",
	KeyLeft:   "left",
	KeyRight:  "right",
	KeyEnter:  "enter",
	KeyEscape: "escape",
	KeyTab:    "tab",
	KeySave:   "save",
	KeyQuit:   "quit",
}

// String returns the lowercase key name, also used by Lua scripts.
func (k Key) String() string {
	if name, ok := keyNames[k]; ok {
		return name
	}
	return "unknown"
}

// EventType distinguishes the kinds of input events.
type EventType int

const (
	EventKeyDown EventType = iota
	EventQuit
)

// Event is one input event delivered to the current state.
type Event struct {
	Type EventType
	Key  Key
}

// Press returns a key press event.
func Press(k Key) Event {
	return Event{Type: EventKeyDown, Key: k}
}

// Pressed reports whether the event is a press of the given key.
func (e Event) Pressed(k Key) bool {
	return e.Type == EventKeyDown && e.Key == k
}
