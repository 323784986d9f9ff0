// Package scripting runs Lua scripts that create actions for the engine.
//
// Lua code builds actions with the Action{...} and Wait(ms) constructors,
// chains them with Sequence{a, b, ...} and can run its own stacks with
// ActionStack(n). Every action created from Lua
// is an action.Shared: the engine keeps one reference and each native
// container holding the action keeps another, so neither side can finish it
// while the other still uses it. Once every container released an action
// the engine drops its reference on the next Run, and Lua can no longer
// hand the action out.
package scripting

import (
	"embed"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	lua "github.com/yuin/gopher-lua"

	"github.com/vovakirdan/tui-rpg/internal/action"
	"github.com/vovakirdan/tui-rpg/internal/core"
)

//go:embed scripts/*.lua
var embedded embed.FS

// ErrScriptNotFound is returned by LoadAction for an unknown script.
var ErrScriptNotFound = errors.New("scripting: script not found")

const (
	actionType = "action"
	stackType  = "action_stack"
)

// Engine wraps a single gopher-lua VM. Single-goroutine access only (game
// loop).
type Engine struct {
	vm  *lua.LState
	log *log.Logger
	dir string

	shared []*action.Shared
	handed map[*action.Shared]bool // retained by a container at least once
	stacks []*action.Stack
	screen *core.Screen
	closed bool
}

// NewEngine creates a Lua engine. Scripts are looked up in dir first, then
// among the embedded ones. A nil logger discards the output.
func NewEngine(dir string, logger *log.Logger) *Engine {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	vm := lua.NewState(lua.Options{
		SkipOpenLibs: false,
	})

	// Set API version global
	vm.SetGlobal("API_VERSION", lua.LNumber(1))

	e := &Engine{vm: vm, log: logger, dir: dir, handed: make(map[*action.Shared]bool)}
	e.register()
	return e
}

func (e *Engine) register() {
	vm := e.vm

	actionMT := vm.NewTypeMetatable(actionType)
	vm.SetField(actionMT, "__index", vm.SetFuncs(vm.NewTable(), map[string]lua.LGFunction{
		"refs": func(L *lua.LState) int {
			L.Push(lua.LNumber(e.checkAction(L, 1).Refs()))
			return 1
		},
	}))

	stackMT := vm.NewTypeMetatable(stackType)
	vm.SetField(stackMT, "__index", vm.SetFuncs(vm.NewTable(), map[string]lua.LGFunction{
		"add":    e.stackAdd,
		"update": e.stackUpdate,
		"len":    e.stackLen,
		"finish": e.stackFinish,
	}))

	vm.SetGlobal("Action", vm.NewFunction(e.newAction))
	vm.SetGlobal("Wait", vm.NewFunction(e.newWait))
	vm.SetGlobal("Sequence", vm.NewFunction(e.newSequence))
	vm.SetGlobal("ActionStack", vm.NewFunction(e.newStack))
	vm.SetGlobal("draw_text", vm.NewFunction(e.drawText))
	vm.SetGlobal("screen_size", vm.NewFunction(e.screenSize))
}

// wrap shares a and returns its Lua handle. The engine holds the first
// reference.
func (e *Engine) wrap(L *lua.LState, a action.Action) *lua.LUserData {
	sh := action.Share(a)
	e.shared = append(e.shared, sh)

	ud := L.NewUserData()
	ud.Value = sh
	L.SetMetatable(ud, L.GetTypeMetatable(actionType))
	return ud
}

func (e *Engine) newAction(L *lua.LState) int {
	tbl := L.CheckTable(1)
	L.Push(e.wrap(L, &luaAction{e: e, self: tbl}))
	return 1
}

func (e *Engine) newWait(L *lua.LState) int {
	ms := L.CheckNumber(1)
	L.Push(e.wrap(L, action.Wait(millis(ms))))
	return 1
}

// toAction returns the live shared action for v, wrapping plain tables.
func (e *Engine) toAction(L *lua.LState, v lua.LValue) (*action.Shared, bool) {
	switch v := v.(type) {
	case *lua.LTable:
		return e.wrap(L, &luaAction{e: e, self: v}).Value.(*action.Shared), true
	case *lua.LUserData:
		sh, ok := v.Value.(*action.Shared)
		return sh, ok && sh.Alive()
	}
	return nil, false
}

// hand marks sh as held by a native container.
func (e *Engine) hand(sh *action.Shared) {
	e.handed[sh] = true
}

// prune drops the engine reference of the actions every container is done
// with. Containers are created after their contents, so walking backwards
// releases a sequence before the actions it held.
func (e *Engine) prune() {
	kept := e.shared[:0]
	for i := len(e.shared) - 1; i >= 0; i-- {
		sh := e.shared[i]
		if e.handed[sh] && sh.Refs() == 1 {
			delete(e.handed, sh)
			sh.Release()
		}
	}
	for _, sh := range e.shared {
		if sh.Alive() {
			kept = append(kept, sh)
		} else {
			delete(e.handed, sh)
		}
	}
	clear(e.shared[len(kept):])
	e.shared = kept
}

// Handles returns the number of actions the engine still holds.
func (e *Engine) Handles() int { return len(e.shared) }

// newSequence runs the actions of a list one after the other.
func (e *Engine) newSequence(L *lua.LState) int {
	list := L.CheckTable(1)
	n := list.Len()
	if n == 0 {
		L.ArgError(1, "empty sequence")
		return 0
	}
	s := action.NewScript(n)
	for i := 1; i <= n; i++ {
		sh, ok := e.toAction(L, list.RawGetInt(i))
		if !ok {
			s.Finish()
			L.ArgError(1, fmt.Sprintf("element %d is not an action", i))
			return 0
		}
		if err := s.Append(sh.Retain()); err != nil {
			sh.Release()
			s.Finish()
			L.RaiseError("sequence: %v", err)
			return 0
		}
		e.hand(sh)
	}
	s.Start()
	L.Push(e.wrap(L, s))
	return 1
}

func (e *Engine) checkAction(L *lua.LState, n int) *action.Shared {
	ud := L.CheckUserData(n)
	if sh, ok := ud.Value.(*action.Shared); ok {
		return sh
	}
	L.ArgError(n, "action expected")
	return nil
}

func (e *Engine) newStack(L *lua.LState) int {
	capacity := L.OptInt(1, 16)
	if capacity <= 0 {
		L.ArgError(1, "capacity must be positive")
		return 0
	}
	s := action.NewStack(capacity)
	e.stacks = append(e.stacks, s)

	ud := L.NewUserData()
	ud.Value = s
	L.SetMetatable(ud, L.GetTypeMetatable(stackType))
	L.Push(ud)
	return 1
}

func (e *Engine) checkStack(L *lua.LState) *action.Stack {
	ud := L.CheckUserData(1)
	if s, ok := ud.Value.(*action.Stack); ok {
		return s
	}
	L.ArgError(1, "action stack expected")
	return nil
}

// stackAdd retains the action for the stack. It returns true, or false and
// the error message when the stack is full.
func (e *Engine) stackAdd(L *lua.LState) int {
	s := e.checkStack(L)
	sh, ok := e.toAction(L, L.Get(2))
	if !ok {
		L.ArgError(2, "action expected")
		return 0
	}

	if err := s.Add(sh.Retain()); err != nil {
		sh.Release()
		L.Push(lua.LFalse)
		L.Push(lua.LString(err.Error()))
		return 2
	}
	e.hand(sh)
	L.Push(lua.LTrue)
	return 1
}

func (e *Engine) stackUpdate(L *lua.LState) int {
	s := e.checkStack(L)
	ms := L.OptNumber(2, 0)
	L.Push(lua.LBool(s.Update(millis(ms))))
	return 1
}

func (e *Engine) stackLen(L *lua.LState) int {
	L.Push(lua.LNumber(e.checkStack(L).Len()))
	return 1
}

func (e *Engine) stackFinish(L *lua.LState) int {
	e.checkStack(L).Finish()
	return 0
}

func (e *Engine) drawText(L *lua.LState) int {
	x, y := L.CheckInt(1), L.CheckInt(2)
	text := L.CheckString(3)
	c := colorByName(L.OptString(4, ""))
	if e.screen != nil {
		e.screen.DrawTextColor(x, y, text, c)
	}
	return 0
}

func (e *Engine) screenSize(L *lua.LState) int {
	w, h := 0, 0
	if e.screen != nil {
		w, h = e.screen.Width(), e.screen.Height()
	}
	L.Push(lua.LNumber(w))
	L.Push(lua.LNumber(h))
	return 2
}

// LoadAction runs the script name.lua and returns the action it evaluates
// to. The caller owns one reference and releases it by finishing the action.
func (e *Engine) LoadAction(name string) (action.Action, error) {
	src, err := e.source(name)
	if err != nil {
		return nil, err
	}
	a, err := e.Run(name, src)
	if err != nil {
		return nil, err
	}
	e.log.Debug("loaded lua action", "script", name)
	return a, nil
}

func (e *Engine) source(name string) (string, error) {
	file := name + ".lua"
	if e.dir != "" {
		data, err := os.ReadFile(filepath.Join(e.dir, file))
		if err == nil {
			return string(data), nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("scripting: read %s: %w", file, err)
		}
	}
	data, err := embedded.ReadFile("scripts/" + file)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrScriptNotFound, name)
	}
	return string(data), nil
}

// Run evaluates src, which must return an action or an action table.
func (e *Engine) Run(name, src string) (action.Action, error) {
	if e.closed {
		return nil, fmt.Errorf("scripting: engine closed")
	}
	e.prune()
	top := e.vm.GetTop()
	if err := e.vm.DoString(src); err != nil {
		return nil, fmt.Errorf("scripting: run %s: %w", name, err)
	}
	if e.vm.GetTop() == top {
		return nil, fmt.Errorf("scripting: %s returned nothing", name)
	}
	ret := e.vm.Get(top + 1)
	e.vm.SetTop(top)

	if sh, ok := e.toAction(e.vm, ret); ok {
		e.hand(sh)
		return sh.Retain(), nil
	}
	return nil, fmt.Errorf("scripting: %s returned %s, expected an action", name, ret.Type())
}

// Close finishes the stacks created by scripts, drops every engine
// reference and closes the VM.
func (e *Engine) Close() {
	if e.closed {
		return
	}
	for _, s := range e.stacks {
		s.Finish()
	}
	for _, sh := range e.shared {
		sh.Release()
	}
	e.stacks, e.shared, e.handed = nil, nil, nil
	e.vm.Close()
	e.closed = true
}

// luaAction forwards the action calls to the functions of a Lua table.
// Lua "end" being a keyword, the end callback is named on_end.
type luaAction struct {
	e    *Engine
	self *lua.LTable
	dead bool
}

// call invokes the method name of the table, returning nil when it does not
// exist. Errors are logged and mark the action as dead.
func (a *luaAction) call(name string, args ...lua.LValue) lua.LValue {
	if a.dead || a.e.closed {
		return nil
	}
	fn, ok := a.self.RawGetString(name).(*lua.LFunction)
	if !ok {
		return nil
	}
	vm := a.e.vm
	if err := vm.CallByParam(lua.P{
		Fn:      fn,
		NRet:    1,
		Protect: true,
	}, append([]lua.LValue{a.self}, args...)...); err != nil {
		a.e.log.Error("lua action failed", "method", name, "err", err)
		a.dead = true
		return nil
	}
	ret := vm.Get(-1)
	vm.Pop(1)
	return ret
}

func (a *luaAction) Handle(ev core.Event) {
	if ev.Type == core.EventKeyDown {
		a.call("handle", lua.LString(ev.Key.String()))
	}
}

func (a *luaAction) Update(dt time.Duration) bool {
	ret := a.call("update", lua.LNumber(float64(dt)/float64(time.Millisecond)))
	if a.dead {
		return true
	}
	return ret != nil && lua.LVAsBool(ret)
}

func (a *luaAction) Draw(scr *core.Screen) {
	a.e.screen = scr
	a.call("draw")
	a.e.screen = nil
}

func (a *luaAction) End() {
	a.call("on_end")
}

func (a *luaAction) Finish() {
	a.call("finish")
}

func millis(ms lua.LNumber) time.Duration {
	return time.Duration(float64(ms) * float64(time.Millisecond))
}

func colorByName(name string) core.Color {
	switch name {
	case "red":
		return core.ColorRed
	case "green":
		return core.ColorGreen
	case "yellow":
		return core.ColorYellow
	case "blue":
		return core.ColorBlue
	case "magenta":
		return core.ColorMagenta
	case "cyan":
		return core.ColorCyan
	case "white":
		return core.ColorWhite
	case "orange":
		return core.ColorOrange
	case "gray":
		return core.ColorGray
	default:
		return core.ColorDefault
	}
}
