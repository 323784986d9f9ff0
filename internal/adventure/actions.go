package adventure

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/vovakirdan/tui-rpg/internal/action"
	"github.com/vovakirdan/tui-rpg/internal/core"
	"github.com/vovakirdan/tui-rpg/internal/game"
	"github.com/vovakirdan/tui-rpg/internal/registry"
	"github.com/vovakirdan/tui-rpg/internal/rpg"
)

var (
	// ErrUnknownAction is returned for a map object with an unknown tag.
	ErrUnknownAction = errors.New("adventure: unknown map action")

	// ErrBadArgs is returned for a map object with malformed arguments.
	ErrBadArgs = errors.New("adventure: bad map action arguments")
)

// Env is what object loaders get to build their action.
type Env struct {
	Adventure *Adventure
	Map       *rpg.Map
}

var objects = registry.New[*Env]()

func init() {
	objects.Register("teleport", loadTeleport)
	objects.Register("spawner", loadSpawner)
	objects.Register("script", loadScript)
	objects.Register("chest", loadChest)
}

// ObjectTags returns the tags map objects may use.
func ObjectTags() []string {
	return objects.List()
}

// LoadAction creates the action of the map object tagged value covering
// the given rectangle.
func (a *Adventure) LoadAction(m *rpg.Map, x, y, w, h int, value string) (action.Action, error) {
	obj := registry.Object{X: x, Y: y, W: w, H: h, Value: value}
	load, ok := objects.Lookup(obj.Name())
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownAction, obj.Name())
	}
	act, err := load(&Env{Adventure: a, Map: m}, obj)
	if err != nil {
		return nil, fmt.Errorf("adventure: load %q: %w", value, err)
	}
	return act, nil
}

// ints parses the arguments of obj starting at from as integers.
func ints(obj registry.Object, from, n int) ([]int, error) {
	args := obj.Args()
	if len(args) != from+n {
		return nil, fmt.Errorf("%w: expected %d arguments, got %d", ErrBadArgs, from+n, len(args))
	}
	out := make([]int, n)
	for i := range out {
		v, err := strconv.Atoi(args[from+i])
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrBadArgs, err)
		}
		out[i] = v
	}
	return out, nil
}

// teleport|dest|x|y
func loadTeleport(env *Env, obj registry.Object) (action.Action, error) {
	pos, err := ints(obj, 1, 2)
	if err != nil {
		return nil, err
	}
	dest := obj.Args()[0]
	a := env.Adventure
	return &Teleport{
		Region:  obj,
		Step:    a.Config.Teleport.Step,
		Delay:   a.Config.Teleport.Delay,
		Machine: a.Machine,
		Travel: func() {
			a.Teleport(dest, pos[0], pos[1])
		},
	}, nil
}

// spawner|low|high
func loadSpawner(env *Env, obj registry.Object) (action.Action, error) {
	r, err := ints(obj, 0, 2)
	if err != nil {
		return nil, err
	}
	if r[0] <= 0 || r[0] > r[1] {
		return nil, fmt.Errorf("%w: invalid range [%d, %d]", ErrBadArgs, r[0], r[1])
	}
	a := env.Adventure
	return NewSpawner(r[0], r[1], a.Dice, env.Map.Steps(), func() {
		if err := a.Fight(a.blackCats(a.Config.Battle.Enemies)...); err != nil {
			a.Log.Warn("fight refused", "err", err)
		}
	}), nil
}

// script|name
func loadScript(env *Env, obj registry.Object) (action.Action, error) {
	args := obj.Args()
	if len(args) != 1 || args[0] == "" {
		return nil, fmt.Errorf("%w: expected a script name", ErrBadArgs)
	}
	return env.Adventure.Scripts.LoadAction(args[0])
}

// chest|key|item|amount
func loadChest(env *Env, obj registry.Object) (action.Action, error) {
	args := obj.Args()
	if len(args) != 3 {
		return nil, fmt.Errorf("%w: expected 3 arguments, got %d", ErrBadArgs, len(args))
	}
	it, ok := ItemByName(args[1])
	if !ok {
		return nil, fmt.Errorf("%w: unknown item %q", ErrBadArgs, args[1])
	}
	n, err := ints(obj, 2, 1)
	if err != nil {
		return nil, err
	}
	a := env.Adventure
	c := &Chest{
		X:      obj.X,
		Y:      obj.Y,
		Key:    "chest." + env.Map.Name + "." + args[0],
		Item:   it,
		Amount: n[0],
		Map:    env.Map,
		Opened: a.openChest,
	}
	if a.Flag(c.Key) {
		c.state = chestOpen
	}
	return c, nil
}

func (a *Adventure) openChest(c *Chest) {
	a.SetFlag(c.Key)
	left := a.Inventory.Push(c.Item, c.Amount)
	found := c.Amount - left
	if left > 0 {
		a.Log.Warn("inventory full", "item", c.Item.Name, "lost", left)
	}
	a.Notify(fmt.Sprintf("Found %d %s", found, c.Item.Name))
}

// Teleport fades the screen out when the player walks into its region,
// then calls Travel once and completes. Input stays inhibited until the
// travel is done.
type Teleport struct {
	Region  registry.Object
	Step    int
	Delay   time.Duration
	Machine *game.Machine
	Travel  func()

	active  bool
	alpha   int
	elapsed time.Duration
}

// Moved starts the fade when the player enters the region.
func (t *Teleport) Moved(m *rpg.Map, x, y int) {
	if t.active || !t.Region.Contains(x, y) {
		return
	}
	t.active = true
	m.Frozen = true
	if t.Machine != nil {
		t.Machine.Inhibit(game.InhibitInput)
	}
}

// IsExit marks the teleport as a map exit.
func (t *Teleport) IsExit() {}

// Active reports whether the fade started.
func (t *Teleport) Active() bool { return t.active }

// Alpha returns the opacity of the overlay.
func (t *Teleport) Alpha() int { return t.alpha }

func (t *Teleport) Update(dt time.Duration) bool {
	if !t.active {
		return false
	}
	t.elapsed += dt
	if t.elapsed < t.Delay {
		return false
	}
	if t.alpha >= 255 {
		t.Travel()
		return true
	}
	t.elapsed = 0
	t.alpha = core.Min(t.alpha+t.Step, 255)
	return false
}

func (t *Teleport) Draw(scr *core.Screen) {
	if t.active {
		scr.Shade(uint8(t.alpha))
	}
}

// Spawner starts a fight after a random number of steps in [Low, High].
type Spawner struct {
	Low, High int
	Dice      *rpg.Dice
	Spawn     func()

	left int
	last int
}

// NewSpawner creates a spawner for a map that was walked steps already.
func NewSpawner(low, high int, d *rpg.Dice, steps int, spawn func()) *Spawner {
	s := &Spawner{Low: low, High: high, Dice: d, Spawn: spawn, last: steps}
	s.left = d.Range(low, high)
	return s
}

// Left returns the steps remaining before the next fight.
func (s *Spawner) Left() int { return s.left }

// Moved counts down the distance walked since the last call.
func (s *Spawner) Moved(m *rpg.Map, _, _ int) {
	walked := m.Steps() - s.last
	s.last = m.Steps()
	if walked <= 0 {
		return
	}
	s.left -= walked
	if s.left > 0 {
		return
	}
	s.left = s.Dice.Range(s.Low, s.High)
	s.Spawn()
}

func (s *Spawner) Update(time.Duration) bool { return false }

type chestState int

const (
	chestClosed chestState = iota
	chestOpening
	chestOpen
)

const chestDelay = 80 * time.Millisecond

var chestSprite = &core.Sprite{
	Color: core.ColorOrange,
	Frames: [][]string{
		{"▆"},
		{"▅"},
		{"▃"},
		{"▁"},
	},
}

// Chest gives items the first time the player opens it next to it.
type Chest struct {
	X, Y   int
	Key    string
	Item   *rpg.Item
	Amount int
	Map    *rpg.Map
	Opened func(c *Chest)

	state chestState
	anim  *core.Animation
}

// IsOpen reports whether the chest was emptied.
func (c *Chest) IsOpen() bool { return c.state == chestOpen }

func (c *Chest) near() bool {
	return core.NewRect(c.X, c.Y, 1, 1).Inflate(1).Contains(c.Map.PlayerX, c.Map.PlayerY)
}

func (c *Chest) Handle(ev core.Event) {
	if c.state != chestClosed || !ev.Pressed(core.KeyEnter) || !c.near() {
		return
	}
	c.state = chestOpening
	c.anim = core.NewAnimation(chestSprite, chestDelay)
}

func (c *Chest) Update(dt time.Duration) bool {
	if c.state == chestOpening && c.anim.Update(dt) {
		c.state = chestOpen
		if c.Opened != nil {
			c.Opened(c)
		}
	}
	return false
}

func (c *Chest) Draw(scr *core.Screen) {
	x, y := c.Map.ToScreen(scr, c.X, c.Y)
	switch c.state {
	case chestOpening:
		c.anim.Draw(scr, x, y)
	case chestOpen:
		scr.SetCell(x, y, '▁', core.ColorGray)
	default:
		scr.SetCell(x, y, '▆', core.ColorOrange)
	}
}
