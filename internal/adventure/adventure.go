// Package adventure is the sample game built on the engine: the team, the
// enemies, the spells and items, the map objects and the screens going
// from the splash to the battles.
package adventure

import (
	"errors"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-rpg/internal/config"
	"github.com/vovakirdan/tui-rpg/internal/core"
	"github.com/vovakirdan/tui-rpg/internal/game"
	"github.com/vovakirdan/tui-rpg/internal/rpg"
	"github.com/vovakirdan/tui-rpg/internal/scripting"
	"github.com/vovakirdan/tui-rpg/internal/storage"
)

// Title is the name of the game shown on the splash screen.
const Title = "The Black Cat Quest"

// StartMap is the map a new game begins on.
const StartMap = "village"

// noticeLifespan is how long a map notice stays on screen.
const noticeLifespan = 2 * time.Second

var (
	// ErrNoStore is returned when saving or loading without a database.
	ErrNoStore = errors.New("adventure: no save database")

	// ErrNoSave is returned by Load when nothing was saved yet.
	ErrNoSave = errors.New("adventure: no saved game")
)

// Adventure holds everything a running game needs. Each player gets its
// own, so several games can run side by side in one process.
type Adventure struct {
	Machine    *game.Machine
	Config     config.Config
	Log        *log.Logger
	Dice       *rpg.Dice
	Store      *storage.Store
	Scripts    *scripting.Engine
	Team       []*rpg.Character
	Inventory  *rpg.Inventory
	Difficulty *config.DifficultyManager

	width, height int
	scriptDir     string
	current       *rpg.Map
	pending       *travel
	wins          int
	flags         map[string]bool

	notice     string
	noticeLeft time.Duration
}

// travel is a map change waiting for the end of the current update.
type travel struct {
	dest string
	x, y int
}

// Option configures an Adventure.
type Option func(*Adventure)

// WithStore sets the save database. The caller keeps ownership of it.
func WithStore(s *storage.Store) Option {
	return func(a *Adventure) { a.Store = s }
}

// WithLogger sets the logger.
func WithLogger(l *log.Logger) Option {
	return func(a *Adventure) {
		if l != nil {
			a.Log = l
		}
	}
}

// WithDice sets the random source.
func WithDice(d *rpg.Dice) Option {
	return func(a *Adventure) { a.Dice = d }
}

// WithScriptDir makes map scripts load from dir before the embedded ones.
func WithScriptDir(dir string) Option {
	return func(a *Adventure) { a.scriptDir = dir }
}

// New creates a game with a fresh team. Call Start to show the splash
// screen.
func New(cfg config.Config, opts ...Option) *Adventure {
	a := &Adventure{
		Config:     cfg,
		Log:        log.New(io.Discard),
		Difficulty: config.NewDifficultyManager(cfg.Difficulty),
		width:      cfg.Engine.Width,
		height:     cfg.Engine.Height,
		flags:      make(map[string]bool),
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.Dice == nil {
		if cfg.Engine.Seed != 0 {
			a.Dice = rpg.NewDice(rpg.SeededRoller(cfg.Engine.Seed))
		} else {
			a.Dice = rpg.NewDice(nil)
		}
	}
	if a.Scripts == nil {
		a.Scripts = scripting.NewEngine(a.scriptDir, a.Log)
	}
	a.Machine = game.New(
		game.WithCapacity(cfg.Engine.StateCapacity),
		game.WithLogger(a.Log),
		game.WithPanicState(func(err error) game.State { return newPanicState(a, err) }),
	)
	a.reset()
	return a
}

func (a *Adventure) reset() {
	a.Team = []*rpg.Character{NewAdventurer()}
	a.Inventory = rpg.NewInventory()
	a.Inventory.Push(Potion, 5)
	a.Inventory.Push(Ether, 2)
	a.wins = 0
	clear(a.flags)
}

// Start shows the splash screen.
func (a *Adventure) Start() {
	a.Machine.Switch(newSplashState(a), true)
}

// Frame runs one frame of the game.
func (a *Adventure) Frame(events []core.Event, dt time.Duration, scr *core.Screen) error {
	return a.Machine.Frame(events, dt, scr)
}

// Running reports whether the player has not quit yet.
func (a *Adventure) Running() bool { return a.Machine.Running() }

// Resize sets the size used by the next battles.
func (a *Adventure) Resize(w, h int) {
	if w > 0 && h > 0 {
		a.width, a.height = w, h
	}
}

// Size returns the screen size the game lays itself out for.
func (a *Adventure) Size() (w, h int) { return a.width, a.height }

// Wins returns the number of battles won since the game started.
func (a *Adventure) Wins() int { return a.wins }

// Map returns the last map the player entered, nil before the first one.
func (a *Adventure) Map() *rpg.Map { return a.current }

// Close stops the game and releases the scripting engine. The store is
// left to its owner.
func (a *Adventure) Close() {
	if a.Machine.Running() {
		a.Machine.Quit()
	}
	a.Scripts.Close()
}

// NewGame resets the team and enters the first map.
func (a *Adventure) NewGame() error {
	a.reset()
	a.Log.Info("new game")
	return a.Enter(StartMap, -1, -1)
}

// Enter loads the map name and makes it the only state. A negative x
// keeps the start position of the map.
func (a *Adventure) Enter(name string, x, y int) error {
	m, err := a.LoadMap(name)
	if err != nil {
		return err
	}
	if x >= 0 && y >= 0 {
		m.Place(x, y)
	}
	a.Log.Debug("enter map", "map", name, "x", m.PlayerX, "y", m.PlayerY)
	a.Machine.Switch(newMapState(a, m), true)
	return nil
}

// Teleport moves the player to another map. The change happens once the
// current map is done updating, so it is safe to call from a map object.
func (a *Adventure) Teleport(dest string, x, y int) {
	a.pending = &travel{dest: dest, x: x, y: y}
}

func (a *Adventure) travel() error {
	t := a.pending
	a.pending = nil
	defer a.Machine.Allow(game.InhibitInput)
	if err := a.Enter(t.dest, t.x, t.y); err != nil {
		return fmt.Errorf("adventure: teleport to %s: %w", t.dest, err)
	}
	return nil
}

// Fight starts a battle against enemies above the current state. The
// state below resumes once the battle is won.
func (a *Adventure) Fight(enemies ...*rpg.Character) error {
	return a.Machine.Push(newBattleState(a, a.battle(enemies), a.afterFight))
}

// QuickBattle plays a single battle against n black cats and quits.
func (a *Adventure) QuickBattle(n int) {
	a.Machine.Switch(newBattleState(a, a.battle(a.blackCats(n)), func(rpg.Status) error {
		a.Machine.Quit()
		return nil
	}), true)
}

func (a *Adventure) battle(enemies []*rpg.Character) *rpg.Battle {
	return rpg.NewBattle(a.Team, enemies,
		rpg.WithDice(a.Dice),
		rpg.WithBalance(a.Config.Balance()),
		rpg.WithInventory(a.Inventory),
		rpg.WithLogger(a.Log),
		rpg.WithSize(a.width, a.height),
	)
}

func (a *Adventure) afterFight(status rpg.Status) error {
	if status == rpg.StatusWon {
		a.wins++
		return a.Machine.Pop()
	}
	for _, ch := range a.Team {
		ch.Reset()
		ch.HP, ch.MP = ch.MaxHP(), ch.MaxMP()
	}
	a.Machine.Switch(newMainMenuState(a, -1), true)
	return nil
}

// Notify shows text at the bottom of the map for a moment.
func (a *Adventure) Notify(text string) {
	a.notice = text
	a.noticeLeft = noticeLifespan
}

// Flag reports whether the named event already happened, such as a chest
// being opened.
func (a *Adventure) Flag(key string) bool {
	return a.flags[key]
}

// SetFlag records that the named event happened.
func (a *Adventure) SetFlag(key string) {
	a.flags[key] = true
}

// HasSave reports whether a game can be continued.
func (a *Adventure) HasSave() bool {
	if a.Store == nil {
		return false
	}
	_, err := a.Store.GetProperty(propMap)
	return err == nil
}

// Saved properties.
const (
	propMap       = "map"
	propX         = "x"
	propY         = "y"
	propWins      = "wins"
	propInventory = "inventory"
	propFlags     = "flags"
)

// Save writes the team, the inventory and the player position.
func (a *Adventure) Save() error {
	if a.Store == nil {
		return ErrNoStore
	}
	for i, ch := range a.Team {
		rec := storage.CharacterRecord{
			Name:      ch.Name,
			Level:     ch.Level,
			TeamOrder: i,
			HP:        ch.HP,
			MP:        ch.MP,
			HPBonus:   ch.HPBonus,
			MPBonus:   ch.MPBonus,
			AtkBonus:  ch.AtkBonus,
			DefBonus:  ch.DefBonus,
			AgtBonus:  ch.AgtBonus,
			LuckBonus: ch.LuckBonus,
		}
		if err := a.Store.SaveCharacter(rec); err != nil {
			return fmt.Errorf("adventure: save: %w", err)
		}
	}

	props := map[string]string{
		propWins:      strconv.Itoa(a.wins),
		propInventory: a.encodeInventory(),
		propFlags:     a.encodeFlags(),
	}
	if m := a.current; m != nil {
		props[propMap] = m.Name
		props[propX] = strconv.Itoa(m.PlayerX)
		props[propY] = strconv.Itoa(m.PlayerY)
	}
	for k, v := range props {
		if err := a.Store.SetProperty(k, v); err != nil {
			return fmt.Errorf("adventure: save: %w", err)
		}
	}
	a.Log.Info("game saved", "db", a.Store.Path())
	return nil
}

// Load restores the saved game and enters the saved map.
func (a *Adventure) Load() error {
	if a.Store == nil {
		return ErrNoStore
	}
	props, err := a.Store.Properties()
	if err != nil {
		return fmt.Errorf("adventure: load: %w", err)
	}
	name, ok := props[propMap]
	if !ok {
		return ErrNoSave
	}

	a.reset()
	for _, ch := range a.Team {
		rec, err := a.Store.LoadCharacter(ch.Name)
		if errors.Is(err, storage.ErrNotFound) {
			continue
		}
		if err != nil {
			return fmt.Errorf("adventure: load: %w", err)
		}
		ch.Level = rec.Level
		ch.HPBonus, ch.MPBonus = rec.HPBonus, rec.MPBonus
		ch.AtkBonus, ch.DefBonus = rec.AtkBonus, rec.DefBonus
		ch.AgtBonus, ch.LuckBonus = rec.AgtBonus, rec.LuckBonus
		ch.HP, ch.MP = rec.HP, rec.MP
		ch.Reset()
	}

	a.wins, _ = strconv.Atoi(props[propWins])
	if inv, ok := props[propInventory]; ok {
		a.decodeInventory(inv)
	}
	a.decodeFlags(props[propFlags])

	x, errX := strconv.Atoi(props[propX])
	y, errY := strconv.Atoi(props[propY])
	if errX != nil || errY != nil {
		x, y = -1, -1
	}
	a.Log.Info("game loaded", "map", name, "wins", a.wins)
	return a.Enter(name, x, y)
}

// encodeInventory writes the inventory as "name:count" pairs.
func (a *Adventure) encodeInventory() string {
	var parts []string
	for _, name := range ItemNames() {
		it, _ := ItemByName(name)
		if n := a.Inventory.Count(it); n > 0 {
			parts = append(parts, name+":"+strconv.Itoa(n))
		}
	}
	return strings.Join(parts, ",")
}

// decodeInventory replaces the inventory. An empty string is an empty bag.
func (a *Adventure) decodeInventory(s string) {
	a.Inventory = rpg.NewInventory()
	if s == "" {
		return
	}
	for _, part := range strings.Split(s, ",") {
		name, count, _ := strings.Cut(part, ":")
		it, ok := ItemByName(name)
		n, err := strconv.Atoi(count)
		if !ok || err != nil {
			a.Log.Warn("unknown saved item", "item", part)
			continue
		}
		a.Inventory.Push(it, n)
	}
}

func (a *Adventure) encodeFlags() string {
	keys := make([]string, 0, len(a.flags))
	for k := range a.flags {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return strings.Join(keys, ",")
}

func (a *Adventure) decodeFlags(s string) {
	for _, k := range strings.Split(s, ",") {
		if k != "" {
			a.flags[k] = true
		}
	}
}
