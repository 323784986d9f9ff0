package adventure

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/vovakirdan/tui-rpg/internal/config"
	"github.com/vovakirdan/tui-rpg/internal/core"
	"github.com/vovakirdan/tui-rpg/internal/game"
	"github.com/vovakirdan/tui-rpg/internal/registry"
	"github.com/vovakirdan/tui-rpg/internal/rpg"
	"github.com/vovakirdan/tui-rpg/internal/scripting"
	"github.com/vovakirdan/tui-rpg/internal/storage"
)

// fixedRoller always rolls the same face, capped to the die size.
type fixedRoller struct {
	face int
}

func (r fixedRoller) Roll(size int) (int, error) {
	return min(r.face, size), nil
}

func (r fixedRoller) RollN(count, size int) ([]int, error) {
	out := make([]int, count)
	for i := range out {
		out[i], _ = r.Roll(size)
	}
	return out, nil
}

func newTestAdventure(t *testing.T, opts ...Option) *Adventure {
	t.Helper()
	opts = append([]Option{WithDice(rpg.NewDice(fixedRoller{face: 1}))}, opts...)
	a := New(config.Default(), opts...)
	t.Cleanup(a.Close)
	return a
}

func openStore(t *testing.T) *storage.Store {
	t.Helper()
	store, err := storage.Open(filepath.Join(t.TempDir(), "save.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func press(a *Adventure, keys ...core.Key) {
	for _, k := range keys {
		a.Machine.Handle(core.Press(k))
	}
}

func TestTeleportTiming(t *testing.T) {
	m := rpg.NewMap("room", "", []string{"....", "...."}, 4)
	calls := 0
	tp := &Teleport{
		Region: registry.Object{X: 2, Y: 0, W: 1, H: 2},
		Step:   5,
		Delay:  10 * time.Millisecond,
		Travel: func() { calls++ },
	}
	if err := m.Add(tp); err != nil {
		t.Fatalf("Add: %v", err)
	}

	m.Move(1, 0)
	if tp.Active() {
		t.Fatal("teleport active before entering its region")
	}
	m.Move(1, 0)
	if !tp.Active() || !m.Frozen {
		t.Fatalf("active=%v frozen=%v after entering the region", tp.Active(), m.Frozen)
	}
	if m.Move(1, 0) {
		t.Fatal("player moved while frozen")
	}

	for i := 1; i <= 51; i++ {
		if tp.Update(10 * time.Millisecond) {
			t.Fatalf("completed after %d ticks", i)
		}
	}
	if tp.Alpha() != 255 || calls != 0 {
		t.Fatalf("alpha=%d calls=%d after 51 ticks, expected 255 and 0", tp.Alpha(), calls)
	}
	if !tp.Update(10 * time.Millisecond) {
		t.Fatal("not completed on the 52nd tick")
	}
	if calls != 1 {
		t.Fatalf("Travel called %d times, expected 1", calls)
	}
}

func TestTeleportTravel(t *testing.T) {
	a := newTestAdventure(t)
	if err := a.Enter("village", 38, 5); err != nil {
		t.Fatalf("Enter: %v", err)
	}
	scr := core.NewScreen(80, 24)

	if err := a.Frame([]core.Event{core.Press(core.KeyRight)}, 10*time.Millisecond, scr); err != nil {
		t.Fatalf("Frame: %v", err)
	}
	if !a.Machine.Inhibited(game.InhibitInput) {
		t.Fatal("input not inhibited during the teleport")
	}

	for i := 0; i < 100 && a.Map().Name != "forest"; i++ {
		if err := a.Frame(nil, 10*time.Millisecond, scr); err != nil {
			t.Fatalf("Frame: %v", err)
		}
	}
	m := a.Map()
	if m.Name != "forest" {
		t.Fatalf("still on %s", m.Name)
	}
	if m.PlayerX != 1 || m.PlayerY != 6 {
		t.Fatalf("player at (%d, %d), expected (1, 6)", m.PlayerX, m.PlayerY)
	}
	if a.Machine.Inhibited(game.InhibitInput) {
		t.Fatal("input still inhibited after the teleport")
	}
	if a.Machine.Depth() != 1 {
		t.Fatalf("Depth() = %d, expected 1", a.Machine.Depth())
	}
}

func TestSpawner(t *testing.T) {
	m := rpg.NewMap("field", "", []string{"......"}, 4)
	fights := 0
	sp := NewSpawner(3, 3, rpg.NewDice(fixedRoller{face: 1}), m.Steps(), func() { fights++ })
	if err := m.Add(sp); err != nil {
		t.Fatalf("Add: %v", err)
	}

	m.Move(1, 0)
	m.Move(1, 0)
	if fights != 0 || sp.Left() != 1 {
		t.Fatalf("fights=%d left=%d after 2 steps", fights, sp.Left())
	}
	m.Move(1, 0)
	if fights != 1 {
		t.Fatalf("fights = %d after 3 steps, expected 1", fights)
	}
	if sp.Left() != 3 {
		t.Fatalf("Left() = %d after the fight, expected a new roll of 3", sp.Left())
	}
	m.Move(0, 1)
	if sp.Left() != 3 {
		t.Fatal("a blocked move counted as a step")
	}
}

func TestTeleportBeatsSpawner(t *testing.T) {
	m := rpg.NewMap("field", "", []string{"......"}, 4)
	fights := 0
	sp := NewSpawner(1, 1, rpg.NewDice(fixedRoller{face: 1}), m.Steps(), func() { fights++ })
	tp := &Teleport{
		Region: registry.Object{X: 1, Y: 0, W: 1, H: 1},
		Step:   5,
		Travel: func() {},
	}
	if err := m.Add(sp); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := m.Add(tp); err != nil {
		t.Fatalf("Add: %v", err)
	}

	m.Move(1, 0)
	if !tp.Active() {
		t.Fatal("teleport not active after entering its region")
	}
	if fights != 0 {
		t.Fatalf("fights = %d on the teleport step, expected 0", fights)
	}
}

func TestSpawnerStartsFight(t *testing.T) {
	a := newTestAdventure(t)
	if err := a.Enter("forest", 1, 6); err != nil {
		t.Fatalf("Enter: %v", err)
	}
	for range 7 {
		press(a, core.KeyRight)
	}
	if a.Machine.Depth() != 1 {
		t.Fatalf("fight started after 7 steps")
	}
	press(a, core.KeyRight)

	if a.Machine.Depth() != 2 {
		t.Fatalf("Depth() = %d after 8 steps, expected a battle on top", a.Machine.Depth())
	}
	if _, ok := a.Machine.Current().(*battleState); !ok {
		t.Fatalf("current state is %T, expected a battle", a.Machine.Current())
	}
}

func TestLoadActionErrors(t *testing.T) {
	a := newTestAdventure(t)
	m := rpg.NewMap("room", "", []string{"...."}, 4)
	t.Cleanup(m.Finish)

	tests := []struct {
		value string
		want  error
	}{
		{"door|north", ErrUnknownAction},
		{"teleport|forest|x|1", ErrBadArgs},
		{"teleport|forest", ErrBadArgs},
		{"spawner|5|2", ErrBadArgs},
		{"spawner|0|2", ErrBadArgs},
		{"chest|a|elixir|1", ErrBadArgs},
		{"script|", ErrBadArgs},
		{"script|missing", scripting.ErrScriptNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			_, err := a.LoadAction(m, 0, 0, 1, 1, tt.value)
			if !errors.Is(err, tt.want) {
				t.Fatalf("LoadAction(%q) = %v, expected %v", tt.value, err, tt.want)
			}
		})
	}
}

func TestLoadAction(t *testing.T) {
	a := newTestAdventure(t)
	m := rpg.NewMap("room", "", []string{"...."}, 4)
	t.Cleanup(m.Finish)

	tests := []struct {
		value string
		check func(any) bool
	}{
		{"teleport|forest|1|6", func(v any) bool { _, ok := v.(*Teleport); return ok }},
		{"spawner|2|4", func(v any) bool { _, ok := v.(*Spawner); return ok }},
		{"chest|box|potion|2", func(v any) bool { c, ok := v.(*Chest); return ok && c.Amount == 2 && c.Item == Potion }},
	}
	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			act, err := a.LoadAction(m, 1, 0, 1, 1, tt.value)
			if err != nil {
				t.Fatalf("LoadAction: %v", err)
			}
			if !tt.check(act) {
				t.Fatalf("LoadAction(%q) returned %T", tt.value, act)
			}
		})
	}
}

func TestShippedMaps(t *testing.T) {
	a := newTestAdventure(t)
	names := MapNames()
	if len(names) < 2 {
		t.Fatalf("MapNames() = %v", names)
	}
	for _, name := range names {
		m, err := a.LoadMap(name)
		if err != nil {
			t.Fatalf("LoadMap(%s): %v", name, err)
		}
		if m.Actions.Len() == 0 {
			t.Errorf("map %s has no objects", name)
		}
		m.Finish()
	}
	if _, err := a.LoadMap("nowhere"); !errors.Is(err, ErrMapNotFound) {
		t.Fatalf("LoadMap(nowhere) = %v, expected ErrMapNotFound", err)
	}
}

func TestParseMapErrors(t *testing.T) {
	a := newTestAdventure(t)
	tests := []struct {
		name string
		data string
	}{
		{"no tiles", "title: x\n"},
		{"start in wall", "tiles: |\n  ###\n  #.#\nstart: {x: 0, y: 0}\n"},
		{"bad object", "tiles: |\n  ...\nobjects:\n  - {x: 0, y: 0, value: \"ghost\"}\n"},
		{"bad yaml", "tiles: [\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := a.ParseMap("test", []byte(tt.data)); err == nil {
				t.Fatal("expected an error")
			}
		})
	}
}

func TestMenuStartsNewGame(t *testing.T) {
	a := newTestAdventure(t)
	a.Start()
	if _, ok := a.Machine.Current().(*splashState); !ok {
		t.Fatalf("current state is %T, expected the splash", a.Machine.Current())
	}

	if err := a.Machine.Update(splashDelay); err != nil {
		t.Fatalf("Update: %v", err)
	}
	menu, ok := a.Machine.Current().(*mainMenuState)
	if !ok {
		t.Fatalf("current state is %T, expected the main menu", a.Machine.Current())
	}

	// Input is ignored while the title slides up.
	press(a, core.KeyDown)
	if menu.selected != 0 {
		t.Fatal("menu moved before the title settled")
	}
	if err := a.Machine.Update(time.Second); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if !menu.waiting() {
		t.Fatalf("title at row %d, expected %d", menu.y, menu.destination())
	}

	press(a, core.KeyEnter)
	if _, ok := a.Machine.Current().(*mapState); !ok {
		t.Fatalf("current state is %T, expected the map", a.Machine.Current())
	}
	if a.Map().Name != StartMap {
		t.Fatalf("entered %s, expected %s", a.Map().Name, StartMap)
	}
}

func TestSaveLoad(t *testing.T) {
	store := openStore(t)
	a := newTestAdventure(t, WithStore(store))
	if a.HasSave() {
		t.Fatal("HasSave() on an empty database")
	}
	if err := a.NewGame(); err != nil {
		t.Fatalf("NewGame: %v", err)
	}
	a.Map().Place(5, 4)
	a.Team[0].HP = 30
	a.Team[0].AtkBonus = 4
	a.Inventory.Consume(Potion, 2)
	a.SetFlag("chest.village.well")
	a.wins = 3
	if err := a.Save(); err != nil {
		t.Fatalf("Save: %v", err)
	}

	b := newTestAdventure(t, WithStore(store))
	if !b.HasSave() {
		t.Fatal("HasSave() = false after Save")
	}
	if err := b.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}
	m := b.Map()
	if m == nil || m.Name != "village" || m.PlayerX != 5 || m.PlayerY != 4 {
		t.Fatalf("loaded map %+v", m)
	}
	hero := b.Team[0]
	if hero.HP != 30 || hero.AtkBonus != 4 {
		t.Fatalf("hero hp=%d atk bonus=%d, expected 30 and 4", hero.HP, hero.AtkBonus)
	}
	if n := b.Inventory.Count(Potion); n != 3 {
		t.Fatalf("%d potions, expected 3", n)
	}
	if n := b.Inventory.Count(Ether); n != 2 {
		t.Fatalf("%d ethers, expected 2", n)
	}
	if !b.Flag("chest.village.well") || b.Wins() != 3 {
		t.Fatalf("flag=%v wins=%d", b.Flag("chest.village.well"), b.Wins())
	}
}

func TestSaveLoadEmptyInventory(t *testing.T) {
	store := openStore(t)
	a := newTestAdventure(t, WithStore(store))
	if err := a.NewGame(); err != nil {
		t.Fatalf("NewGame: %v", err)
	}
	for _, it := range []*rpg.Item{Potion, Ether} {
		a.Inventory.Consume(it, a.Inventory.Count(it))
	}
	if err := a.Save(); err != nil {
		t.Fatalf("Save: %v", err)
	}

	b := newTestAdventure(t, WithStore(store))
	if err := b.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}
	for _, it := range []*rpg.Item{Potion, Ether} {
		if n := b.Inventory.Count(it); n != 0 {
			t.Errorf("%d %s after load, expected 0", n, it.Name)
		}
	}
}

func TestLoadWithoutSave(t *testing.T) {
	if err := newTestAdventure(t).Load(); !errors.Is(err, ErrNoStore) {
		t.Fatalf("Load() without store = %v, expected ErrNoStore", err)
	}
	if err := newTestAdventure(t, WithStore(openStore(t))).Load(); !errors.Is(err, ErrNoSave) {
		t.Fatalf("Load() on empty database = %v, expected ErrNoSave", err)
	}
}

func TestChestOpens(t *testing.T) {
	a := newTestAdventure(t)
	if err := a.Enter("village", 19, 3); err != nil {
		t.Fatalf("Enter: %v", err)
	}
	chest := findChest(t, a.Map())

	press(a, core.KeyEnter)
	for range 10 {
		if err := a.Machine.Update(50 * time.Millisecond); err != nil {
			t.Fatalf("Update: %v", err)
		}
	}
	if !chest.IsOpen() {
		t.Fatal("chest not open")
	}
	if n := a.Inventory.Count(Potion); n != 8 {
		t.Fatalf("%d potions, expected 8", n)
	}

	// A second visit finds it empty.
	if err := a.Enter("village", 19, 3); err != nil {
		t.Fatalf("Enter: %v", err)
	}
	if !findChest(t, a.Map()).IsOpen() {
		t.Fatal("chest closed again after re-entering the map")
	}
}

func findChest(t *testing.T, m *rpg.Map) *Chest {
	t.Helper()
	for _, act := range m.Actions.Actions() {
		if c, ok := act.(*Chest); ok && c.X == 20 && c.Y == 3 {
			return c
		}
	}
	t.Fatal("chest not found")
	return nil
}

func TestTeamMenuUsesPotion(t *testing.T) {
	a := newTestAdventure(t)
	if err := a.NewGame(); err != nil {
		t.Fatalf("NewGame: %v", err)
	}
	a.Team[0].HP = 20

	press(a, core.KeyEscape)
	if _, ok := a.Machine.Current().(*teamMenuState); !ok {
		t.Fatalf("current state is %T, expected the team menu", a.Machine.Current())
	}
	press(a, core.KeyEnter)
	if a.Team[0].HP != 120 {
		t.Fatalf("hp = %d, expected 120", a.Team[0].HP)
	}
	if n := a.Inventory.Count(Potion); n != 4 {
		t.Fatalf("%d potions, expected 4", n)
	}
	press(a, core.KeyEscape)
	if _, ok := a.Machine.Current().(*mapState); !ok {
		t.Fatalf("current state is %T after escape", a.Machine.Current())
	}
}

func TestPanicStateWritesReport(t *testing.T) {
	store := openStore(t)
	a := newTestAdventure(t, WithStore(store))
	if err := a.NewGame(); err != nil {
		t.Fatalf("NewGame: %v", err)
	}
	if err := a.Machine.Fail(errors.New("boom")); err != nil {
		t.Fatalf("Fail: %v", err)
	}
	if _, ok := a.Machine.Current().(*panicState); !ok {
		t.Fatalf("current state is %T, expected the panic screen", a.Machine.Current())
	}

	scr := core.NewScreen(80, 24)
	a.Machine.Draw(scr)
	if !strings.Contains(scr.String(), "boom") {
		t.Fatal("error not shown")
	}

	press(a, core.KeySave)
	if a.Running() {
		t.Fatal("still running after saving the report")
	}
	data, err := os.ReadFile(a.ReportPath())
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	for _, want := range []string{"boom", "name:    village", "Adventurer"} {
		if !strings.Contains(string(data), want) {
			t.Errorf("report misses %q:\n%s", want, data)
		}
	}
}
