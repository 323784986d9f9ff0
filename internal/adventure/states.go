package adventure

import (
	"fmt"
	"time"

	"github.com/vovakirdan/tui-rpg/internal/core"
	"github.com/vovakirdan/tui-rpg/internal/game"
	"github.com/vovakirdan/tui-rpg/internal/rpg"
	"github.com/vovakirdan/tui-rpg/internal/storage"
)

const (
	splashDelay = 3 * time.Second
	titleStep   = 80 * time.Millisecond
)

// splashState shows the title for a few seconds.
type splashState struct {
	game.BaseState
	a       *Adventure
	elapsed time.Duration
}

func newSplashState(a *Adventure) *splashState {
	return &splashState{a: a}
}

func titleRow(h int) int { return h/2 - 2 }

func (s *splashState) next() {
	_, h := s.a.Size()
	s.a.Machine.Switch(newMainMenuState(s.a, titleRow(h)), false)
}

func (s *splashState) Handle(ev core.Event) {
	if ev.Pressed(core.KeyEnter) {
		s.next()
	}
}

func (s *splashState) Update(dt time.Duration) error {
	s.elapsed += dt
	if s.elapsed >= splashDelay {
		s.next()
	}
	return nil
}

func (s *splashState) Draw(scr *core.Screen) {
	scr.DrawTextCentered(titleRow(scr.Height()), Title, core.ColorHighlight)
}

var menuEntries = []string{"New game", "Continue", "Quit"}

// mainMenuState slides the title up then offers to start or continue.
type mainMenuState struct {
	game.BaseState
	a        *Adventure
	y        int
	selected int
	elapsed  time.Duration
	err      error
}

// newMainMenuState starts the title at row y, or directly at its final
// place when y is negative.
func newMainMenuState(a *Adventure, y int) *mainMenuState {
	s := &mainMenuState{a: a, y: y}
	if y < 0 {
		s.y = s.destination()
	}
	return s
}

func (s *mainMenuState) destination() int {
	_, h := s.a.Size()
	return h / 4
}

func (s *mainMenuState) waiting() bool { return s.y <= s.destination() }

func (s *mainMenuState) Handle(ev core.Event) {
	if !s.waiting() || ev.Type != core.EventKeyDown {
		return
	}
	n := len(menuEntries)
	switch ev.Key {
	case core.KeyUp:
		s.selected = (s.selected - 1 + n) % n
	case core.KeyDown:
		s.selected = (s.selected + 1) % n
	case core.KeyQuit:
		s.a.Machine.Quit()
	case core.KeyEnter:
		s.perform()
	}
}

func (s *mainMenuState) perform() {
	switch s.selected {
	case 0:
		s.err = s.a.NewGame()
	case 1:
		if !s.a.HasSave() {
			return
		}
		s.err = s.a.Load()
	case 2:
		s.a.Machine.Quit()
	}
}

func (s *mainMenuState) Update(dt time.Duration) error {
	if s.err != nil {
		return fmt.Errorf("adventure: main menu: %w", s.err)
	}
	if s.waiting() {
		return nil
	}
	s.elapsed += dt
	for s.elapsed >= titleStep && !s.waiting() {
		s.elapsed -= titleStep
		s.y--
	}
	return nil
}

func (s *mainMenuState) Draw(scr *core.Screen) {
	scr.DrawTextCentered(s.y, Title, core.ColorHighlight)
	if !s.waiting() {
		return
	}

	top := scr.Height() * 3 / 4
	for i, label := range menuEntries {
		c := core.ColorDefault
		switch {
		case i == 1 && !s.a.HasSave():
			c = core.ColorGray
		case i == s.selected:
			c = core.ColorHighlight
		}
		if i == s.selected {
			label = "▸ " + label
		}
		scr.DrawTextCentered(top+i, label, c)
	}
}

// mapState lets the player walk a map.
type mapState struct {
	game.BaseState
	a *Adventure
	m *rpg.Map
}

func newMapState(a *Adventure, m *rpg.Map) *mapState {
	return &mapState{a: a, m: m}
}

func (s *mapState) Start() {
	s.a.current = s.m
}

func (s *mapState) Resume() {
	s.a.current = s.m
}

func (s *mapState) Handle(ev core.Event) {
	if ev.Type != core.EventKeyDown {
		return
	}
	switch ev.Key {
	case core.KeyEscape:
		if err := s.a.Machine.Push(newTeamMenuState(s.a, s.m)); err != nil {
			s.a.Log.Warn("team menu refused", "err", err)
		}
	case core.KeyQuit:
		s.a.Machine.Switch(newMainMenuState(s.a, -1), true)
	case core.KeySave:
		if err := s.a.Save(); err != nil {
			s.a.Log.Warn("save failed", "err", err)
			s.a.Notify("Could not save the game")
			return
		}
		s.a.Notify("Game saved")
	default:
		s.m.Handle(ev)
	}
}

func (s *mapState) Update(dt time.Duration) error {
	s.m.Update(dt)
	if s.a.pending != nil {
		return s.a.travel()
	}
	if s.a.noticeLeft > 0 {
		s.a.noticeLeft -= dt
	}
	return nil
}

func (s *mapState) Draw(scr *core.Screen) {
	s.m.Draw(scr)
	if s.a.noticeLeft > 0 && s.a.notice != "" {
		scr.DrawTextCentered(scr.Height()-1, " "+s.a.notice+" ", core.ColorHighlight)
	}
}

// Finish releases the map objects. The map stays the last known one for
// the crash report.
func (s *mapState) Finish() {
	s.m.Finish()
}

// teamMenuState shows the team over the map and lets the player use items
// and spells outside of battle.
type teamMenuState struct {
	game.BaseState
	a        *Adventure
	m        *rpg.Map
	member   int
	selected int
}

// menuEntry is an item or a spell usable from the team menu.
type menuEntry struct {
	label string
	item  *rpg.Item
	spell *rpg.Spell
}

func newTeamMenuState(a *Adventure, m *rpg.Map) *teamMenuState {
	return &teamMenuState{a: a, m: m}
}

func (s *teamMenuState) entries() []menuEntry {
	var out []menuEntry
	for _, it := range s.a.Inventory.Items() {
		if it.UsableInMenu() {
			out = append(out, menuEntry{
				label: fmt.Sprintf("%-12s x%d", it.Name, s.a.Inventory.Count(it)),
				item:  it,
			})
		}
	}
	if ch := s.character(); ch != nil {
		for _, sp := range ch.Spells {
			if sp.UseFunc != nil {
				out = append(out, menuEntry{
					label: fmt.Sprintf("%-12s %2d MP", sp.Name, sp.MP),
					spell: sp,
				})
			}
		}
	}
	return out
}

func (s *teamMenuState) character() *rpg.Character {
	if s.member < 0 || s.member >= len(s.a.Team) {
		return nil
	}
	return s.a.Team[s.member]
}

func (s *teamMenuState) Handle(ev core.Event) {
	if ev.Type != core.EventKeyDown {
		return
	}
	entries := s.entries()
	switch ev.Key {
	case core.KeyEscape:
		if err := s.a.Machine.Pop(); err != nil {
			s.a.Log.Warn("team menu pop", "err", err)
		}
	case core.KeyUp:
		if n := len(entries); n > 0 {
			s.selected = (s.selected - 1 + n) % n
		}
	case core.KeyDown:
		if n := len(entries); n > 0 {
			s.selected = (s.selected + 1) % n
		}
	case core.KeyLeft, core.KeyRight:
		if n := len(s.a.Team); n > 0 {
			s.member = (s.member + 1) % n
		}
	case core.KeyEnter:
		if s.selected < len(entries) {
			s.use(entries[s.selected])
		}
	}
}

func (s *teamMenuState) use(e menuEntry) {
	ch := s.character()
	if ch == nil {
		return
	}
	switch {
	case e.item != nil:
		if s.a.Inventory.Consume(e.item, 1) {
			e.item.ExecMenu(ch)
		}
		if n := len(s.entries()); s.selected >= n {
			s.selected = max(n-1, 0)
		}
	case e.spell != nil:
		if !ch.Spend(e.spell.MP) {
			return
		}
		slt := rpg.Selection{
			Kind:           rpg.SelectSelf,
			Sides:          rpg.SideMaskTeam,
			IndexSide:      rpg.SideTeam,
			IndexCharacter: s.member,
		}
		e.spell.Use(ch, &slt)
	}
}

func (s *teamMenuState) Draw(scr *core.Screen) {
	s.m.Draw(scr)

	r := core.NewRect(2, 1, scr.Width()-4, scr.Height()-2)
	scr.DrawFrame(r, core.ColorFrame)
	scr.DrawTextColor(r.X+2, r.Y, " Team ", core.ColorWhite)

	for i, ch := range s.a.Team {
		c := core.ColorDefault
		if i == s.member {
			c = core.ColorHighlight
		}
		line := fmt.Sprintf("%-10s Lv %-2d HP %4d/%-4d MP %3d/%-3d", ch.Name, ch.Level, ch.HP, ch.MaxHP(), ch.MP, ch.MaxMP())
		scr.DrawTextColor(r.X+2, r.Y+2+i, line, c)
	}

	y := r.Y + 3 + len(s.a.Team)
	for i, e := range s.entries() {
		c := core.ColorDefault
		cursor := "  "
		if i == s.selected {
			c, cursor = core.ColorHighlight, "▸ "
		}
		if e.spell != nil && !e.spell.Castable(s.character()) {
			c = core.ColorGray
		}
		scr.DrawTextColor(r.X+2, y+i, cursor+e.label, c)
	}
	scr.DrawTextColor(r.X+2, r.Bottom()-2, fmt.Sprintf("Battles won: %d", s.a.wins), core.ColorGray)
}

// battleState runs a battle and hands its outcome to after.
type battleState struct {
	game.BaseState
	a       *Adventure
	bt      *rpg.Battle
	after   func(rpg.Status) error
	elapsed time.Duration
	done    bool
}

func newBattleState(a *Adventure, bt *rpg.Battle, after func(rpg.Status) error) *battleState {
	return &battleState{a: a, bt: bt, after: after}
}

func (s *battleState) Start() {
	s.bt.Start()
}

func (s *battleState) Handle(ev core.Event) {
	s.bt.Handle(ev)
}

func (s *battleState) Update(dt time.Duration) error {
	s.elapsed += dt
	if !s.bt.Update(dt) {
		return nil
	}
	s.done = true
	status := s.bt.Status()
	outcome := storage.OutcomeLost
	if status == rpg.StatusWon {
		outcome = storage.OutcomeWon
	}
	s.record(outcome)
	return s.after(status)
}

func (s *battleState) Draw(scr *core.Screen) {
	s.bt.Draw(scr)
}

func (s *battleState) Finish() {
	if !s.done {
		s.done = true
		s.record(storage.OutcomeQuit)
	}
	s.bt.Finish()
}

func (s *battleState) record(outcome string) {
	s.a.Log.Info("battle over", "outcome", outcome, "enemies", len(s.bt.Enemies), "duration", s.elapsed)
	if s.a.Store == nil {
		return
	}
	name := ""
	if m := s.a.current; m != nil {
		name = m.Name
	}
	_, err := s.a.Store.RecordBattle(storage.BattleRecord{
		Map:      name,
		Enemies:  len(s.bt.Enemies),
		Outcome:  outcome,
		Duration: s.elapsed,
	})
	if err != nil {
		s.a.Log.Warn("battle not recorded", "err", err)
	}
}

var (
	panicHeader = []string{
		"An unrecoverable error occurred and the game cannot continue.",
		"Please report the detailed error as provided below.",
	}
	panicBottom = []string{
		"Press <s> to save information and quit.",
		"Press <q> to quit without saving information.",
	}
)

const panicPadding = 2

// panicState shows a fatal error and offers to write a report.
type panicState struct {
	game.BaseState
	a   *Adventure
	err error
}

func newPanicState(a *Adventure, err error) *panicState {
	return &panicState{a: a, err: err}
}

func (s *panicState) Handle(ev core.Event) {
	if ev.Type != core.EventKeyDown {
		return
	}
	switch ev.Key {
	case core.KeySave:
		if path, err := s.a.SaveReport(s.err); err != nil {
			s.a.Log.Error("report not written", "err", err)
		} else {
			s.a.Log.Info("report written", "path", path)
		}
		s.a.Machine.Quit()
	case core.KeyQuit, core.KeyEscape:
		s.a.Machine.Quit()
	}
}

func (s *panicState) Draw(scr *core.Screen) {
	y := panicPadding
	for _, line := range panicHeader {
		scr.DrawTextColor(panicPadding, y, line, core.ColorWhite)
		y++
	}

	msg := "unknown error"
	if s.err != nil {
		msg = s.err.Error()
	}
	scr.DrawTextColor(panicPadding, y+panicPadding, msg, core.ColorRed)

	y = scr.Height() - panicPadding - len(panicBottom)
	for i, line := range panicBottom {
		scr.DrawTextColor(panicPadding, y+i, line, core.ColorGray)
	}
}
