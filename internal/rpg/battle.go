package rpg

import (
	"errors"
	"io"
	"slices"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-rpg/internal/action"
	"github.com/vovakirdan/tui-rpg/internal/core"
)

var (
	// ErrNoMP is returned when casting a spell without enough mp.
	ErrNoMP = errors.New("rpg: not enough mp")

	// ErrNoItem is returned when using an item missing from the inventory.
	ErrNoItem = errors.New("rpg: item not in inventory")
)

// Status is the outcome of a battle.
type Status int

const (
	StatusNone Status = iota
	StatusRunning
	StatusWon
	StatusLost
)

func (s Status) String() string {
	switch s {
	case StatusRunning:
		return "running"
	case StatusWon:
		return "won"
	case StatusLost:
		return "lost"
	default:
		return "none"
	}
}

// barHeight is the number of rows reserved for the battle bar.
const barHeight = 7

// Battle is a turn-based fight between the team and a group of enemies.
//
// Each side owns an action stack for its visual effects. Abilities never
// change stats directly: they queue an action on the acting side and the
// effect is applied when that action ends.
type Battle struct {
	Team      []*Entity
	Enemies   []*Entity
	Actions   [2]*action.Stack
	Effects   *action.DrawableStack
	Bar       Bar
	Inventory *Inventory
	Dice      *Dice
	Balance   Balance

	width, height int
	log           *log.Logger

	status Status
	state  battleState
	order  []*Entity
	turn   int
}

// BattleOption configures a Battle.
type BattleOption func(*Battle)

// WithDice sets the random source.
func WithDice(d *Dice) BattleOption {
	return func(bt *Battle) { bt.Dice = d }
}

// WithBalance sets the balance constants.
func WithBalance(b Balance) BattleOption {
	return func(bt *Battle) { bt.Balance = b }
}

// WithInventory sets the inventory items are taken from.
func WithInventory(iv *Inventory) BattleOption {
	return func(bt *Battle) { bt.Inventory = iv }
}

// WithBar sets the player interface.
func WithBar(b Bar) BattleOption {
	return func(bt *Battle) { bt.Bar = b }
}

// WithLogger sets the battle logger.
func WithLogger(l *log.Logger) BattleOption {
	return func(bt *Battle) {
		if l != nil {
			bt.log = l
		}
	}
}

// WithSize sets the size of the battle field in cells.
func WithSize(w, h int) BattleOption {
	return func(bt *Battle) { bt.width, bt.height = w, h }
}

// NewBattle prepares a battle between team and enemies. Call Start to begin.
func NewBattle(team, enemies []*Character, opts ...BattleOption) *Battle {
	bt := &Battle{
		Balance: DefaultBalance(),
		width:   80,
		height:  24,
		log:     log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(bt)
	}
	if bt.Dice == nil {
		bt.Dice = NewDice(nil)
	}
	if bt.Inventory == nil {
		bt.Inventory = NewInventory()
	}
	if bt.Bar == nil {
		bt.Bar = NewDefaultBar()
	}
	for i := range bt.Actions {
		bt.Actions[i] = action.NewStack(bt.Balance.ActionStackSize)
	}
	bt.Effects = action.NewDrawableStack(bt.Balance.EffectStackSize)

	for _, ch := range team {
		bt.Team = append(bt.Team, &Entity{Ch: ch})
	}
	for _, ch := range enemies {
		bt.Enemies = append(bt.Enemies, &Entity{Ch: ch})
	}
	return bt
}

// Start positions the fighters, computes the turn order and plays the
// opening.
func (bt *Battle) Start() {
	bt.layout()

	bt.order = bt.order[:0]
	bt.order = append(bt.order, bt.Team...)
	bt.order = append(bt.order, bt.Enemies...)
	slices.SortStableFunc(bt.order, func(a, b *Entity) int {
		return b.Ch.Agility() - a.Ch.Agility()
	})
	bt.turn = -1

	bt.status = StatusRunning
	bt.log.Debug("battle started", "team", len(bt.Team), "enemies", len(bt.Enemies))
	bt.setState(&openingState{})
}

func (bt *Battle) layout() {
	field := bt.height - barHeight
	place := func(side []*Entity, x int) {
		if len(side) == 0 {
			return
		}
		slot := core.Max(field/len(side), 1)
		for i, e := range side {
			w, h := e.Size()
			e.X = x - w/2
			e.Y = core.Max(i*slot+(slot-h-1)/2, 1)
		}
	}
	place(bt.Enemies, bt.width/4)
	place(bt.Team, bt.width*3/4)
}

// Status returns the battle outcome so far.
func (bt *Battle) Status() Status { return bt.status }

// Side returns the entities of the given side.
func (bt *Battle) Side(side int) []*Entity {
	if side == SideTeam {
		return bt.Team
	}
	return bt.Enemies
}

// Current returns the character whose turn it is, nil before the first turn.
func (bt *Battle) Current() *Character {
	if bt.turn < 0 || bt.turn >= len(bt.order) {
		return nil
	}
	return bt.order[bt.turn].Ch
}

// EntityOf returns the entity of ch and its side.
func (bt *Battle) EntityOf(ch *Character) (*Entity, int) {
	for _, side := range []int{SideEnemies, SideTeam} {
		for _, e := range bt.Side(side) {
			if e.Ch == ch {
				return e, side
			}
		}
	}
	return nil, -1
}

func (bt *Battle) indexOf(side int, ch *Character) int {
	for i, e := range bt.Side(side) {
		if e.Ch == ch {
			return i
		}
	}
	return -1
}

func (bt *Battle) living(side int) []int {
	var out []int
	for i, e := range bt.Side(side) {
		if e.Alive() {
			out = append(out, i)
		}
	}
	return out
}

func (bt *Battle) defeated(side int) bool {
	return len(bt.living(side)) == 0
}

// Queue adds a to the action stack of owner's side. When the stack is full
// the action is finished and dropped.
func (bt *Battle) Queue(owner *Character, a action.Action) {
	_, side := bt.EntityOf(owner)
	if side < 0 {
		side = SideTeam
	}
	if err := bt.Actions[side].Add(a); err != nil {
		bt.log.Warn("battle action dropped", "owner", owner.Name, "err", err)
		action.Finish(a)
	}
}

// Attack queues a physical attack from src. A nil target picks a random
// living character of the other side.
func (bt *Battle) Attack(src, tgt *Character) {
	se, side := bt.EntityOf(src)
	if se == nil {
		return
	}

	var te *Entity
	if tgt != nil {
		te, _ = bt.EntityOf(tgt)
	} else {
		slt := Selection{Kind: SelectOne, Sides: SideMask(1 << (1 - side))}
		slt.Random(bt)
		if targets := slt.Targets(bt); len(targets) > 0 {
			te = targets[0]
		}
	}
	if te == nil {
		bt.resolve()
		return
	}

	dir := 1
	if te.X < se.X {
		dir = -1
	}
	bt.log.Debug("attack", "src", src.Name, "tgt", te.Ch.Name)
	bt.Queue(src, &attack{bt: bt, src: se, tgt: te, dir: dir})
	bt.resolve()
}

// Cast spends the mp of the spell and queues its action.
func (bt *Battle) Cast(src *Character, sp *Spell, slt Selection) error {
	if !src.Spend(sp.MP) {
		return ErrNoMP
	}
	bt.log.Debug("cast", "src", src.Name, "spell", sp.Name)
	sp.Action(bt, src, &slt)
	bt.resolve()
	return nil
}

// UseItem takes one it from the inventory and queues its effect on tgt.
func (bt *Battle) UseItem(src *Character, it *Item, tgt *Character) error {
	if !bt.Inventory.Consume(it, 1) {
		return ErrNoItem
	}
	bt.log.Debug("use item", "src", src.Name, "item", it.Name)
	it.ExecBattle(bt, src, tgt)
	bt.resolve()
	return nil
}

// Damage rolls the formula for src hitting tgt, applies it and spawns the
// indicator on src's side. It returns the hp actually removed.
func (bt *Battle) Damage(src, tgt *Character, f Formula) int {
	base := bt.Dice.Range(f.BaseMin, f.BaseMax)
	applied := tgt.Damage(f.Apply(base, src.Attack(), tgt.Defense()))
	bt.log.Debug("damage", "src", src.Name, "tgt", tgt.Name, "base", base, "applied", applied, "hp", tgt.HP)
	bt.indicate(src, tgt, -applied, core.ColorDamage)
	return applied
}

// Heal restores up to amount hp of tgt and spawns the indicator on src's
// side. It returns the hp actually restored.
func (bt *Battle) Heal(src, tgt *Character, amount int) int {
	applied := tgt.Heal(amount)
	bt.indicate(src, tgt, applied, core.ColorHeal)
	return applied
}

// RestoreMP gives back up to amount mp to tgt.
func (bt *Battle) RestoreMP(src, tgt *Character, amount int) int {
	applied := tgt.Restore(amount)
	bt.indicate(src, tgt, applied, core.ColorMana)
	return applied
}

func (bt *Battle) indicate(src, tgt *Character, delta int, c core.Color) {
	te, _ := bt.EntityOf(tgt)
	if te == nil {
		return
	}
	bt.Queue(src, NewIndicator(te, delta, c, bt.Balance.IndicatorLifespan))
}

// Select lets the player pick targets for slt, then calls confirm. Escape
// goes back to the bar.
func (bt *Battle) Select(slt Selection, confirm func(Selection)) {
	bt.setState(&selectionState{slt: slt, confirm: confirm})
}

// Menu goes back to the bar for the current character.
func (bt *Battle) Menu() {
	bt.setState(&menuState{})
}

// resolve waits for the queued actions of both sides.
func (bt *Battle) resolve() {
	bt.setState(&resolvingState{})
}

// check runs between turns: dead enemies are removed, the end of the
// battle is detected and otherwise the next character plays.
func (bt *Battle) check() {
	bt.clean()

	switch {
	case bt.defeated(SideTeam):
		bt.status = StatusLost
		bt.log.Info("battle lost")
		bt.setState(&messageState{text: "You have been defeated...", next: bt.close})
	case bt.defeated(SideEnemies):
		bt.status = StatusWon
		bt.log.Info("battle won")
		bt.setState(&messageState{text: "Victory!", next: bt.close})
	default:
		bt.next()
	}
}

func (bt *Battle) clean() {
	for _, e := range bt.Enemies {
		if e.removed || e.Ch.Alive() {
			continue
		}
		e.removed = true
		if e.Ch.Sprite == nil {
			continue
		}
		if err := bt.Effects.Add(&fadeout{sprite: e.Ch.Sprite, x: e.X, y: e.Y}); err != nil {
			bt.log.Warn("fadeout dropped", "enemy", e.Ch.Name, "err", err)
		}
	}
}

func (bt *Battle) close() {
	bt.setState(&closingState{})
}

// next gives the turn to the following living character.
func (bt *Battle) next() {
	for range bt.order {
		bt.turn = (bt.turn + 1) % len(bt.order)
		e := bt.order[bt.turn]
		if !e.Alive() {
			continue
		}
		bt.log.Debug("turn", "character", e.Ch.Name)
		if _, side := bt.EntityOf(e.Ch); side == SideTeam {
			bt.Bar.Start(bt)
			bt.Menu()
		} else {
			bt.resolve()
			e.Ch.Exec(bt)
		}
		return
	}
}

func (bt *Battle) setState(s battleState) {
	bt.state = s
}

// Handle forwards input to the battle state.
func (bt *Battle) Handle(ev core.Event) {
	if bt.state != nil {
		bt.state.handle(bt, ev)
	}
}

// Update advances the battle. Entities and both action stacks are updated
// first, then the battle state which decides about the next turn and the
// end of the fight. It returns true once the closing fade is over.
func (bt *Battle) Update(dt time.Duration) bool {
	if bt.state == nil {
		return false
	}
	bt.Actions[SideTeam].Update(dt)
	bt.Actions[SideEnemies].Update(dt)
	bt.Effects.Update(dt)
	bt.Bar.Update(bt, dt)
	return bt.state.update(bt, dt)
}

// Resolved reports whether both sides have no pending action.
func (bt *Battle) Resolved() bool {
	return bt.Actions[SideTeam].Completed() && bt.Actions[SideEnemies].Completed()
}

// Draw paints the field, the fighters, the pending effects and the bar.
func (bt *Battle) Draw(scr *core.Screen) {
	field := core.NewRect(0, 0, bt.width, bt.height-barHeight)
	for x := field.X; x < field.Right(); x++ {
		scr.SetCell(x, field.Bottom()-1, '▁', core.ColorGray)
	}

	for _, e := range bt.Enemies {
		e.Draw(scr)
	}
	for _, e := range bt.Team {
		e.Draw(scr)
	}
	bt.Effects.Draw(scr)
	bt.Actions[SideEnemies].Draw(scr)
	bt.Actions[SideTeam].Draw(scr)
	bt.Bar.Draw(bt, scr)

	if bt.state != nil {
		bt.state.draw(bt, scr)
	}
}

// Finish releases every pending action and effect.
func (bt *Battle) Finish() {
	bt.Actions[SideTeam].Finish()
	bt.Actions[SideEnemies].Finish()
	bt.Effects.Finish()
	bt.Bar.Finish(bt)
	bt.state = nil
}

// Size returns the battle field size.
func (bt *Battle) Size() (w, h int) { return bt.width, bt.height }
