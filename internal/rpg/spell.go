package rpg

// SpellType is the elemental category of a spell.
type SpellType int

const (
	SpellNeutral SpellType = iota
	SpellFire
	SpellWind
	SpellWater
	SpellEarth
	SpellChaos
	SpellHoly
	SpellTime
)

var spellTypeNames = [...]string{"neutral", "fire", "wind", "water", "earth", "chaos", "holy", "time"}

func (t SpellType) String() string {
	if t < 0 || int(t) >= len(spellTypeNames) {
		return "unknown"
	}
	return spellTypeNames[t]
}

// Spell is an immutable magic definition.
//
// SelectFunc refines the default targeting, ActionFunc queues the battle
// effect and UseFunc applies it outside of battle. Any of them may be nil.
type Spell struct {
	Name        string
	Description string
	MP          int
	Type        SpellType
	Kind        Kind
	Sides       SideMask

	SelectFunc func(bt *Battle, slt *Selection)
	ActionFunc func(bt *Battle, owner *Character, slt *Selection)
	UseFunc    func(owner *Character, slt *Selection)
}

// Select prepares slt for this spell: the allowed kind and sides are copied
// and the first living target of the implied side is chosen unless the
// spell decides otherwise.
func (sp *Spell) Select(bt *Battle, slt *Selection) {
	slt.Kind = sp.Kind
	slt.Sides = sp.Sides
	if sp.SelectFunc != nil {
		sp.SelectFunc(bt, slt)
		return
	}
	slt.First(bt)
}

// Action queues the spell effect on the battle.
func (sp *Spell) Action(bt *Battle, owner *Character, slt *Selection) {
	if sp.ActionFunc != nil {
		sp.ActionFunc(bt, owner, slt)
	}
}

// Use applies the spell outside of battle. It reports whether the spell has
// such a use.
func (sp *Spell) Use(owner *Character, slt *Selection) bool {
	if sp.UseFunc == nil {
		return false
	}
	sp.UseFunc(owner, slt)
	return true
}

// Castable reports whether ch has enough mp for the spell.
func (sp *Spell) Castable(ch *Character) bool {
	return ch.MP >= sp.MP
}
