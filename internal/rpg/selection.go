package rpg

// Battle sides, used as indexes of Battle.Actions and Selection.IndexSide.
const (
	SideEnemies = 0
	SideTeam    = 1
)

// IndexAll is the IndexCharacter of a selection targeting a whole side.
const IndexAll = -1

// Kind is a mask of the target shapes an ability accepts.
type Kind uint8

const (
	SelectSelf Kind = 1 << iota
	SelectOne
	SelectAll

	// SelectCombined lets the user choose between one target and all.
	SelectCombined = SelectOne | SelectAll
)

// SideMask is a mask of the sides an ability may target.
type SideMask uint8

const (
	SideMaskEnemies SideMask = 1 << SideEnemies
	SideMaskTeam    SideMask = 1 << SideTeam
	SideMaskBoth             = SideMaskEnemies | SideMaskTeam
)

// Selection describes who an ability targets. Kind and Sides say what is
// allowed; IndexSide and IndexCharacter what is currently chosen.
type Selection struct {
	Kind           Kind
	Sides          SideMask
	IndexSide      int
	IndexCharacter int
}

// Allows reports whether side may be targeted.
func (s *Selection) Allows(side int) bool {
	return s.Sides&(1<<side) != 0
}

// All reports whether the whole side is selected.
func (s *Selection) All() bool {
	return s.IndexCharacter == IndexAll
}

// impliedSide returns the side targeted by default: enemies when allowed.
func (s *Selection) impliedSide() int {
	if s.Sides == 0 || s.Allows(SideEnemies) {
		return SideEnemies
	}
	return SideTeam
}

// First selects the first living character of the implied side. Self
// selections pick the acting character. A selection only allowing the
// whole side selects all.
func (s *Selection) First(bt *Battle) {
	if s.Kind == SelectSelf {
		s.IndexSide = SideTeam
		s.IndexCharacter = bt.indexOf(SideTeam, bt.Current())
		return
	}

	s.IndexSide = s.impliedSide()
	if s.Kind == SelectAll {
		s.IndexCharacter = IndexAll
		return
	}
	s.IndexCharacter = firstAlive(bt.Side(s.IndexSide))
}

// Random selects a random living character of the implied side.
func (s *Selection) Random(bt *Battle) {
	s.IndexSide = s.impliedSide()
	s.IndexCharacter = -1

	alive := bt.living(s.IndexSide)
	if len(alive) == 0 {
		s.First(bt)
		return
	}
	s.IndexCharacter = alive[bt.Dice.Pick(len(alive))]
}

// Targets resolves the selection against the battle. Entities that died
// since the selection was made are still returned so an ongoing animation
// can finish on them.
func (s *Selection) Targets(bt *Battle) []*Entity {
	side := bt.Side(s.IndexSide)
	if s.All() {
		var out []*Entity
		for _, e := range side {
			if !e.removed {
				out = append(out, e)
			}
		}
		return out
	}
	if s.IndexCharacter < 0 || s.IndexCharacter >= len(side) {
		return nil
	}
	return []*Entity{side[s.IndexCharacter]}
}

// step moves a single selection to the next living character in the given
// direction, staying put when there is none.
func (s *Selection) step(bt *Battle, dir int) {
	side := bt.Side(s.IndexSide)
	for i := s.IndexCharacter + dir; i >= 0 && i < len(side); i += dir {
		if side[i].Alive() {
			s.IndexCharacter = i
			return
		}
	}
}

// toggleSide moves the selection to the other side when allowed.
func (s *Selection) toggleSide(bt *Battle) {
	other := 1 - s.IndexSide
	if !s.Allows(other) || firstAlive(bt.Side(other)) < 0 {
		return
	}
	s.IndexSide = other
	if !s.All() {
		s.IndexCharacter = firstAlive(bt.Side(other))
	}
}

// toggleAll switches between one target and the whole side when the
// ability accepts both.
func (s *Selection) toggleAll(bt *Battle) {
	if s.Kind&SelectCombined != SelectCombined {
		return
	}
	if s.All() {
		s.IndexCharacter = firstAlive(bt.Side(s.IndexSide))
	} else {
		s.IndexCharacter = IndexAll
	}
}

func firstAlive(side []*Entity) int {
	for i, e := range side {
		if e.Alive() {
			return i
		}
	}
	return -1
}
