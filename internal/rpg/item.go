package rpg

// Item is an immutable consumable definition.
type Item struct {
	Name        string
	Description string
	Stackable   int

	// ExecMenuFunc applies the item from the inventory menu.
	ExecMenuFunc func(it *Item, ch *Character)

	// ExecBattleFunc queues the item effect in a battle.
	ExecBattleFunc func(it *Item, bt *Battle, src, tgt *Character)
}

// UsableInMenu reports whether the item does something outside of battle.
func (it *Item) UsableInMenu() bool { return it.ExecMenuFunc != nil }

// UsableInBattle reports whether the item can be used in a battle.
func (it *Item) UsableInBattle() bool { return it.ExecBattleFunc != nil }

// ExecMenu applies the item to ch. It reports whether anything happened.
func (it *Item) ExecMenu(ch *Character) bool {
	if it.ExecMenuFunc == nil {
		return false
	}
	it.ExecMenuFunc(it, ch)
	return true
}

// ExecBattle queues the item effect from src on tgt.
func (it *Item) ExecBattle(bt *Battle, src, tgt *Character) {
	if it.ExecBattleFunc != nil {
		it.ExecBattleFunc(it, bt, src, tgt)
	}
}

func (it *Item) stackLimit() int {
	if it.Stackable <= 0 {
		return 1
	}
	return it.Stackable
}
