package adventure

import (
	"sort"
	"strings"

	"github.com/vovakirdan/tui-rpg/internal/rpg"
)

const (
	potionAmount = 100
	etherAmount  = 50
)

// Potion restores 100 hp.
var Potion = &rpg.Item{
	Name:        "Potion",
	Description: "Recover 100 HP",
	Stackable:   99,
	ExecMenuFunc: func(_ *rpg.Item, ch *rpg.Character) {
		ch.Heal(potionAmount)
	},
	ExecBattleFunc: func(_ *rpg.Item, bt *rpg.Battle, src, tgt *rpg.Character) {
		te, _ := bt.EntityOf(tgt)
		if te == nil {
			return
		}
		queueEffect(bt, src, te, sparkleSprite, func() {
			bt.Heal(src, tgt, potionAmount)
		})
	},
}

// Ether restores 50 mp.
var Ether = &rpg.Item{
	Name:        "Ether",
	Description: "Recover 50 MP",
	Stackable:   99,
	ExecMenuFunc: func(_ *rpg.Item, ch *rpg.Character) {
		ch.Restore(etherAmount)
	},
	ExecBattleFunc: func(_ *rpg.Item, bt *rpg.Battle, src, tgt *rpg.Character) {
		te, _ := bt.EntityOf(tgt)
		if te == nil {
			return
		}
		queueEffect(bt, src, te, sparkleSprite, func() {
			bt.RestoreMP(src, tgt, etherAmount)
		})
	},
}

var items = map[string]*rpg.Item{
	"potion": Potion,
	"ether":  Ether,
}

// ItemByName returns the item with the given case-insensitive name.
func ItemByName(name string) (*rpg.Item, bool) {
	it, ok := items[strings.ToLower(name)]
	return it, ok
}

// ItemNames returns the known item keys, sorted.
func ItemNames() []string {
	names := make([]string, 0, len(items))
	for name := range items {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
