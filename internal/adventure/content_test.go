package adventure

import (
	"testing"
	"time"

	"github.com/vovakirdan/tui-rpg/internal/core"
	"github.com/vovakirdan/tui-rpg/internal/rpg"
)

func newTestBattle(team, enemies []*rpg.Character) *rpg.Battle {
	balance := rpg.DefaultBalance()
	balance.OpeningDelay = 10 * time.Millisecond
	bt := rpg.NewBattle(team, enemies,
		rpg.WithDice(rpg.NewDice(fixedRoller{face: 1})),
		rpg.WithBalance(balance),
	)
	bt.Start()
	bt.Update(balance.OpeningDelay)
	return bt
}

func settle(bt *rpg.Battle, d time.Duration) {
	for elapsed := time.Duration(0); elapsed < d; elapsed += 30 * time.Millisecond {
		bt.Update(30 * time.Millisecond)
	}
}

func TestCharacters(t *testing.T) {
	hero := NewAdventurer()
	if hero.HP != 120 || hero.MP != 50 || hero.Attack() != 50 || hero.Agility() != 50 {
		t.Fatalf("adventurer %+v", hero)
	}
	if len(hero.Spells) != 2 {
		t.Fatalf("adventurer knows %d spells, expected 2", len(hero.Spells))
	}

	cat := NewBlackCat()
	if cat.HP != 126 || cat.MP != 38 || cat.Atk != 22 || cat.Def != 19 || cat.Agt != 11 || cat.Luck != 14 {
		t.Fatalf("black cat %+v", cat)
	}
	if cat.GetID() != "black-cat" {
		t.Fatalf("GetID() = %q", cat.GetID())
	}
}

func TestBlackCatAttacksFirstMember(t *testing.T) {
	first, second := NewAdventurer(), NewAdventurer()
	second.Name = "Second"
	cat := NewBlackCat()
	bt := newTestBattle([]*rpg.Character{first, second}, []*rpg.Character{cat})

	cat.Exec(bt)
	if n := bt.Actions[rpg.SideEnemies].Len(); n != 1 {
		t.Fatalf("%d enemy actions queued, expected 1", n)
	}
	settle(bt, 300*time.Millisecond)

	// base 40, +2.2% attack, -2.5% defense
	if first.HP != 81 {
		t.Fatalf("first member hp = %d, expected 81", first.HP)
	}
	if second.HP != second.MaxHP() {
		t.Fatalf("second member was hit")
	}

	first.HP = 0
	cat.Exec(bt)
	settle(bt, 300*time.Millisecond)
	if second.HP == second.MaxHP() {
		t.Fatal("cat did not go for the next member standing")
	}
}

func TestFireMinor(t *testing.T) {
	hero, cat := NewAdventurer(), NewBlackCat()
	bt := newTestBattle([]*rpg.Character{hero}, []*rpg.Character{cat})

	var slt rpg.Selection
	FireMinor.Select(bt, &slt)
	targets := slt.Targets(bt)
	if len(targets) != 1 || targets[0].Ch != cat {
		t.Fatalf("Fire Minor preselected %v", targets)
	}
	if err := bt.Cast(hero, FireMinor, slt); err != nil {
		t.Fatalf("Cast: %v", err)
	}
	if hero.MP != 40 {
		t.Fatalf("mp = %d after casting, expected 40", hero.MP)
	}
	if cat.HP != cat.MaxHP() {
		t.Fatal("damage applied before the animation ended")
	}

	settle(bt, 400*time.Millisecond)
	lo, hi := bt.Balance.Spell.Bounds(hero.Attack(), cat.Defense())
	if dmg := cat.MaxHP() - cat.HP; dmg < lo || dmg > hi {
		t.Fatalf("damage %d outside [%d, %d]", dmg, lo, hi)
	}
}

func TestCure(t *testing.T) {
	hero := NewAdventurer()
	hero.HP = 10
	if !Cure.Use(hero, nil) {
		t.Fatal("Cure has no use outside of battle")
	}
	if hero.HP != 10+cureAmount {
		t.Fatalf("hp = %d, expected %d", hero.HP, 10+cureAmount)
	}

	cat := NewBlackCat()
	hero.HP = 10
	bt := newTestBattle([]*rpg.Character{hero}, []*rpg.Character{cat})
	var slt rpg.Selection
	Cure.Select(bt, &slt)
	if slt.IndexSide != rpg.SideTeam {
		t.Fatalf("Cure targets side %d, expected the team", slt.IndexSide)
	}
	if err := bt.Cast(hero, Cure, slt); err != nil {
		t.Fatalf("Cast: %v", err)
	}
	settle(bt, 300*time.Millisecond)
	if hero.HP != 10+cureAmount {
		t.Fatalf("hp = %d after Cure, expected %d", hero.HP, 10+cureAmount)
	}
}

func TestItems(t *testing.T) {
	hero := NewAdventurer()
	hero.HP, hero.MP = 10, 0
	Potion.ExecMenu(hero)
	Ether.ExecMenu(hero)
	if hero.HP != 110 || hero.MP != 50 {
		t.Fatalf("hp=%d mp=%d, expected 110 and 50", hero.HP, hero.MP)
	}

	for _, name := range ItemNames() {
		if _, ok := ItemByName(name); !ok {
			t.Errorf("ItemByName(%q) failed", name)
		}
	}
	if it, ok := ItemByName("Potion"); !ok || it != Potion {
		t.Fatal("ItemByName is case sensitive")
	}
}

func TestDifficultyScalesCats(t *testing.T) {
	a := newTestAdventure(t)
	base := a.blackCats(1)[0]
	a.wins = a.Config.Difficulty.MaxAt
	strong := a.blackCats(1)[0]
	if strong.HPMax <= base.HPMax || strong.Atk <= base.Atk {
		t.Fatalf("cats did not grow: %d/%d hp, %d/%d atk", base.HPMax, strong.HPMax, base.Atk, strong.Atk)
	}
	if strong.HP != strong.HPMax {
		t.Fatal("scaled cat not at full health")
	}
}

func TestFightWonReturnsToMap(t *testing.T) {
	a := newTestAdventure(t)
	if err := a.NewGame(); err != nil {
		t.Fatalf("NewGame: %v", err)
	}
	cat := NewBlackCat()
	cat.HP = 1
	if err := a.Fight(cat); err != nil {
		t.Fatalf("Fight: %v", err)
	}
	if err := a.Machine.Update(a.Config.Battle.OpeningDelay); err != nil {
		t.Fatalf("Update: %v", err)
	}

	// Attack, then confirm the preselected cat.
	press(a, core.KeyEnter, core.KeyEnter)
	for i := 0; i < 500 && a.Machine.Depth() > 1; i++ {
		if err := a.Machine.Update(50 * time.Millisecond); err != nil {
			t.Fatalf("Update: %v", err)
		}
	}
	if _, ok := a.Machine.Current().(*mapState); !ok {
		t.Fatalf("current state is %T after the fight", a.Machine.Current())
	}
	if a.Wins() != 1 {
		t.Fatalf("Wins() = %d, expected 1", a.Wins())
	}
}

func TestQuickBattleRecordsOutcome(t *testing.T) {
	store := openStore(t)
	a := newTestAdventure(t, WithStore(store))
	a.QuickBattle(2)
	a.Close()

	battles, err := store.Battles(10)
	if err != nil {
		t.Fatalf("Battles: %v", err)
	}
	if len(battles) != 1 || battles[0].Outcome != "quit" || battles[0].Enemies != 2 {
		t.Fatalf("battles = %+v", battles)
	}
}
