package rpg

import "testing"

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

func TestFormulaApply(t *testing.T) {
	f := DefaultBalance().Spell
	tests := []struct {
		name        string
		base        int
		attack, def int
		expected    int
	}{
		{"no stats", 60, 0, 0, 60},
		{"attack raises", 100, 1000, 0, 200},
		{"defense lowers", 100, 0, 1000, 50},
		{"fire minor on black cat", 60, 22, 19, 60},
		{"huge defense clamps", 60, 0, 5000, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := f.Apply(tt.base, tt.attack, tt.def); got != tt.expected {
				t.Fatalf("Apply(%d, %d, %d) = %d, expected %d", tt.base, tt.attack, tt.def, got, tt.expected)
			}
		})
	}
}

func TestFormulaBounds(t *testing.T) {
	f := DefaultBalance().Spell
	lo, hi := f.Bounds(0, 0)
	if lo != 50 || hi != 70 {
		t.Fatalf("Bounds(0, 0) = [%d, %d], expected [50, 70]", lo, hi)
	}
}

func TestDiceRange(t *testing.T) {
	d := NewDice(fixedRoller{face: 11})
	if got := d.Range(50, 70); got != 60 {
		t.Fatalf("Range(50, 70) = %d, expected 60", got)
	}
	if got := d.Range(5, 5); got != 5 {
		t.Fatalf("Range(5, 5) = %d, expected 5", got)
	}
	if got := d.Pick(3); got != 2 {
		t.Fatalf("Pick(3) = %d, expected 2", got)
	}
}

func TestSeededRollerIsReproducible(t *testing.T) {
	a, b := NewDice(SeededRoller(42)), NewDice(SeededRoller(42))
	for i := 0; i < 100; i++ {
		x, y := a.Range(50, 70), b.Range(50, 70)
		if x != y {
			t.Fatalf("roll %d differs: %d != %d", i, x, y)
		}
		if x < 50 || x > 70 {
			t.Fatalf("roll %d out of range: %d", i, x)
		}
	}
}

func TestCharacterClamps(t *testing.T) {
	ch := &Character{Name: "Hero", HP: 100, HPMax: 120, MP: 5, MPMax: 50}

	if got := ch.Heal(100); got != 20 || ch.HP != 120 {
		t.Fatalf("Heal(100) = %d, hp %d; expected 20, 120", got, ch.HP)
	}
	if got := ch.Damage(500); got != 120 || ch.HP != 0 {
		t.Fatalf("Damage(500) = %d, hp %d; expected 120, 0", got, ch.HP)
	}
	if ch.Alive() {
		t.Fatalf("character with 0 hp is alive")
	}
	if ch.Spend(10) || ch.MP != 5 {
		t.Fatalf("Spend(10) with 5 mp succeeded or changed mp to %d", ch.MP)
	}
	if got := ch.Restore(100); got != 45 {
		t.Fatalf("Restore(100) = %d, expected 45", got)
	}
	if id := (&Character{Name: "Black Cat"}).GetID(); id != "black-cat" {
		t.Fatalf("GetID() = %q, expected black-cat", id)
	}
}

func TestInventory(t *testing.T) {
	potion := &Item{Name: "Potion", Stackable: 10}
	ether := &Item{Name: "Ether"}
	iv := NewInventory()

	if left := iv.Push(potion, 25); left != 0 {
		t.Fatalf("Push(potion, 25) left %d", left)
	}
	if left := iv.Push(ether, 2); left != 0 {
		t.Fatalf("Push(ether, 2) left %d", left)
	}
	if n := iv.Count(potion); n != 25 {
		t.Fatalf("Count(potion) = %d, expected 25", n)
	}
	if items := iv.Items(); len(items) != 2 || items[0] != potion || items[1] != ether {
		t.Fatalf("Items() = %v", items)
	}

	if iv.Consume(potion, 26) {
		t.Fatalf("Consume(26) of 25 succeeded")
	}
	if n := iv.Count(potion); n != 25 {
		t.Fatalf("failed Consume changed count to %d", n)
	}
	if !iv.Consume(potion, 17) {
		t.Fatalf("Consume(17) failed")
	}
	if n := iv.Count(potion); n != 8 {
		t.Fatalf("Count(potion) = %d, expected 8", n)
	}
}

func TestInventoryFull(t *testing.T) {
	single := &Item{Name: "Key"}
	iv := NewInventory()
	if left := iv.Push(single, InventorySize+3); left != 3 {
		t.Fatalf("Push left %d, expected 3", left)
	}
}
