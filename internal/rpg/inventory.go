package rpg

// InventorySize is the number of slots of an inventory.
const InventorySize = 30

// Slot is one inventory cell.
type Slot struct {
	Item   *Item
	Amount int
}

// Inventory stores items in stacks of at most Item.Stackable.
type Inventory struct {
	slots [InventorySize]Slot
}

// NewInventory returns an empty inventory.
func NewInventory() *Inventory {
	return &Inventory{}
}

// Push adds amount items, filling partial stacks of the same item first and
// empty slots next. It returns how many did not fit.
func (iv *Inventory) Push(it *Item, amount int) int {
	for amount > 0 {
		slot := iv.find(it)
		if slot == nil {
			break
		}
		slot.Item = it
		avail := it.stackLimit() - slot.Amount
		if amount > avail {
			slot.Amount += avail
			amount -= avail
		} else {
			slot.Amount += amount
			amount = 0
		}
	}
	return amount
}

func (iv *Inventory) find(it *Item) *Slot {
	for i := range iv.slots {
		s := &iv.slots[i]
		if s.Item == it && s.Amount < it.stackLimit() {
			return s
		}
	}
	for i := range iv.slots {
		if iv.slots[i].Item == nil {
			return &iv.slots[i]
		}
	}
	return nil
}

// Consume removes amount items. It fails without removing anything when
// fewer are stored.
func (iv *Inventory) Consume(it *Item, amount int) bool {
	if iv.Count(it) < amount {
		return false
	}
	for i := len(iv.slots) - 1; i >= 0 && amount > 0; i-- {
		s := &iv.slots[i]
		if s.Item != it {
			continue
		}
		n := min(s.Amount, amount)
		s.Amount -= n
		amount -= n
		if s.Amount == 0 {
			*s = Slot{}
		}
	}
	return true
}

// Count returns how many of it are stored.
func (iv *Inventory) Count(it *Item) int {
	n := 0
	for _, s := range iv.slots {
		if s.Item == it {
			n += s.Amount
		}
	}
	return n
}

// Items returns the distinct stored items in slot order.
func (iv *Inventory) Items() []*Item {
	var out []*Item
	seen := make(map[*Item]bool)
	for _, s := range iv.slots {
		if s.Item != nil && !seen[s.Item] {
			seen[s.Item] = true
			out = append(out, s.Item)
		}
	}
	return out
}
