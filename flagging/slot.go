package flagging

// Slot is an optional registry slot index. The zero value is absent,
// meaning the corresponding product was not requested in this run. This
// replaces the -1 sentinel of flat indirection tables: an absent slot
// cannot be mistaken for a valid index.
type Slot struct {
	index int
	valid bool
}

// SlotAt returns a present slot reference to index i.
func SlotAt(i int) Slot { return Slot{index: i, valid: true} }

// NoSlot returns the absent slot reference.
func NoSlot() Slot { return Slot{} }

// Index returns the slot index and whether the reference is present.
func (s Slot) Index() (int, bool) { return s.index, s.valid }
