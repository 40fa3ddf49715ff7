package flagging

import "fmt"

// Registry owns the ordered output slots of a detection run plus the
// product indirection table routing logical products to slots.
//
// Slot matrices are borrowed from the caller; Allocate and SetSlot only
// manage references. The product and label tables are copied on install so
// the caller's arrays can be reused afterwards.
type Registry struct {
	slots    []*Matrix
	labels   []int
	products []Slot
}

// Allocate resizes the registry to n slots. Any previously held slot
// references and labels are released; all n slots read back unset. Safe to
// call on a fresh registry. n < 0 fails with ErrBadSize.
func (r *Registry) Allocate(n int) error {
	if n < 0 {
		return fmt.Errorf("%w: %d slots", ErrBadSize, n)
	}
	r.slots = make([]*Matrix, n)
	r.labels = make([]int, n)
	return nil
}

// Len returns the number of slots.
func (r *Registry) Len() int { return len(r.slots) }

// SetSlot stores a reference to the caller's flag matrix at slot i. Any
// index outside [0, Len()) fails with ErrSlotRange and leaves the registry
// unmodified; negative indices are a caller contract violation and fail
// the same way.
func (r *Registry) SetSlot(m *Matrix, i int) error {
	if i < 0 || i >= len(r.slots) {
		return fmt.Errorf("%w: %d of %d", ErrSlotRange, i, len(r.slots))
	}
	if m == nil {
		return ErrNilMatrix
	}
	r.slots[i] = m
	return nil
}

// Slot returns the matrix at slot i, or nil when unset or out of range.
func (r *Registry) Slot(i int) *Matrix {
	if i < 0 || i >= len(r.slots) {
		return nil
	}
	return r.slots[i]
}

// SetProducts installs the product indirection table and the per-slot
// label table, replacing both in full. products[p] routes product p to a
// registry slot or marks it absent; labels[i] records which product
// occupies slot i (informational metadata, never used for lookup).
//
// Both tables are validated before anything is replaced: every present
// product slot must be inside [0, Len()) and len(labels) must equal Len().
// On error the registry keeps its previous tables.
func (r *Registry) SetProducts(products []Slot, labels []int) error {
	for p, s := range products {
		if i, ok := s.Index(); ok && (i < 0 || i >= len(r.slots)) {
			return fmt.Errorf("%w: product %d routed to slot %d of %d", ErrSlotRange, p, i, len(r.slots))
		}
	}
	if len(labels) != len(r.slots) {
		return fmt.Errorf("%w: %d labels for %d slots", ErrBadSize, len(labels), len(r.slots))
	}

	r.products = append([]Slot(nil), products...)
	r.labels = append([]int(nil), labels...)
	return nil
}

// Products returns the number of entries in the product table.
func (r *Registry) Products() int { return len(r.products) }

// Product returns the slot reference for product p, absent when p is
// outside the table or unrequested.
func (r *Registry) Product(p int) Slot {
	if p < 0 || p >= len(r.products) {
		return NoSlot()
	}
	return r.products[p]
}

// Matrix resolves product p through the indirection table to its
// destination flag matrix. The second return is false when the product is
// absent or its slot is unset.
func (r *Registry) Matrix(p int) (*Matrix, bool) {
	i, ok := r.Product(p).Index()
	if !ok {
		return nil, false
	}
	m := r.Slot(i)
	return m, m != nil
}

// Label returns the label recorded for slot i, or -1 when out of range.
func (r *Registry) Label(i int) int {
	if i < 0 || i >= len(r.labels) {
		return -1
	}
	return r.labels[i]
}
