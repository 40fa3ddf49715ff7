// Package flagging holds the output side of a detection run: byte flag
// matrices, the registry of output slots, and the product indirection
// table that routes each logical flag product to a slot.
//
// A detector never picks its own output matrix. It asks the registry for
// the slot assigned to one of its products; an absent assignment means the
// product was not requested in this run and the detector emits nothing for
// it. This lets the orchestrator select any subset of a detector's
// products without touching detector code.
package flagging
