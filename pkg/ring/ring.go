// Package ring implements the slot ring: N equal-sized, whole-page-aligned
// slots traversed modulo N, per spec.md §3/§4.3.
//
// Grounded on original_source/struct.h's GetNextLocation/
// GetPreviousLocation (top-pointer wraparound arithmetic over a start
// pointer and a fixed slot stride).
package ring

import "github.com/ssargent/pstruct/pkg/media"

// Ring is the ordered sequence of N equal-sized slots starting at Start,
// each SlotWords words wide.
type Ring struct {
	Start     media.Addr
	SlotWords uint32
	Slots     uint32
}

// New builds a Ring covering Slots consecutive slots of slotWords words
// each, starting at start.
func New(start media.Addr, slotWords uint32, slots uint32) Ring {
	return Ring{Start: start, SlotWords: slotWords, Slots: slots}
}

// top is the address of the last slot in the ring.
func (r Ring) top() media.Addr {
	return r.Start + media.Addr(r.SlotWords*(r.Slots-1))
}

// Addr returns the address of slot index i (0-based).
func (r Ring) Addr(i uint32) media.Addr {
	return r.Start + media.Addr(r.SlotWords*i)
}

// Next returns the address of the slot following l, wrapping from the
// last slot back to Start.
func (r Ring) Next(l media.Addr) media.Addr {
	if l < r.top() {
		return l + media.Addr(r.SlotWords)
	}
	return r.Start
}

// Prev returns the address of the slot preceding l, wrapping from Start
// back to the last slot.
func (r Ring) Prev(l media.Addr) media.Addr {
	if l > r.Start {
		return l - media.Addr(r.SlotWords)
	}
	return r.top()
}

// TotalWords is the total word span the ring covers.
func (r Ring) TotalWords() uint32 {
	return r.SlotWords * r.Slots
}
