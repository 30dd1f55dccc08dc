// Package journal records every Load/Save attempt a pstructctl bench run
// makes against a persist.Struct[T] engine: which slot, which generation,
// whether it succeeded, whether a fault was injected. It is a
// diagnostics sidecar, not part of the core engine contract (spec.md §1
// scopes "test harness" out of the core) — the vehicle SPEC_FULL.md
// Expansion B.2 names for wiring pebble, ksuid, bptree and the query
// types around the engine.
package journal

import "github.com/segmentio/ksuid"

// Op names the engine operation an Entry records.
type Op string

// The two operations the engine exposes that are worth journaling.
const (
	OpLoad Op = "load"
	OpSave Op = "save"
)

// Entry is one journaled attempt against the engine.
type Entry struct {
	ID      ksuid.KSUID `json:"id"`
	Op      Op          `json:"op"`
	Slot    uint32      `json:"slot"`
	Counter uint32      `json:"counter"`
	Success bool        `json:"success"`
	Fault   string      `json:"fault,omitempty"`
}

// NewEntry stamps a fresh, time-sortable ID onto an Entry.
func NewEntry(op Op, slot uint32, counter uint32, success bool, fault string) Entry {
	return Entry{
		ID:      ksuid.New(),
		Op:      op,
		Slot:    slot,
		Counter: counter,
		Success: success,
		Fault:   fault,
	}
}
