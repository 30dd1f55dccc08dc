// Package api is the diagnostics HTTP server for pstructctl: a small
// chi-routed surface over a persist.Struct[T] engine and its journal,
// not a multi-record CRUD API (spec.md's Non-goals exclude that
// entirely). Grounded on the teacher's pkg/api/server.go and
// pkg/api/metrics.go, trimmed to engine introspection per SPEC_FULL.md
// Expansion B.3.
package api

import "github.com/ssargent/pstruct/pkg/media"

// EngineSnapshot is the introspection snapshot served by GET /health and
// GET /stats.
type EngineSnapshot struct {
	IsLoaded        bool   `json:"is_loaded"`
	Location        uint32 `json:"location"`
	Counter         uint32 `json:"counter"`
	Pages           uint32 `json:"pages"`
	WearLevels      uint32 `json:"wear_levels"`
	StorageUnitSize uint32 `json:"storage_unit_size"`
}

// EngineInspector is the read-only observer surface of persist.Struct[T]
// the diagnostics API needs. Declared as an interface here, rather than
// importing pkg/persist's generic Struct[T] directly, so this package
// stays independent of the caller's record type — any persist.Struct[T]
// instantiation satisfies it without an adapter.
type EngineInspector interface {
	IsLoaded() bool
	Location() media.Addr
	Counter() uint32
	Pages() uint32
	WearLevels() uint32
	StorageUnitSize() uint32
}

// Snapshot reads a point-in-time EngineSnapshot from an EngineInspector.
func Snapshot(e EngineInspector) EngineSnapshot {
	return EngineSnapshot{
		IsLoaded:        e.IsLoaded(),
		Location:        uint32(e.Location()),
		Counter:         e.Counter(),
		Pages:           e.Pages(),
		WearLevels:      e.WearLevels(),
		StorageUnitSize: e.StorageUnitSize(),
	}
}
