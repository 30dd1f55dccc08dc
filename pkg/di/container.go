// Package di wires the engine-independent dependencies pstructctl shares
// across commands: the journal sidecar and the diagnostics API server
// factory. The engine itself stays out of the container — persist.Struct[T]
// is generic over the caller's record type, which a non-generic
// container field cannot hold, so cmd/pstructctl constructs it directly
// and hands the container only its EngineInspector view.
//
// Grounded on the teacher's pkg/di/container.go shape (factory getters,
// test-time setters), retargeted from API-factory wiring to
// journal+server wiring.
package di

import (
	"github.com/ssargent/pstruct/pkg/api"
	"github.com/ssargent/pstruct/pkg/journal"
)

// Container holds the dependencies shared across pstructctl's commands.
type Container struct {
	journalStore  *journal.Store
	serverFactory func(engine api.EngineInspector, j *journal.Store, metrics *api.Metrics) *api.Server
}

// NewContainer creates a container with the default server factory.
func NewContainer() *Container {
	return &Container{
		serverFactory: api.NewServer,
	}
}

// SetJournalStore wires an opened journal store into the container.
func (c *Container) SetJournalStore(j *journal.Store) {
	c.journalStore = j
}

// JournalStore returns the wired journal store, or nil if none was set
// (config.Journal.Enabled == false).
func (c *Container) JournalStore() *journal.Store {
	return c.journalStore
}

// NewServer builds a diagnostics api.Server over engine, the container's
// journal store, and metrics, via the container's server factory.
func (c *Container) NewServer(engine api.EngineInspector, metrics *api.Metrics) *api.Server {
	return c.serverFactory(engine, c.journalStore, metrics)
}

// SetServerFactory allows overriding the server factory (for testing).
func (c *Container) SetServerFactory(factory func(engine api.EngineInspector, j *journal.Store, metrics *api.Metrics) *api.Server) {
	c.serverFactory = factory
}
