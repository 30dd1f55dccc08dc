package di

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ssargent/pstruct/pkg/api"
	"github.com/ssargent/pstruct/pkg/journal"
	"github.com/ssargent/pstruct/pkg/media"
)

type fakeEngine struct{}

func (fakeEngine) IsLoaded() bool          { return false }
func (fakeEngine) Location() media.Addr    { return 0 }
func (fakeEngine) Counter() uint32         { return 0 }
func (fakeEngine) Pages() uint32           { return 0 }
func (fakeEngine) WearLevels() uint32      { return 0 }
func (fakeEngine) StorageUnitSize() uint32 { return 0 }

func TestContainerDefaultServerFactory(t *testing.T) {
	c := NewContainer()
	assert.Nil(t, c.JournalStore())

	srv := c.NewServer(fakeEngine{}, api.NewMetrics())
	require.NotNil(t, srv)
}

func TestContainerJournalStore(t *testing.T) {
	c := NewContainer()

	dir := t.TempDir()
	j, err := journal.Open(dir)
	require.NoError(t, err)
	t.Cleanup(func() { j.Close() })

	c.SetJournalStore(j)
	assert.Same(t, j, c.JournalStore())
}

func TestContainerSetServerFactory(t *testing.T) {
	c := NewContainer()

	called := false
	c.SetServerFactory(func(engine api.EngineInspector, j *journal.Store, metrics *api.Metrics) *api.Server {
		called = true
		return api.NewServer(engine, j, metrics)
	})

	c.NewServer(fakeEngine{}, api.NewMetrics())
	assert.True(t, called)
}
