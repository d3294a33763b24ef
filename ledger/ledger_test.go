package ledger

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opd-ai/inappmsg/storage"
)

func TestMarkSeenPersists(t *testing.T) {
	store := storage.NewMemoryStore()
	l := New(store)

	assert.False(t, l.HasSeen("m1"))
	l.MarkSeen("m1")
	assert.True(t, l.HasSeen("m1"))

	persisted, err := store.LoadSet(storage.KeySeen)
	require.NoError(t, err)
	assert.Contains(t, persisted, "m1")
}

func TestReloadAcrossRestart(t *testing.T) {
	store := storage.NewMemoryStore()

	l := New(store)
	l.MarkSeen("m1")
	require.True(t, l.BeginImpression("m2"))
	l.SettleImpression("m2", true)
	require.True(t, l.BeginClick("c1"))
	l.SettleClick("c1", true)

	// Same store, fresh ledger: membership survives.
	reloaded := New(store)
	assert.True(t, reloaded.HasSeen("m1"))
	assert.True(t, reloaded.HasImpressioned("m2"))
	assert.True(t, reloaded.HasClicked("c1"))
	assert.False(t, reloaded.HasSeen("other"))
}

func TestBeginImpressionIsExclusive(t *testing.T) {
	l := New(storage.NewMemoryStore())

	assert.True(t, l.BeginImpression("m1"))
	// Second begin while the first is in flight must not proceed.
	assert.False(t, l.BeginImpression("m1"))
	assert.True(t, l.HasImpressioned("m1"))
}

func TestSettleImpressionRollback(t *testing.T) {
	store := storage.NewMemoryStore()
	l := New(store)

	require.True(t, l.BeginImpression("m1"))
	l.SettleImpression("m1", false)

	// Rolled back: a new presentation attempt may retry.
	assert.False(t, l.HasImpressioned("m1"))
	assert.True(t, l.BeginImpression("m1"))

	// Failure must not have persisted the optimistic entry.
	persisted, err := store.LoadSet(storage.KeyImpressioned)
	require.NoError(t, err)
	assert.NotContains(t, persisted, "m1")
}

func TestSettleImpressionCommitPersists(t *testing.T) {
	store := storage.NewMemoryStore()
	l := New(store)

	require.True(t, l.BeginImpression("m1"))
	l.SettleImpression("m1", true)

	persisted, err := store.LoadSet(storage.KeyImpressioned)
	require.NoError(t, err)
	assert.Contains(t, persisted, "m1")
}

func TestSettleIsIdempotent(t *testing.T) {
	l := New(storage.NewMemoryStore())

	require.True(t, l.BeginImpression("m1"))
	l.SettleImpression("m1", true)

	// A duplicate failure callback for the settled id must not roll back.
	l.SettleImpression("m1", false)
	assert.True(t, l.HasImpressioned("m1"))

	// Settling an id that never began is a no-op.
	l.SettleImpression("ghost", true)
	assert.False(t, l.HasImpressioned("ghost"))

	require.True(t, l.BeginClick("c1"))
	l.SettleClick("c1", false)
	l.SettleClick("c1", true)
	assert.False(t, l.HasClicked("c1"))
}

func TestClickLedgerSymmetry(t *testing.T) {
	l := New(storage.NewMemoryStore())

	assert.True(t, l.BeginClick("c1"))
	assert.False(t, l.BeginClick("c1"))
	l.SettleClick("c1", false)
	assert.True(t, l.BeginClick("c1"))
	l.SettleClick("c1", true)
	assert.True(t, l.HasClicked("c1"))
}

func TestConcurrentBeginSingleWinner(t *testing.T) {
	l := New(storage.NewMemoryStore())

	const callers = 32
	wins := make(chan bool, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			wins <- l.BeginImpression("m1")
		}()
	}
	wg.Wait()
	close(wins)

	winners := 0
	for won := range wins {
		if won {
			winners++
		}
	}
	assert.Equal(t, 1, winners, "exactly one concurrent begin may proceed")
}

// failingStore errors on every operation; the ledger must stay authoritative
// in memory.
type failingStore struct{}

func (failingStore) LoadSet(string) (map[string]struct{}, error) {
	return nil, errors.New("io failure")
}
func (failingStore) SaveSet(string, map[string]struct{}) error {
	return errors.New("io failure")
}
func (failingStore) LoadBool(string, bool) (bool, error) {
	return false, errors.New("io failure")
}
func (failingStore) SaveBool(string, bool) error {
	return errors.New("io failure")
}

func TestPersistenceFailureIsBestEffort(t *testing.T) {
	l := New(failingStore{})

	l.MarkSeen("m1")
	assert.True(t, l.HasSeen("m1"))

	require.True(t, l.BeginImpression("m2"))
	l.SettleImpression("m2", true)
	assert.True(t, l.HasImpressioned("m2"))
}
