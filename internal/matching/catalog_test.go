package matching

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/daniel/fieldnote-analyzer/internal/types"
)

// mockSource returns canned catalogs, optionally failing.
type mockSource struct {
	mu      sync.Mutex
	entries []types.TagCatalogEntry
	err     error
	calls   int
}

func (m *mockSource) FetchTags(_ context.Context) ([]types.TagCatalogEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return m.entries, nil
}

func (m *mockSource) set(entries []types.TagCatalogEntry, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries, m.err = entries, err
}

func TestNewCatalog_LoadsInitialSnapshot(t *testing.T) {
	source := &mockSource{entries: []types.TagCatalogEntry{{ID: 1, Name: "Hockey", Category: "Athletics"}}}

	catalog, err := NewCatalog(context.Background(), source)
	require.NoError(t, err)

	entries := catalog.Snapshot().Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, "Hockey", entries[0].Name)
}

func TestNewCatalog_SourceFailure(t *testing.T) {
	source := &mockSource{err: errors.New("db down")}

	_, err := NewCatalog(context.Background(), source)
	assert.Error(t, err)
}

func TestRefresh_SwapsSnapshot(t *testing.T) {
	source := &mockSource{entries: []types.TagCatalogEntry{{ID: 1, Name: "Hockey"}}}
	catalog, err := NewCatalog(context.Background(), source)
	require.NoError(t, err)

	old := catalog.Snapshot()

	source.set([]types.TagCatalogEntry{{ID: 1, Name: "Hockey"}, {ID: 2, Name: "Engineering"}}, nil)
	require.NoError(t, catalog.Refresh(context.Background()))

	assert.Len(t, catalog.Snapshot().Entries(), 2)
	// The old generation is untouched; in-flight requests holding it see the
	// catalog they started with.
	assert.Len(t, old.Entries(), 1)
}

func TestRefresh_FailureKeepsPreviousSnapshot(t *testing.T) {
	source := &mockSource{entries: []types.TagCatalogEntry{{ID: 1, Name: "Hockey"}}}
	catalog, err := NewCatalog(context.Background(), source)
	require.NoError(t, err)

	source.set(nil, errors.New("transient"))
	assert.Error(t, catalog.Refresh(context.Background()))
	assert.Len(t, catalog.Snapshot().Entries(), 1)
}

func TestSnapshot_CopiesInput(t *testing.T) {
	entries := []types.TagCatalogEntry{{ID: 1, Name: "Hockey"}}
	snap := NewSnapshot(entries)

	entries[0].Name = "mutated"
	assert.Equal(t, "Hockey", snap.Entries()[0].Name)
}

func TestRefreshInterval(t *testing.T) {
	assert.True(t, RefreshHourly.Valid())
	assert.True(t, RefreshDaily.Valid())
	assert.True(t, RefreshWeekly.Valid())
	assert.False(t, RefreshInterval("monthly").Valid())

	assert.Greater(t, RefreshWeekly.Duration(), RefreshDaily.Duration())
	assert.Greater(t, RefreshDaily.Duration(), RefreshHourly.Duration())
	// Unknown intervals fall back to daily.
	assert.Equal(t, RefreshDaily.Duration(), RefreshInterval("monthly").Duration())
}

func TestRefresher_TriggerNow(t *testing.T) {
	source := &mockSource{entries: []types.TagCatalogEntry{{ID: 1, Name: "Hockey"}}}
	catalog, err := NewCatalog(context.Background(), source)
	require.NoError(t, err)

	refresher := NewRefresher(catalog, RefreshDaily)
	refresher.Start()
	defer refresher.Stop()

	source.set([]types.TagCatalogEntry{{ID: 1, Name: "Hockey"}, {ID: 2, Name: "Engineering"}}, nil)
	refresher.TriggerNow()

	assert.Eventually(t, func() bool {
		return len(catalog.Snapshot().Entries()) == 2
	}, 2*time.Second, 10*time.Millisecond)
}

func TestRefresher_WithoutSchedule(t *testing.T) {
	source := &mockSource{entries: []types.TagCatalogEntry{{ID: 1, Name: "Hockey"}}}
	catalog, err := NewCatalog(context.Background(), source)
	require.NoError(t, err)

	refresher := NewRefresher(catalog, RefreshHourly).WithoutSchedule()
	refresher.Start()
	defer refresher.Stop()

	// Manual triggers still work without the ticker.
	source.set([]types.TagCatalogEntry{{ID: 1, Name: "Hockey"}, {ID: 2, Name: "Engineering"}}, nil)
	refresher.TriggerNow()

	assert.Eventually(t, func() bool {
		return len(catalog.Snapshot().Entries()) == 2
	}, 2*time.Second, 10*time.Millisecond)
}
