package matching

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/daniel/fieldnote-analyzer/internal/types"
)

// Snapshot is one immutable generation of the tag catalog. Requests capture a
// snapshot at start and keep it for their whole lifetime; refreshes build a
// new snapshot and swap the pointer.
type Snapshot struct {
	entries   []types.TagCatalogEntry
	refreshed time.Time
}

// NewSnapshot copies the entries into an immutable snapshot.
func NewSnapshot(entries []types.TagCatalogEntry) *Snapshot {
	copied := make([]types.TagCatalogEntry, len(entries))
	copy(copied, entries)
	return &Snapshot{entries: copied, refreshed: time.Now()}
}

// Entries returns the snapshot's tags. Callers must not mutate the slice.
func (s *Snapshot) Entries() []types.TagCatalogEntry {
	if s == nil {
		return nil
	}
	return s.entries
}

// RefreshedAt reports when this snapshot was built.
func (s *Snapshot) RefreshedAt() time.Time {
	return s.refreshed
}

// Source provides the catalog's contents, typically the affinity_tags table.
type Source interface {
	FetchTags(ctx context.Context) ([]types.TagCatalogEntry, error)
}

// Catalog holds the current snapshot behind an atomic pointer. Reads vastly
// outnumber refreshes, so there is no lock on the read path.
type Catalog struct {
	current atomic.Pointer[Snapshot]
	source  Source
}

// NewCatalog creates a catalog and loads the initial snapshot from source.
func NewCatalog(ctx context.Context, source Source) (*Catalog, error) {
	c := &Catalog{source: source}
	if err := c.Refresh(ctx); err != nil {
		return nil, err
	}
	return c, nil
}

// NewCatalogFromSnapshot creates a catalog with a fixed snapshot and no
// source. Used in tests and by the one-shot CLI path.
func NewCatalogFromSnapshot(snapshot *Snapshot) *Catalog {
	c := &Catalog{}
	c.current.Store(snapshot)
	return c
}

// Snapshot returns the current generation.
func (c *Catalog) Snapshot() *Snapshot {
	return c.current.Load()
}

// Refresh fetches the catalog from its source and swaps in a new snapshot.
// On error the previous snapshot stays in place.
func (c *Catalog) Refresh(ctx context.Context) error {
	entries, err := c.source.FetchTags(ctx)
	if err != nil {
		return err
	}
	c.current.Store(NewSnapshot(entries))
	return nil
}
