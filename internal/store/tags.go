package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/daniel/fieldnote-analyzer/internal/types"
)

// ListTags returns every affinity tag in the catalog, ordered by name.
func (s *Store) ListTags(ctx context.Context) ([]types.TagCatalogEntry, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, name, category FROM affinity_tags ORDER BY name`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list tags: %w", err)
	}
	defer rows.Close()

	var tags []types.TagCatalogEntry
	for rows.Next() {
		var t types.TagCatalogEntry
		if err := rows.Scan(&t.ID, &t.Name, &t.Category); err != nil {
			return nil, fmt.Errorf("failed to scan tag: %w", err)
		}
		tags = append(tags, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read tags: %w", err)
	}
	return tags, nil
}

// ReplaceTags atomically swaps the catalog contents for the given entries.
// Used by the tag sync job; invalid entries (blank names) are rejected before
// any write happens.
func (s *Store) ReplaceTags(ctx context.Context, entries []types.TagCatalogEntry) error {
	for _, e := range entries {
		if strings.TrimSpace(e.Name) == "" {
			return fmt.Errorf("tag name cannot be empty (id %d)", e.ID)
		}
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin tag replace: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM affinity_tags`); err != nil {
		return fmt.Errorf("failed to clear tags: %w", err)
	}
	for _, e := range entries {
		_, err := tx.Exec(ctx,
			`INSERT INTO affinity_tags (id, name, category) VALUES ($1, $2, $3)`,
			e.ID, e.Name, e.Category,
		)
		if err != nil {
			return fmt.Errorf("failed to insert tag %q: %w", e.Name, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit tag replace: %w", err)
	}
	return nil
}

// FetchTags implements the catalog source interface used by the matcher's
// refresh loop.
func (s *Store) FetchTags(ctx context.Context) ([]types.TagCatalogEntry, error) {
	return s.ListTags(ctx)
}
