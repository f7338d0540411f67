package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
)

// GetSynopsisTemplate returns the user's custom synopsis prompt template, or
// an empty string when the user has never saved one.
func (s *Store) GetSynopsisTemplate(ctx context.Context, userID string) (string, error) {
	var template string
	err := s.pool.QueryRow(ctx,
		`SELECT template FROM synopsis_templates WHERE user_id = $1`,
		userID,
	).Scan(&template)
	if err != nil {
		if err == pgx.ErrNoRows {
			return "", nil
		}
		return "", fmt.Errorf("failed to get synopsis template: %w", err)
	}
	return template, nil
}

// SaveSynopsisTemplate upserts a user's synopsis prompt template. Saving a
// blank template removes the override instead.
func (s *Store) SaveSynopsisTemplate(ctx context.Context, userID, template string) error {
	if strings.TrimSpace(template) == "" {
		return s.DeleteSynopsisTemplate(ctx, userID)
	}

	_, err := s.pool.Exec(ctx,
		`INSERT INTO synopsis_templates (user_id, template, updated_at)
		 VALUES ($1, $2, NOW())
		 ON CONFLICT (user_id) DO UPDATE SET template = $2, updated_at = NOW()`,
		userID, template,
	)
	if err != nil {
		return fmt.Errorf("failed to save synopsis template: %w", err)
	}
	return nil
}

// DeleteSynopsisTemplate removes a user's template override; subsequent
// requests fall back to the built-in default.
func (s *Store) DeleteSynopsisTemplate(ctx context.Context, userID string) error {
	_, err := s.pool.Exec(ctx,
		`DELETE FROM synopsis_templates WHERE user_id = $1`,
		userID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete synopsis template: %w", err)
	}
	return nil
}
