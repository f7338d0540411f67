package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/daniel/fieldnote-analyzer/internal/types"
)

// Report is one persisted analysis result.
type Report struct {
	ID           uuid.UUID             `json:"id"`
	UserID       string                `json:"user_id"`
	ProspectName string                `json:"prospect_name"`
	Transcript   string                `json:"transcript"`
	Record       types.ExtractedRecord `json:"record"`
	MatchedTags  []string              `json:"matched_tags"`
	QualityScore float64               `json:"quality_score"`
	Synopsis     string                `json:"synopsis"`
	Degraded     bool                  `json:"degraded"`
	CreatedAt    time.Time             `json:"created_at"`
}

// SaveReport stores a finished pipeline result and returns the new report ID.
func (s *Store) SaveReport(ctx context.Context, userID string, result *types.PipelineResult) (uuid.UUID, error) {
	recordJSON, err := json.Marshal(result.Record)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to marshal record: %w", err)
	}
	tagsJSON, err := json.Marshal(result.MatchedTags)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to marshal tags: %w", err)
	}

	var id uuid.UUID
	err = s.pool.QueryRow(ctx,
		`INSERT INTO reports (user_id, prospect_name, transcript, record, matched_tags, quality_score, synopsis, degraded)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING id`,
		userID, result.Record.ProspectNameHint, result.Transcript, recordJSON, tagsJSON,
		result.Quality.Score, result.Synopsis, result.Degraded(),
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to save report: %w", err)
	}
	return id, nil
}

// GetReport retrieves a report by ID. Returns nil when no such report exists.
func (s *Store) GetReport(ctx context.Context, id uuid.UUID) (*Report, error) {
	var (
		r          Report
		recordJSON []byte
		tagsJSON   []byte
	)
	err := s.pool.QueryRow(ctx,
		`SELECT id, user_id, prospect_name, transcript, record, matched_tags, quality_score, synopsis, degraded, created_at
		 FROM reports WHERE id = $1`,
		id,
	).Scan(&r.ID, &r.UserID, &r.ProspectName, &r.Transcript, &recordJSON, &tagsJSON,
		&r.QualityScore, &r.Synopsis, &r.Degraded, &r.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get report: %w", err)
	}

	if err := json.Unmarshal(recordJSON, &r.Record); err != nil {
		return nil, fmt.Errorf("failed to unmarshal record: %w", err)
	}
	if err := json.Unmarshal(tagsJSON, &r.MatchedTags); err != nil {
		return nil, fmt.Errorf("failed to unmarshal tags: %w", err)
	}
	return &r, nil
}

// ListReports returns the most recent reports for a user, newest first.
func (s *Store) ListReports(ctx context.Context, userID string, limit int) ([]Report, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.pool.Query(ctx,
		`SELECT id, user_id, prospect_name, transcript, record, matched_tags, quality_score, synopsis, degraded, created_at
		 FROM reports WHERE user_id = $1
		 ORDER BY created_at DESC
		 LIMIT $2`,
		userID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}
	defer rows.Close()

	var reports []Report
	for rows.Next() {
		var (
			r          Report
			recordJSON []byte
			tagsJSON   []byte
		)
		if err := rows.Scan(&r.ID, &r.UserID, &r.ProspectName, &r.Transcript, &recordJSON, &tagsJSON,
			&r.QualityScore, &r.Synopsis, &r.Degraded, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan report: %w", err)
		}
		if err := json.Unmarshal(recordJSON, &r.Record); err != nil {
			return nil, fmt.Errorf("failed to unmarshal record: %w", err)
		}
		if err := json.Unmarshal(tagsJSON, &r.MatchedTags); err != nil {
			return nil, fmt.Errorf("failed to unmarshal tags: %w", err)
		}
		reports = append(reports, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read reports: %w", err)
	}
	return reports, nil
}
