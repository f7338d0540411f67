package store

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/daniel/fieldnote-analyzer/internal/matching"
)

// Defaults used when no matching settings row has ever been written.
const (
	DefaultThresholdPercent = 25
	DefaultRefreshInterval  = string(matching.RefreshDaily)
)

// MatchingSettings is the singleton administrative record controlling tag
// matching. The threshold is stored on the 0-100 scale it is edited on.
type MatchingSettings struct {
	ThresholdPercent int       `json:"threshold_percent"`
	AutoRefresh      bool      `json:"auto_refresh"`
	RefreshInterval  string    `json:"refresh_interval"`
	UpdatedAt        time.Time `json:"updated_at"`
}

func defaultMatchingSettings() *MatchingSettings {
	return &MatchingSettings{
		ThresholdPercent: DefaultThresholdPercent,
		AutoRefresh:      true,
		RefreshInterval:  DefaultRefreshInterval,
	}
}

// validate checks the editable fields.
func (m *MatchingSettings) validate() error {
	if m.ThresholdPercent < 0 || m.ThresholdPercent > 100 {
		return fmt.Errorf("threshold must be between 0 and 100, got %d", m.ThresholdPercent)
	}
	if !matching.RefreshInterval(m.RefreshInterval).Valid() {
		return fmt.Errorf("refresh interval must be hourly, daily, or weekly, got %q", m.RefreshInterval)
	}
	return nil
}

// GetMatchingSettings returns the current settings, falling back to defaults
// when the row has never been written.
func (s *Store) GetMatchingSettings(ctx context.Context) (*MatchingSettings, error) {
	var m MatchingSettings
	err := s.pool.QueryRow(ctx,
		`SELECT threshold_percent, auto_refresh, refresh_interval, updated_at
		 FROM matching_settings WHERE id = 1`,
	).Scan(&m.ThresholdPercent, &m.AutoRefresh, &m.RefreshInterval, &m.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return defaultMatchingSettings(), nil
		}
		return nil, fmt.Errorf("failed to get matching settings: %w", err)
	}
	return &m, nil
}

// UpdateMatchingSettings validates and upserts the singleton settings row.
// Changes apply to requests that start after the write; in-flight requests
// keep the values they captured.
func (s *Store) UpdateMatchingSettings(ctx context.Context, settings MatchingSettings) (*MatchingSettings, error) {
	if err := settings.validate(); err != nil {
		return nil, err
	}

	var m MatchingSettings
	err := s.pool.QueryRow(ctx,
		`INSERT INTO matching_settings (id, threshold_percent, auto_refresh, refresh_interval, updated_at)
		 VALUES (1, $1, $2, $3, NOW())
		 ON CONFLICT (id) DO UPDATE SET threshold_percent = $1, auto_refresh = $2, refresh_interval = $3, updated_at = NOW()
		 RETURNING threshold_percent, auto_refresh, refresh_interval, updated_at`,
		settings.ThresholdPercent, settings.AutoRefresh, settings.RefreshInterval,
	).Scan(&m.ThresholdPercent, &m.AutoRefresh, &m.RefreshInterval, &m.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to update matching settings: %w", err)
	}
	return &m, nil
}
