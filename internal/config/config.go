// Package config provides configuration loading and validation for the CLI.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/daniel/fieldnote-analyzer/internal/matching"
)

// Config represents the analyzer configuration that can be loaded from a JSON
// file. All fields are optional; missing values use defaults or must be
// provided via CLI flags.
type Config struct {
	// Services
	APIKey      string `json:"api_key,omitempty"`      // Gemini API key
	DatabaseURL string `json:"database_url,omitempty"` // PostgreSQL connection URL
	SpeechURL   string `json:"speech_url,omitempty"`   // Speech-to-text service base URL

	// Server
	Addr string `json:"addr,omitempty"` // HTTP listen address (host:port)

	// Pipeline budgets, in seconds
	DeadlineSeconds      int `json:"deadline_seconds,omitempty"`       // Outer request deadline
	BranchTimeoutSeconds int `json:"branch_timeout_seconds,omitempty"` // Per enrichment branch

	// Tag catalog
	TagRefreshInterval string `json:"tag_refresh_interval,omitempty"` // hourly, daily, or weekly

	// Behavior
	Verbose bool `json:"verbose,omitempty"` // Print detailed debug information
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// Validate checks that the configuration has valid values.
// Note: This doesn't check for required fields since those are handled
// by CLI flag validation after merging.
func (c *Config) Validate() error {
	if c.DeadlineSeconds < 0 {
		return fmt.Errorf("config error: 'deadline_seconds' must be non-negative")
	}
	if c.BranchTimeoutSeconds < 0 {
		return fmt.Errorf("config error: 'branch_timeout_seconds' must be non-negative")
	}
	if c.BranchTimeoutSeconds > 0 && c.DeadlineSeconds > 0 && c.BranchTimeoutSeconds > c.DeadlineSeconds {
		return fmt.Errorf("config error: 'branch_timeout_seconds' cannot exceed 'deadline_seconds'")
	}

	if c.TagRefreshInterval != "" {
		if !matching.RefreshInterval(c.TagRefreshInterval).Valid() {
			return fmt.Errorf("config error: 'tag_refresh_interval' must be hourly, daily, or weekly")
		}
	}

	return nil
}

// MergeWithDefaults returns a new Config with empty fields filled from
// defaults. This is used to apply config file values as defaults for CLI
// flags.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	// String fields: use default if empty
	if result.APIKey == "" {
		result.APIKey = defaults.APIKey
	}
	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}
	if result.SpeechURL == "" {
		result.SpeechURL = defaults.SpeechURL
	}
	if result.Addr == "" {
		result.Addr = defaults.Addr
	}
	if result.TagRefreshInterval == "" {
		result.TagRefreshInterval = defaults.TagRefreshInterval
	}

	// Int fields: use default if zero
	if result.DeadlineSeconds == 0 {
		result.DeadlineSeconds = defaults.DeadlineSeconds
	}
	if result.BranchTimeoutSeconds == 0 {
		result.BranchTimeoutSeconds = defaults.BranchTimeoutSeconds
	}

	// Bool fields: cannot distinguish unset from false, so we don't merge
	// (CLI flags should always win for bools)

	return result
}
