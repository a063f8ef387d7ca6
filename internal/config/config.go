// Package config loads the dashboard's JSON configuration. All fields are
// optional pointers so partial files work; the Get* methods supply the
// defaults.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Config is the startup configuration. Fields omitted from the JSON file
// fall back to defaults, so partial configs are safe.
type Config struct {
	// BackendURL is the analytics backend base URL.
	BackendURL *string `json:"backend_url,omitempty"`
	// Listen is the local viewer's listen address.
	Listen *string `json:"listen,omitempty"`
	// HistoryDB is the filter-history sqlite file path. Empty disables
	// history.
	HistoryDB *string `json:"history_db,omitempty"`
	// RequestTimeout bounds each backend call, duration string like "30s".
	RequestTimeout *string `json:"request_timeout,omitempty"`

	// Forecast mode defaults
	ForecastModel   *string `json:"forecast_model,omitempty"`
	ForecastHorizon *int    `json:"forecast_horizon,omitempty"`
}

// Empty returns a Config with all fields unset.
func Empty() *Config {
	return &Config{}
}

// Load reads and validates a Config from a JSON file.
func Load(path string) (*Config, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	info, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024
	if info.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", info.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Empty()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Validate checks the configuration values.
func (c *Config) Validate() error {
	if c.RequestTimeout != nil && *c.RequestTimeout != "" {
		if _, err := time.ParseDuration(*c.RequestTimeout); err != nil {
			return fmt.Errorf("invalid request_timeout '%s': %w", *c.RequestTimeout, err)
		}
	}
	if c.ForecastHorizon != nil && *c.ForecastHorizon <= 0 {
		return fmt.Errorf("forecast_horizon must be positive, got %d", *c.ForecastHorizon)
	}
	if c.BackendURL != nil && *c.BackendURL == "" {
		return fmt.Errorf("backend_url must not be empty when set")
	}
	return nil
}

// GetBackendURL returns the backend base URL or the default.
func (c *Config) GetBackendURL() string {
	if c.BackendURL == nil {
		return "http://localhost:5000"
	}
	return *c.BackendURL
}

// GetListen returns the viewer listen address or the default.
func (c *Config) GetListen() string {
	if c.Listen == nil || *c.Listen == "" {
		return ":8080"
	}
	return *c.Listen
}

// GetHistoryDB returns the history database path; empty means disabled.
func (c *Config) GetHistoryDB() string {
	if c.HistoryDB == nil {
		return "filter_history.db"
	}
	return *c.HistoryDB
}

// GetRequestTimeout parses and returns the per-request timeout.
func (c *Config) GetRequestTimeout() time.Duration {
	if c.RequestTimeout == nil || *c.RequestTimeout == "" {
		return 30 * time.Second
	}
	d, err := time.ParseDuration(*c.RequestTimeout)
	if err != nil {
		return 30 * time.Second
	}
	return d
}

// GetForecastModel returns the default forecast model key.
func (c *Config) GetForecastModel() string {
	if c.ForecastModel == nil || *c.ForecastModel == "" {
		return "random_forest"
	}
	return *c.ForecastModel
}

// GetForecastHorizon returns the default forecast horizon in months.
func (c *Config) GetForecastHorizon() int {
	if c.ForecastHorizon == nil {
		return 6
	}
	return *c.ForecastHorizon
}
