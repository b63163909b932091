// Package config loads roadwatch CLI settings from the environment and
// configures the global zerolog logger.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog"
)

// Config holds CLI configuration.
// Environment variables are parsed with the ROADWATCH_ prefix,
// e.g. ROADWATCH_API_BASE, ROADWATCH_HTTP_TIMEOUT.
type Config struct {
	// APIBase is the backend origin. Empty means unset; the client refuses it.
	APIBase string `envconfig:"API_BASE" default:""`

	LogLevel    string        `envconfig:"LOG_LEVEL" default:"info"`
	HTTPTimeout time.Duration `envconfig:"HTTP_TIMEOUT" default:"30s"`
	Debug       bool          `envconfig:"DEBUG" default:"false"`

	// MetricsAddr, when set, serves Prometheus metrics (e.g. ":9102").
	MetricsAddr string `envconfig:"METRICS_ADDR" default:""`
}

// Load parses ROADWATCH_* environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("ROADWATCH", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment variables: %w", err)
	}
	cfg.APIBase = strings.TrimRight(strings.TrimSpace(cfg.APIBase), "/")
	if cfg.HTTPTimeout <= 0 {
		return nil, fmt.Errorf("ROADWATCH_HTTP_TIMEOUT must be > 0, got %s", cfg.HTTPTimeout)
	}
	return &cfg, nil
}

// Level resolves LogLevel, with Debug forcing debug level. Unknown names
// fall back to info.
func (c *Config) Level() zerolog.Level {
	if c.Debug {
		return zerolog.DebugLevel
	}
	lvl, err := zerolog.ParseLevel(strings.ToLower(c.LogLevel))
	if err != nil || lvl == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return lvl
}
