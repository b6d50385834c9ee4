// Package testsupport provides shared builders for tests: temp-directory
// configs, open stores, and synthetic image fixtures.
package testsupport

import (
	"path/filepath"
	"testing"

	"shotsort/internal/config"
)

// ConfigOption customizes the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp directories per test,
// with the category tree created.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.SourceDir = filepath.Join(base, "shots")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Paths.DBPath = filepath.Join(base, "screenshots.db")

	for _, opt := range opts {
		opt(&cfg)
	}

	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories: %v", err)
	}
	return &cfg
}

// WithFeatures overrides the feature toggles on the test config.
func WithFeatures(features config.Features) ConfigOption {
	return func(c *config.Config) {
		c.Features = features
	}
}

// WithBackfillLimit sets the per-cycle backfill bound.
func WithBackfillLimit(limit int) ConfigOption {
	return func(c *config.Config) {
		c.Workflow.BackfillLimit = limit
	}
}
