// Package testsupport provides shared helpers for package tests.
package testsupport

import (
	"path/filepath"
	"testing"

	"markfind/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp directories per test.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.WorkDir = filepath.Join(base, "work")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Paths.DatabasePath = filepath.Join(base, "watermarks.db")

	for _, opt := range opts {
		opt(&cfg)
	}
	return &cfg
}

// WithSceneThreshold overrides the scene detection threshold.
func WithSceneThreshold(threshold float64) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Scan.SceneThreshold = threshold
	}
}

// WithConfidenceThreshold overrides the OCR acceptance threshold.
func WithConfidenceThreshold(threshold float64) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Scan.ConfidenceThreshold = threshold
	}
}
