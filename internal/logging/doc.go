// Package logging assembles the structured slog loggers used across the
// watermark pipeline.
//
// It owns the console and JSON handlers, centralizes level and output
// plumbing, and provides a no-op logger for tests and wiring code that cannot
// fail. Components receive a logger tagged with a component attribute via
// NewComponentLogger; nothing in the repository logs through a global.
package logging
