// Package logging assembles structured slog loggers and formatting helpers used
// across soundgraph.
//
// It owns the configurable console/JSON handlers, centralizes level and output
// plumbing, stamps every record with the run identifier, and exposes
// context-aware helpers so pipeline code automatically tags log lines with the
// film and release group being processed. The package also provides a no-op
// logger for tests and wiring code that cannot fail.
package logging
