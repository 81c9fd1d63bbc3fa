// Package services defines shared utilities consumed by the pipeline stages
// and external integrations.
//
// Key responsibilities:
//   - Context helpers that stamp run IDs, stage names, film labels and
//     release-group identifiers for logging.
//   - Structured error markers plus the Wrap helper, and Classify, which turns
//     a failure into a skip-or-abort decision for the pipeline driver.
//
// Use these helpers when wiring new stage logic so error handling and
// observability stay uniform across the pipeline.
package services
