package services

import "context"

type contextKey string

const (
	runIDKey        contextKey = "run_id"
	stageKey        contextKey = "stage"
	workKey         contextKey = "work"
	releaseGroupKey contextKey = "release_group"
)

// WithRunID annotates context with the pipeline run identifier.
func WithRunID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, runIDKey, id)
}

// RunIDFromContext extracts the run identifier if present.
func RunIDFromContext(ctx context.Context) (string, bool) {
	return stringValue(ctx, runIDKey)
}

// WithStage annotates context with the pipeline stage name.
func WithStage(ctx context.Context, stage string) context.Context {
	if stage == "" {
		return ctx
	}
	return context.WithValue(ctx, stageKey, stage)
}

// StageFromContext returns the stage name if present.
func StageFromContext(ctx context.Context) (string, bool) {
	return stringValue(ctx, stageKey)
}

// WithWork annotates context with the label of the film being enriched.
func WithWork(ctx context.Context, label string) context.Context {
	if label == "" {
		return ctx
	}
	return context.WithValue(ctx, workKey, label)
}

// WorkFromContext returns the film label if present.
func WorkFromContext(ctx context.Context) (string, bool) {
	return stringValue(ctx, workKey)
}

// WithReleaseGroup annotates context with the catalog release-group identifier.
func WithReleaseGroup(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, releaseGroupKey, id)
}

// ReleaseGroupFromContext returns the release-group identifier if present.
func ReleaseGroupFromContext(ctx context.Context) (string, bool) {
	return stringValue(ctx, releaseGroupKey)
}

func stringValue(ctx context.Context, key contextKey) (string, bool) {
	if ctx == nil {
		return "", false
	}
	if str, ok := ctx.Value(key).(string); ok && str != "" {
		return str, true
	}
	return "", false
}
