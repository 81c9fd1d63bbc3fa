package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrValidation    = errors.New("validation error")
	ErrConfiguration = errors.New("configuration error")
	ErrNotFound      = errors.New("not found")
	ErrTransient     = errors.New("transient failure")
	ErrPersistence   = errors.New("persistence failure")
)

// Severity classifies how far a failure should propagate through the pipeline.
type Severity string

const (
	// SeveritySkip abandons the current work item and lets the run continue.
	SeveritySkip Severity = "skip"
	// SeverityFatal aborts the run.
	SeverityFatal Severity = "fatal"
)

// Wrap builds an error message that includes stage context while tagging it with
// the provided marker for later classification. The marker should be one of the
// exported sentinel errors above.
func Wrap(marker error, stage, operation, message string, err error) error {
	detail := buildDetail(stage, operation, message)
	if marker == nil {
		marker = ErrTransient
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// Classify maps an error to the severity the pipeline driver should apply.
// Configuration and persistence problems end the run; everything else only
// costs the current item.
func Classify(err error) Severity {
	switch {
	case err == nil:
		return SeveritySkip
	case errors.Is(err, ErrConfiguration), errors.Is(err, ErrPersistence):
		return SeverityFatal
	default:
		return SeveritySkip
	}
}

func buildDetail(stage, operation, message string) string {
	parts := make([]string, 0, 3)
	if stage = strings.TrimSpace(stage); stage != "" {
		parts = append(parts, stage)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
