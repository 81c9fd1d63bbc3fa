package main

import (
	"testing"
	"time"

	"soundgraph/internal/config"
)

func TestRetryPoliciesKeepRetryAfterHandling(t *testing.T) {
	cfg := config.Default()
	base, detail := retryPolicies(&cfg)

	if !base.HonorRetryAfter || base.DefaultRetryAfter != time.Second {
		t.Fatalf("unexpected base policy %+v", base)
	}
	if got := base.Delay(1, 0, true); got != 0 {
		t.Fatalf("expected zero Retry-After to be honored, got %v", got)
	}
	if !detail.HonorRetryAfter || detail.DefaultRetryAfter != time.Second {
		t.Fatalf("unexpected detail policy %+v", detail)
	}
	if detail.MaxAttempts != cfg.Retry.DetailMaxAttempts {
		t.Fatalf("expected %d detail attempts, got %d", cfg.Retry.DetailMaxAttempts, detail.MaxAttempts)
	}
	if got := detail.Delay(1, 7*time.Second, true); got != 7*time.Second {
		t.Fatalf("expected detail delay to follow Retry-After, got %v", got)
	}
	if got := detail.Delay(2, 0, false); got != 2*time.Second {
		t.Fatalf("expected detail backoff of 2s, got %v", got)
	}
}
