package fetch

import (
	"net/http"
	"testing"
	"time"
)

func TestPolicyDelay(t *testing.T) {
	detail := DetailPolicy()
	tests := []struct {
		name       string
		policy     Policy
		attempt    int
		retryAfter time.Duration
		ok         bool
		want       time.Duration
	}{
		{name: "default without header", policy: DefaultPolicy(), attempt: 1, want: time.Second},
		{name: "default later attempt stays constant", policy: DefaultPolicy(), attempt: 4, want: time.Second},
		{name: "default honors header", policy: DefaultPolicy(), attempt: 1, retryAfter: 7 * time.Second, ok: true, want: 7 * time.Second},
		{name: "detail first", policy: detail, attempt: 1, want: time.Second},
		{name: "detail second", policy: detail, attempt: 2, want: 2 * time.Second},
		{name: "detail capped", policy: detail, attempt: 10, want: 8 * time.Second},
		{name: "detail honors longer header", policy: detail, attempt: 1, retryAfter: 7 * time.Second, ok: true, want: 7 * time.Second},
		{name: "detail header beyond cap", policy: detail, attempt: 2, retryAfter: 30 * time.Second, ok: true, want: 30 * time.Second},
		{name: "detail backoff beats shorter header", policy: detail, attempt: 2, retryAfter: 0, ok: true, want: 2 * time.Second},
		{name: "default zero header", policy: DefaultPolicy(), attempt: 1, retryAfter: 0, ok: true, want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.policy.Delay(tt.attempt, tt.retryAfter, tt.ok); got != tt.want {
				t.Fatalf("Delay() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPolicyAttemptsAndRetryable(t *testing.T) {
	if got := DefaultPolicy().Attempts(); got != 5 {
		t.Fatalf("default attempts = %d, want 5", got)
	}
	if got := DetailPolicy().Attempts(); got != 3 {
		t.Fatalf("detail attempts = %d, want 3", got)
	}
	if got := (Policy{}).Attempts(); got != 1 {
		t.Fatalf("zero policy attempts = %d, want 1", got)
	}
	p := DefaultPolicy()
	if !p.Retryable(http.StatusServiceUnavailable) {
		t.Fatal("expected 503 to be retryable")
	}
	if p.Retryable(http.StatusNotFound) {
		t.Fatal("expected 404 not to be retryable")
	}
}

func TestParseRetryAfter(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	if d, ok := ParseRetryAfter("5", now); !ok || d != 5*time.Second {
		t.Fatalf("seconds form: got %v %v", d, ok)
	}
	date := now.Add(10 * time.Second).Format(http.TimeFormat)
	if d, ok := ParseRetryAfter(date, now); !ok || d != 10*time.Second {
		t.Fatalf("date form: got %v %v", d, ok)
	}
	if _, ok := ParseRetryAfter("", now); ok {
		t.Fatal("expected empty header to be absent")
	}
	if _, ok := ParseRetryAfter("soon", now); ok {
		t.Fatal("expected garbage header to be absent")
	}
}
