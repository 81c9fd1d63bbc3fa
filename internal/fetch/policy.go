package fetch

import (
	"net/http"
	"slices"
	"strconv"
	"strings"
	"time"
)

// Policy is the single retry component shared by every remote call. It decides
// which responses are retried, how many attempts a request gets, and how long
// to wait between attempts.
type Policy struct {
	// MaxAttempts is the total number of attempts, including the first.
	MaxAttempts int
	// BaseDelay is the wait before the second attempt.
	BaseDelay time.Duration
	// MaxDelay caps every computed delay. Zero disables the cap.
	MaxDelay time.Duration
	// Multiplier grows the delay between consecutive retries. Values below 1
	// are treated as 1 (constant delay).
	Multiplier float64
	// HonorRetryAfter lets a server-provided Retry-After header lengthen the delay.
	HonorRetryAfter bool
	// DefaultRetryAfter is used when HonorRetryAfter is set and the header is absent.
	DefaultRetryAfter time.Duration
	// RetryStatuses lists the HTTP statuses that trigger a retry. Every other
	// non-200 status fails immediately.
	RetryStatuses []int
}

// DefaultPolicy is the fetch-level policy: five attempts, sleeping for the
// server's Retry-After (one second when absent) on 503.
func DefaultPolicy() Policy {
	return Policy{
		MaxAttempts:       5,
		Multiplier:        1,
		HonorRetryAfter:   true,
		DefaultRetryAfter: time.Second,
		RetryStatuses:     []int{http.StatusServiceUnavailable},
	}
}

// DetailPolicy is the tighter policy for release-group and release detail
// lookups: three attempts with exponential backoff (1s, 2s) on 503, stretched
// to the server's Retry-After when that is longer.
func DetailPolicy() Policy {
	return Policy{
		MaxAttempts:       3,
		BaseDelay:         time.Second,
		MaxDelay:          8 * time.Second,
		Multiplier:        2,
		HonorRetryAfter:   true,
		DefaultRetryAfter: time.Second,
		RetryStatuses:     []int{http.StatusServiceUnavailable},
	}
}

// Attempts returns the effective attempt budget (at least one).
func (p Policy) Attempts() int {
	if p.MaxAttempts <= 0 {
		return 1
	}
	return p.MaxAttempts
}

// Retryable reports whether status should be retried under this policy.
func (p Policy) Retryable(status int) bool {
	return slices.Contains(p.RetryStatuses, status)
}

// Delay returns the wait before the attempt following attempt (1-based).
// retryAfter is the parsed server hint; ok reports whether one was present.
func (p Policy) Delay(attempt int, retryAfter time.Duration, ok bool) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	multiplier := p.Multiplier
	if multiplier < 1 {
		multiplier = 1
	}
	delay := p.BaseDelay
	for i := 1; i < attempt; i++ {
		next := time.Duration(float64(delay) * multiplier)
		if p.MaxDelay > 0 && next > p.MaxDelay {
			delay = p.MaxDelay
			break
		}
		delay = next
	}
	if p.HonorRetryAfter {
		hint := p.DefaultRetryAfter
		if ok {
			hint = retryAfter
		}
		if hint > delay {
			delay = hint
		}
	}
	if p.MaxDelay > 0 && delay > p.MaxDelay && !(p.HonorRetryAfter && ok) {
		delay = p.MaxDelay
	}
	if delay < 0 {
		return 0
	}
	return delay
}

// ParseRetryAfter decodes a Retry-After header given either as delta seconds
// or as an HTTP date.
func ParseRetryAfter(value string, now time.Time) (time.Duration, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, false
	}
	if seconds, err := strconv.Atoi(value); err == nil {
		if seconds < 0 {
			return 0, false
		}
		return time.Duration(seconds) * time.Second, true
	}
	if when, err := http.ParseTime(value); err == nil {
		delay := when.Sub(now)
		if delay < 0 {
			return 0, true
		}
		return delay, true
	}
	return 0, false
}
