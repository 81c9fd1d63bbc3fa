package fetch

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"
)

// ErrRetriesExhausted marks a request whose retry budget ran out without a 200 response.
var ErrRetriesExhausted = errors.New("retries exhausted")

// StatusError reports a non-200 HTTP response.
type StatusError struct {
	StatusCode int
	Body       string
	// RetryAfter is the parsed Retry-After hint; HasRetryAfter reports whether
	// the header was present, since zero is a valid hint.
	RetryAfter    time.Duration
	HasRetryAfter bool
}

func (e *StatusError) Error() string {
	body := strings.TrimSpace(e.Body)
	if body == "" {
		return fmt.Sprintf("http %d", e.StatusCode)
	}
	return fmt.Sprintf("http %d: %s", e.StatusCode, body)
}

// Error describes a failed request with the URL and parameters attached so the
// caller can log exactly which lookup was abandoned.
type Error struct {
	URL      string
	Params   url.Values
	Attempts int
	Err      error
}

func (e *Error) Error() string {
	target := e.URL
	if len(e.Params) > 0 {
		target += "?" + e.Params.Encode()
	}
	return fmt.Sprintf("fetch %s failed after %d attempt(s): %v", target, e.Attempts, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// StatusCode returns the last HTTP status observed for err, or zero when the
// failure happened below HTTP.
func StatusCode(err error) int {
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.StatusCode
	}
	return 0
}

// summarizeBody trims a response body to something that fits a log line.
func summarizeBody(body []byte) string {
	const limit = 200
	text := strings.TrimSpace(string(body))
	if len(text) <= limit {
		return text
	}
	return text[:limit] + "…"
}
