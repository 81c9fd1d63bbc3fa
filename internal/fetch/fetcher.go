package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"soundgraph/internal/logging"
)

const (
	defaultHTTPTimeout = 30 * time.Second
	defaultUserAgent   = "soundgraph/dev"
	maxBodyBytes       = 32 << 20
)

// Request describes a single GET against a remote service.
type Request struct {
	URL    string
	Params url.Values
	Accept string
}

func (r Request) target() (string, error) {
	endpoint, err := url.Parse(r.URL)
	if err != nil {
		return "", fmt.Errorf("parse url: %w", err)
	}
	if len(r.Params) > 0 {
		endpoint.RawQuery = r.Params.Encode()
	}
	return endpoint.String(), nil
}

// Response is a fully read 200 response.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
	Attempts   int
}

// Config describes the Fetcher configuration.
type Config struct {
	UserAgent   string
	MinInterval time.Duration
	Policy      Policy
	HTTPClient  *http.Client
	Logger      *slog.Logger
	Metrics     *Metrics
}

// Fetcher issues paced, retried GET requests. At most one request is in flight
// per Fetcher; concurrent callers queue on an internal lock.
type Fetcher struct {
	userAgent   string
	minInterval time.Duration
	policy      Policy
	http        *http.Client
	logger      *slog.Logger
	metrics     *Metrics

	sleeper func(context.Context, time.Duration) error
	now     func() time.Time

	mu          sync.Mutex
	lastSuccess time.Time
}

// Option customizes the Fetcher.
type Option func(*Fetcher)

// WithSleeper overrides how pacing and retry sleeps are performed (useful for tests).
func WithSleeper(sleeper func(context.Context, time.Duration) error) Option {
	return func(f *Fetcher) {
		if sleeper != nil {
			f.sleeper = sleeper
		}
	}
}

// WithClock overrides the time source used for pacing.
func WithClock(now func() time.Time) Option {
	return func(f *Fetcher) {
		if now != nil {
			f.now = now
		}
	}
}

// New constructs a Fetcher.
func New(cfg Config, opts ...Option) *Fetcher {
	userAgent := strings.TrimSpace(cfg.UserAgent)
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: defaultHTTPTimeout}
	}
	policy := cfg.Policy
	if policy.MaxAttempts == 0 && len(policy.RetryStatuses) == 0 {
		policy = DefaultPolicy()
	}
	f := &Fetcher{
		userAgent:   userAgent,
		minInterval: cfg.MinInterval,
		policy:      policy,
		http:        client,
		logger:      logging.NewComponentLogger(cfg.Logger, "fetch"),
		metrics:     cfg.Metrics,
		sleeper:     SleepWithContext,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Policy returns the default policy applied by Fetch.
func (f *Fetcher) Policy() Policy {
	return f.policy
}

// Fetch performs req under the Fetcher's default policy.
func (f *Fetcher) Fetch(ctx context.Context, req Request) (*Response, error) {
	return f.FetchWithPolicy(ctx, req, f.policy)
}

// FetchWithPolicy performs req under policy. A 200 response is returned as-is
// and starts the pacing window; retryable statuses and transport timeouts are
// retried until the attempt budget runs out; any other status fails at once.
func (f *Fetcher) FetchWithPolicy(ctx context.Context, req Request, policy Policy) (*Response, error) {
	if f == nil {
		return nil, errors.New("fetch: fetcher is nil")
	}
	if ctx == nil {
		return nil, errors.New("fetch: nil context")
	}
	target, err := req.target()
	if err != nil {
		return nil, &Error{URL: req.URL, Params: req.Params, Attempts: 0, Err: err}
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	attempts := policy.Attempts()
	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if err := f.waitForWindow(ctx); err != nil {
			return nil, &Error{URL: req.URL, Params: req.Params, Attempts: attempt - 1, Err: err}
		}

		resp, err := f.do(ctx, target, req.Accept)
		if err == nil {
			f.lastSuccess = f.now()
			resp.Attempts = attempt
			f.metrics.observeStatus(resp.StatusCode)
			return resp, nil
		}
		lastErr = err

		delay, retry := f.retryDelay(ctx, policy, err, attempt)
		if !retry {
			return nil, &Error{URL: req.URL, Params: req.Params, Attempts: attempt, Err: err}
		}
		if attempt == attempts {
			break
		}
		f.metrics.observeRetry()
		f.logger.Warn("remote service busy, retrying",
			logging.String("url", req.URL),
			logging.Int("attempt", attempt),
			logging.Int("max_attempts", attempts),
			logging.Duration("backoff", delay),
			logging.Error(err),
			logging.String(logging.FieldEventType, "fetch_retry"),
			logging.String(logging.FieldErrorHint, "the service is rate limiting or overloaded; requests are paced automatically"),
		)
		if err := f.sleeper(ctx, delay); err != nil {
			return nil, &Error{URL: req.URL, Params: req.Params, Attempts: attempt, Err: err}
		}
	}

	return nil, &Error{
		URL:      req.URL,
		Params:   req.Params,
		Attempts: attempts,
		Err:      fmt.Errorf("%w: %w", ErrRetriesExhausted, lastErr),
	}
}

func (f *Fetcher) do(ctx context.Context, target, accept string) (*Response, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("User-Agent", f.userAgent)
	if accept != "" {
		httpReq.Header.Set("Accept", accept)
	}

	resp, err := f.http.Do(httpReq)
	if err != nil {
		f.metrics.observeStatus(0)
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		f.metrics.observeStatus(resp.StatusCode)
		return nil, fmt.Errorf("read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		f.metrics.observeStatus(resp.StatusCode)
		statusErr := &StatusError{StatusCode: resp.StatusCode, Body: summarizeBody(body)}
		statusErr.RetryAfter, statusErr.HasRetryAfter = ParseRetryAfter(resp.Header.Get("Retry-After"), f.now())
		return nil, statusErr
	}
	return &Response{StatusCode: resp.StatusCode, Header: resp.Header.Clone(), Body: body}, nil
}

func (f *Fetcher) retryDelay(ctx context.Context, policy Policy, err error, attempt int) (time.Duration, bool) {
	if ctx.Err() != nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return 0, false
	}

	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		if !policy.Retryable(statusErr.StatusCode) {
			return 0, false
		}
		return policy.Delay(attempt, statusErr.RetryAfter, statusErr.HasRetryAfter), true
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return policy.Delay(attempt, 0, false), true
	}
	return 0, false
}

// waitForWindow blocks until MinInterval has elapsed since the last 200.
func (f *Fetcher) waitForWindow(ctx context.Context) error {
	if f.minInterval <= 0 || f.lastSuccess.IsZero() {
		return nil
	}
	elapsed := f.now().Sub(f.lastSuccess)
	if elapsed >= f.minInterval {
		return nil
	}
	wait := f.minInterval - elapsed
	f.metrics.observePacing(wait)
	return f.sleeper(ctx, wait)
}

// SleepWithContext blocks for the given duration, returning early if the
// context is cancelled.
func SleepWithContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
