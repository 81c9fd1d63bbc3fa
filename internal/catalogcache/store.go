package catalogcache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"soundgraph/internal/logging"
)

// timestampLayout is fixed width so stored_at sorts lexically.
const timestampLayout = "2006-01-02T15:04:05.000000000Z"

// Store caches raw catalog responses keyed by request URL.
type Store struct {
	db     *sql.DB
	path   string
	ttl    time.Duration
	logger *slog.Logger
	now    func() time.Time
}

// Stats summarizes the cache contents.
type Stats struct {
	Path    string
	Entries int
	Expired int
	Bytes   int64
	Oldest  time.Time
	Newest  time.Time
}

// Option customizes the Store.
type Option func(*Store)

// WithClock overrides the time source used for expiry.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// Open creates or opens the cache database at path. A ttl of zero keeps
// entries forever.
func Open(path string, ttl time.Duration, logger *slog.Logger, opts ...Option) (*Store, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("catalog cache path required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create cache dir: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{
		db:     db,
		path:   path,
		ttl:    ttl,
		logger: logging.NewComponentLogger(logger, "catalog-cache"),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(store)
	}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database location.
func (s *Store) Path() string {
	if s == nil {
		return ""
	}
	return s.path
}

// Get returns the cached body for key. Expired entries are reported as misses.
func (s *Store) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if s == nil || s.db == nil {
		return nil, false, nil
	}
	var (
		body     []byte
		storedAt string
	)
	err := s.db.QueryRowContext(ctx,
		"SELECT body, stored_at FROM responses WHERE key = ?", key,
	).Scan(&body, &storedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("read cache entry: %w", err)
	}
	if s.expired(storedAt) {
		s.logger.Debug("catalog cache entry expired", logging.String("key", key))
		return nil, false, nil
	}
	return body, true, nil
}

// Put stores body under key, replacing any existing entry.
func (s *Store) Put(ctx context.Context, key string, body []byte) error {
	if s == nil || s.db == nil {
		return nil
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO responses (key, body, stored_at) VALUES (?, ?, ?)
         ON CONFLICT(key) DO UPDATE SET body = excluded.body, stored_at = excluded.stored_at`,
		key, body, s.now().UTC().Format(timestampLayout),
	)
	if err != nil {
		return fmt.Errorf("write cache entry: %w", err)
	}
	return nil
}

// Stats reports entry counts and age bounds.
func (s *Store) Stats(ctx context.Context) (Stats, error) {
	stats := Stats{Path: s.Path()}
	if s == nil || s.db == nil {
		return stats, nil
	}
	rows, err := s.db.QueryContext(ctx, "SELECT stored_at, length(body) FROM responses")
	if err != nil {
		return stats, fmt.Errorf("scan cache entries: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var (
			storedAt string
			size     int64
		)
		if err := rows.Scan(&storedAt, &size); err != nil {
			return stats, fmt.Errorf("scan cache entry: %w", err)
		}
		stats.Entries++
		stats.Bytes += size
		if s.expired(storedAt) {
			stats.Expired++
		}
		if ts, err := time.Parse(timestampLayout, storedAt); err == nil {
			if stats.Oldest.IsZero() || ts.Before(stats.Oldest) {
				stats.Oldest = ts
			}
			if ts.After(stats.Newest) {
				stats.Newest = ts
			}
		}
	}
	if err := rows.Err(); err != nil {
		return stats, fmt.Errorf("iterate cache entries: %w", err)
	}
	return stats, nil
}

// Clear removes every cached response and returns the number removed.
func (s *Store) Clear(ctx context.Context) (int64, error) {
	if s == nil || s.db == nil {
		return 0, nil
	}
	res, err := s.db.ExecContext(ctx, "DELETE FROM responses")
	if err != nil {
		return 0, fmt.Errorf("clear cache: %w", err)
	}
	removed, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	s.logger.Info("catalog cache cleared",
		logging.Int64("removed", removed),
		logging.String(logging.FieldEventType, "cache_cleared"),
	)
	return removed, nil
}

// Prune deletes expired entries.
func (s *Store) Prune(ctx context.Context) (int64, error) {
	if s == nil || s.db == nil || s.ttl <= 0 {
		return 0, nil
	}
	cutoff := s.now().Add(-s.ttl).UTC().Format(timestampLayout)
	res, err := s.db.ExecContext(ctx, "DELETE FROM responses WHERE stored_at < ?", cutoff)
	if err != nil {
		return 0, fmt.Errorf("prune cache: %w", err)
	}
	removed, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	return removed, nil
}

func (s *Store) expired(storedAt string) bool {
	if s.ttl <= 0 {
		return false
	}
	ts, err := time.Parse(timestampLayout, storedAt)
	if err != nil {
		return true
	}
	return s.now().Sub(ts) > s.ttl
}
