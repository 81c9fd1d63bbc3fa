package graphstore

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

// ErrLocked is returned when another run holds the document lock.
var ErrLocked = errors.New("graph document is locked by another run")

// DocumentLock is an advisory lock guarding a graph document.
type DocumentLock struct {
	lock *flock.Flock
}

// LockPath returns the lock file used for document.
func LockPath(document string) string {
	return document + ".lock"
}

// Lock acquires the advisory lock for document without blocking.
func Lock(document string) (*DocumentLock, error) {
	path := LockPath(document)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create lock dir: %w", err)
	}
	lock := flock.New(path)
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire document lock: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrLocked, path)
	}
	return &DocumentLock{lock: lock}, nil
}

// Unlock releases the lock. The lock file is left in place; unlinking it
// would let two runs lock different inodes under the same path.
func (l *DocumentLock) Unlock() error {
	if l == nil || l.lock == nil {
		return nil
	}
	if err := l.lock.Unlock(); err != nil {
		return fmt.Errorf("release document lock: %w", err)
	}
	return nil
}
