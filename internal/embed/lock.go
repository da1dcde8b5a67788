package embed

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

// GenerationLock serializes embedding-file generation across processes, so
// two concurrent `escrituras embed` runs cannot interleave writes to the
// same data directory.
type GenerationLock struct {
	path   string
	flock  *flock.Flock
	locked bool
}

// NewGenerationLock creates a lock scoped to one data directory. The lock
// file lives at <dir>/.embed.lock.
func NewGenerationLock(dir string) *GenerationLock {
	path := filepath.Join(dir, ".embed.lock")
	return &GenerationLock{path: path, flock: flock.New(path)}
}

// Lock blocks until the exclusive lock is acquired.
func (l *GenerationLock) Lock() error {
	if err := os.MkdirAll(filepath.Dir(l.path), 0o755); err != nil {
		return fmt.Errorf("failed to create lock directory: %w", err)
	}
	if err := l.flock.Lock(); err != nil {
		return fmt.Errorf("failed to acquire embed lock: %w", err)
	}
	l.locked = true
	return nil
}

// TryLock attempts the lock without blocking. Returns false when another
// process holds it.
func (l *GenerationLock) TryLock() (bool, error) {
	if err := os.MkdirAll(filepath.Dir(l.path), 0o755); err != nil {
		return false, fmt.Errorf("failed to create lock directory: %w", err)
	}
	acquired, err := l.flock.TryLock()
	if err != nil {
		return false, fmt.Errorf("failed to try embed lock: %w", err)
	}
	l.locked = acquired
	return acquired, nil
}

// Unlock releases the lock. Safe to call when not held.
func (l *GenerationLock) Unlock() error {
	if !l.locked {
		return nil
	}
	l.locked = false
	return l.flock.Unlock()
}
