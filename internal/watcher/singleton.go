package watcher

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

// Singleton ensures only one watcher runs per project using a file lock.
type Singleton struct {
	lockPath string
	lock     *flock.Flock
}

// NewSingleton creates a singleton guarded by the lock file at lockPath.
func NewSingleton(lockPath string) *Singleton {
	return &Singleton{
		lockPath: lockPath,
	}
}

// Acquire attempts to become the single instance.
// Returns (true, nil) if this process won and should continue.
// Returns (false, nil) if another instance holds the lock.
// Returns (false, err) on actual errors.
func (s *Singleton) Acquire() (bool, error) {
	if err := os.MkdirAll(filepath.Dir(s.lockPath), 0755); err != nil {
		return false, fmt.Errorf("failed to create lock directory: %w", err)
	}

	s.lock = flock.New(s.lockPath)
	locked, err := s.lock.TryLock()
	if err != nil {
		return false, fmt.Errorf("failed to acquire lock: %w", err)
	}
	return locked, nil
}

// Release releases the file lock (called on shutdown).
func (s *Singleton) Release() error {
	if s.lock != nil {
		return s.lock.Unlock()
	}
	return nil
}
