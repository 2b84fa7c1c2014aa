package watcher

import (
	"context"
	"time"
)

// FileWatcher monitors TypeScript sources for changes with debouncing and pause/resume support.
type FileWatcher interface {
	// Start begins watching source directories, calling callback with debounced file changes.
	Start(ctx context.Context, callback func(files []string)) error

	// Stop stops the file watcher and cleans up resources.
	Stop() error

	// Pause stops firing callbacks but continues accumulating events.
	Pause()

	// Resume resumes firing callbacks. If events accumulated during pause, fires immediately.
	Resume()
}

// Option configures a FileWatcher.
type Option func(*fileWatcher)

// WithDebounce sets the quiet period before the callback fires.
func WithDebounce(d time.Duration) Option {
	return func(fw *fileWatcher) {
		if d > 0 {
			fw.debounceTime = d
		}
	}
}

// WithIgnore skips directories for which ignore returns true. Files are filtered
// by suffix only. The path passed to ignore is absolute.
func WithIgnore(ignore func(path string) bool) Option {
	return func(fw *fileWatcher) {
		fw.ignore = ignore
	}
}
