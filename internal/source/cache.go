package source

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/maypok86/otter"
)

// DefaultCacheSize is the number of parsed units kept by NewCache when capacity is not positive.
const DefaultCacheSize = 256

// cachedUnit is a parsed unit shared by the cache and its leases. The cache holds
// one reference; the unit is closed when the last reference is released.
type cachedUnit struct {
	unit    *Unit
	modTime time.Time
	size    int64
	refs    atomic.Int32
}

// acquire takes a lease unless the unit was already closed.
func (e *cachedUnit) acquire() bool {
	for {
		n := e.refs.Load()
		if n == 0 {
			return false
		}
		if e.refs.CompareAndSwap(n, n+1) {
			return true
		}
	}
}

func (e *cachedUnit) release() {
	if e.refs.Add(-1) == 0 {
		e.unit.Close()
	}
}

// Cache keeps parsed units of imported files so that a module imported by many
// entries is parsed once. Entries are keyed by absolute path and revalidated
// against the file's modification time and size.
//
// Units returned by Get are shared: callers must only read them, and only until
// they call the returned release func. A unit replaced or evicted while leased is
// closed when its last lease is released.
type Cache struct {
	units otter.Cache[string, *cachedUnit]
	mu    sync.Mutex // serializes parse-and-store for the same path
}

// NewCache creates a cache holding up to capacity parsed units.
func NewCache(capacity int) (*Cache, error) {
	if capacity <= 0 {
		capacity = DefaultCacheSize
	}

	units, err := otter.MustBuilder[string, *cachedUnit](capacity).
		DeletionListener(func(key string, value *cachedUnit, cause otter.DeletionCause) {
			value.release()
		}).
		Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build unit cache: %w", err)
	}

	return &Cache{units: units}, nil
}

// Get returns the parsed unit for path, parsing it on a miss or when the file changed.
// The unit stays valid until release is called.
func (c *Cache) Get(path string) (*Unit, func(), error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to resolve %s: %w", path, err)
	}

	info, err := os.Stat(abs)
	if err != nil {
		return nil, nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if cached, ok := c.units.Get(abs); ok {
		if cached.modTime.Equal(info.ModTime()) && cached.size == info.Size() && cached.acquire() {
			return cached.unit, releaseOnce(cached), nil
		}
	}

	unit, err := Parse(abs)
	if err != nil {
		return nil, nil, err
	}
	entry := &cachedUnit{
		unit:    unit,
		modTime: info.ModTime(),
		size:    info.Size(),
	}
	// one reference for the cache, one for the caller
	entry.refs.Store(2)
	if !c.units.Set(abs, entry) {
		entry.release()
	}
	return unit, releaseOnce(entry), nil
}

func releaseOnce(e *cachedUnit) func() {
	var once sync.Once
	return func() {
		once.Do(e.release)
	}
}

// Invalidate drops path from the cache.
func (c *Cache) Invalidate(path string) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return
	}
	c.units.Delete(abs)
}

// Len returns the number of cached units.
func (c *Cache) Len() int {
	return c.units.Size()
}

// Close clears the cache. Leased units are closed when released.
func (c *Cache) Close() {
	c.units.Clear()
	c.units.Close()
}
