package store

import "sync"

// Collection cache keys.
const (
	KeyUnits     = "units"
	KeyPersonnel = "personnel"
	KeyDutyTypes = "duty_types"
	KeyHolidays  = "holidays"
)

type entry struct {
	version uint64
	value   interface{}
}

// Cache is a versioned in-memory read cache. Each key carries a monotonic
// version counter; an entry is only served while its version matches the
// key's current version, so any reader observing a new version sees
// consistent data or a miss.
type Cache struct {
	mu       sync.RWMutex
	versions map[string]uint64
	entries  map[string]entry
}

// NewCache creates an empty cache.
func NewCache() *Cache {
	return &Cache{
		versions: make(map[string]uint64),
		entries:  make(map[string]entry),
	}
}

// Get returns the cached value for key, if present and current.
func (c *Cache) Get(key string) (interface{}, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[key]
	if !ok || e.version != c.versions[key] {
		return nil, false
	}
	return e.value, true
}

// Put bumps the key's version and replaces the cached value in the same
// operation. Used on the write path.
func (c *Cache) Put(key string, value interface{}) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.versions[key]++
	c.entries[key] = entry{version: c.versions[key], value: value}
}

// Fill stores a value at the key's current version without bumping it.
// Used to repopulate after a read miss; a concurrent Invalidate between the
// load and the Fill leaves the entry stale and therefore unserved.
func (c *Cache) Fill(key string, value interface{}) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = entry{version: c.versions[key], value: value}
}

// Invalidate bumps the key's version and purges the entry without
// repopulating it; the next read reloads lazily.
func (c *Cache) Invalidate(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.versions[key]++
	delete(c.entries, key)
}

// Version returns the key's current version counter.
func (c *Cache) Version(key string) uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.versions[key]
}
