package indicator

import (
	"sync"
	"time"
)

type cacheKey struct {
	key    Key
	symbol string
}

// Cache memoizes computed attribute sets by (runner key, symbol). Reads may
// run concurrently across backtests sharing one engine; a writer publishes
// the full series in one store, never a partial write.
type Cache struct {
	mu      sync.RWMutex
	entries map[cacheKey]*AttributeSet
}

// NewCache creates an empty cache.
func NewCache() *Cache {
	return &Cache{
		entries: make(map[cacheKey]*AttributeSet),
	}
}

// Get returns the cached set for (key, symbol) when its date index equals
// the requested one. A stale index (data appended since the last compute)
// is a miss, not an error.
func (c *Cache) Get(key Key, symbol string, dates []time.Time) (*AttributeSet, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.entries[cacheKey{key: key, symbol: symbol}]
	if !ok || !entry.sameIndex(dates) {
		return nil, false
	}

	return entry, true
}

// Put publishes a fully computed set.
func (c *Cache) Put(set *AttributeSet) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[cacheKey{key: set.Key, symbol: set.Symbol}] = set
}

// Len returns the number of cached entries.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.entries)
}
