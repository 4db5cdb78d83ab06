package catalog

import "sync"

// Cache is a process-wide read-through cache for catalog lookups (genre
// vocabulary, per-id media detail, the network catalog). Keys are
// populated at most once and live for the session; there is no eviction.
type Cache struct {
	mu    sync.RWMutex
	items map[string]any
}

// NewCache creates an empty cache.
func NewCache() *Cache {
	return &Cache{items: make(map[string]any)}
}

// Get retrieves an item from the cache.
func (c *Cache) Get(key string) (any, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.items[key]
	return v, ok
}

// Set stores an item in the cache.
func (c *Cache) Set(key string, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[key] = value
}

// Len returns the number of cached items.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// Clear removes all items from the cache.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = make(map[string]any)
}

// GetGenreMap retrieves a cached genre vocabulary.
func (c *Cache) GetGenreMap(key string) (map[int]string, bool) {
	v, ok := c.Get(key)
	if !ok {
		return nil, false
	}
	genres, ok := v.(map[int]string)
	return genres, ok
}

// GetMediaItem retrieves a cached media detail.
func (c *Cache) GetMediaItem(key string) (*MediaItem, bool) {
	v, ok := c.Get(key)
	if !ok {
		return nil, false
	}
	item, ok := v.(*MediaItem)
	return item, ok
}
