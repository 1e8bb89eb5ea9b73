package cache

import (
	"container/list"
	"sync"
)

// LRU is a fixed-size map that evicts the least recently used entry.
type LRU[V any] struct {
	capacity int

	// LRU implementation
	items    map[string]*list.Element
	eviction *list.List

	mu    sync.Mutex
	stats Stats
}

type lruEntry[V any] struct {
	key   string
	value V
}

// NewLRU creates a cache holding at most capacity entries. A capacity below
// one is raised to one.
func NewLRU[V any](capacity int) *LRU[V] {
	return &LRU[V]{
		capacity: max(1, capacity),
		items:    make(map[string]*list.Element),
		eviction: list.New(),
	}
}

// Get retrieves a value and marks it as recently used.
func (c *LRU[V]) Get(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	elem, ok := c.items[key]
	if !ok {
		c.stats.Misses++
		var zero V
		return zero, false
	}

	c.eviction.MoveToFront(elem)
	c.stats.Hits++
	return elem.Value.(*lruEntry[V]).value, true
}

// Put stores a value, evicting the oldest entry when full.
func (c *LRU[V]) Put(key string, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.items[key]; ok {
		c.eviction.MoveToFront(elem)
		elem.Value.(*lruEntry[V]).value = value
		return
	}

	for c.eviction.Len() >= c.capacity {
		c.evictOldest()
	}

	c.items[key] = c.eviction.PushFront(&lruEntry[V]{key: key, value: value})
}

// Contains checks if a key exists without updating recency.
func (c *LRU[V]) Contains(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	_, ok := c.items[key]
	return ok
}

// Len returns the number of entries.
func (c *LRU[V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.eviction.Len()
}

// Clear removes all entries.
func (c *LRU[V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items = make(map[string]*list.Element)
	c.eviction.Init()
}

// Stats returns cache statistics. Size counts entries.
func (c *LRU[V]) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	stats := c.stats
	stats.Size = int64(c.eviction.Len())
	stats.ItemCount = stats.Size
	stats.HitRate = hitRate(stats.Hits, stats.Misses)
	return stats
}

// evictOldest removes the least recently used item (must be called with lock held).
func (c *LRU[V]) evictOldest() {
	elem := c.eviction.Back()
	if elem == nil {
		return
	}
	c.eviction.Remove(elem)
	delete(c.items, elem.Value.(*lruEntry[V]).key)
	c.stats.Evictions++
}
