package internal

import (
	"container/list"
	"sync"
	"time"
)

type cacheEntry[V any] struct {
	key       string
	value     V
	expiresAt int64
}

func (e *cacheEntry[V]) isExpired(now int64) bool {
	return e.expiresAt > 0 && now > e.expiresAt
}

// Cache is a thread-safe LRU cache with optional TTL. A zero capacity
// disables storage.
type Cache[V any] struct {
	mu         sync.Mutex
	entries    map[string]*list.Element
	order      *list.List // front is most recently used
	maxEntries int
	ttl        time.Duration
}

func NewCache[V any](maxEntries int, ttl time.Duration) *Cache[V] {
	if maxEntries < 0 {
		maxEntries = 0
	}
	return &Cache[V]{
		entries:    make(map[string]*list.Element, maxEntries),
		order:      list.New(),
		maxEntries: maxEntries,
		ttl:        ttl,
	}
}

func (c *Cache[V]) Get(key string) (V, bool) {
	var zero V
	if key == "" {
		return zero, false
	}
	now := time.Now().UnixNano()

	c.mu.Lock()
	defer c.mu.Unlock()

	elem, ok := c.entries[key]
	if !ok {
		return zero, false
	}
	entry := elem.Value.(*cacheEntry[V])
	if entry.isExpired(now) {
		c.order.Remove(elem)
		delete(c.entries, key)
		return zero, false
	}
	c.order.MoveToFront(elem)
	return entry.value, true
}

func (c *Cache[V]) Set(key string, value V) {
	if key == "" || c.maxEntries == 0 {
		return
	}
	now := time.Now().UnixNano()
	var expiresAt int64
	if c.ttl > 0 {
		expiresAt = now + c.ttl.Nanoseconds()
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.entries[key]; ok {
		entry := elem.Value.(*cacheEntry[V])
		entry.value = value
		entry.expiresAt = expiresAt
		c.order.MoveToFront(elem)
		return
	}

	if len(c.entries) >= c.maxEntries {
		c.evictOne(now)
	}
	c.entries[key] = c.order.PushFront(&cacheEntry[V]{
		key:       key,
		value:     value,
		expiresAt: expiresAt,
	})
}

// evictOne drops an expired entry when one exists, otherwise the least
// recently used one.
func (c *Cache[V]) evictOne(now int64) {
	for elem := c.order.Back(); elem != nil; elem = elem.Prev() {
		if elem.Value.(*cacheEntry[V]).isExpired(now) {
			c.remove(elem)
			return
		}
	}
	if back := c.order.Back(); back != nil {
		c.remove(back)
	}
}

func (c *Cache[V]) remove(elem *list.Element) {
	c.order.Remove(elem)
	delete(c.entries, elem.Value.(*cacheEntry[V]).key)
}

func (c *Cache[V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *Cache[V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	clear(c.entries)
	c.order.Init()
}
