package sanitize

import (
	"container/list"
	"sync"
)

type cacheEntry struct {
	key   string
	value string
}

// resultCache memoizes sanitized text under access order. When the cache
// reaches capacity the least recently used entry is evicted. Both Get and
// Put count as use.
//
// Computation happens outside the cache lock; two callers racing on the
// same absent key both compute the same pure result and the second Put
// refreshes the entry, so the race is benign.
type resultCache struct {
	capacity int
	mu       sync.Mutex
	items    map[string]*list.Element
	order    *list.List
}

// newResultCache creates a cache bounded at capacity entries.
// The capacity must be positive, otherwise it panics.
func newResultCache(capacity int) *resultCache {
	if capacity <= 0 {
		panic("sanitize: result cache capacity must be positive")
	}
	return &resultCache{
		capacity: capacity,
		items:    make(map[string]*list.Element),
		order:    list.New(),
	}
}

// get retrieves a cached result and marks it as recently used.
func (c *resultCache) get(key string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.items[key]; ok {
		c.order.MoveToFront(elem)
		return elem.Value.(*cacheEntry).value, true
	}
	return "", false
}

// put stores a result, evicting the least recently used entry when the
// bound is exceeded.
func (c *resultCache) put(key, value string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.items[key]; ok {
		c.order.MoveToFront(elem)
		elem.Value.(*cacheEntry).value = value
		return
	}

	c.items[key] = c.order.PushFront(&cacheEntry{key: key, value: value})

	if c.order.Len() > c.capacity {
		oldest := c.order.Back()
		if oldest != nil {
			c.order.Remove(oldest)
			delete(c.items, oldest.Value.(*cacheEntry).key)
		}
	}
}

func (c *resultCache) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}

func (c *resultCache) clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = make(map[string]*list.Element)
	c.order.Init()
}
