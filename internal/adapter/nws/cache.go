package nws

import "sync"

// gridMeta is the /points lookup result: the office grid cell for a
// coordinate plus the forecast URLs hanging off it.
type gridMeta struct {
	GridID      string
	GridX       int
	GridY       int
	ForecastURL string
	GridDataURL string
}

// pointCache is a small thread-safe LRU keyed by rounded coordinates.
// Anchor locations are static, so in practice it fills once and never
// evicts; the bound protects against misuse with dynamic points.
type pointCache struct {
	maxEntries int
	mu         sync.Mutex
	entries    map[string]*cacheEntry
	head       *cacheEntry // most recently used
	tail       *cacheEntry // least recently used
}

type cacheEntry struct {
	key   string
	value gridMeta
	prev  *cacheEntry
	next  *cacheEntry
}

func newPointCache(maxEntries int) *pointCache {
	return &pointCache{
		maxEntries: maxEntries,
		entries:    make(map[string]*cacheEntry),
	}
}

func (c *pointCache) get(key string) (gridMeta, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return gridMeta{}, false
	}
	c.moveToFront(e)
	return e.value, true
}

func (c *pointCache) put(key string, value gridMeta) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.entries[key]; ok {
		e.value = value
		c.moveToFront(e)
		return
	}

	e := &cacheEntry{key: key, value: value}
	c.entries[key] = e
	c.addToFront(e)

	if len(c.entries) > c.maxEntries {
		c.evictTail()
	}
}

func (c *pointCache) moveToFront(e *cacheEntry) {
	if e == c.head {
		return
	}
	c.remove(e)
	c.addToFront(e)
}

func (c *pointCache) addToFront(e *cacheEntry) {
	e.next = c.head
	e.prev = nil
	if c.head != nil {
		c.head.prev = e
	}
	c.head = e
	if c.tail == nil {
		c.tail = e
	}
}

func (c *pointCache) remove(e *cacheEntry) {
	if e.prev != nil {
		e.prev.next = e.next
	} else {
		c.head = e.next
	}
	if e.next != nil {
		e.next.prev = e.prev
	} else {
		c.tail = e.prev
	}
}

func (c *pointCache) evictTail() {
	if c.tail == nil {
		return
	}
	delete(c.entries, c.tail.key)
	c.remove(c.tail)
}
