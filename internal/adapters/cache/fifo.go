package cache

import "sync"

// FIFO is a bounded key/value store that evicts the oldest-inserted entry once
// it holds more than max entries. Overwriting a key keeps its original position.
// Safe for concurrent use.
type FIFO[K comparable, V any] struct {
	mu    sync.Mutex
	max   int
	order []K
	items map[K]V
}

func NewFIFO[K comparable, V any](max int) *FIFO[K, V] {
	if max <= 0 {
		max = 1
	}
	return &FIFO[K, V]{max: max, items: make(map[K]V, max)}
}

func (c *FIFO[K, V]) Get(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.items[key]
	return v, ok
}

// Set stores value and returns the number of entries evicted to make room.
func (c *FIFO[K, V]) Set(key K, value V) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.items[key]; ok {
		c.items[key] = value
		return 0
	}
	c.items[key] = value
	c.order = append(c.order, key)

	evicted := 0
	for len(c.order) > c.max {
		delete(c.items, c.order[0])
		c.order = c.order[1:]
		evicted++
	}
	return evicted
}

func (c *FIFO[K, V]) Purge() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.order = nil
	c.items = make(map[K]V, c.max)
}

func (c *FIFO[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}
