package cache

import (
	"errors"
	"fmt"
)

// ErrInvalidCapacity is returned by the constructors when capacity is not positive.
var ErrInvalidCapacity = errors.New("cache capacity must be positive")

// LRU is a fixed-capacity cache that evicts the least recently used entry.
//
// A map gives O(1) key lookup and an arena-backed doubly-linked list keeps
// recency order: front = most recently used (MRU), back = least recently used (LRU).
// Both Get and Put count as use.
//
// LRU is not safe for concurrent use; wrap it in Synced when sharing between goroutines.
// The zero value is not usable, instances must be created with New or NewWithEvict.
type LRU[K comparable, V any] struct {
	capacity int
	items    map[K]int
	order    *recencyList[K, V]
	onEvict  func(K, V)
}

// New constructs an LRU holding at most capacity entries.
func New[K comparable, V any](capacity int) (*LRU[K, V], error) {
	return NewWithEvict[K, V](capacity, nil)
}

// NewWithEvict is like New but calls onEvict for every entry pushed out by Put.
//
// onEvict runs synchronously, after the entry has left the cache and before the
// new entry is inserted. It must not call back into the same cache.
func NewWithEvict[K comparable, V any](capacity int, onEvict func(K, V)) (*LRU[K, V], error) {
	if capacity <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidCapacity, capacity)
	}

	return &LRU[K, V]{
		capacity: capacity,
		items:    make(map[K]int, min(capacity, preallocLimit)),
		order:    newRecencyList[K, V](capacity),
		onEvict:  onEvict,
	}, nil
}

// Get returns the value stored for key and marks it most recently used.
//
// A miss returns the zero value and false and leaves the recency order untouched.
func (c *LRU[K, V]) Get(key K) (V, bool) {
	i, ok := c.items[key]
	if !ok {
		var zero V
		return zero, false
	}

	c.order.moveToFront(i)
	return c.order.slots[i].value, true
}

// Put stores value under key and marks it most recently used.
//
// Overwriting an existing key never evicts. Inserting a new key into a full
// cache first evicts the least recently used entry, so Len never exceeds Cap.
func (c *LRU[K, V]) Put(key K, value V) {
	if i, ok := c.items[key]; ok {
		c.order.slots[i].value = value
		c.order.moveToFront(i)
		return
	}

	if c.order.len >= c.capacity {
		c.evictOldest()
	}

	c.items[key] = c.order.pushFront(key, value)
}

// Peek returns the value stored for key without updating its recency.
func (c *LRU[K, V]) Peek(key K) (V, bool) {
	i, ok := c.items[key]
	if !ok {
		var zero V
		return zero, false
	}
	return c.order.slots[i].value, true
}

// Oldest returns the entry that the next eviction would remove.
func (c *LRU[K, V]) Oldest() (K, V, bool) {
	i := c.order.back()
	if i == root {
		var (
			zeroK K
			zeroV V
		)
		return zeroK, zeroV, false
	}
	e := c.order.slots[i]
	return e.key, e.value, true
}

// Len returns the number of cached entries.
func (c *LRU[K, V]) Len() int {
	return c.order.len
}

// Cap returns the capacity fixed at construction.
func (c *LRU[K, V]) Cap() int {
	return c.capacity
}

// Keys returns keys in MRU -> LRU order.
func (c *LRU[K, V]) Keys() []K {
	out := make([]K, 0, c.order.len)
	for i := c.order.front(); i != root; i = c.order.slots[i].next {
		out = append(out, c.order.slots[i].key)
	}
	return out
}

func (c *LRU[K, V]) evictOldest() {
	i := c.order.back()
	if i == root {
		return
	}

	key, value := c.order.remove(i)
	delete(c.items, key)
	if c.onEvict != nil {
		c.onEvict(key, value)
	}
}
