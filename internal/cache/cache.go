package cache

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"
)

// Config controls cache capacity and the optional reporting behavior of Synced.
//
//   - Capacity must be positive; New rejects anything else with ErrInvalidCapacity
//   - ReportInterval <= 0 disables the background reporter
//   - Metrics and Logger are optional; nil disables them
type Config struct {
	Capacity       int
	ReportInterval time.Duration
	Metrics        *Metrics
	Logger         *log.Logger
}

// Stats is a point-in-time snapshot of cache activity.
type Stats struct {
	Hits      uint64
	Misses    uint64
	Puts      uint64
	Evictions uint64
	Len       int
	Cap       int
}

// Synced is an LRU guarded by a single mutex, safe for concurrent use.
//
// Every operation holds the lock for one O(1) lookup-and-splice. Get takes the
// exclusive lock too, because a hit reorders the recency list.
//
// Ownership model:
// Synced owns its reporter goroutine (when enabled). Call Close to stop it.
type Synced[K comparable, V any] struct {
	mu    sync.Mutex
	lru   *LRU[K, V]
	stats Stats

	metrics *Metrics
	logger  *log.Logger

	// Goroutine ownership.
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	reportEvery time.Duration
	closed      bool
}

var ErrClosed = errors.New("cache is closed")

// NewSynced constructs a concurrency-safe cache and starts the reporter (if enabled).
func NewSynced[K comparable, V any](cfg Config) (*Synced[K, V], error) {
	s := &Synced[K, V]{
		metrics:     cfg.Metrics,
		logger:      cfg.Logger,
		reportEvery: cfg.ReportInterval,
	}

	lru, err := NewWithEvict[K, V](cfg.Capacity, s.evicted)
	if err != nil {
		return nil, err
	}
	s.lru = lru
	s.metrics.setCapacity(lru.Cap())
	s.metrics.setEntries(0)

	s.ctx, s.cancel = context.WithCancel(context.Background())
	if s.reportEvery > 0 {
		s.wg.Add(1)
		go s.reportLoop()
	}

	return s, nil
}

// Close stops the reporter goroutine and rejects further Puts.
//
// Close is safe to call multiple times. Reads keep working after Close.
func (s *Synced[K, V]) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	cancel := s.cancel
	s.mu.Unlock()

	// Cancel outside the lock; the reporter takes the lock on every tick.
	cancel()
	s.wg.Wait()
	return nil
}

// Get returns the cached value for key and marks it most recently used.
func (s *Synced[K, V]) Get(key K) (V, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	v, ok := s.lru.Get(key)
	if !ok {
		s.stats.Misses++
		s.metrics.miss()
		return v, false
	}
	s.stats.Hits++
	s.metrics.hit()
	return v, true
}

// Peek returns the cached value for key without touching recency or hit counters.
func (s *Synced[K, V]) Peek(key K) (V, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lru.Peek(key)
}

// Put writes or overwrites key, evicting the LRU entry if the cache is full.
func (s *Synced[K, V]) Put(key K, value V) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrClosed
	}

	s.lru.Put(key, value)
	s.stats.Puts++
	s.metrics.put()
	s.metrics.setEntries(s.lru.Len())
	return nil
}

// Len returns the number of cached entries.
func (s *Synced[K, V]) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lru.Len()
}

// Cap returns the fixed capacity.
func (s *Synced[K, V]) Cap() int {
	return s.lru.Cap()
}

// Keys returns keys in MRU -> LRU order.
//
// This is a debug helper used by the demo.
func (s *Synced[K, V]) Keys() []K {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lru.Keys()
}

// Oldest returns the entry the next eviction would remove, without touching recency.
func (s *Synced[K, V]) Oldest() (K, V, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lru.Oldest()
}

// Stats returns a snapshot of the counters.
func (s *Synced[K, V]) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.stats
	st.Len = s.lru.Len()
	st.Cap = s.lru.Cap()
	return st
}

// evicted runs under s.mu, from inside s.lru.Put.
func (s *Synced[K, V]) evicted(key K, _ V) {
	s.stats.Evictions++
	s.metrics.evict()
	if s.logger != nil {
		s.logger.Printf("evicted %v (LRU)", key)
	}
}
