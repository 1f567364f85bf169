package cache

import (
	"context"
	"fmt"

	"golang.org/x/sync/singleflight"
)

// LoadFunc fetches the value for key from the source of truth.
type LoadFunc[K comparable, V any] func(ctx context.Context, key K) (V, error)

// Loader is a read-through (cache-aside) front for a Synced cache.
//
// Concurrent misses for the same key collapse into one LoadFunc call. A failed
// load is returned to every waiting caller and nothing is cached.
type Loader[K comparable, V any] struct {
	cache   *Synced[K, V]
	load    LoadFunc[K, V]
	keyName func(K) string
	group   singleflight.Group
}

// NewLoader wires load behind c. keyName maps a key to its singleflight group
// name and must be injective over the keys in use; nil uses fmt.Sprint.
func NewLoader[K comparable, V any](c *Synced[K, V], load LoadFunc[K, V], keyName func(K) string) *Loader[K, V] {
	if keyName == nil {
		keyName = func(k K) string { return fmt.Sprint(k) }
	}
	return &Loader[K, V]{cache: c, load: load, keyName: keyName}
}

// Get returns the cached value for key, loading and caching it on a miss.
//
// The shared load keeps the values of the starting caller's ctx but not its
// cancellation, so one caller giving up never fails the others. A caller whose
// own ctx ends first gets ctx.Err().
func (l *Loader[K, V]) Get(ctx context.Context, key K) (V, error) {
	if v, ok := l.cache.Get(key); ok {
		return v, nil
	}

	loadCtx := context.WithoutCancel(ctx)
	ch := l.group.DoChan(l.keyName(key), func() (any, error) {
		// Another flight may have filled the key between our miss and now.
		if v, ok := l.cache.Peek(key); ok {
			return v, nil
		}
		v, err := l.load(loadCtx, key)
		if err != nil {
			return nil, err
		}
		if err := l.cache.Put(key, v); err != nil {
			return nil, err
		}
		return v, nil
	})

	var zero V
	select {
	case <-ctx.Done():
		return zero, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return zero, res.Err
		}
		// Comma-ok keeps a nil interface V from panicking.
		v, _ := res.Val.(V)
		return v, nil
	}
}
