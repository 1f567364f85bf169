// Package cache implements a bounded, in-memory least-recently-used cache.
//
// Goals for this package:
//   - Make the core data structures explicit (map index + arena-backed doubly-linked list)
//   - Provide O(1) Get/Put; the index maps a key to the arena slot of its entry
//   - Keep the core LRU single-threaded; Synced adds one lock per operation for shared use
//   - Evict synchronously inside Put so the cache is never observed over capacity
//   - Own and cleanly stop the optional stats reporter goroutine (no leaks on shutdown)
package cache
