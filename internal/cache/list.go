package cache

// root is the sentinel slot of every recencyList.
const root = 0

// preallocLimit caps the arena capacity reserved up front; larger caches grow on demand.
const preallocLimit = 4096

type entry[K comparable, V any] struct {
	key   K
	value V
	prev  int
	next  int
}

// recencyList is a circular doubly-linked list stored in a slice.
//
// Slot 0 is the sentinel: slots[root].next is the most recently used entry and
// slots[root].prev the least recently used one. Entries refer to each other by
// slot number, never by pointer, so the arena can grow without invalidating links.
// Freed slots are recycled before the arena grows.
type recencyList[K comparable, V any] struct {
	slots []entry[K, V]
	free  []int
	len   int
}

func newRecencyList[K comparable, V any](capacity int) *recencyList[K, V] {
	return &recencyList[K, V]{
		slots: make([]entry[K, V], 1, min(capacity, preallocLimit)+1),
	}
}

// front returns the MRU slot, or root when the list is empty.
func (l *recencyList[K, V]) front() int {
	return l.slots[root].next
}

// back returns the LRU slot, or root when the list is empty.
func (l *recencyList[K, V]) back() int {
	return l.slots[root].prev
}

func (l *recencyList[K, V]) pushFront(key K, value V) int {
	var i int
	if n := len(l.free); n > 0 {
		i = l.free[n-1]
		l.free = l.free[:n-1]
	} else {
		i = len(l.slots)
		l.slots = append(l.slots, entry[K, V]{})
	}

	l.slots[i].key = key
	l.slots[i].value = value
	l.link(i)
	l.len++
	return i
}

func (l *recencyList[K, V]) moveToFront(i int) {
	if l.slots[root].next == i {
		return
	}
	l.unlink(i)
	l.link(i)
}

// remove detaches slot i, returns its contents and puts the slot on the free stack.
func (l *recencyList[K, V]) remove(i int) (K, V) {
	l.unlink(i)

	e := l.slots[i]
	// Drop references so evicted values can be collected.
	l.slots[i] = entry[K, V]{}
	l.free = append(l.free, i)
	l.len--
	return e.key, e.value
}

// link inserts slot i directly after the sentinel.
func (l *recencyList[K, V]) link(i int) {
	next := l.slots[root].next
	l.slots[i].prev = root
	l.slots[i].next = next
	l.slots[next].prev = i
	l.slots[root].next = i
}

func (l *recencyList[K, V]) unlink(i int) {
	prev, next := l.slots[i].prev, l.slots[i].next
	l.slots[prev].next = next
	l.slots[next].prev = prev
	l.slots[i].prev = root
	l.slots[i].next = root
}
