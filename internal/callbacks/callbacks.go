package callbacks

import (
	"sync"
)

// Callbacks keeps Go values that are referenced from C memory by id.
// A Go pointer can not be stored in C memory, so the foreign side
// holds the id as its opaque user data and hands it back on every call.
// Id 0 is never issued, it stands for a null user data pointer.
type Callbacks[T any] struct {
	mutex  sync.RWMutex
	cmap   map[uintptr]T
	lastID uintptr
}

// New returns a new callbacks tracker.
func New[T any]() *Callbacks[T] {
	return &Callbacks[T]{cmap: make(map[uintptr]T)}
}

// getID returns a unique ID.
// NOTE: cb.mutex must be locked already!
func (cb *Callbacks[T]) getID() uintptr {
	for exists := true; exists; {
		cb.lastID++
		if cb.lastID == 0 {
			cb.lastID++
		}
		_, exists = cb.cmap[cb.lastID]
	}
	return cb.lastID
}

// Add a value to the tracker and return a new ID for it.
func (cb *Callbacks[T]) Add(v T) uintptr {
	cb.mutex.Lock()
	defer cb.mutex.Unlock()
	id := cb.getID()
	cb.cmap[id] = v
	return id
}

// Remove a value given its ID.
func (cb *Callbacks[T]) Remove(id uintptr) {
	cb.mutex.Lock()
	defer cb.mutex.Unlock()
	delete(cb.cmap, id)
}

// Take removes a value given its ID and returns it,
// only one of concurrent callers gets the value.
func (cb *Callbacks[T]) Take(id uintptr) (T, bool) {
	cb.mutex.Lock()
	defer cb.mutex.Unlock()
	v, ok := cb.cmap[id]
	delete(cb.cmap, id)
	return v, ok
}

// Lookup returns a value given its ID and reports whether it was found.
func (cb *Callbacks[T]) Lookup(id uintptr) (T, bool) {
	cb.mutex.RLock()
	defer cb.mutex.RUnlock()
	v, ok := cb.cmap[id]
	return v, ok
}

// Len returns the count of tracked values.
func (cb *Callbacks[T]) Len() int {
	cb.mutex.RLock()
	defer cb.mutex.RUnlock()
	return len(cb.cmap)
}
