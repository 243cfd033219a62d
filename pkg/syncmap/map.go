// Package syncmap provides a typed wrapper over sync.Map.
package syncmap

import "sync"

// Map is a concurrent map with typed keys and values.
// The zero value is ready to use.
type Map[K comparable, V any] struct {
	m sync.Map
}

// New returns an empty Map.
func New[K comparable, V any]() *Map[K, V] {
	return &Map[K, V]{}
}

// Load returns the value stored for key, if any.
func (t *Map[K, V]) Load(key K) (V, bool) {
	val, ok := t.m.Load(key)
	if !ok {
		var zero V
		return zero, false
	}
	return val.(V), true
}

// Store sets the value for key.
func (t *Map[K, V]) Store(key K, value V) {
	t.m.Store(key, value)
}

// LoadOrStore returns the existing value for key if present.
// Otherwise it stores and returns value. loaded is true if the value was loaded.
func (t *Map[K, V]) LoadOrStore(key K, value V) (actual V, loaded bool) {
	v, loaded := t.m.LoadOrStore(key, value)
	return v.(V), loaded
}

// LoadOrCompute returns the value for key, calling compute on a miss.
// Concurrent misses for the same key may each call compute; all callers
// observe the value that was stored first.
func (t *Map[K, V]) LoadOrCompute(key K, compute func() V) V {
	if v, ok := t.Load(key); ok {
		return v
	}
	actual, _ := t.LoadOrStore(key, compute())
	return actual
}

// Delete removes key.
func (t *Map[K, V]) Delete(key K) {
	t.m.Delete(key)
}

// Range calls f for each entry until f returns false.
func (t *Map[K, V]) Range(f func(key K, value V) bool) {
	t.m.Range(func(k, v any) bool {
		return f(k.(K), v.(V))
	})
}
