// Package reactive provides a minimal observable value container.
//
// Value is the building block for derived client-side views: hold state in a
// Value, subscribe to recompute on change. Notification is synchronous and
// explicit; there is no dependency tracking.
package reactive

import "sync"

// Value holds a T and notifies subscribers when it changes.
type Value[T any] struct {
	mu      sync.Mutex
	current T
	subs    map[int]func(T)
	nextID  int
}

// New creates a Value holding initial.
func New[T any](initial T) *Value[T] {
	return &Value[T]{
		current: initial,
		subs:    make(map[int]func(T)),
	}
}

// Get returns the current value.
func (v *Value[T]) Get() T {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.current
}

// Set replaces the current value and notifies all subscribers synchronously.
func (v *Value[T]) Set(val T) {
	v.mu.Lock()
	v.current = val
	subs := v.snapshotSubs()
	v.mu.Unlock()

	for _, fn := range subs {
		fn(val)
	}
}

// Update applies fn to the current value and notifies subscribers with the result.
func (v *Value[T]) Update(fn func(T) T) {
	v.mu.Lock()
	v.current = fn(v.current)
	val := v.current
	subs := v.snapshotSubs()
	v.mu.Unlock()

	for _, s := range subs {
		s(val)
	}
}

// Subscribe registers fn to be called on every change and returns an
// unsubscribe function. fn is not called with the current value on
// registration.
//
// Subscribers must tolerate being called after unsubscription has been
// requested from another goroutine, or unsubscribe before tearing down.
func (v *Value[T]) Subscribe(fn func(T)) func() {
	v.mu.Lock()
	id := v.nextID
	v.nextID++
	v.subs[id] = fn
	v.mu.Unlock()

	return func() {
		v.mu.Lock()
		delete(v.subs, id)
		v.mu.Unlock()
	}
}

// snapshotSubs copies the subscriber list. Callers must hold mu.
// Notifications run outside the lock so subscribers may call Get.
func (v *Value[T]) snapshotSubs() []func(T) {
	subs := make([]func(T), 0, len(v.subs))
	for _, fn := range v.subs {
		subs = append(subs, fn)
	}
	return subs
}
