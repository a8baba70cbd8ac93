// Package store provides the observable values that carry state between the
// collaborators, the views and the renderer.
//
// A Signal holds one value. Writers replace it with Set or Update; every write
// is pushed synchronously to all subscribers, in subscription order, before
// the write returns. Writes from different goroutines are serialised, so
// subscribers observe values in the order they were written. A subscriber must
// not write to the signal it is subscribed to from inside its callback.
package store

import (
	"sync"
)

type subscriber[T any] struct {
	id uint64
	fn func(T)
}

// Signal is a concurrency-safe observable value.
type Signal[T any] struct {
	writeMu sync.Mutex // serialises write+notify

	mu     sync.RWMutex
	value  T
	subs   []subscriber[T]
	nextID uint64
}

// NewSignal returns a signal holding initial.
func NewSignal[T any](initial T) *Signal[T] {
	return &Signal[T]{value: initial}
}

// Get returns the current value.
func (s *Signal[T]) Get() T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.value
}

// Set replaces the value and notifies subscribers.
func (s *Signal[T]) Set(v T) {
	s.Update(func(T) T { return v })
}

// Update replaces the value with fn(current) atomically with respect to other
// writers, notifies subscribers and returns the new value.
func (s *Signal[T]) Update(fn func(T) T) T {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.mu.Lock()
	s.value = fn(s.value)
	v := s.value
	subs := make([]subscriber[T], len(s.subs))
	copy(subs, s.subs)
	s.mu.Unlock()

	for _, sub := range subs {
		if s.active(sub.id) {
			sub.fn(v)
		}
	}
	return v
}

// Subscribe registers fn for every subsequent write. The returned function
// removes the subscription; it is idempotent, and no write that starts after
// it has returned reaches fn.
func (s *Signal[T]) Subscribe(fn func(T)) (unsubscribe func()) {
	s.mu.Lock()
	s.nextID++
	id := s.nextID
	s.subs = append(s.subs, subscriber[T]{id: id, fn: fn})
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			for i, sub := range s.subs {
				if sub.id == id {
					s.subs = append(s.subs[:i:i], s.subs[i+1:]...)
					return
				}
			}
		})
	}
}

func (s *Signal[T]) active(id uint64) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, sub := range s.subs {
		if sub.id == id {
			return true
		}
	}
	return false
}
