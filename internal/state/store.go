package state

import (
	"sync"
	"time"
)

// Store holds one value that is replaced atomically and observed by many
// readers. The zero value is ready to use.
//
// Values handed to Set are treated as immutable: callers must not mutate a
// value (or slices inside it) after publishing it.
type Store[T any] struct {
	mu      sync.RWMutex
	value   T
	version uint64
	updated time.Time
	subs    map[int]chan struct{}
	nextSub int
}

// NewStore returns a Store holding initial.
func NewStore[T any](initial T) *Store[T] {
	return &Store[T]{value: initial}
}

// Set replaces the stored value and notifies subscribers.
func (s *Store[T]) Set(v T) {
	s.mu.Lock()
	s.value = v
	s.version++
	s.updated = time.Now()
	subs := s.subscribersLocked()
	s.mu.Unlock()

	notify(subs)
}

// Update applies fn to the current value under the write lock and stores the
// result. fn must not call back into the store.
func (s *Store[T]) Update(fn func(T) T) T {
	s.mu.Lock()
	s.value = fn(s.value)
	s.version++
	s.updated = time.Now()
	v := s.value
	subs := s.subscribersLocked()
	s.mu.Unlock()

	notify(subs)
	return v
}

// Snapshot returns the current value.
func (s *Store[T]) Snapshot() T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.value
}

// Version increases by one on every Set or Update.
func (s *Store[T]) Version() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}

// LastUpdated returns when the value was last replaced.
func (s *Store[T]) LastUpdated() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.updated
}

// Subscribe returns a channel that receives a signal after each change and a
// function that cancels the subscription. Signals coalesce: a slow reader sees
// at least one pending signal and then reads the latest Snapshot.
func (s *Store[T]) Subscribe() (<-chan struct{}, func()) {
	ch := make(chan struct{}, 1)

	s.mu.Lock()
	if s.subs == nil {
		s.subs = make(map[int]chan struct{})
	}
	id := s.nextSub
	s.nextSub++
	s.subs[id] = ch
	s.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subs, id)
			s.mu.Unlock()
		})
	}
}

func (s *Store[T]) subscribersLocked() []chan struct{} {
	if len(s.subs) == 0 {
		return nil
	}
	subs := make([]chan struct{}, 0, len(s.subs))
	for _, ch := range s.subs {
		subs = append(subs, ch)
	}
	return subs
}

func notify(subs []chan struct{}) {
	for _, ch := range subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}
