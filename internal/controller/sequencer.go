package controller

import (
	"context"
	"errors"
	"sync"
)

// ErrSuperseded is returned by a load whose result was dropped because a
// newer load started.
var ErrSuperseded = errors.New("superseded by a newer load")

type sequencer struct {
	mu     sync.Mutex
	gen    uint64
	cancel context.CancelFunc
}

// begin cancels the load in flight and starts a new generation.
func (s *sequencer) begin(ctx context.Context) (context.Context, uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cancel != nil {
		s.cancel()
	}
	s.gen++
	ctx, s.cancel = context.WithCancel(ctx)
	return ctx, s.gen
}

// publish runs fn only if gen is still the latest generation, and ends it.
func (s *sequencer) publish(gen uint64, fn func()) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.gen {
		return false
	}
	fn()
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	return true
}

// during runs fn only if gen is still the latest generation, leaving it
// running.
func (s *sequencer) during(gen uint64, fn func()) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.gen {
		return false
	}
	fn()
	return true
}

// stop cancels the load in flight without starting a new one and runs fn
// before any later load can publish.
func (s *sequencer) stop(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.gen++
	fn()
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}
