//nolint:revive,nolintlint // Package name "common" is intentional for shared helpers.
package common

import (
	"context"
	"sync"

	domain "github.com/oshokin/security-panel/internal/domain/alarm"
	"github.com/oshokin/security-panel/internal/logger"
)

// Listener observes one applied transition.
// It runs while the store is locked and must not call Dispatch.
type Listener func(prev, next domain.State, event domain.Event)

// Store owns the operator-visible state. Every Dispatch applies exactly one
// event atomically; concurrent dispatches are applied in arrival order.
type Store struct {
	// listeners are notified after every transition, in subscription order.
	listeners []Listener
	// state is the current panel state.
	state domain.State
	// mu serialises transitions and listener calls.
	mu sync.Mutex
}

// NewStore creates a store in the initial state (status unknown, no feedback).
func NewStore() *Store {
	return new(Store)
}

// Subscribe registers a listener for future transitions.
func (s *Store) Subscribe(l Listener) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.listeners = append(s.listeners, l)
}

// Dispatch applies the event and returns the resulting state.
func (s *Store) Dispatch(ctx context.Context, event domain.Event) domain.State {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev := s.state
	s.state = domain.Reduce(prev, event)

	logger.DebugKV(
		ctx,
		"State updated",
		"event", event.Kind.String(),
		"status", s.state.Status.String(),
		"feedback", s.state.Feedback,
		"revision", s.state.Revision,
	)

	for _, l := range s.listeners {
		l(*prev.Clone(), *s.state.Clone(), event)
	}

	return *s.state.Clone()
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() domain.State {
	s.mu.Lock()
	defer s.mu.Unlock()

	return *s.state.Clone()
}
