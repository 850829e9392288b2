// internal/app/store/oauthstate/store.go

// Package oauthstate tracks in-flight OAuth state tokens. A state is saved
// when the login flow starts and consumed exactly once by the callback;
// anything expired or already used fails validation. State only needs to
// survive one redirect round-trip, so it lives in memory.
package oauthstate

import (
	"context"
	"sync"
	"time"
)

type entry struct {
	returnURL string
	expiresAt time.Time
}

// Store holds pending OAuth states.
type Store struct {
	mu     sync.Mutex
	states map[string]entry
	now    func() time.Time
}

// New creates an empty state store.
func New() *Store {
	return &Store{
		states: make(map[string]entry),
		now:    time.Now,
	}
}

// Save records a state token with its return URL and expiry.
func (s *Store) Save(ctx context.Context, state, returnURL string, expiresAt time.Time) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.prune()
	s.states[state] = entry{returnURL: returnURL, expiresAt: expiresAt}
	return nil
}

// Validate consumes a state token. It returns the saved return URL and
// valid=true exactly once for a known, unexpired state; a second call with
// the same state fails.
func (s *Store) Validate(ctx context.Context, state string) (returnURL string, valid bool, err error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.states[state]
	if !ok {
		return "", false, nil
	}
	delete(s.states, state)

	if s.now().After(e.expiresAt) {
		return "", false, nil
	}
	return e.returnURL, true, nil
}

// prune drops expired entries. Caller holds the mutex.
func (s *Store) prune() {
	now := s.now()
	for state, e := range s.states {
		if now.After(e.expiresAt) {
			delete(s.states, state)
		}
	}
}
