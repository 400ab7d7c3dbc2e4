package usecase

import (
	"crypto/rand"
	"encoding/base64"
	"sync"
	"time"

	"review-enhancer/domain/apperror"
	"review-enhancer/infrastructure/utils"
)

// StateTTL bounds how long an /auth/start round trip may take.
const StateTTL = 10 * time.Minute

// StateStore issues and consumes one-time OAuth state values.
type StateStore struct {
	mu     sync.Mutex
	states map[string]time.Time
	clock  utils.Clock
}

func NewStateStore(clock utils.Clock) *StateStore {
	if clock == nil {
		clock = utils.SystemClock{}
	}
	return &StateStore{states: make(map[string]time.Time), clock: clock}
}

func (s *StateStore) Issue() (string, error) {
	buf := make([]byte, 24)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	state := base64.RawURLEncoding.EncodeToString(buf)

	now := s.clock.Now()
	s.mu.Lock()
	defer s.mu.Unlock()
	for k, issued := range s.states {
		if now.Sub(issued) >= StateTTL {
			delete(s.states, k)
		}
	}
	s.states[state] = now
	return state, nil
}

// Consume accepts a state once, within StateTTL of being issued.
func (s *StateStore) Consume(state string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	issued, ok := s.states[state]
	if !ok {
		return apperror.ErrInvalidState
	}
	delete(s.states, state)
	if s.clock.Now().Sub(issued) >= StateTTL {
		return apperror.ErrInvalidState
	}
	return nil
}
