package review

import (
	"errors"
	"sync"

	"github.com/google/uuid"
)

// ErrNoActiveSession is returned when an outcome call omits the card ID and
// no card has been served yet.
var ErrNoActiveSession = errors.New("no active review session")

// Session tracks the last card served by a selection call so that follow-up
// success/failure/override calls can omit the card ID.
//
// There is one session per process, shared by every caller: this mirrors the
// original single-user design and is an explicit non-goal to scope per
// client. The field is guarded by a mutex because HTTP handlers run
// concurrently; it is best-effort convenience state and is not persisted.
type Session struct {
	mu         sync.Mutex
	lastServed uuid.UUID
	active     bool
}

// NewSession returns an empty session: no card served yet.
func NewSession() *Session {
	return &Session{}
}

// SetLastServed records the card most recently returned by a selection call.
func (s *Session) SetLastServed(id uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastServed = id
	s.active = true
}

// LastServed returns the last served card ID, if any.
func (s *Session) LastServed() (uuid.UUID, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastServed, s.active
}

// Forget clears the session when it points at the given card. Called when a
// card is deleted so the session never resolves to a removed card.
func (s *Session) Forget(id uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.active && s.lastServed == id {
		s.active = false
		s.lastServed = uuid.Nil
	}
}

// Resolve returns the card ID an outcome call should target: the explicit ID
// when one is supplied, otherwise the last served card. Returns
// ErrNoActiveSession when neither is available.
func (s *Session) Resolve(explicit uuid.UUID) (uuid.UUID, error) {
	if explicit != uuid.Nil {
		return explicit, nil
	}

	id, ok := s.LastServed()
	if !ok {
		return uuid.Nil, ErrNoActiveSession
	}
	return id, nil
}
