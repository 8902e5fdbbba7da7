package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"rental-booking/pkg/logging"
	"rental-booking/pkg/metrics"
	"rental-booking/pkg/wizard"
)

// ErrSessionNotFound is returned for unknown and expired session IDs
var ErrSessionNotFound = errors.New("session not found")

type session struct {
	state     wizard.State
	expiresAt time.Time
}

// SessionStore keeps wizard states in memory. A session expires after ttl
// without activity.
type SessionStore struct {
	sessions map[string]*session
	mu       sync.Mutex
	ttl      time.Duration
	now      func() time.Time
}

// NewSessionStore creates an empty store whose sessions live for ttl
func NewSessionStore(ttl time.Duration) *SessionStore {
	return &SessionStore{
		sessions: make(map[string]*session),
		ttl:      ttl,
		now:      time.Now,
	}
}

// Create stores state under a new random ID
func (s *SessionStore) Create(state wizard.State) string {
	id := uuid.NewString()

	s.mu.Lock()
	s.sessions[id] = &session{
		state:     state,
		expiresAt: s.now().Add(s.ttl),
	}
	metrics.ActiveSessions.Set(float64(len(s.sessions)))
	s.mu.Unlock()

	return id
}

// Get returns the current state of a session and extends its lifetime
func (s *SessionStore) Get(id string) (wizard.State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.lookup(id)
	if err != nil {
		return wizard.State{}, err
	}
	sess.expiresAt = s.now().Add(s.ttl)
	return sess.state, nil
}

// Update replaces the state of a session with fn's result, atomically with
// respect to other calls on the store. If fn fails the session is left as
// it was. Both snapshots are returned so callers can compare them.
func (s *SessionStore) Update(id string, fn func(wizard.State) (wizard.State, error)) (prev, next wizard.State, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.lookup(id)
	if err != nil {
		return wizard.State{}, wizard.State{}, err
	}

	prev = sess.state
	next, err = fn(prev)
	if err != nil {
		return prev, prev, err
	}

	sess.state = next
	sess.expiresAt = s.now().Add(s.ttl)
	return prev, next, nil
}

// Delete drops a session. Unknown IDs are ignored.
func (s *SessionStore) Delete(id string) {
	s.mu.Lock()
	delete(s.sessions, id)
	metrics.ActiveSessions.Set(float64(len(s.sessions)))
	s.mu.Unlock()
}

// Len returns the number of live sessions
func (s *SessionStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// lookup must be called with mu held. Expired sessions are removed on the
// way.
func (s *SessionStore) lookup(id string) (*session, error) {
	sess, exists := s.sessions[id]
	if !exists {
		return nil, ErrSessionNotFound
	}
	if s.now().After(sess.expiresAt) {
		delete(s.sessions, id)
		metrics.ActiveSessions.Set(float64(len(s.sessions)))
		return nil, ErrSessionNotFound
	}
	return sess, nil
}

// Sweep removes expired sessions and returns how many were dropped
func (s *SessionStore) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	removed := 0
	for id, sess := range s.sessions {
		if now.After(sess.expiresAt) {
			delete(s.sessions, id)
			removed++
		}
	}
	metrics.ActiveSessions.Set(float64(len(s.sessions)))
	return removed
}

// RunSweeper sweeps every interval until ctx is done
func (s *SessionStore) RunSweeper(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.Sweep(); n > 0 {
				logging.Debug("Swept expired sessions", zap.Int("count", n))
			}
		}
	}
}
