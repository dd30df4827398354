package memory

import (
	"context"
	"sync"
	"time"

	"github.com/skillswap/skillswap-hub/internal/domain/shared"
)

type session struct {
	userID    string
	expiresAt time.Time
}

// SessionStore реализует profile.SessionStore с ленивым истечением.
type SessionStore struct {
	mu       sync.Mutex
	sessions map[string]session
	now      func() time.Time
}

// NewSessionStore creates an empty store.
func NewSessionStore() *SessionStore {
	return &SessionStore{sessions: make(map[string]session), now: time.Now}
}

// Create stores token -> userID for ttl.
func (s *SessionStore) Create(_ context.Context, token, userID string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[token] = session{userID: userID, expiresAt: s.now().Add(ttl)}
	return nil
}

// Resolve возвращает пользователя по токену и удаляет истёкший токен.
func (s *SessionStore) Resolve(_ context.Context, token string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[token]
	if !ok {
		return "", shared.ErrNoSession
	}
	if !s.now().Before(sess.expiresAt) {
		delete(s.sessions, token)
		return "", shared.ErrNoSession
	}
	return sess.userID, nil
}

// Delete removes a session.
func (s *SessionStore) Delete(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, token)
	return nil
}

// Sweep удаляет истёкшие сессии и возвращает их количество.
func (s *SessionStore) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	removed := 0
	for token, sess := range s.sessions {
		if !now.Before(sess.expiresAt) {
			delete(s.sessions, token)
			removed++
		}
	}
	return removed
}
