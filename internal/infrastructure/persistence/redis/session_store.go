package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/skillswap/skillswap-hub/internal/domain/shared"
)

// SessionStore implements profile.SessionStore on Redis string keys.
type SessionStore struct {
	cache *Cache
}

// NewSessionStore creates a SessionStore.
func NewSessionStore(cache *Cache) *SessionStore {
	return &SessionStore{cache: cache}
}

func sessionKey(token string) string {
	return PrefixSession + token
}

// Create stores token -> userID for ttl.
func (s *SessionStore) Create(ctx context.Context, token, userID string, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = TTLSessionData
	}
	if err := s.cache.Client().Set(ctx, sessionKey(token), userID, ttl).Err(); err != nil {
		return fmt.Errorf("failed to store session: %w", err)
	}
	return nil
}

// Resolve returns the user ID behind token.
func (s *SessionStore) Resolve(ctx context.Context, token string) (string, error) {
	if token == "" {
		return "", shared.ErrNoSession
	}
	userID, err := s.cache.Client().Get(ctx, sessionKey(token)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", shared.ErrNoSession
		}
		return "", fmt.Errorf("failed to resolve session: %w", err)
	}
	return userID, nil
}

// Delete removes a session.
func (s *SessionStore) Delete(ctx context.Context, token string) error {
	return s.cache.Delete(ctx, sessionKey(token))
}
