package auth

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	// DefaultSessionTTL is used when NewSessionStore is given a zero ttl.
	DefaultSessionTTL = 24 * time.Hour

	SessionCookie = "session_id"

	sessionKeyPrefix = "session:"
)

// SessionStore wraps Redis for session management.
type SessionStore struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewSessionStore(rdb *redis.Client, ttl time.Duration) *SessionStore {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &SessionStore{rdb: rdb, ttl: ttl}
}

// TTL returns the configured session lifetime.
func (s *SessionStore) TTL() time.Duration {
	return s.ttl
}

// Create stores a new session mapping sessionID -> userID.
func (s *SessionStore) Create(ctx context.Context, userID string) (string, error) {
	sid := uuid.New().String()
	err := s.rdb.Set(ctx, sessionKeyPrefix+sid, userID, s.ttl).Err()
	return sid, err
}

// Get returns the userID for a session and slides its expiry, or "" if the
// session is unknown or already expired.
func (s *SessionStore) Get(ctx context.Context, sessionID string) (string, error) {
	key := sessionKeyPrefix + sessionID
	val, err := s.rdb.Get(ctx, key).Result()
	if err == redis.Nil {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	s.rdb.Expire(ctx, key, s.ttl)
	return val, nil
}

// Delete removes a session.
func (s *SessionStore) Delete(ctx context.Context, sessionID string) error {
	return s.rdb.Del(ctx, sessionKeyPrefix+sessionID).Err()
}
