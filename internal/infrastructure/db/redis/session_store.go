package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/helpdeskhq/console-gateway/internal/core/domain"
	"github.com/helpdeskhq/console-gateway/internal/core/ports"
)

const defaultSessionTTL = 24 * time.Hour

// SessionStore is the Redis-backed session store. Each session occupies two
// fixed keys, one for the raw token and one for the cached user snapshot:
//
//	session:<id>:token
//	session:<id>:user
//
// Both are written by Save and read together by Load. Change notification is
// in-process: listeners registered with Subscribe fire after every mutation,
// replacing interval polling of storage.
type SessionStore struct {
	client *redis.Client
	ttl    time.Duration

	mu        sync.RWMutex
	listeners []func(sessionID string, change ports.SessionChange)
}

func NewSessionStore(client *redis.Client, ttl time.Duration) *SessionStore {
	if ttl <= 0 {
		ttl = defaultSessionTTL
	}
	return &SessionStore{client: client, ttl: ttl}
}

func (s *SessionStore) Load(ctx context.Context, sessionID string) (*domain.Session, error) {
	token, err := s.client.Get(ctx, tokenKey(sessionID)).Result()
	if err == redis.Nil {
		return nil, domain.ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("session load: %w", err)
	}

	session := &domain.Session{Token: token}

	raw, err := s.client.Get(ctx, userKey(sessionID)).Result()
	if err != nil && err != redis.Nil {
		return nil, fmt.Errorf("session load user: %w", err)
	}
	if err == nil {
		if jsonErr := json.Unmarshal([]byte(raw), &session.User); jsonErr != nil {
			return nil, fmt.Errorf("session decode user: %w", jsonErr)
		}
	}

	return session, nil
}

func (s *SessionStore) Save(ctx context.Context, sessionID string, session *domain.Session) error {
	raw, err := json.Marshal(session.User)
	if err != nil {
		return fmt.Errorf("session encode user: %w", err)
	}

	// Token first, then user: both are only read together at bootstrap, so
	// the write order does not need to be transactional.
	if err := s.client.Set(ctx, tokenKey(sessionID), session.Token, s.ttl).Err(); err != nil {
		return fmt.Errorf("session save token: %w", err)
	}
	if err := s.client.Set(ctx, userKey(sessionID), raw, s.ttl).Err(); err != nil {
		return fmt.Errorf("session save user: %w", err)
	}

	s.notify(sessionID, ports.SessionSaved)
	return nil
}

func (s *SessionStore) Clear(ctx context.Context, sessionID string) error {
	if err := s.client.Del(ctx, tokenKey(sessionID), userKey(sessionID)).Err(); err != nil {
		return fmt.Errorf("session clear: %w", err)
	}
	s.notify(sessionID, ports.SessionCleared)
	return nil
}

func (s *SessionStore) Subscribe(fn func(sessionID string, change ports.SessionChange)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

func (s *SessionStore) notify(sessionID string, change ports.SessionChange) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, fn := range s.listeners {
		fn(sessionID, change)
	}
}

func tokenKey(sessionID string) string { return "session:" + sessionID + ":token" }
func userKey(sessionID string) string  { return "session:" + sessionID + ":user" }
