package memory

import (
	"context"
	"sync"

	"github.com/helpdeskhq/console-gateway/internal/core/domain"
	"github.com/helpdeskhq/console-gateway/internal/core/ports"
)

// SessionStore is an in-memory session store, used in tests and in dev mode
// when no Redis is available. Store mutation is mutex-guarded because the
// HTTP server runs handlers on multiple goroutines.
type SessionStore struct {
	mu        sync.RWMutex
	sessions  map[string]domain.Session
	listeners []func(sessionID string, change ports.SessionChange)
}

func NewSessionStore() *SessionStore {
	return &SessionStore{sessions: make(map[string]domain.Session)}
}

func (s *SessionStore) Load(_ context.Context, sessionID string) (*domain.Session, error) {
	s.mu.RLock()
	session, ok := s.sessions[sessionID]
	s.mu.RUnlock()
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	clone := session
	return &clone, nil
}

func (s *SessionStore) Save(_ context.Context, sessionID string, session *domain.Session) error {
	s.mu.Lock()
	s.sessions[sessionID] = *session
	s.mu.Unlock()
	s.notify(sessionID, ports.SessionSaved)
	return nil
}

func (s *SessionStore) Clear(_ context.Context, sessionID string) error {
	s.mu.Lock()
	delete(s.sessions, sessionID)
	s.mu.Unlock()
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
