package service

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/helpdeskhq/console-gateway/internal/core/domain"
	"github.com/helpdeskhq/console-gateway/internal/core/ports"
)

type stubSessionStore struct {
	sessions map[string]domain.Session
	clears   int
}

func newStubSessionStore() *stubSessionStore {
	return &stubSessionStore{sessions: make(map[string]domain.Session)}
}

func (s *stubSessionStore) Load(_ context.Context, id string) (*domain.Session, error) {
	session, ok := s.sessions[id]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	clone := session
	return &clone, nil
}

func (s *stubSessionStore) Save(_ context.Context, id string, session *domain.Session) error {
	s.sessions[id] = *session
	return nil
}

func (s *stubSessionStore) Clear(_ context.Context, id string) error {
	s.clears++
	delete(s.sessions, id)
	return nil
}

func (s *stubSessionStore) Subscribe(func(string, ports.SessionChange)) {}

type stubAuditSink struct {
	events []domain.AuditEvent
}

func (s *stubAuditSink) Enqueue(event domain.AuditEvent) {
	s.events = append(s.events, event)
}

func (s *stubAuditSink) lastType() domain.AuditEventType {
	if len(s.events) == 0 {
		return ""
	}
	return s.events[len(s.events)-1].Type
}

func newSessionService(store ports.SessionStore, sink ports.AuditSink) *SessionService {
	return NewSessionService(store, NewTokenInspector(), sink, zerolog.Nop())
}

func TestSessionService_Bootstrap_AdoptsHandoffToken(t *testing.T) {
	store := newStubSessionStore()
	sink := &stubAuditSink{}
	svc := newSessionService(store, sink)

	token := signedToken(t, domain.RoleEmployee, nil, true, time.Now().Add(time.Hour))
	session, err := svc.Bootstrap(context.Background(), "sid-1", token, "handoff@example.com")
	if err != nil {
		t.Fatalf("bootstrap: %v", err)
	}
	if session.Token != token {
		t.Fatalf("handoff token not adopted")
	}
	if session.User.Email != "handoff@example.com" {
		t.Fatalf("user snapshot not synthesized from handoff email: %+v", session.User)
	}
	if session.User.Role != domain.RoleEmployee {
		t.Fatalf("role not taken from claims: %s", session.User.Role)
	}
	if _, ok := store.sessions["sid-1"]; !ok {
		t.Fatalf("adopted session not persisted")
	}
	if sink.lastType() != domain.AuditHandoff {
		t.Fatalf("handoff not audited, got %v", sink.events)
	}
}

func TestSessionService_Bootstrap_DoesNotOverwriteValidSession(t *testing.T) {
	store := newStubSessionStore()
	svc := newSessionService(store, &stubAuditSink{})

	stored := signedToken(t, domain.RoleHR, nil, true, time.Now().Add(time.Hour))
	store.sessions["sid-1"] = domain.Session{Token: stored, User: domain.UserSnapshot{Email: "stored@example.com"}}

	handoff := signedToken(t, domain.RoleEmployee, nil, true, time.Now().Add(time.Hour))
	session, err := svc.Bootstrap(context.Background(), "sid-1", handoff, "new@example.com")
	if err != nil {
		t.Fatalf("bootstrap: %v", err)
	}
	if session.Token != stored {
		t.Fatalf("existing valid session must not be overwritten by handoff")
	}
}

func TestSessionService_Bootstrap_ReplacesExpiredSession(t *testing.T) {
	store := newStubSessionStore()
	sink := &stubAuditSink{}
	svc := newSessionService(store, sink)

	expired := signedToken(t, domain.RoleHR, nil, true, time.Now().Add(-time.Hour))
	store.sessions["sid-1"] = domain.Session{Token: expired}

	handoff := signedToken(t, domain.RoleEmployee, nil, true, time.Now().Add(time.Hour))
	session, err := svc.Bootstrap(context.Background(), "sid-1", handoff, "")
	if err != nil {
		t.Fatalf("bootstrap: %v", err)
	}
	if session.Token != handoff {
		t.Fatalf("expired session should be replaced by the handoff token")
	}
	if store.clears == 0 {
		t.Fatalf("stale session should have been purged first")
	}
	if session.User.Email == "" {
		t.Fatalf("email should fall back to the claims when no handoff email is given")
	}
}

func TestSessionService_Bootstrap_NoSession(t *testing.T) {
	svc := newSessionService(newStubSessionStore(), &stubAuditSink{})

	if _, err := svc.Bootstrap(context.Background(), "sid-1", "", ""); err != domain.ErrSessionNotFound {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestSessionService_Bootstrap_RejectsExpiredHandoff(t *testing.T) {
	svc := newSessionService(newStubSessionStore(), &stubAuditSink{})

	expired := signedToken(t, domain.RoleEmployee, nil, true, time.Now().Add(-time.Minute))
	if _, err := svc.Bootstrap(context.Background(), "sid-1", expired, ""); err != domain.ErrSessionNotFound {
		t.Fatalf("expired handoff token must not establish a session, got %v", err)
	}
}

func TestSessionService_EstablishAndTerminate(t *testing.T) {
	store := newStubSessionStore()
	sink := &stubAuditSink{}
	svc := newSessionService(store, sink)

	snapshot := domain.UserSnapshot{ID: "u1", Email: "op@example.com", Role: domain.RoleOrgAdmin}
	if err := svc.Establish(context.Background(), "sid-1", "token", snapshot); err != nil {
		t.Fatalf("establish: %v", err)
	}
	if sink.lastType() != domain.AuditLogin {
		t.Fatalf("login not audited")
	}

	if err := svc.Terminate(context.Background(), "sid-1", snapshot); err != nil {
		t.Fatalf("terminate: %v", err)
	}
	if sink.lastType() != domain.AuditLogout {
		t.Fatalf("logout not audited")
	}
	if _, ok := store.sessions["sid-1"]; ok {
		t.Fatalf("session still stored after terminate")
	}
}

func TestSessionService_Current_PurgesExpired(t *testing.T) {
	store := newStubSessionStore()
	sink := &stubAuditSink{}
	svc := newSessionService(store, sink)

	expired := signedToken(t, domain.RoleHR, nil, true, time.Now().Add(-time.Hour))
	store.sessions["sid-1"] = domain.Session{Token: expired}

	if _, _, err := svc.Current(context.Background(), "sid-1"); err != domain.ErrSessionNotFound {
		t.Fatalf("expected ErrSessionNotFound for expired session, got %v", err)
	}
	if _, ok := store.sessions["sid-1"]; ok {
		t.Fatalf("expired session should have been purged")
	}
	if sink.lastType() != domain.AuditSessionPurged {
		t.Fatalf("purge not audited")
	}
}

func TestSessionService_Current_Valid(t *testing.T) {
	store := newStubSessionStore()
	svc := newSessionService(store, &stubAuditSink{})

	token := signedToken(t, domain.RoleCXO, nil, true, time.Now().Add(time.Hour))
	store.sessions["sid-1"] = domain.Session{Token: token, User: domain.UserSnapshot{Email: "cxo@example.com"}}

	session, claims, err := svc.Current(context.Background(), "sid-1")
	if err != nil {
		t.Fatalf("current: %v", err)
	}
	if session.User.Email != "cxo@example.com" {
		t.Fatalf("unexpected snapshot: %+v", session.User)
	}
	if claims.Role != domain.RoleCXO {
		t.Fatalf("unexpected claims role: %s", claims.Role)
	}
}
