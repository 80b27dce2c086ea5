package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/helpdeskhq/console-gateway/internal/core/domain"
	"github.com/helpdeskhq/console-gateway/internal/core/ports"
)

// SessionService owns session lifecycle around the store: bootstrap (with
// cross-application handoff), establish on login, terminate on logout, and
// the current-session read used by handlers.
type SessionService struct {
	store     ports.SessionStore
	inspector *TokenInspector
	audit     ports.AuditSink
	log       zerolog.Logger
	now       func() time.Time
}

func NewSessionService(store ports.SessionStore, inspector *TokenInspector, audit ports.AuditSink, log zerolog.Logger) *SessionService {
	return &SessionService{
		store:     store,
		inspector: inspector,
		audit:     audit,
		log:       log,
		now:       time.Now,
	}
}

// Bootstrap resolves the session at console start. A handoff token supplied
// via URL parameters is adopted only when no valid token is already stored;
// an existing valid session is never overwritten. Stale or malformed stored
// sessions are purged.
func (s *SessionService) Bootstrap(ctx context.Context, sessionID, handoffToken, handoffEmail string) (*domain.Session, error) {
	existing, err := s.store.Load(ctx, sessionID)
	if err == nil {
		if claims, decodeErr := s.inspector.Decode(existing.Token); decodeErr == nil && !claims.Expired(s.now()) {
			return existing, nil
		}
		// Stored token is malformed or expired: tear the session down.
		if clearErr := s.store.Clear(ctx, sessionID); clearErr != nil {
			s.log.Error().Err(clearErr).Str("session_id", sessionID).Msg("failed to purge stale session")
		}
		s.audit.Enqueue(domain.AuditEvent{
			Type:      domain.AuditSessionPurged,
			Message:   "stale session purged at bootstrap",
			CreatedAt: s.now(),
		})
	}

	if handoffToken == "" {
		return nil, domain.ErrSessionNotFound
	}

	claims, err := s.inspector.Decode(handoffToken)
	if err != nil || claims.Expired(s.now()) {
		return nil, domain.ErrSessionNotFound
	}

	email := handoffEmail
	if email == "" {
		email = claims.Email
	}
	session := &domain.Session{
		Token: handoffToken,
		User: domain.UserSnapshot{
			ID:    claims.SubjectID(),
			Email: email,
			Role:  claims.Role,
		},
	}
	if err := s.store.Save(ctx, sessionID, session); err != nil {
		return nil, err
	}

	s.audit.Enqueue(domain.AuditEvent{
		Type:      domain.AuditHandoff,
		SubjectID: claims.SubjectID(),
		Email:     email,
		Role:      claims.Role,
		CreatedAt: s.now(),
	})
	return session, nil
}

// Establish stores a fresh session after a successful login.
func (s *SessionService) Establish(ctx context.Context, sessionID, token string, user domain.UserSnapshot) error {
	if err := s.store.Save(ctx, sessionID, &domain.Session{Token: token, User: user}); err != nil {
		return err
	}
	s.audit.Enqueue(domain.AuditEvent{
		Type:      domain.AuditLogin,
		SubjectID: user.ID,
		Email:     user.Email,
		Role:      user.Role,
		CreatedAt: s.now(),
	})
	return nil
}

// Terminate clears the session on logout.
func (s *SessionService) Terminate(ctx context.Context, sessionID string, user domain.UserSnapshot) error {
	if err := s.store.Clear(ctx, sessionID); err != nil {
		return err
	}
	s.audit.Enqueue(domain.AuditEvent{
		Type:      domain.AuditLogout,
		SubjectID: user.ID,
		Email:     user.Email,
		Role:      user.Role,
		CreatedAt: s.now(),
	})
	return nil
}

// Current loads and decodes the stored session. Expired or undecodable
// sessions are purged and reported as absent, matching the decode-failure
// policy: the caller redirects to login, nothing else surfaces.
func (s *SessionService) Current(ctx context.Context, sessionID string) (*domain.Session, *domain.SessionClaims, error) {
	session, err := s.store.Load(ctx, sessionID)
	if err != nil {
		return nil, nil, err
	}

	claims, err := s.inspector.Decode(session.Token)
	if err != nil || claims.Expired(s.now()) {
		if clearErr := s.store.Clear(ctx, sessionID); clearErr != nil {
			s.log.Error().Err(clearErr).Str("session_id", sessionID).Msg("failed to purge invalid session")
		}
		s.audit.Enqueue(domain.AuditEvent{
			Type:      domain.AuditSessionPurged,
			Message:   "invalid or expired session purged",
			CreatedAt: s.now(),
		})
		return nil, nil, domain.ErrSessionNotFound
	}

	return session, claims, nil
}
