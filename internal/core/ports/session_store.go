package ports

import (
	"context"

	"github.com/helpdeskhq/console-gateway/internal/core/domain"
)

// SessionChange describes a mutation of a stored session, delivered to
// subscribers instead of having them poll storage.
type SessionChange int

const (
	SessionSaved SessionChange = iota
	SessionCleared
)

func (c SessionChange) String() string {
	if c == SessionCleared {
		return "cleared"
	}
	return "saved"
}

// SessionStore owns the raw token and cached user snapshot for each console
// session. All other components receive session data read-only and must not
// mutate it through any other path.
type SessionStore interface {
	// Load returns the stored session or domain.ErrSessionNotFound.
	Load(ctx context.Context, sessionID string) (*domain.Session, error)
	// Save writes token and snapshot together under the session id.
	Save(ctx context.Context, sessionID string, session *domain.Session) error
	// Clear removes both entries. Called on logout, on expired-token
	// detection and on decode failure.
	Clear(ctx context.Context, sessionID string) error
	// Subscribe registers a listener invoked after every Save and Clear.
	Subscribe(fn func(sessionID string, change SessionChange))
}
