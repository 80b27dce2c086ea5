package domain

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// SessionClaims is the decoded payload of a console session token. Claims are
// created by the backend at login and trusted client-side for UI gating only;
// the backend re-validates the signature on every data request.
type SessionClaims struct {
	jwt.RegisteredClaims

	Email       string       `json:"email"`
	Role        Role         `json:"role"`
	Permissions []Permission `json:"permissions"`
	Paid        bool         `json:"paid"`
}

// SubjectID returns the token subject (user id).
func (c *SessionClaims) SubjectID() string { return c.Subject }

// Expired reports whether the claims' expiry has passed at now. Claims
// without an expiry are treated as expired: the backend always sets one, so
// its absence means the token was not issued by us.
func (c *SessionClaims) Expired(now time.Time) bool {
	if c.ExpiresAt == nil {
		return true
	}
	return now.After(c.ExpiresAt.Time)
}
