package service

import (
	"github.com/golang-jwt/jwt/v5"

	"github.com/helpdeskhq/console-gateway/internal/core/domain"
)

// TokenInspector decodes bearer tokens into session claims. It is a pure
// parser: signature verification is the backend's job on every data call, so
// the gateway only extracts claims for UI gating. Expiry is reported through
// the claims, not enforced here — that policy belongs to the route guard.
type TokenInspector struct {
	parser *jwt.Parser
}

func NewTokenInspector() *TokenInspector {
	return &TokenInspector{parser: jwt.NewParser()}
}

// Decode parses token into claims. Any structural failure yields
// domain.ErrMalformedToken; callers must treat that identically to "no
// session".
func (ti *TokenInspector) Decode(token string) (*domain.SessionClaims, error) {
	if token == "" {
		return nil, domain.ErrMalformedToken
	}

	claims := &domain.SessionClaims{}
	if _, _, err := ti.parser.ParseUnverified(token, claims); err != nil {
		return nil, domain.ErrMalformedToken
	}
	if !claims.Role.Valid() {
		return nil, domain.ErrMalformedToken
	}
	return claims, nil
}
