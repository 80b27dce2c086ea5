package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/helpdeskhq/console-gateway/internal/core/domain"
	"github.com/helpdeskhq/console-gateway/internal/core/ports"
)

// AccessEvaluator answers boolean access queries over a set of session
// claims. The query methods are pure; ResolvePermissions is the one
// suspension point, performing a single backend round-trip.
type AccessEvaluator struct {
	source ports.PermissionSource
	log    zerolog.Logger
}

func NewAccessEvaluator(source ports.PermissionSource, log zerolog.Logger) *AccessEvaluator {
	return &AccessEvaluator{source: source, log: log}
}

// HasPermission reports whether perm is in the claims' permission list.
// Absent claims never hold a permission.
func (e *AccessEvaluator) HasPermission(claims *domain.SessionClaims, perm domain.Permission) bool {
	if claims == nil {
		return false
	}
	return containsPermission(claims.Permissions, perm)
}

// HasAnyPermission is a logical OR over perms. An empty list is false.
func (e *AccessEvaluator) HasAnyPermission(claims *domain.SessionClaims, perms []domain.Permission) bool {
	if claims == nil {
		return false
	}
	for _, p := range perms {
		if containsPermission(claims.Permissions, p) {
			return true
		}
	}
	return false
}

// HasAllPermissions is a logical AND over perms. An empty list is vacuously
// true.
func (e *AccessEvaluator) HasAllPermissions(claims *domain.SessionClaims, perms []domain.Permission) bool {
	if claims == nil {
		return len(perms) == 0
	}
	for _, p := range perms {
		if !containsPermission(claims.Permissions, p) {
			return false
		}
	}
	return true
}

// HasRole is exact equality, not hierarchy: ORG_ADMIN does not satisfy a
// MANAGER check even though its permission set is a superset. Role checks are
// for role-exclusive screens; resource actions should use permission checks.
func (e *AccessEvaluator) HasRole(claims *domain.SessionClaims, role domain.Role) bool {
	return claims != nil && claims.Role == role
}

// SubscriptionActive mirrors the claims' paid flag.
func (e *AccessEvaluator) SubscriptionActive(claims *domain.SessionClaims) bool {
	return claims != nil && claims.Paid
}

// ResolvePermissions returns the authoritative permission set for the claims'
// role. When the backend is unreachable it falls back to the token-embedded
// list so that a transient outage does not strip baseline access; the
// fallback is logged and reported as degraded so callers can record it. A
// revoked session (backend 401/403) is not degraded — it propagates so the
// caller purges the session and discards any stale result.
func (e *AccessEvaluator) ResolvePermissions(ctx context.Context, token string, claims *domain.SessionClaims) (perms []domain.Permission, degraded bool, err error) {
	if claims == nil {
		return nil, false, domain.ErrMalformedToken
	}

	perms, err = e.source.PermissionsForRole(ctx, token, claims.Role)
	if err != nil {
		if errors.Is(err, domain.ErrSessionRevoked) {
			return nil, false, err
		}
		e.log.Warn().
			Err(err).
			Str("role", claims.Role.String()).
			Str("subject", claims.SubjectID()).
			Msg("permission source unavailable, falling back to token permissions")
		return claims.Permissions, true, nil
	}
	return perms, false, nil
}

func containsPermission(set []domain.Permission, perm domain.Permission) bool {
	for _, p := range set {
		if p == perm {
			return true
		}
	}
	return false
}
