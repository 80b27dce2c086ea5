package service

import (
	"time"

	"github.com/helpdeskhq/console-gateway/internal/core/domain"
)

// GuardRequirement declares what a protected screen demands of a session.
// Zero-value means "any authenticated, subscribed session".
type GuardRequirement struct {
	// Role, when set, restricts the screen to exactly one role.
	Role *domain.Role
	// AnyRoles, when non-empty, accepts a session matching any listed role.
	AnyRoles []domain.Role
	// Permissions, when non-empty, must all be held by the session.
	Permissions []domain.Permission
}

// GuardPending marks which asynchronous inputs of a guard evaluation are
// still in flight. All three must resolve before a decision is final;
// partial results must never produce a premature Allow.
type GuardPending struct {
	Auth        bool
	Permissions bool
	Validity    bool
}

func (p GuardPending) Any() bool { return p.Auth || p.Permissions || p.Validity }

// RouteGuard evaluates protected-route access. Evaluate is pure: redirect
// side effects live in the api middleware adapter, which re-runs the full
// evaluation on every request and never caches an Allow.
type RouteGuard struct{}

func NewRouteGuard() *RouteGuard {
	return &RouteGuard{}
}

// Evaluate applies the guard conditions in fixed precedence order; the first
// matching condition wins. Authentication is checked before authorization so
// an unauthenticated caller never learns that a resource is merely
// subscription-gated, and subscription gating precedes role/permission checks
// because a billing block supersedes any role's nominal entitlements.
func (g *RouteGuard) Evaluate(
	now time.Time,
	claims *domain.SessionClaims,
	resolved []domain.Permission,
	req GuardRequirement,
	pending GuardPending,
) domain.GuardDecision {
	if pending.Any() {
		return domain.DecisionChecking
	}

	if claims == nil || claims.Expired(now) {
		return domain.DecisionRedirectLogin
	}

	if !claims.Paid {
		if claims.Role == domain.RoleOrgAdmin {
			return domain.DecisionRedirectSubscriptionRequired
		}
		return domain.DecisionRedirectSubscriptionExpired
	}

	if req.Role != nil && claims.Role != *req.Role {
		return domain.DecisionRedirectUnauthorized
	}

	if len(req.AnyRoles) > 0 && !roleIn(claims.Role, req.AnyRoles) {
		return domain.DecisionRedirectUnauthorized
	}

	for _, p := range req.Permissions {
		if !containsPermission(resolved, p) {
			return domain.DecisionRedirectUnauthorized
		}
	}

	return domain.DecisionAllow
}

func roleIn(role domain.Role, set []domain.Role) bool {
	for _, r := range set {
		if r == role {
			return true
		}
	}
	return false
}
