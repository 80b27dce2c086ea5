package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/helpdeskhq/console-gateway/internal/core/domain"
)

type stubPermissionSource struct {
	perms []domain.Permission
	err   error
	calls int
}

func (s *stubPermissionSource) PermissionsForRole(_ context.Context, _ string, _ domain.Role) ([]domain.Permission, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.perms, nil
}

func testClaims(role domain.Role, perms []domain.Permission, paid bool) *domain.SessionClaims {
	return &domain.SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		Email:       "user@example.com",
		Role:        role,
		Permissions: perms,
		Paid:        paid,
	}
}

func TestAccessEvaluator_HasPermission(t *testing.T) {
	e := NewAccessEvaluator(&stubPermissionSource{}, zerolog.Nop())
	claims := testClaims(domain.RoleEmployee, []domain.Permission{domain.PermTicketCreate, domain.PermTicketView}, true)

	if !e.HasPermission(claims, domain.PermTicketCreate) {
		t.Fatalf("expected ticket.create to be held")
	}
	if e.HasPermission(claims, domain.PermTicketDelete) {
		t.Fatalf("ticket.delete should not be held")
	}
	if e.HasPermission(nil, domain.PermTicketCreate) {
		t.Fatalf("absent claims never hold a permission")
	}
}

func TestAccessEvaluator_HasAnyPermission_EmptyIsFalse(t *testing.T) {
	e := NewAccessEvaluator(&stubPermissionSource{}, zerolog.Nop())
	claims := testClaims(domain.RoleEmployee, []domain.Permission{domain.PermTicketView}, true)

	if e.HasAnyPermission(claims, nil) {
		t.Fatalf("hasAny over an empty list must be false")
	}
	if !e.HasAnyPermission(claims, []domain.Permission{domain.PermTicketDelete, domain.PermTicketView}) {
		t.Fatalf("hasAny should match on the second element")
	}
}

func TestAccessEvaluator_HasAllPermissions_EmptyIsTrue(t *testing.T) {
	e := NewAccessEvaluator(&stubPermissionSource{}, zerolog.Nop())
	claims := testClaims(domain.RoleEmployee, []domain.Permission{domain.PermTicketView}, true)

	if !e.HasAllPermissions(claims, nil) {
		t.Fatalf("hasAll over an empty list is vacuously true")
	}
	if !e.HasAllPermissions(nil, nil) {
		t.Fatalf("hasAll over an empty list is true even without claims")
	}
	if e.HasAllPermissions(claims, []domain.Permission{domain.PermTicketView, domain.PermTicketDelete}) {
		t.Fatalf("hasAll must fail when any element is missing")
	}
}

func TestAccessEvaluator_HasRole_NotTransitive(t *testing.T) {
	e := NewAccessEvaluator(&stubPermissionSource{}, zerolog.Nop())

	adminEntry, _ := domain.CapabilityFor(domain.RoleOrgAdmin)
	manager := testClaims(domain.RoleManager, adminEntry.Permissions, true)

	// Even holding ORG_ADMIN's full permission superset, a MANAGER session
	// must fail an exact ORG_ADMIN role check.
	if e.HasRole(manager, domain.RoleOrgAdmin) {
		t.Fatalf("role checks must be exact equality, not hierarchy")
	}
	if !e.HasRole(manager, domain.RoleManager) {
		t.Fatalf("exact role check should pass")
	}
	if e.HasRole(nil, domain.RoleManager) {
		t.Fatalf("absent claims have no role")
	}
}

func TestAccessEvaluator_SubscriptionActive(t *testing.T) {
	e := NewAccessEvaluator(&stubPermissionSource{}, zerolog.Nop())

	if !e.SubscriptionActive(testClaims(domain.RoleHR, nil, true)) {
		t.Fatalf("paid claims should report an active subscription")
	}
	if e.SubscriptionActive(testClaims(domain.RoleHR, nil, false)) {
		t.Fatalf("unpaid claims should not report an active subscription")
	}
	if e.SubscriptionActive(nil) {
		t.Fatalf("absent claims have no subscription")
	}
}

func TestAccessEvaluator_ResolvePermissions_Backend(t *testing.T) {
	source := &stubPermissionSource{perms: []domain.Permission{domain.PermTicketAssign}}
	e := NewAccessEvaluator(source, zerolog.Nop())
	claims := testClaims(domain.RoleServiceDeskAgent, []domain.Permission{domain.PermTicketView}, true)

	perms, degraded, err := e.ResolvePermissions(context.Background(), "tok", claims)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if degraded {
		t.Fatalf("successful backend lookup must not be degraded")
	}
	if len(perms) != 1 || perms[0] != domain.PermTicketAssign {
		t.Fatalf("expected backend permissions, got %v", perms)
	}
}

func TestAccessEvaluator_ResolvePermissions_DegradedFallback(t *testing.T) {
	source := &stubPermissionSource{err: domain.ErrPermissionSource}
	e := NewAccessEvaluator(source, zerolog.Nop())
	claims := testClaims(domain.RoleEmployee, []domain.Permission{domain.PermTicketCreate}, true)

	perms, degraded, err := e.ResolvePermissions(context.Background(), "tok", claims)
	if err != nil {
		t.Fatalf("degraded resolve must not error: %v", err)
	}
	if !degraded {
		t.Fatalf("fallback must be reported as degraded")
	}
	if len(perms) != 1 || perms[0] != domain.PermTicketCreate {
		t.Fatalf("expected token-embedded permissions, got %v", perms)
	}
}

func TestAccessEvaluator_ResolvePermissions_RevokedPropagates(t *testing.T) {
	source := &stubPermissionSource{err: domain.ErrSessionRevoked}
	e := NewAccessEvaluator(source, zerolog.Nop())
	claims := testClaims(domain.RoleEmployee, []domain.Permission{domain.PermTicketCreate}, true)

	_, _, err := e.ResolvePermissions(context.Background(), "tok", claims)
	if !errors.Is(err, domain.ErrSessionRevoked) {
		t.Fatalf("revocation must propagate, got %v", err)
	}
}

func TestAccessEvaluator_ResolvePermissions_NilClaims(t *testing.T) {
	e := NewAccessEvaluator(&stubPermissionSource{}, zerolog.Nop())
	if _, _, err := e.ResolvePermissions(context.Background(), "tok", nil); err == nil {
		t.Fatalf("nil claims must not resolve")
	}
}
