package middleware

import (
	"github.com/helpdeskhq/console-gateway/internal/core/domain"
	"github.com/helpdeskhq/console-gateway/internal/core/service"
)

// RequireRole restricts a route to exactly one role. Role matching is exact;
// no role implies another.
func RequireRole(role domain.Role) service.GuardRequirement {
	return service.GuardRequirement{Role: &role}
}

// RequireAnyRole accepts a session holding any of the listed roles.
func RequireAnyRole(roles ...domain.Role) service.GuardRequirement {
	return service.GuardRequirement{AnyRoles: roles}
}

// RequirePermissions demands that the session hold every listed permission.
func RequirePermissions(perms ...domain.Permission) service.GuardRequirement {
	return service.GuardRequirement{Permissions: perms}
}

// RequireSession demands only an authenticated, subscribed session.
func RequireSession() service.GuardRequirement {
	return service.GuardRequirement{}
}

// And merges requirements; later role declarations override earlier ones.
func And(reqs ...service.GuardRequirement) service.GuardRequirement {
	var merged service.GuardRequirement
	for _, r := range reqs {
		if r.Role != nil {
			merged.Role = r.Role
		}
		merged.AnyRoles = append(merged.AnyRoles, r.AnyRoles...)
		merged.Permissions = append(merged.Permissions, r.Permissions...)
	}
	return merged
}
