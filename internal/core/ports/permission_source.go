package ports

import (
	"context"

	"github.com/helpdeskhq/console-gateway/internal/core/domain"
)

// PermissionSource is the authoritative role→permission lookup, reached over
// the backend REST API. Implementations return domain.ErrSessionRevoked when
// the backend rejects the bearer token itself (401/403) and
// domain.ErrPermissionSource for transport failures or non-200 responses.
type PermissionSource interface {
	PermissionsForRole(ctx context.Context, token string, role domain.Role) ([]domain.Permission, error)
}
