package ports

import (
	"context"

	"github.com/helpdeskhq/console-gateway/internal/core/domain"
)

// AuthService implements local operator registration and login. Login returns
// the signed session token alongside the account.
type AuthService interface {
	Register(ctx context.Context, email, password, displayName string, role domain.Role, paid bool) (*domain.User, error)
	Login(ctx context.Context, email, password string) (string, *domain.User, error)
}
