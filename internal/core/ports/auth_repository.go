package ports

import (
	"context"

	"github.com/helpdeskhq/console-gateway/internal/core/domain"
)

// UserRepository persists local console operator accounts.
type UserRepository interface {
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
}
