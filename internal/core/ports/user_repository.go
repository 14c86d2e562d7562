package ports

import (
	"context"

	"github.com/minimarket/storefront/internal/core/domain"
)

// UserRepository defines the interface for account persistence. Accounts
// are read-mostly: they are created at seed/registration time and never
// modified afterwards within this system.
type UserRepository interface {
	Create(ctx context.Context, user *domain.UserAccount) (*domain.UserAccount, error)
	FindByUsername(ctx context.Context, username string) (*domain.UserAccount, error)
	List(ctx context.Context) ([]domain.UserAccount, error)
}
