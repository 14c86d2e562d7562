package ports

import (
	"context"

	"github.com/minimarket/storefront/internal/core/domain"
)

// OrderRepository defines the interface for order persistence. Create
// allocates the order id from a monotonic counter that is never reused,
// even under concurrent checkouts. Orders are append-only.
type OrderRepository interface {
	Create(ctx context.Context, order *domain.Order) (*domain.Order, error)
	FindByID(ctx context.Context, id int64) (*domain.Order, error)
	ListByOwner(ctx context.Context, owner string) ([]domain.Order, error)
}
