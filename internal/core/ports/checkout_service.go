package ports

import (
	"context"

	"github.com/minimarket/storefront/internal/core/domain"
)

type CheckoutService interface {
	// Checkout decodes the cart token, validates every line against live
	// state, decrements stock and appends an immutable order owned by the
	// identity's subject. Invalid lines are skipped, not fatal; accepted
	// decrements commit individually.
	Checkout(ctx context.Context, identity *Identity, cartData string) (*domain.Order, error)
	// GetOrder returns the order only when it belongs to owner; any other
	// order id resolves to domain.ErrOrderNotFound.
	GetOrder(ctx context.Context, owner string, id int64) (*domain.Order, error)
	ListOrders(ctx context.Context, owner string) ([]domain.Order, error)
}
