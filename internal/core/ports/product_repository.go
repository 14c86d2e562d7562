package ports

import (
	"context"

	"github.com/minimarket/storefront/internal/core/domain"
)

// ProductRepository defines the interface for catalog persistence.
type ProductRepository interface {
	Create(ctx context.Context, product *domain.Product) error
	FindByID(ctx context.Context, id int64) (*domain.Product, error)
	// List returns products ordered by id. A non-empty category filters
	// the result.
	List(ctx context.Context, category string) ([]domain.Product, error)
	// DecrementStock atomically checks that the product has at least
	// quantity units in stock and subtracts them, returning the updated
	// product. It fails with domain.ErrInsufficientStock on shortfall and
	// domain.ErrProductNotFound on an unknown id. The check and the
	// subtraction are a single operation with respect to concurrent
	// callers; stock never goes negative.
	DecrementStock(ctx context.Context, id, quantity int64) (*domain.Product, error)
}
