package ports

import (
	"context"

	"github.com/minimarket/storefront/internal/core/domain"
)

type CatalogService interface {
	List(ctx context.Context, category string) ([]domain.Product, error)
	Get(ctx context.Context, id int64) (*domain.Product, error)
}
