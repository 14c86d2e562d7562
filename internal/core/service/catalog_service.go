package service

import (
	"context"

	"github.com/minimarket/storefront/internal/core/domain"
	"github.com/minimarket/storefront/internal/core/ports"
)

// CatalogService exposes read-only product lookups.
type CatalogService struct {
	products ports.ProductRepository
}

func NewCatalogService(products ports.ProductRepository) *CatalogService {
	return &CatalogService{products: products}
}

func (s *CatalogService) List(ctx context.Context, category string) ([]domain.Product, error) {
	return s.products.List(ctx, category)
}

func (s *CatalogService) Get(ctx context.Context, id int64) (*domain.Product, error) {
	return s.products.FindByID(ctx, id)
}
