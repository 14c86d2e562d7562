package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/minimarket/storefront/internal/core/domain"
)

type ProductRepository struct {
	mu       sync.Mutex
	products map[int64]*domain.Product
}

func NewProductRepository() *ProductRepository {
	return &ProductRepository{products: make(map[int64]*domain.Product)}
}

func (r *ProductRepository) Create(_ context.Context, product *domain.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	clone := *product
	r.products[product.ID] = &clone
	return nil
}

func (r *ProductRepository) FindByID(_ context.Context, id int64) (*domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	product, ok := r.products[id]
	if !ok {
		return nil, domain.ErrProductNotFound
	}
	clone := *product
	return &clone, nil
}

func (r *ProductRepository) List(_ context.Context, category string) ([]domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]domain.Product, 0, len(r.products))
	for _, product := range r.products {
		if category != "" && product.Category != category {
			continue
		}
		out = append(out, *product)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// DecrementStock performs the availability check and the subtraction
// under one lock, so concurrent checkouts can never oversell: stock is
// read-checked and decremented as a single operation.
func (r *ProductRepository) DecrementStock(_ context.Context, id, quantity int64) (*domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	product, ok := r.products[id]
	if !ok {
		return nil, domain.ErrProductNotFound
	}
	if product.Stock < quantity {
		return nil, domain.ErrInsufficientStock
	}
	product.Stock -= quantity

	clone := *product
	return &clone, nil
}
