package memory

import (
	"context"
	"sync"

	"github.com/minimarket/storefront/internal/core/domain"
)

type OrderRepository struct {
	mu     sync.Mutex
	orders []*domain.Order
	nextID int64
}

func NewOrderRepository() *OrderRepository {
	return &OrderRepository{nextID: 1}
}

// Create assigns the next monotonic id and appends the order. The counter
// advances under the same lock as the append, so ids are unique and never
// reused even under concurrent checkouts.
func (r *OrderRepository) Create(_ context.Context, order *domain.Order) (*domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	clone := *order
	clone.ID = r.nextID
	r.nextID++
	clone.Items = append([]domain.LineItem(nil), order.Items...)
	r.orders = append(r.orders, &clone)

	out := clone
	out.Items = append([]domain.LineItem(nil), clone.Items...)
	return &out, nil
}

func (r *OrderRepository) FindByID(_ context.Context, id int64) (*domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, order := range r.orders {
		if order.ID == id {
			clone := *order
			clone.Items = append([]domain.LineItem(nil), order.Items...)
			return &clone, nil
		}
	}
	return nil, domain.ErrOrderNotFound
}

func (r *OrderRepository) ListByOwner(_ context.Context, owner string) ([]domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []domain.Order
	for _, order := range r.orders {
		if order.Owner != owner {
			continue
		}
		clone := *order
		clone.Items = append([]domain.LineItem(nil), order.Items...)
		out = append(out, clone)
	}
	return out, nil
}
