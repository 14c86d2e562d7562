package ports

import (
	"context"

	"github.com/minimarket/storefront/internal/core/domain"
)

// CartItemDetail is a decoded cart line joined with the live catalog.
type CartItemDetail struct {
	ProductID   int64
	ProductName string
	Quantity    int64
	PriceCents  int64
}

type CartService interface {
	// AddItem checks availability and returns an opaque token encoding
	// the line with the current price snapshot. Stock is not reserved.
	AddItem(ctx context.Context, productID, quantity int64) (string, *domain.Product, error)
	// BuildCart merges single-line tokens into one cart token. Entries
	// that fail to decode are dropped.
	BuildCart(ctx context.Context, items []string) (string, error)
	DecodeItem(ctx context.Context, item string) (*CartItemDetail, error)
}
