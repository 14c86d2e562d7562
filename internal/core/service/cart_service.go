package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/minimarket/storefront/internal/core/codec"
	"github.com/minimarket/storefront/internal/core/domain"
	"github.com/minimarket/storefront/internal/core/ports"
)

// CartService issues and merges opaque cart tokens. It never reserves
// stock: availability is checked at add time as a courtesy and enforced
// for real by the checkout pipeline.
type CartService struct {
	products ports.ProductRepository
	log      zerolog.Logger
}

func NewCartService(products ports.ProductRepository, log zerolog.Logger) *CartService {
	return &CartService{products: products, log: log}
}

// AddItem validates the product and quantity against the live catalog and
// returns a token for a single line with the current price snapshot.
func (s *CartService) AddItem(ctx context.Context, productID, quantity int64) (string, *domain.Product, error) {
	if quantity <= 0 {
		return "", nil, domain.ErrInvalidCart
	}

	product, err := s.products.FindByID(ctx, productID)
	if err != nil {
		return "", nil, err
	}
	if product.Stock < quantity {
		return "", nil, domain.ErrInsufficientStock
	}

	token, err := codec.EncodeLine(domain.CartLine{
		ProductID:  product.ID,
		Quantity:   quantity,
		PriceCents: product.PriceCents,
	})
	if err != nil {
		return "", nil, err
	}
	return token, product, nil
}

// BuildCart merges single-line tokens into one cart token, preserving
// input order. Entries that fail to decode are dropped rather than
// failing the whole merge.
func (s *CartService) BuildCart(ctx context.Context, items []string) (string, error) {
	lines := make([]domain.CartLine, 0, len(items))
	for i, item := range items {
		line, err := codec.DecodeLine(item)
		if err != nil {
			s.log.Debug().Err(err).Int("index", i).Msg("dropping undecodable cart item")
			continue
		}
		lines = append(lines, line)
	}
	return codec.EncodeCart(lines)
}

// DecodeItem decodes a single-line token and joins it with the live
// catalog for display.
func (s *CartService) DecodeItem(ctx context.Context, item string) (*ports.CartItemDetail, error) {
	line, err := codec.DecodeLine(item)
	if err != nil {
		return nil, domain.ErrInvalidCart
	}

	product, err := s.products.FindByID(ctx, line.ProductID)
	if err != nil {
		return nil, err
	}

	return &ports.CartItemDetail{
		ProductID:   line.ProductID,
		ProductName: product.Name,
		Quantity:    line.Quantity,
		PriceCents:  line.PriceCents,
	}, nil
}
