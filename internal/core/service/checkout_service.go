package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/minimarket/storefront/internal/api/metrics"
	"github.com/minimarket/storefront/internal/core/codec"
	"github.com/minimarket/storefront/internal/core/domain"
	"github.com/minimarket/storefront/internal/core/ports"
)

// Line-level skip reasons, used as metric labels.
const (
	skipProductNotFound   = "product_not_found"
	skipPriceChanged      = "price_changed"
	skipInsufficientStock = "insufficient_stock"
)

// CheckoutService turns a client-round-tripped cart token into an
// immutable order. Invalid lines are skipped, never fatal; each accepted
// line's stock decrement commits individually (partial-commit policy).
type CheckoutService struct {
	products ports.ProductRepository
	orders   ports.OrderRepository
	log      zerolog.Logger
}

func NewCheckoutService(products ports.ProductRepository, orders ports.OrderRepository, log zerolog.Logger) *CheckoutService {
	return &CheckoutService{products: products, orders: orders, log: log}
}

func (s *CheckoutService) Checkout(ctx context.Context, identity *ports.Identity, cartData string) (*domain.Order, error) {
	cartData = strings.TrimSpace(cartData)
	if cartData == "" {
		metrics.CheckoutsTotal.WithLabelValues("empty_cart").Inc()
		return nil, domain.ErrEmptyCart
	}

	lines, err := codec.DecodeCart(cartData)
	if err != nil {
		metrics.CheckoutsTotal.WithLabelValues("invalid_cart").Inc()
		s.log.Warn().Err(err).Str("username", identity.Username).Msg("undecodable cart submitted")
		return nil, domain.ErrInvalidCart
	}
	if len(lines) == 0 {
		metrics.CheckoutsTotal.WithLabelValues("empty_cart").Inc()
		return nil, domain.ErrEmptyCart
	}

	var (
		items      []domain.LineItem
		totalCents int64
	)

	// Lines are processed in input order; no reordering or batching.
	for _, line := range lines {
		product, err := s.products.FindByID(ctx, line.ProductID)
		if err != nil {
			s.skipLine(identity.Username, line, skipProductNotFound)
			continue
		}

		// The snapshot price travelled through the client and is only
		// trusted once it matches the live catalog.
		if product.PriceCents != line.PriceCents {
			s.skipLine(identity.Username, line, skipPriceChanged)
			continue
		}

		if _, err := s.products.DecrementStock(ctx, line.ProductID, line.Quantity); err != nil {
			reason := skipInsufficientStock
			if errors.Is(err, domain.ErrProductNotFound) {
				reason = skipProductNotFound
			} else if !errors.Is(err, domain.ErrInsufficientStock) {
				return nil, err
			}
			s.skipLine(identity.Username, line, reason)
			continue
		}

		lineTotal := line.Quantity * line.PriceCents
		items = append(items, domain.LineItem{
			ProductName:    product.Name,
			Quantity:       line.Quantity,
			UnitPriceCents: line.PriceCents,
			TotalCents:     lineTotal,
		})
		totalCents += lineTotal
	}

	if len(items) == 0 {
		metrics.CheckoutsTotal.WithLabelValues("no_valid_items").Inc()
		return nil, domain.ErrNoValidItems
	}

	order, err := s.orders.Create(ctx, &domain.Order{
		Owner:      identity.Username,
		Items:      items,
		TotalCents: totalCents,
		CreatedAt:  time.Now().UTC(),
		Status:     domain.OrderStatusProcessing,
	})
	if err != nil {
		s.log.Error().Err(err).Str("username", identity.Username).Msg("failed to persist order")
		return nil, err
	}

	metrics.CheckoutsTotal.WithLabelValues("success").Inc()
	metrics.OrdersCreatedTotal.Inc()
	metrics.OrderTotal.Observe(order.Total())

	s.log.Info().
		Int64("order_id", order.ID).
		Str("username", order.Owner).
		Int("items", len(order.Items)).
		Int64("total_cents", order.TotalCents).
		Msg("order created")

	return order, nil
}

func (s *CheckoutService) skipLine(username string, line domain.CartLine, reason string) {
	metrics.CheckoutLinesSkippedTotal.WithLabelValues(reason).Inc()
	s.log.Warn().
		Str("username", username).
		Int64("product_id", line.ProductID).
		Int64("quantity", line.Quantity).
		Str("reason", reason).
		Msg("cart line skipped")
}

// GetOrder applies the ownership check: an order belonging to someone
// else is indistinguishable from a missing one.
func (s *CheckoutService) GetOrder(ctx context.Context, owner string, id int64) (*domain.Order, error) {
	order, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if order.Owner != owner {
		return nil, domain.ErrOrderNotFound
	}
	return order, nil
}

func (s *CheckoutService) ListOrders(ctx context.Context, owner string) ([]domain.Order, error) {
	return s.orders.ListByOwner(ctx, owner)
}
