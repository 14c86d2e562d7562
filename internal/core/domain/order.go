package domain

import "time"

// OrderStatusProcessing is the status assigned at creation. Orders are
// append-only and never mutated afterwards; status transitions are not
// part of this system.
const OrderStatusProcessing = "processing"

// LineItem is one accepted cart line frozen into an order.
type LineItem struct {
	ProductName    string `json:"product_name"`
	Quantity       int64  `json:"quantity"`
	UnitPriceCents int64  `json:"unit_price_cents"`
	TotalCents     int64  `json:"total_cents"`
}

// Order is an immutable record of a successful checkout. IDs are allocated
// from a single monotonic counter and never reused.
type Order struct {
	ID         int64      `json:"id"`
	Owner      string     `json:"owner"`
	Items      []LineItem `json:"items"`
	TotalCents int64      `json:"total_cents"`
	CreatedAt  time.Time  `json:"created_at"`
	Status     string     `json:"status"`
}

// Total returns the grand total in currency units.
func (o Order) Total() float64 {
	return float64(o.TotalCents) / 100
}
