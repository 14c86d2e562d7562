package domain

// CartLine is one product/quantity/price entry inside a cart token. Lines
// are ephemeral: they round-trip through the client between requests and
// are never persisted server-side. The price is a snapshot taken when the
// line was encoded; checkout re-validates it against the live catalog.
type CartLine struct {
	ProductID  int64 `json:"product_id"`
	Quantity   int64 `json:"quantity"`
	PriceCents int64 `json:"price_cents"`
}

// Price returns the snapshot price in currency units.
func (l CartLine) Price() float64 {
	return float64(l.PriceCents) / 100
}
