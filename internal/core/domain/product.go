package domain

// Product is a catalog entry. Prices are integer cents so repeated
// additions stay exact. Stock is the only mutable field and is adjusted
// exclusively through ProductRepository.DecrementStock.
type Product struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	Category   string `json:"category"`
	PriceCents int64  `json:"price_cents"`
	Stock      int64  `json:"stock"`
	Image      string `json:"image,omitempty"`
}

// Price returns the display price in currency units.
func (p Product) Price() float64 {
	return float64(p.PriceCents) / 100
}
