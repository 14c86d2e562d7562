// Package seed loads the demo accounts and catalog into the configured
// repositories at boot. Seed passwords are bcrypt-hashed here, never
// stored in digest form in source.
package seed

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/minimarket/storefront/internal/core/domain"
	"github.com/minimarket/storefront/internal/core/ports"
)

type seedUser struct {
	username string
	password string
	fullName string
	role     string
	email    string
	address  string
	phone    string
}

var users = []seedUser{
	{"customer1", "password123", "John Customer", domain.RoleCustomer, "john@email.com", "123 Main St, City", "555-0123"},
	{"customer2", "mypass456", "Sarah Johnson", domain.RoleCustomer, "sarah@email.com", "456 Oak Ave, Town", "555-0456"},
	{"admin1", "adminpass789", "Store Admin", domain.RoleAdmin, "admin@minimarket.example", "", ""},
}

var products = []domain.Product{
	{ID: 1, Name: "Fresh Milk", Category: "Dairy", PriceCents: 399, Stock: 25, Image: "🥛"},
	{ID: 2, Name: "Whole Wheat Bread", Category: "Bakery", PriceCents: 249, Stock: 15, Image: "🍞"},
	{ID: 3, Name: "Organic Apples", Category: "Fruits", PriceCents: 499, Stock: 30, Image: "🍎"},
	{ID: 4, Name: "Ground Coffee", Category: "Beverages", PriceCents: 899, Stock: 12, Image: "☕"},
	{ID: 5, Name: "Chicken Breast", Category: "Meat", PriceCents: 1299, Stock: 8, Image: "🍗"},
	{ID: 6, Name: "Cheddar Cheese", Category: "Dairy", PriceCents: 549, Stock: 18, Image: "🧀"},
	{ID: 7, Name: "Fresh Bananas", Category: "Fruits", PriceCents: 299, Stock: 22, Image: "🍌"},
	{ID: 8, Name: "Pasta Sauce", Category: "Pantry", PriceCents: 329, Stock: 20, Image: "🍝"},
	{ID: 9, Name: "Greek Yogurt", Category: "Dairy", PriceCents: 419, Stock: 16, Image: "🥛"},
	{ID: 10, Name: "Chocolate Cookies", Category: "Snacks", PriceCents: 699, Stock: 14, Image: "🍪"},
}

// Load inserts the demo data. Existing accounts are left untouched so a
// restart against a persistent backend does not reset passwords.
func Load(ctx context.Context, userRepo ports.UserRepository, productRepo ports.ProductRepository) error {
	now := time.Now().UTC()

	for _, u := range users {
		hash, err := bcrypt.GenerateFromPassword([]byte(u.password), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("seed: hash password for %s: %w", u.username, err)
		}
		_, err = userRepo.Create(ctx, &domain.UserAccount{
			Username:     u.username,
			PasswordHash: string(hash),
			FullName:     u.fullName,
			Role:         u.role,
			Email:        u.email,
			Address:      u.address,
			Phone:        u.phone,
			CreatedAt:    now,
		})
		if err != nil && !errors.Is(err, domain.ErrUserExists) {
			return fmt.Errorf("seed: create user %s: %w", u.username, err)
		}
	}

	for _, p := range products {
		product := p
		if err := productRepo.Create(ctx, &product); err != nil {
			return fmt.Errorf("seed: create product %d: %w", p.ID, err)
		}
	}

	return nil
}
