package seed

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"
)

type productSeed struct {
	Name        string
	Description string
	PriceCents  int64
	Stock       int
	ImageURL    string
	Category    string
}

type locationSeed struct {
	Name      string
	Latitude  float64
	Longitude float64
	Address   string
}

// Apply inserts demo data for manual testing. Reruns are safe: the owner is
// upserted by email and everything else is inserted only when missing.
func Apply(ctx context.Context, pool *pgxpool.Pool) error {
	ownerID, err := ensureOwner(ctx, pool, "owner@demo.store", "demo-password", "demostore")
	if err != nil {
		return fmt.Errorf("ensure owner: %w", err)
	}

	storeID, err := ensureStore(ctx, pool, ownerID, "Demo Grocery", "Neighborhood grocery for demo data")
	if err != nil {
		return fmt.Errorf("ensure store: %w", err)
	}

	products := []productSeed{
		{Name: "Whole Milk 1L", Description: "Fresh whole milk", PriceCents: 189, Stock: 40, Category: "dairy"},
		{Name: "Sourdough Loaf", Description: "Baked daily", PriceCents: 449, Stock: 15, Category: "bakery"},
		{Name: "Free-Range Eggs (12)", Description: "Dozen large eggs", PriceCents: 529, Stock: 24, Category: "dairy"},
		{Name: "Bananas 1kg", Description: "Ripe bananas", PriceCents: 139, Stock: 60, Category: "produce"},
		{Name: "Ground Coffee 250g", Description: "Medium roast", PriceCents: 899, Stock: 12, Category: "pantry"},
		{Name: "Olive Oil 500ml", Description: "Extra virgin", PriceCents: 1249, Stock: 8, Category: "pantry"},
	}
	for _, p := range products {
		if err := ensureProduct(ctx, pool, storeID, p); err != nil {
			return fmt.Errorf("ensure product %s: %w", p.Name, err)
		}
	}

	locations := []locationSeed{
		{Name: "Downtown", Latitude: 40.7128, Longitude: -74.0060, Address: "1 Main St"},
		{Name: "Riverside", Latitude: 40.8001, Longitude: -73.9712, Address: "200 River Ave"},
	}
	for _, l := range locations {
		if err := ensureLocation(ctx, pool, l); err != nil {
			return fmt.Errorf("ensure location %s: %w", l.Name, err)
		}
	}

	return nil
}

func ensureOwner(ctx context.Context, pool *pgxpool.Pool, email, password, username string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}

	const userQ = `
INSERT INTO auth_users (email, password_hash)
VALUES ($1, $2)
ON CONFLICT (email) DO UPDATE SET email = EXCLUDED.email
RETURNING id::text
`
	var id string
	if err := pool.QueryRow(ctx, userQ, email, string(hash)).Scan(&id); err != nil {
		return "", err
	}

	const profileQ = `
INSERT INTO profiles (id, username)
VALUES ($1, $2)
ON CONFLICT (id) DO NOTHING
`
	if _, err := pool.Exec(ctx, profileQ, id, username); err != nil {
		return "", err
	}
	return id, nil
}

func ensureStore(ctx context.Context, pool *pgxpool.Pool, ownerID, name, description string) (int64, error) {
	const q = `
WITH existing AS (
    SELECT id FROM stores WHERE owner_id = $1 AND name = $2
), inserted AS (
    INSERT INTO stores (name, description, owner_id)
    SELECT $2, $3, $1
    WHERE NOT EXISTS (SELECT 1 FROM existing)
    RETURNING id
)
SELECT id FROM inserted
UNION ALL
SELECT id FROM existing
`
	var id int64
	if err := pool.QueryRow(ctx, q, ownerID, name, description).Scan(&id); err != nil {
		return 0, err
	}
	return id, nil
}

func ensureProduct(ctx context.Context, pool *pgxpool.Pool, storeID int64, p productSeed) error {
	const q = `
INSERT INTO products (store_id, name, description, price_cents, stock_quantity, image_url, category)
SELECT $1, $2, $3, $4, $5, NULLIF($6, ''), NULLIF($7, '')
WHERE NOT EXISTS (
    SELECT 1 FROM products WHERE store_id = $1 AND name = $2
)
`
	_, err := pool.Exec(ctx, q, storeID, p.Name, p.Description, p.PriceCents, p.Stock, p.ImageURL, p.Category)
	return err
}

func ensureLocation(ctx context.Context, pool *pgxpool.Pool, l locationSeed) error {
	const q = `
INSERT INTO store_locations (name, latitude, longitude, address)
SELECT $1, $2, $3, $4
WHERE NOT EXISTS (
    SELECT 1 FROM store_locations WHERE name = $1
)
`
	_, err := pool.Exec(ctx, q, l.Name, l.Latitude, l.Longitude, l.Address)
	return err
}
