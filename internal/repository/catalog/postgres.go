package catalog

import (
	"context"
	"errors"
	"io"
	"log"

	"storefront-api/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type postgresRepo struct {
	pool   *pgxpool.Pool
	logger *log.Logger
}

func NewPostgres(pool *pgxpool.Pool, logger *log.Logger) Repository {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &postgresRepo{pool: pool, logger: logger}
}

const productColumns = `
id, store_id, name, COALESCE(description, ''), price_cents, stock_quantity,
COALESCE(image_url, ''), COALESCE(category, ''), created_at,
store_name, COALESCE(store_logo_url, ''), store_owner_id::text
`

func (r *postgresRepo) List(ctx context.Context) ([]domain.ProductWithStoreInfo, error) {
	q := `SELECT ` + productColumns + ` FROM products_with_store_info ORDER BY created_at DESC`
	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		r.logger.Printf("catalog repo: list error=%v", err)
		return nil, err
	}
	defer rows.Close()

	var result []domain.ProductWithStoreInfo
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		r.logger.Printf("catalog repo: list rows error=%v", err)
		return nil, err
	}
	return result, nil
}

func (r *postgresRepo) GetByID(ctx context.Context, id int64) (*domain.ProductWithStoreInfo, error) {
	q := `SELECT ` + productColumns + ` FROM products_with_store_info WHERE id = $1`
	row := r.pool.QueryRow(ctx, q, id)
	p, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		r.logger.Printf("catalog repo: get id=%d error=%v", id, err)
		return nil, err
	}
	return &p, nil
}

func (r *postgresRepo) ListStoreLocations(ctx context.Context) ([]domain.StoreLocation, error) {
	const q = `
SELECT id, name, latitude, longitude, address
FROM store_locations
ORDER BY name ASC
`
	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.StoreLocation
	for rows.Next() {
		var loc domain.StoreLocation
		if err := rows.Scan(&loc.ID, &loc.Name, &loc.Latitude, &loc.Longitude, &loc.Address); err != nil {
			return nil, err
		}
		result = append(result, loc)
	}
	return result, rows.Err()
}

func scanProduct(row pgx.Row) (domain.ProductWithStoreInfo, error) {
	var p domain.ProductWithStoreInfo
	err := row.Scan(
		&p.ID,
		&p.StoreID,
		&p.Name,
		&p.Description,
		&p.PriceCents,
		&p.StockQuantity,
		&p.ImageURL,
		&p.Category,
		&p.CreatedAt,
		&p.StoreName,
		&p.StoreLogoURL,
		&p.StoreOwnerID,
	)
	return p, err
}
