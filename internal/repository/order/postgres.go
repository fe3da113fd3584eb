package order

import (
	"context"
	"encoding/json"
	"io"
	"log"

	"storefront-api/internal/domain"
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

func (r *postgresRepo) PlaceOrder(ctx context.Context, userID string, lines []SubmissionLine) (int64, error) {
	payload, err := json.Marshal(lines)
	if err != nil {
		return 0, err
	}

	var orderID int64
	err = r.pool.QueryRow(ctx, `SELECT place_order_and_deduct_stock($1, $2::jsonb)`, userID, payload).Scan(&orderID)
	if err != nil {
		r.logger.Printf("order repo: place user_id=%s lines=%d error=%v", userID, len(lines), err)
		return 0, err
	}
	r.logger.Printf("order repo: place user_id=%s order_id=%d lines=%d", userID, orderID, len(lines))
	return orderID, nil
}

func (r *postgresRepo) ListByUser(ctx context.Context, userID string) ([]domain.Order, error) {
	const q = `
SELECT id, user_id::text, total_cents, status, created_at
FROM orders
WHERE user_id = $1
ORDER BY created_at DESC
`
	rows, err := r.pool.Query(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Order
	for rows.Next() {
		var o domain.Order
		if err := rows.Scan(&o.ID, &o.UserID, &o.TotalCents, &o.Status, &o.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, o)
	}
	return result, rows.Err()
}

func (r *postgresRepo) GetDetails(ctx context.Context, userID string, orderID int64) ([]domain.OrderItemDetail, error) {
	// Ownership check piggybacks on the join against orders.
	const q = `
SELECT d.id, d.order_id, d.product_id, d.quantity, d.price_cents, d.product_name, COALESCE(d.product_image_url, '')
FROM order_items_with_product_details d
JOIN orders o ON o.id = d.order_id
WHERE d.order_id = $1 AND o.user_id = $2
ORDER BY d.id ASC
`
	rows, err := r.pool.Query(ctx, q, orderID, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.OrderItemDetail
	for rows.Next() {
		var item domain.OrderItemDetail
		if err := rows.Scan(
			&item.ID,
			&item.OrderID,
			&item.ProductID,
			&item.Quantity,
			&item.PriceCents,
			&item.ProductName,
			&item.ProductImageURL,
		); err != nil {
			return nil, err
		}
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(result) == 0 {
		return nil, domain.ErrNotFound
	}
	return result, nil
}
