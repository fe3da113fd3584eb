package profile

import (
	"context"
	"errors"

	"storefront-api/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type postgresRepo struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) Repository {
	return &postgresRepo{pool: pool}
}

func (r *postgresRepo) GetByID(ctx context.Context, userID string) (*domain.Profile, error) {
	const q = `
SELECT id::text, username, phone, created_at
FROM profiles
WHERE id = $1
`
	var p domain.Profile
	err := r.pool.QueryRow(ctx, q, userID).Scan(&p.ID, &p.Username, &p.Phone, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *postgresRepo) Update(ctx context.Context, userID string, in UpdateInput) (*domain.Profile, error) {
	const q = `
UPDATE profiles
SET username = COALESCE($1, username),
    phone = COALESCE($2, phone)
WHERE id = $3
RETURNING id::text, username, phone, created_at
`
	var p domain.Profile
	err := r.pool.QueryRow(ctx, q, in.Username, in.Phone, userID).Scan(&p.ID, &p.Username, &p.Phone, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *postgresRepo) ListNotifications(ctx context.Context, userID string) ([]domain.Notification, error) {
	const q = `
SELECT id, user_id::text, message, is_read, created_at
FROM notifications
WHERE user_id = $1
ORDER BY created_at DESC
`
	rows, err := r.pool.Query(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Notification
	for rows.Next() {
		var n domain.Notification
		if err := rows.Scan(&n.ID, &n.UserID, &n.Message, &n.IsRead, &n.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, n)
	}
	return result, rows.Err()
}

func (r *postgresRepo) MarkNotificationRead(ctx context.Context, userID string, notificationID int64) error {
	cmd, err := r.pool.Exec(ctx, `
UPDATE notifications
SET is_read = true
WHERE id = $1 AND user_id = $2
`, notificationID, userID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
