package chat

import (
	"context"

	"storefront-api/internal/domain"
	"github.com/jackc/pgx/v5/pgxpool"
)

type postgresRepo struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) Repository {
	return &postgresRepo{pool: pool}
}

func (r *postgresRepo) Insert(ctx context.Context, senderID, receiverID, content string) (*domain.Message, error) {
	const q = `
INSERT INTO messages (sender_id, receiver_id, content)
VALUES ($1, $2, $3)
RETURNING id, sender_id::text, receiver_id::text, content, is_read, created_at
`
	var m domain.Message
	err := r.pool.QueryRow(ctx, q, senderID, receiverID, content).Scan(
		&m.ID, &m.SenderID, &m.ReceiverID, &m.Content, &m.IsRead, &m.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *postgresRepo) History(ctx context.Context, userID, otherUserID string) ([]domain.Message, error) {
	const q = `
SELECT id, sender_id::text, receiver_id::text, content, is_read, created_at
FROM messages
WHERE (sender_id = $1 AND receiver_id = $2)
   OR (sender_id = $2 AND receiver_id = $1)
ORDER BY created_at ASC
`
	rows, err := r.pool.Query(ctx, q, userID, otherUserID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Message
	for rows.Next() {
		var m domain.Message
		if err := rows.Scan(&m.ID, &m.SenderID, &m.ReceiverID, &m.Content, &m.IsRead, &m.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, m)
	}
	return result, rows.Err()
}

func (r *postgresRepo) Conversations(ctx context.Context, userID string) ([]domain.Conversation, error) {
	const q = `
SELECT
    o.other_user_id::text,
    COALESCE(p.username, ''),
    m.content,
    m.created_at,
    (
        SELECT COUNT(*) FROM messages u
        WHERE u.receiver_id = $1 AND u.sender_id = o.other_user_id AND NOT u.is_read
    )
FROM (
    SELECT
        CASE WHEN sender_id = $1 THEN receiver_id ELSE sender_id END AS other_user_id,
        MAX(created_at) AS last_at
    FROM messages
    WHERE sender_id = $1 OR receiver_id = $1
    GROUP BY 1
) o
JOIN LATERAL (
    SELECT content, created_at
    FROM messages
    WHERE (sender_id = $1 AND receiver_id = o.other_user_id)
       OR (sender_id = o.other_user_id AND receiver_id = $1)
    ORDER BY created_at DESC
    LIMIT 1
) m ON true
LEFT JOIN profiles p ON p.id = o.other_user_id
ORDER BY m.created_at DESC
`
	rows, err := r.pool.Query(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Conversation
	for rows.Next() {
		var c domain.Conversation
		if err := rows.Scan(&c.OtherUserID, &c.OtherUsername, &c.LastMessage, &c.LastMessageAt, &c.UnreadCount); err != nil {
			return nil, err
		}
		result = append(result, c)
	}
	return result, rows.Err()
}

func (r *postgresRepo) MarkRead(ctx context.Context, userID, otherUserID string) error {
	_, err := r.pool.Exec(ctx, `
UPDATE messages
SET is_read = true
WHERE receiver_id = $1 AND sender_id = $2 AND NOT is_read
`, userID, otherUserID)
	return err
}
