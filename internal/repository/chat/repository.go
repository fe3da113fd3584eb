package chat

import (
	"context"

	"storefront-api/internal/domain"
)

type Repository interface {
	// Insert persists a message and returns the stored row. Clients reconcile
	// optimistic messages against this row (and the realtime copy of it) by
	// sender and content, so the full row must round-trip.
	Insert(ctx context.Context, senderID, receiverID, content string) (*domain.Message, error)
	History(ctx context.Context, userID, otherUserID string) ([]domain.Message, error)
	Conversations(ctx context.Context, userID string) ([]domain.Conversation, error)
	MarkRead(ctx context.Context, userID, otherUserID string) error
}
