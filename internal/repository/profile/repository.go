package profile

import (
	"context"

	"storefront-api/internal/domain"
)

type UpdateInput struct {
	Username *string
	Phone    *string
}

type Repository interface {
	GetByID(ctx context.Context, userID string) (*domain.Profile, error)
	Update(ctx context.Context, userID string, in UpdateInput) (*domain.Profile, error)
	ListNotifications(ctx context.Context, userID string) ([]domain.Notification, error)
	MarkNotificationRead(ctx context.Context, userID string, notificationID int64) error
}
