package cart

import (
	"context"

	"storefront-api/internal/domain"
)

type Repository interface {
	// ListDetailed reads the user's cart joined with current product data.
	// The prices it returns are the pricing snapshot for a checkout attempt.
	ListDetailed(ctx context.Context, userID string) ([]domain.CartItemDetail, error)
	AddOrIncrement(ctx context.Context, userID string, productID int64, quantity int) error
	UpdateQuantity(ctx context.Context, userID string, cartItemID int64, quantity int) error
	Remove(ctx context.Context, userID string, cartItemID int64) error
	Clear(ctx context.Context, userID string) error
	Count(ctx context.Context, userID string) (int64, error)
}
