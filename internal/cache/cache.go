package cache

import (
	"context"
	"errors"
)

// ErrCacheMiss is returned when no cached value exists for the key.
var ErrCacheMiss = errors.New("cache miss")

// CartCounts caches the per-user cart item count shown as the cart badge.
// Mutating the cart or submitting an order must Delete the entry.
type CartCounts interface {
	Get(ctx context.Context, userID string) (int64, error)
	Set(ctx context.Context, userID string, count int64) error
	Delete(ctx context.Context, userID string) error
}
