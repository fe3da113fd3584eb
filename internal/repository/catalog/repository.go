package catalog

import (
	"context"

	"storefront-api/internal/domain"
)

type Repository interface {
	List(ctx context.Context) ([]domain.ProductWithStoreInfo, error)
	GetByID(ctx context.Context, id int64) (*domain.ProductWithStoreInfo, error)
	ListStoreLocations(ctx context.Context) ([]domain.StoreLocation, error)
}
