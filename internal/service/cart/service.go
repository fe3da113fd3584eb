package cart

import (
	"context"
	"errors"
	"io"
	"log"

	"storefront-api/internal/cache"
	"storefront-api/internal/domain"
	cartrepo "storefront-api/internal/repository/cart"
)

// Service wraps cart persistence with validation and a cache-aside count.
type Service struct {
	repo   cartRepo
	counts cache.CartCounts
	logger *log.Logger
}

type cartRepo interface {
	ListDetailed(ctx context.Context, userID string) ([]domain.CartItemDetail, error)
	AddOrIncrement(ctx context.Context, userID string, productID int64, quantity int) error
	UpdateQuantity(ctx context.Context, userID string, cartItemID int64, quantity int) error
	Remove(ctx context.Context, userID string, cartItemID int64) error
	Clear(ctx context.Context, userID string) error
	Count(ctx context.Context, userID string) (int64, error)
}

func New(repo cartrepo.Repository, counts cache.CartCounts, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Service{repo: repo, counts: counts, logger: logger}
}

// List reads the cart with current product prices. This read is the pricing
// snapshot for a checkout attempt: whoever submits these lines submits these
// prices.
func (s *Service) List(ctx context.Context, userID string) ([]domain.CartItemDetail, error) {
	return s.repo.ListDetailed(ctx, userID)
}

// TotalCents sums the snapshot's line totals.
func TotalCents(items []domain.CartItemDetail) int64 {
	var total int64
	for _, item := range items {
		total += item.PriceCents * int64(item.Quantity)
	}
	return total
}

func (s *Service) Add(ctx context.Context, userID string, productID int64, quantity int) error {
	if quantity <= 0 {
		return errors.New("quantity must be positive")
	}
	if err := s.repo.AddOrIncrement(ctx, userID, productID, quantity); err != nil {
		return err
	}
	s.invalidateCount(ctx, userID)
	return nil
}

func (s *Service) UpdateQuantity(ctx context.Context, userID string, cartItemID int64, quantity int) error {
	if err := s.repo.UpdateQuantity(ctx, userID, cartItemID, quantity); err != nil {
		return err
	}
	s.invalidateCount(ctx, userID)
	return nil
}

func (s *Service) Remove(ctx context.Context, userID string, cartItemID int64) error {
	if err := s.repo.Remove(ctx, userID, cartItemID); err != nil {
		return err
	}
	s.invalidateCount(ctx, userID)
	return nil
}

func (s *Service) Clear(ctx context.Context, userID string) error {
	if err := s.repo.Clear(ctx, userID); err != nil {
		return err
	}
	s.invalidateCount(ctx, userID)
	return nil
}

// Count returns the badge count, serving from cache when possible.
func (s *Service) Count(ctx context.Context, userID string) (int64, error) {
	if s.counts != nil {
		count, err := s.counts.Get(ctx, userID)
		if err == nil {
			return count, nil
		}
		if !errors.Is(err, cache.ErrCacheMiss) {
			s.logger.Printf("cart service: count cache get user_id=%s error=%v", userID, err)
		}
	}

	count, err := s.repo.Count(ctx, userID)
	if err != nil {
		return 0, err
	}
	if s.counts != nil {
		if err := s.counts.Set(ctx, userID, count); err != nil {
			s.logger.Printf("cart service: count cache set user_id=%s error=%v", userID, err)
		}
	}
	return count, nil
}

func (s *Service) invalidateCount(ctx context.Context, userID string) {
	if s.counts == nil {
		return
	}
	if err := s.counts.Delete(ctx, userID); err != nil {
		s.logger.Printf("cart service: count cache delete user_id=%s error=%v", userID, err)
	}
}
