package order

import (
	"context"

	"storefront-api/internal/domain"
)

// SubmissionLine is one line of the payload handed to the stock-deduction
// transaction. PriceCents is the price captured when the cart snapshot was
// read, not a re-query at submission time.
type SubmissionLine struct {
	ProductID  int64 `json:"product_id"`
	Quantity   int   `json:"quantity"`
	PriceCents int64 `json:"price_cents"`
}

// Repository reads order history and invokes the atomic order-placement
// transaction. There is deliberately no CreateOrder/CreateItems/DeductStock
// surface here: multi-step client-side order assembly cannot be made atomic
// and must go through PlaceOrder.
type Repository interface {
	// PlaceOrder calls place_order_and_deduct_stock once. The callee
	// atomically validates stock, creates the order and its items, decrements
	// stock and clears the user's cart, returning the new order id.
	PlaceOrder(ctx context.Context, userID string, lines []SubmissionLine) (int64, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Order, error)
	GetDetails(ctx context.Context, userID string, orderID int64) ([]domain.OrderItemDetail, error)
}
