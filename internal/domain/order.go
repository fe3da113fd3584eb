package domain

import "time"

const (
	OrderStatusPending   = "pending"
	OrderStatusCompleted = "completed"
	OrderStatusCancelled = "cancelled"
)

// Order rows are created only by the place_order_and_deduct_stock transaction,
// never assembled column by column from application code.
type Order struct {
	ID         int64     `json:"id"`
	UserID     string    `json:"userId"`
	TotalCents int64     `json:"totalCents"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"createdAt"`
}

type OrderItem struct {
	ID         int64 `json:"id"`
	OrderID    int64 `json:"orderId"`
	ProductID  int64 `json:"productId"`
	Quantity   int   `json:"quantity"`
	PriceCents int64 `json:"priceCents"`
}

// OrderItemDetail mirrors the order_items_with_product_details view.
type OrderItemDetail struct {
	OrderItem
	ProductName     string `json:"productName"`
	ProductImageURL string `json:"productImageUrl,omitempty"`
}
