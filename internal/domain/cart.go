package domain

import "time"

// CartItem is one row of cart_items. A user holds at most one row per product
// and quantity is always positive (enforced by schema constraints).
type CartItem struct {
	ID        int64     `json:"id"`
	UserID    string    `json:"userId"`
	ProductID int64     `json:"productId"`
	Quantity  int       `json:"quantity"`
	CreatedAt time.Time `json:"createdAt"`
}

// CartItemDetail mirrors the cart_items_detailed view: a cart row joined with
// the product's current name, price and image. Reading it is what freezes the
// per-line price for a checkout attempt.
type CartItemDetail struct {
	CartItemID      int64  `json:"cartItemId"`
	UserID          string `json:"userId"`
	ProductID       int64  `json:"productId"`
	Quantity        int    `json:"quantity"`
	ProductName     string `json:"productName"`
	PriceCents      int64  `json:"priceCents"`
	ProductImageURL string `json:"productImageUrl,omitempty"`
}
