package domain

import "time"

type Product struct {
	ID            int64     `json:"id"`
	StoreID       int64     `json:"storeId"`
	Name          string    `json:"name"`
	Description   string    `json:"description,omitempty"`
	PriceCents    int64     `json:"priceCents"`
	StockQuantity int       `json:"stockQuantity"`
	ImageURL      string    `json:"imageUrl,omitempty"`
	Category      string    `json:"category,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
}

// ProductWithStoreInfo mirrors the products_with_store_info view.
type ProductWithStoreInfo struct {
	Product
	StoreName    string `json:"storeName"`
	StoreLogoURL string `json:"storeLogoUrl,omitempty"`
	StoreOwnerID string `json:"storeOwnerId"`
}

type Store struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	LogoURL     string    `json:"logoUrl,omitempty"`
	OwnerID     string    `json:"ownerId"`
	CreatedAt   time.Time `json:"createdAt"`
}

type StoreLocation struct {
	ID        int64   `json:"id"`
	Name      string  `json:"name"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Address   string  `json:"address"`
}
