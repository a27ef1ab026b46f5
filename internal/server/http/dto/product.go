package dto

import (
	"time"

	"github.com/google/uuid"
)

// ProductRequest registers a new listing for the acting seller.
type ProductRequest struct {
	Name           string `json:"name"`
	UnitPriceCents int    `json:"unit_price_cents"`
	AvailableQty   int    `json:"available_qty"`
	IsAvailable    *bool  `json:"is_available,omitempty"`
}

// ProductResponse represents one listing with its live stock counter.
type ProductResponse struct {
	ID             uuid.UUID `json:"id"`
	SellerStoreID  uuid.UUID `json:"seller_store_id"`
	Name           string    `json:"name"`
	UnitPriceCents int       `json:"unit_price_cents"`
	AvailableQty   int       `json:"available_qty"`
	IsAvailable    bool      `json:"is_available"`
	CreatedAt      time.Time `json:"created_at"`
}
