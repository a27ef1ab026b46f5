package model

import (
	"time"

	"github.com/google/uuid"
)

// Product is a sellable listing with the authoritative stock counter.
// AvailableQty is the single source of truth for inventory and may never
// go negative.
type Product struct {
	ID             uuid.UUID
	SellerStoreID  uuid.UUID
	Name           string
	UnitPriceCents int
	AvailableQty   int
	IsAvailable    bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
