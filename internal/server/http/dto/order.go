package dto

import (
	"time"

	"github.com/google/uuid"
)

// OrderLineResponse is the immutable snapshot of one fulfilled cart line.
type OrderLineResponse struct {
	ProductID      uuid.UUID `json:"product_id"`
	Quantity       int       `json:"quantity"`
	UnitPriceCents int       `json:"unit_price_cents"`
	LineTotalCents int       `json:"line_total_cents"`
}

// OrderResponse represents one vendor order.
type OrderResponse struct {
	ID               uuid.UUID           `json:"id"`
	Number           string              `json:"number"`
	SellerStoreID    uuid.UUID           `json:"seller_store_id"`
	BuyerStoreID     uuid.UUID           `json:"buyer_store_id"`
	Status           string              `json:"status"`
	SubtotalCents    int                 `json:"subtotal_cents"`
	TaxCents         int                 `json:"tax_cents"`
	ShippingFeeCents int                 `json:"shipping_fee_cents"`
	TotalCents       int                 `json:"total_cents"`
	Notes            string              `json:"notes,omitempty"`
	ShippedAt        *time.Time          `json:"shipped_at,omitempty"`
	DeliveredAt      *time.Time          `json:"delivered_at,omitempty"`
	CreatedAt        time.Time           `json:"created_at"`
	Lines            []OrderLineResponse `json:"lines,omitempty"`
}

// StatusUpdateRequest names the target lifecycle state for one order.
type StatusUpdateRequest struct {
	Status string `json:"status"`
}

// StatusUpdateResponse reports the applied state and its timestamps.
type StatusUpdateResponse struct {
	Status      string     `json:"status"`
	ShippedAt   *time.Time `json:"shipped_at,omitempty"`
	DeliveredAt *time.Time `json:"delivered_at,omitempty"`
}

// BatchStatusUpdateRequest applies one target state to many orders.
type BatchStatusUpdateRequest struct {
	OrderIDs []uuid.UUID `json:"order_ids"`
	Status   string      `json:"status"`
}

// BatchStatusUpdateResponse reports how many orders actually changed state.
type BatchStatusUpdateResponse struct {
	UpdatedCount int    `json:"updated_count"`
	Status       string `json:"status"`
}
