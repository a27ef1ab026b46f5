package dto

import "github.com/google/uuid"

// Checkout outcomes surfaced to the buyer. Partial placement is distinct
// from both full success and full failure.
const (
	OutcomePlaced          = "placed"
	OutcomePartiallyPlaced = "partially_placed"
	OutcomeFailed          = "failed"
)

// CartLineRequest is one buyer-supplied cart line. The unit price is a
// client-side quote; the server re-reads the authoritative price.
type CartLineRequest struct {
	ProductID      uuid.UUID `json:"product_id"`
	SellerStoreID  uuid.UUID `json:"seller_store_id"`
	Quantity       int       `json:"quantity"`
	UnitPriceCents int       `json:"unit_price_cents,omitempty"`
}

// CheckoutRequest carries the full multi-vendor cart.
type CheckoutRequest struct {
	Lines []CartLineRequest `json:"lines"`
	Notes string            `json:"notes,omitempty"`
}

// LineFailureResponse explains one rejected cart line.
type LineFailureResponse struct {
	ProductID     uuid.UUID `json:"product_id"`
	SellerStoreID uuid.UUID `json:"seller_store_id"`
	Requested     int       `json:"requested"`
	Available     int       `json:"available,omitempty"`
	Reason        string    `json:"reason"`
}

// CheckoutResponse aggregates created orders and per-line failures.
type CheckoutResponse struct {
	Outcome       string                `json:"outcome"`
	CreatedOrders []OrderResponse       `json:"created_orders"`
	LineFailures  []LineFailureResponse `json:"line_failures"`
}
