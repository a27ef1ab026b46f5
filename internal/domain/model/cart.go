package model

import "github.com/google/uuid"

// CartLine is a buyer-supplied request to purchase one product. The unit
// price carried here is advisory only; order building always re-reads the
// server-side price.
type CartLine struct {
	ProductID      uuid.UUID
	SellerStoreID  uuid.UUID
	Quantity       int
	UnitPriceCents int
}

// VendorGroup is the subset of a cart belonging to one seller. Each group
// becomes at most one order.
type VendorGroup struct {
	SellerStoreID uuid.UUID
	Lines         []CartLine
}

// Line failure reasons reported back to the buyer per cart line.
const (
	FailureInsufficientStock = "insufficient_stock"
	FailureProductNotFound   = "product_not_found"
	FailureUnavailable       = "product_unavailable"
	FailureInternal          = "internal_error"
)

// LineFailure records a single cart line that could not be fulfilled.
// Failures are data, not errors: sibling lines and sibling vendor groups
// proceed regardless.
type LineFailure struct {
	ProductID     uuid.UUID
	SellerStoreID uuid.UUID
	Requested     int
	Available     int
	Reason        string
}

// CheckoutResult aggregates the outcome of one checkout across all vendor
// groups.
type CheckoutResult struct {
	CreatedOrders []Order
	LineFailures  []LineFailure
}

// PartiallyPlaced reports whether some lines succeeded while others failed.
func (r CheckoutResult) PartiallyPlaced() bool {
	return len(r.CreatedOrders) > 0 && len(r.LineFailures) > 0
}

// FullyFailed reports whether nothing could be fulfilled.
func (r CheckoutResult) FullyFailed() bool {
	return len(r.CreatedOrders) == 0
}
