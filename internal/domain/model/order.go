package model

import (
	"time"

	"github.com/google/uuid"
)

// OrderStatus describes the regulated fulfillment lifecycle.
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "PENDING"
	OrderStatusConfirmed  OrderStatus = "CONFIRMED"
	OrderStatusProcessing OrderStatus = "PROCESSING"
	OrderStatusShipped    OrderStatus = "SHIPPED"
	OrderStatusDelivered  OrderStatus = "DELIVERED"
	OrderStatusCancelled  OrderStatus = "CANCELLED"
)

// validNext is the single transition table shared by the single-order and
// batch update paths. Strict adjacency: no skipping states. Cancellation is
// only reachable while the goods have not shipped.
var validNext = map[OrderStatus]map[OrderStatus]bool{
	OrderStatusPending:    {OrderStatusConfirmed: true, OrderStatusCancelled: true},
	OrderStatusConfirmed:  {OrderStatusProcessing: true, OrderStatusCancelled: true},
	OrderStatusProcessing: {OrderStatusShipped: true, OrderStatusCancelled: true},
	OrderStatusShipped:    {OrderStatusDelivered: true},
	OrderStatusDelivered:  {},
	OrderStatusCancelled:  {},
}

// ValidOrderStatus reports whether s names a known lifecycle state.
func ValidOrderStatus(s OrderStatus) bool {
	_, ok := validNext[s]
	return ok
}

// CanTransition reports whether from -> to is permitted. A transition to the
// current state is not covered here; callers treat it as an idempotent no-op.
func CanTransition(from, to OrderStatus) bool {
	return validNext[from][to]
}

// AllowedNext returns the permitted successor states of from, in a stable
// order suitable for error messages.
func AllowedNext(from OrderStatus) []OrderStatus {
	ordered := []OrderStatus{
		OrderStatusConfirmed,
		OrderStatusProcessing,
		OrderStatusShipped,
		OrderStatusDelivered,
		OrderStatusCancelled,
	}
	var allowed []OrderStatus
	for _, s := range ordered {
		if validNext[from][s] {
			allowed = append(allowed, s)
		}
	}
	return allowed
}

// Cancellable reports whether an order in the given state may still be
// cancelled with inventory restoration. Shipped goods are in transit and
// keep their decrement.
func Cancellable(s OrderStatus) bool {
	return s == OrderStatusPending || s == OrderStatusConfirmed || s == OrderStatusProcessing
}

// Terminal reports whether the state accepts no further transitions.
func Terminal(s OrderStatus) bool {
	return s == OrderStatusDelivered || s == OrderStatusCancelled
}

// Order is a single-vendor purchase created from one vendor group of a
// buyer's cart. TotalCents always equals SubtotalCents + TaxCents +
// ShippingFeeCents.
type Order struct {
	ID               uuid.UUID
	Number           string
	SellerStoreID    uuid.UUID
	BuyerStoreID     uuid.UUID
	Status           OrderStatus
	SubtotalCents    int
	TaxCents         int
	ShippingFeeCents int
	TotalCents       int
	Notes            string
	ShippedAt        *time.Time
	DeliveredAt      *time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
	Lines            []OrderLine
}

// OrderLine is an immutable snapshot of one accepted cart line.
// LineTotalCents = Quantity * UnitPriceCents.
type OrderLine struct {
	ID             uuid.UUID
	OrderID        uuid.UUID
	ProductID      uuid.UUID
	SellerStoreID  uuid.UUID
	Quantity       int
	UnitPriceCents int
	LineTotalCents int
}

// OrderDraft carries everything the storage layer needs to place one vendor
// order atomically: validate lines, decrement stock, and insert the order
// with its lines in a single transaction.
type OrderDraft struct {
	Number           string
	SellerStoreID    uuid.UUID
	BuyerStoreID     uuid.UUID
	Lines            []CartLine
	Notes            string
	ShippingFeeCents int
	TaxRateBps       int
}

// TaxFor computes tax in cents from a subtotal using basis points,
// truncating fractional cents.
func TaxFor(subtotalCents, taxRateBps int) int {
	return subtotalCents * taxRateBps / 10000
}
