package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/kmeans4/phenofarm/internal/domain/model"
)

// OrderRepository describes persistence operations with vendor orders.
// Every mutating call runs inside one database transaction: no method leaves
// a partially created order or a half-applied batch behind.
type OrderRepository interface {
	// CreateForVendor places one vendor-group order: re-validates each line
	// against the current product row, decrements stock conditionally, and
	// inserts the order with its lines. Lines that fail validation are
	// returned as failures without aborting the rest. A nil order with
	// failures means nothing in the group could be fulfilled.
	CreateForVendor(ctx context.Context, draft model.OrderDraft) (*model.Order, []model.LineFailure, error)

	GetByID(ctx context.Context, id uuid.UUID) (*model.Order, error)
	ListBySeller(ctx context.Context, sellerStoreID uuid.UUID) ([]model.Order, error)
	ListByBuyer(ctx context.Context, buyerStoreID uuid.UUID) ([]model.Order, error)

	// UpdateStatus applies one validated transition and reports the state
	// the order was in before it. Entering CANCELLED restores every line's
	// stock in the same transaction. Same-status requests are idempotent
	// no-ops (previous equals the order's status).
	UpdateStatus(ctx context.Context, actor model.Principal, orderID uuid.UUID, next model.OrderStatus) (*model.Order, model.OrderStatus, error)

	// BatchUpdateStatus applies the same transition to many orders of one
	// seller. The whole batch is rejected before any write when an id is
	// missing or owned by another seller, or when any per-order transition
	// is illegal. Returns the number of orders actually updated (no-ops
	// excluded).
	BatchUpdateStatus(ctx context.Context, actor model.Principal, orderIDs []uuid.UUID, next model.OrderStatus) (int, error)

	// Delete removes a not-yet-shipped order after restoring the stock its
	// lines had decremented, returning a snapshot of the deleted order.
	Delete(ctx context.Context, actor model.Principal, orderID uuid.UUID) (*model.Order, error)
}
