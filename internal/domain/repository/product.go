package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/kmeans4/phenofarm/internal/domain/model"
)

// ProductRepository is the inventory ledger: it owns the authoritative
// available quantity per product.
type ProductRepository interface {
	Create(ctx context.Context, p *model.Product) (*model.Product, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.Product, error)
	ListBySeller(ctx context.Context, sellerStoreID uuid.UUID) ([]model.Product, error)

	// CheckAvailability reports whether the product exists, is flagged
	// available, and has at least quantity units in stock.
	CheckAvailability(ctx context.Context, productID uuid.UUID, quantity int) (bool, error)

	// DecrementStock atomically subtracts quantity as a single conditional
	// update. Returns ErrInsufficientStock when stock would go negative and
	// ErrNotFound when the product does not exist or is unavailable.
	DecrementStock(ctx context.Context, productID uuid.UUID, quantity int) error

	// RestoreStock atomically adds quantity back. Restoring to a deleted
	// product is a logged no-op, never an error.
	RestoreStock(ctx context.Context, productID uuid.UUID, quantity int) error
}
