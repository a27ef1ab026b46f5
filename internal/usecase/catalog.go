package usecase

import (
	"context"
	"strings"

	"github.com/google/uuid"

	domainErrors "github.com/kmeans4/phenofarm/internal/domain/errors"
	"github.com/kmeans4/phenofarm/internal/domain/model"
	"github.com/kmeans4/phenofarm/internal/domain/repository"
)

// CatalogUseCase covers the minimal product surface the fulfillment engine
// needs: sellers list stock, the ledger reads and adjusts it.
type CatalogUseCase struct {
	products repository.ProductRepository
}

// NewCatalogUseCase constructs CatalogUseCase.
func NewCatalogUseCase(products repository.ProductRepository) *CatalogUseCase {
	return &CatalogUseCase{products: products}
}

// CreateProduct registers a listing owned by the acting seller.
func (u *CatalogUseCase) CreateProduct(ctx context.Context, actor model.Principal, name string, unitPriceCents, availableQty int, isAvailable bool) (*model.Product, error) {
	if !actor.CanManageOrders() {
		return nil, domainErrors.ErrForbidden
	}
	name = strings.TrimSpace(name)
	if name == "" || unitPriceCents < 0 || availableQty < 0 {
		return nil, domainErrors.ErrInvalidQuantity
	}

	return u.products.Create(ctx, &model.Product{
		SellerStoreID:  actor.StoreID,
		Name:           name,
		UnitPriceCents: unitPriceCents,
		AvailableQty:   availableQty,
		IsAvailable:    isAvailable,
	})
}

// GetProduct fetches one product.
func (u *CatalogUseCase) GetProduct(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	return u.products.GetByID(ctx, id)
}

// ListProducts returns a seller's listings.
func (u *CatalogUseCase) ListProducts(ctx context.Context, sellerStoreID uuid.UUID) ([]model.Product, error) {
	return u.products.ListBySeller(ctx, sellerStoreID)
}
