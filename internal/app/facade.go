package app

import (
	"context"

	"github.com/google/uuid"

	"github.com/kmeans4/phenofarm/internal/domain/model"
	"github.com/kmeans4/phenofarm/internal/usecase"
)

// MarketFacade aggregates the use cases behind the HTTP surface.
type MarketFacade struct {
	auth      *usecase.AuthUseCase
	catalog   *usecase.CatalogUseCase
	checkout  *usecase.CheckoutUseCase
	lifecycle *usecase.LifecycleUseCase
}

// NewMarketFacade constructs MarketFacade.
func NewMarketFacade(auth *usecase.AuthUseCase, catalog *usecase.CatalogUseCase, checkout *usecase.CheckoutUseCase, lifecycle *usecase.LifecycleUseCase) *MarketFacade {
	return &MarketFacade{auth: auth, catalog: catalog, checkout: checkout, lifecycle: lifecycle}
}

func (f *MarketFacade) Register(ctx context.Context, email, password string, role model.Role) (string, error) {
	_, token, err := f.auth.Register(ctx, email, password, role)
	return token, err
}

func (f *MarketFacade) Authenticate(ctx context.Context, email, password string) (string, error) {
	_, token, err := f.auth.Authenticate(ctx, email, password)
	return token, err
}

func (f *MarketFacade) ParseToken(token string) (model.Principal, error) {
	return f.auth.ParseToken(token)
}

func (f *MarketFacade) Checkout(ctx context.Context, buyer model.Principal, lines []model.CartLine, notes string) (*model.CheckoutResult, error) {
	return f.checkout.Checkout(ctx, buyer, lines, notes)
}

func (f *MarketFacade) Order(ctx context.Context, actor model.Principal, orderID uuid.UUID) (*model.Order, error) {
	return f.lifecycle.Get(ctx, actor, orderID)
}

func (f *MarketFacade) Orders(ctx context.Context, actor model.Principal) ([]model.Order, error) {
	return f.lifecycle.List(ctx, actor)
}

func (f *MarketFacade) UpdateOrderStatus(ctx context.Context, actor model.Principal, orderID uuid.UUID, next model.OrderStatus) (*model.Order, error) {
	return f.lifecycle.UpdateStatus(ctx, actor, orderID, next)
}

func (f *MarketFacade) BatchUpdateOrderStatus(ctx context.Context, actor model.Principal, orderIDs []uuid.UUID, next model.OrderStatus) (int, error) {
	return f.lifecycle.BatchUpdateStatus(ctx, actor, orderIDs, next)
}

func (f *MarketFacade) DeleteOrder(ctx context.Context, actor model.Principal, orderID uuid.UUID) error {
	return f.lifecycle.Delete(ctx, actor, orderID)
}

func (f *MarketFacade) CreateProduct(ctx context.Context, actor model.Principal, name string, unitPriceCents, availableQty int, isAvailable bool) (*model.Product, error) {
	return f.catalog.CreateProduct(ctx, actor, name, unitPriceCents, availableQty, isAvailable)
}

func (f *MarketFacade) Product(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	return f.catalog.GetProduct(ctx, id)
}

func (f *MarketFacade) Products(ctx context.Context, sellerStoreID uuid.UUID) ([]model.Product, error) {
	return f.catalog.ListProducts(ctx, sellerStoreID)
}
