package handlers

import (
	"context"

	"github.com/google/uuid"

	"github.com/kmeans4/phenofarm/internal/domain/model"
)

// AuthFacade describes authentication capabilities required by handlers.
type AuthFacade interface {
	Register(ctx context.Context, email, password string, role model.Role) (string, error)
	Authenticate(ctx context.Context, email, password string) (string, error)
	ParseToken(token string) (model.Principal, error)
}

// CheckoutFacade turns a buyer's cart into vendor orders.
type CheckoutFacade interface {
	Checkout(ctx context.Context, buyer model.Principal, lines []model.CartLine, notes string) (*model.CheckoutResult, error)
}

// OrderFacade covers the order lifecycle operations exposed via HTTP.
type OrderFacade interface {
	Order(ctx context.Context, actor model.Principal, orderID uuid.UUID) (*model.Order, error)
	Orders(ctx context.Context, actor model.Principal) ([]model.Order, error)
	UpdateOrderStatus(ctx context.Context, actor model.Principal, orderID uuid.UUID, next model.OrderStatus) (*model.Order, error)
	BatchUpdateOrderStatus(ctx context.Context, actor model.Principal, orderIDs []uuid.UUID, next model.OrderStatus) (int, error)
	DeleteOrder(ctx context.Context, actor model.Principal, orderID uuid.UUID) error
}

// CatalogFacade provides the minimal product surface.
type CatalogFacade interface {
	CreateProduct(ctx context.Context, actor model.Principal, name string, unitPriceCents, availableQty int, isAvailable bool) (*model.Product, error)
	Product(ctx context.Context, id uuid.UUID) (*model.Product, error)
	Products(ctx context.Context, sellerStoreID uuid.UUID) ([]model.Product, error)
}

// MarketFacade aggregates the full set of operations used across handlers.
type MarketFacade interface {
	AuthFacade
	CheckoutFacade
	OrderFacade
	CatalogFacade
}

// HealthChecker verifies the service's backing store is reachable.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}
