package test

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/kmeans4/phenofarm/internal/adapter/events"
	domainErrors "github.com/kmeans4/phenofarm/internal/domain/errors"
	"github.com/kmeans4/phenofarm/internal/domain/model"
)

// AuthFacadeStub provides controllable behaviour for auth endpoints.
type AuthFacadeStub struct {
	RegisterFn     func(context.Context, string, string, model.Role) (string, error)
	AuthenticateFn func(context.Context, string, string) (string, error)
	ParseTokenFn   func(string) (model.Principal, error)
}

// Register delegates to provided function or returns a fixed token.
func (s AuthFacadeStub) Register(ctx context.Context, email, password string, role model.Role) (string, error) {
	if s.RegisterFn != nil {
		return s.RegisterFn(ctx, email, password, role)
	}
	return "token", nil
}

// Authenticate delegates to provided function or returns a fixed token.
func (s AuthFacadeStub) Authenticate(ctx context.Context, email, password string) (string, error) {
	if s.AuthenticateFn != nil {
		return s.AuthenticateFn(ctx, email, password)
	}
	return "token", nil
}

// ParseToken delegates to provided function or resolves an empty principal.
func (s AuthFacadeStub) ParseToken(token string) (model.Principal, error) {
	if s.ParseTokenFn != nil {
		return s.ParseTokenFn(token)
	}
	return model.Principal{}, nil
}

// CheckoutFacadeStub simulates cart checkout.
type CheckoutFacadeStub struct {
	CheckoutFn func(context.Context, model.Principal, []model.CartLine, string) (*model.CheckoutResult, error)
}

// Checkout delegates to provided function or places everything.
func (s CheckoutFacadeStub) Checkout(ctx context.Context, buyer model.Principal, lines []model.CartLine, notes string) (*model.CheckoutResult, error) {
	if s.CheckoutFn != nil {
		return s.CheckoutFn(ctx, buyer, lines, notes)
	}
	return &model.CheckoutResult{CreatedOrders: []model.Order{{ID: uuid.New(), Status: model.OrderStatusPending}}}, nil
}

// OrderFacadeStub provides controllable behaviour for order endpoints.
type OrderFacadeStub struct {
	OrderFn       func(context.Context, model.Principal, uuid.UUID) (*model.Order, error)
	OrdersFn      func(context.Context, model.Principal) ([]model.Order, error)
	UpdateFn      func(context.Context, model.Principal, uuid.UUID, model.OrderStatus) (*model.Order, error)
	BatchUpdateFn func(context.Context, model.Principal, []uuid.UUID, model.OrderStatus) (int, error)
	DeleteFn      func(context.Context, model.Principal, uuid.UUID) error
}

// Order delegates to provided function or reports not found.
func (s OrderFacadeStub) Order(ctx context.Context, actor model.Principal, orderID uuid.UUID) (*model.Order, error) {
	if s.OrderFn != nil {
		return s.OrderFn(ctx, actor, orderID)
	}
	return nil, domainErrors.ErrNotFound
}

// Orders delegates to provided function or returns no orders.
func (s OrderFacadeStub) Orders(ctx context.Context, actor model.Principal) ([]model.Order, error) {
	if s.OrdersFn != nil {
		return s.OrdersFn(ctx, actor)
	}
	return nil, nil
}

// UpdateOrderStatus delegates to provided function or reports not found.
func (s OrderFacadeStub) UpdateOrderStatus(ctx context.Context, actor model.Principal, orderID uuid.UUID, next model.OrderStatus) (*model.Order, error) {
	if s.UpdateFn != nil {
		return s.UpdateFn(ctx, actor, orderID, next)
	}
	return nil, domainErrors.ErrNotFound
}

// BatchUpdateOrderStatus delegates to provided function or reports not found.
func (s OrderFacadeStub) BatchUpdateOrderStatus(ctx context.Context, actor model.Principal, orderIDs []uuid.UUID, next model.OrderStatus) (int, error) {
	if s.BatchUpdateFn != nil {
		return s.BatchUpdateFn(ctx, actor, orderIDs, next)
	}
	return 0, domainErrors.ErrNotFound
}

// DeleteOrder delegates to provided function or reports not found.
func (s OrderFacadeStub) DeleteOrder(ctx context.Context, actor model.Principal, orderID uuid.UUID) error {
	if s.DeleteFn != nil {
		return s.DeleteFn(ctx, actor, orderID)
	}
	return domainErrors.ErrNotFound
}

// CatalogFacadeStub simulates the product surface.
type CatalogFacadeStub struct {
	CreateFn   func(context.Context, model.Principal, string, int, int, bool) (*model.Product, error)
	ProductFn  func(context.Context, uuid.UUID) (*model.Product, error)
	ProductsFn func(context.Context, uuid.UUID) ([]model.Product, error)
}

// CreateProduct delegates to provided function or echoes the request.
func (s CatalogFacadeStub) CreateProduct(ctx context.Context, actor model.Principal, name string, unitPriceCents, availableQty int, isAvailable bool) (*model.Product, error) {
	if s.CreateFn != nil {
		return s.CreateFn(ctx, actor, name, unitPriceCents, availableQty, isAvailable)
	}
	return &model.Product{
		ID:             uuid.New(),
		SellerStoreID:  actor.StoreID,
		Name:           name,
		UnitPriceCents: unitPriceCents,
		AvailableQty:   availableQty,
		IsAvailable:    isAvailable,
	}, nil
}

// Product delegates to provided function or reports not found.
func (s CatalogFacadeStub) Product(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	if s.ProductFn != nil {
		return s.ProductFn(ctx, id)
	}
	return nil, domainErrors.ErrNotFound
}

// Products delegates to provided function or returns nothing.
func (s CatalogFacadeStub) Products(ctx context.Context, sellerStoreID uuid.UUID) ([]model.Product, error) {
	if s.ProductsFn != nil {
		return s.ProductsFn(ctx, sellerStoreID)
	}
	return nil, nil
}

// MarketFacadeStub aggregates the per-surface stubs into the full facade.
type MarketFacadeStub struct {
	AuthFacadeStub
	CheckoutFacadeStub
	OrderFacadeStub
	CatalogFacadeStub
}

// HealthCheckerStub reports a configurable health state.
type HealthCheckerStub struct {
	Err error
}

// HealthCheck returns the configured error.
func (s HealthCheckerStub) HealthCheck(context.Context) error {
	return s.Err
}

// PublisherStub records published envelopes for assertions.
type PublisherStub struct {
	mu        sync.Mutex
	Envelopes []events.Envelope
}

// Publish appends the envelope to the recorded list.
func (s *PublisherStub) Publish(envelope events.Envelope) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Envelopes = append(s.Envelopes, envelope)
}

// Published returns a copy of everything published so far.
func (s *PublisherStub) Published() []events.Envelope {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]events.Envelope, len(s.Envelopes))
	copy(out, s.Envelopes)
	return out
}
