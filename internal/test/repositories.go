package test

import (
	"context"
	"strings"

	"github.com/google/uuid"

	domainErrors "github.com/kmeans4/phenofarm/internal/domain/errors"
	"github.com/kmeans4/phenofarm/internal/domain/model"
)

// UserRepositoryStub stores users in-memory for tests.
type UserRepositoryStub struct {
	Users map[string]*model.User
	ByID  map[uuid.UUID]*model.User
	Err   error
}

// NewUserRepositoryStub constructs stub repository with initialized maps.
func NewUserRepositoryStub() *UserRepositoryStub {
	return &UserRepositoryStub{
		Users: make(map[string]*model.User),
		ByID:  make(map[uuid.UUID]*model.User),
	}
}

// Create registers user unless already exists or stub has explicit error.
func (s *UserRepositoryStub) Create(ctx context.Context, email, passwordHash string, role model.Role, storeID uuid.UUID) (*model.User, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	key := strings.ToLower(email)
	if _, exists := s.Users[key]; exists {
		return nil, domainErrors.ErrAlreadyExists
	}
	user := &model.User{
		ID:           uuid.New(),
		Email:        key,
		PasswordHash: passwordHash,
		Role:         role,
		StoreID:      storeID,
	}
	s.Users[key] = user
	s.ByID[user.ID] = user
	return user, nil
}

// GetByEmail looks up a stored user by email.
func (s *UserRepositoryStub) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	user, ok := s.Users[strings.ToLower(email)]
	if !ok {
		return nil, domainErrors.ErrNotFound
	}
	return user, nil
}

// GetByID looks up a stored user by id.
func (s *UserRepositoryStub) GetByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	user, ok := s.ByID[id]
	if !ok {
		return nil, domainErrors.ErrNotFound
	}
	return user, nil
}

// ProductRepositoryStub keeps products in a map and applies the same
// stock rules as the real repository.
type ProductRepositoryStub struct {
	Products map[uuid.UUID]*model.Product
	Err      error

	Restored map[uuid.UUID]int
}

// NewProductRepositoryStub constructs stub repository with initialized maps.
func NewProductRepositoryStub() *ProductRepositoryStub {
	return &ProductRepositoryStub{
		Products: make(map[uuid.UUID]*model.Product),
		Restored: make(map[uuid.UUID]int),
	}
}

// Create stores the product, assigning an id when missing.
func (s *ProductRepositoryStub) Create(ctx context.Context, p *model.Product) (*model.Product, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	stored := *p
	s.Products[stored.ID] = &stored
	return &stored, nil
}

// GetByID returns a stored product.
func (s *ProductRepositoryStub) GetByID(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	p, ok := s.Products[id]
	if !ok {
		return nil, domainErrors.ErrNotFound
	}
	copied := *p
	return &copied, nil
}

// ListBySeller filters stored products by seller store.
func (s *ProductRepositoryStub) ListBySeller(ctx context.Context, sellerStoreID uuid.UUID) ([]model.Product, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	var out []model.Product
	for _, p := range s.Products {
		if p.SellerStoreID == sellerStoreID {
			out = append(out, *p)
		}
	}
	return out, nil
}

// CheckAvailability mirrors the conditional check of the real repository.
func (s *ProductRepositoryStub) CheckAvailability(ctx context.Context, productID uuid.UUID, quantity int) (bool, error) {
	if s.Err != nil {
		return false, s.Err
	}
	p, ok := s.Products[productID]
	if !ok {
		return false, nil
	}
	return p.IsAvailable && p.AvailableQty >= quantity, nil
}

// DecrementStock subtracts quantity when the guard holds.
func (s *ProductRepositoryStub) DecrementStock(ctx context.Context, productID uuid.UUID, quantity int) error {
	if s.Err != nil {
		return s.Err
	}
	p, ok := s.Products[productID]
	if !ok || !p.IsAvailable {
		return domainErrors.ErrNotFound
	}
	if p.AvailableQty < quantity {
		return domainErrors.ErrInsufficientStock
	}
	p.AvailableQty -= quantity
	return nil
}

// RestoreStock adds quantity back; a missing product is a silent no-op.
func (s *ProductRepositoryStub) RestoreStock(ctx context.Context, productID uuid.UUID, quantity int) error {
	if s.Err != nil {
		return s.Err
	}
	if p, ok := s.Products[productID]; ok {
		p.AvailableQty += quantity
	}
	s.Restored[productID] += quantity
	return nil
}

// OrderRepositoryStub provides controllable behaviour for order persistence.
type OrderRepositoryStub struct {
	CreateForVendorFn   func(context.Context, model.OrderDraft) (*model.Order, []model.LineFailure, error)
	GetByIDFn           func(context.Context, uuid.UUID) (*model.Order, error)
	ListBySellerFn      func(context.Context, uuid.UUID) ([]model.Order, error)
	ListByBuyerFn       func(context.Context, uuid.UUID) ([]model.Order, error)
	UpdateStatusFn      func(context.Context, model.Principal, uuid.UUID, model.OrderStatus) (*model.Order, model.OrderStatus, error)
	BatchUpdateStatusFn func(context.Context, model.Principal, []uuid.UUID, model.OrderStatus) (int, error)
	DeleteFn            func(context.Context, model.Principal, uuid.UUID) (*model.Order, error)
}

// CreateForVendor delegates to the configured function or accepts every line.
func (s *OrderRepositoryStub) CreateForVendor(ctx context.Context, draft model.OrderDraft) (*model.Order, []model.LineFailure, error) {
	if s.CreateForVendorFn != nil {
		return s.CreateForVendorFn(ctx, draft)
	}
	order := &model.Order{
		ID:            uuid.New(),
		Number:        draft.Number,
		SellerStoreID: draft.SellerStoreID,
		BuyerStoreID:  draft.BuyerStoreID,
		Status:        model.OrderStatusPending,
	}
	for _, line := range draft.Lines {
		order.Lines = append(order.Lines, model.OrderLine{
			ProductID:      line.ProductID,
			Quantity:       line.Quantity,
			UnitPriceCents: line.UnitPriceCents,
			LineTotalCents: line.Quantity * line.UnitPriceCents,
		})
		order.SubtotalCents += line.Quantity * line.UnitPriceCents
	}
	order.TaxCents = model.TaxFor(order.SubtotalCents, draft.TaxRateBps)
	order.ShippingFeeCents = draft.ShippingFeeCents
	order.TotalCents = order.SubtotalCents + order.TaxCents + order.ShippingFeeCents
	return order, nil, nil
}

// GetByID delegates or reports not found.
func (s *OrderRepositoryStub) GetByID(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	if s.GetByIDFn != nil {
		return s.GetByIDFn(ctx, id)
	}
	return nil, domainErrors.ErrNotFound
}

// ListBySeller delegates or returns no orders.
func (s *OrderRepositoryStub) ListBySeller(ctx context.Context, sellerStoreID uuid.UUID) ([]model.Order, error) {
	if s.ListBySellerFn != nil {
		return s.ListBySellerFn(ctx, sellerStoreID)
	}
	return nil, nil
}

// ListByBuyer delegates or returns no orders.
func (s *OrderRepositoryStub) ListByBuyer(ctx context.Context, buyerStoreID uuid.UUID) ([]model.Order, error) {
	if s.ListByBuyerFn != nil {
		return s.ListByBuyerFn(ctx, buyerStoreID)
	}
	return nil, nil
}

// UpdateStatus delegates or reports not found.
func (s *OrderRepositoryStub) UpdateStatus(ctx context.Context, actor model.Principal, orderID uuid.UUID, next model.OrderStatus) (*model.Order, model.OrderStatus, error) {
	if s.UpdateStatusFn != nil {
		return s.UpdateStatusFn(ctx, actor, orderID, next)
	}
	return nil, "", domainErrors.ErrNotFound
}

// BatchUpdateStatus delegates or reports not found.
func (s *OrderRepositoryStub) BatchUpdateStatus(ctx context.Context, actor model.Principal, orderIDs []uuid.UUID, next model.OrderStatus) (int, error) {
	if s.BatchUpdateStatusFn != nil {
		return s.BatchUpdateStatusFn(ctx, actor, orderIDs, next)
	}
	return 0, domainErrors.ErrNotFound
}

// Delete delegates or reports not found.
func (s *OrderRepositoryStub) Delete(ctx context.Context, actor model.Principal, orderID uuid.UUID) (*model.Order, error) {
	if s.DeleteFn != nil {
		return s.DeleteFn(ctx, actor, orderID)
	}
	return nil, domainErrors.ErrNotFound
}
