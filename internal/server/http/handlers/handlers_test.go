package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	domainErrors "github.com/kmeans4/phenofarm/internal/domain/errors"
	"github.com/kmeans4/phenofarm/internal/domain/model"
	"github.com/kmeans4/phenofarm/internal/server/http/dto"
	"github.com/kmeans4/phenofarm/internal/server/http/middleware"
	testhelpers "github.com/kmeans4/phenofarm/internal/test"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type requestOptions struct {
	principal *model.Principal
	paramID   string
	headers   map[string]string
	query     string
}

func performRequest(handler gin.HandlerFunc, method string, body []byte, opts requestOptions) *httptest.ResponseRecorder {
	recorder := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(recorder)
	target := "/test"
	if opts.query != "" {
		target += "?" + opts.query
	}
	c.Request = httptest.NewRequest(method, target, bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	for k, v := range opts.headers {
		c.Request.Header.Set(k, v)
	}
	if opts.principal != nil {
		c.Set(middleware.PrincipalContextKey, *opts.principal)
	}
	if opts.paramID != "" {
		c.Params = gin.Params{{Key: "id", Value: opts.paramID}}
	}
	handler(c)
	c.Writer.WriteHeaderNow()
	return recorder
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func buyerPrincipal() *model.Principal {
	return &model.Principal{UserID: uuid.New(), Role: model.RoleDispensary, StoreID: uuid.New()}
}

func sellerPrincipal() *model.Principal {
	return &model.Principal{UserID: uuid.New(), Role: model.RoleGrower, StoreID: uuid.New()}
}

// memoryIdemStore is an in-process idempotency.Store for handler tests.
type memoryIdemStore struct {
	mu    sync.Mutex
	items map[string][]byte
}

func newMemoryIdemStore() *memoryIdemStore {
	return &memoryIdemStore{items: make(map[string][]byte)}
}

func (s *memoryIdemStore) Get(_ context.Context, buyerStoreID uuid.UUID, key string) ([]byte, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.items[buyerStoreID.String()+":"+key]
	return v, ok, nil
}

func (s *memoryIdemStore) Save(_ context.Context, buyerStoreID uuid.UUID, key string, response []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[buyerStoreID.String()+":"+key] = response
	return nil
}

func TestAuthHandlerRegister(t *testing.T) {
	facade := testhelpers.AuthFacadeStub{
		RegisterFn: func(ctx context.Context, email, password string, role model.Role) (string, error) {
			if email != "alice@farm.example" || role != model.RoleGrower {
				t.Fatalf("unexpected register args: %s %s", email, role)
			}
			return "issued-token", nil
		},
	}
	handler := NewAuthHandler(facade)

	body, _ := json.Marshal(dto.RegisterRequest{Email: "alice@farm.example", Password: "secret", Role: "GROWER"})
	rec := performRequest(handler.Register, http.MethodPost, body, requestOptions{})

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if rec.Header().Get("Authorization") != "Bearer issued-token" {
		t.Fatalf("expected bearer header, got %q", rec.Header().Get("Authorization"))
	}
}

func TestAuthHandlerRegisterConflict(t *testing.T) {
	facade := testhelpers.AuthFacadeStub{
		RegisterFn: func(context.Context, string, string, model.Role) (string, error) {
			return "", domainErrors.ErrAlreadyExists
		},
	}
	handler := NewAuthHandler(facade)

	body, _ := json.Marshal(dto.RegisterRequest{Email: "dup@farm.example", Password: "secret", Role: "GROWER"})
	rec := performRequest(handler.Register, http.MethodPost, body, requestOptions{})

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
}

func TestAuthHandlerLoginUnauthorized(t *testing.T) {
	facade := testhelpers.AuthFacadeStub{
		AuthenticateFn: func(context.Context, string, string) (string, error) {
			return "", domainErrors.ErrInvalidCredentials
		},
	}
	handler := NewAuthHandler(facade)

	body, _ := json.Marshal(dto.LoginRequest{Email: "alice@farm.example", Password: "wrong"})
	rec := performRequest(handler.Login, http.MethodPost, body, requestOptions{})

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestAuthHandlerMalformedBody(t *testing.T) {
	handler := NewAuthHandler(testhelpers.AuthFacadeStub{})
	rec := performRequest(handler.Register, http.MethodPost, []byte("{"), requestOptions{})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestCheckoutHandlerPlaced(t *testing.T) {
	orderID := uuid.New()
	facade := testhelpers.CheckoutFacadeStub{
		CheckoutFn: func(ctx context.Context, buyer model.Principal, lines []model.CartLine, notes string) (*model.CheckoutResult, error) {
			if len(lines) != 1 || lines[0].Quantity != 2 {
				t.Fatalf("cart lines not converted: %+v", lines)
			}
			return &model.CheckoutResult{CreatedOrders: []model.Order{{ID: orderID, Status: model.OrderStatusPending}}}, nil
		},
	}
	handler := NewCheckoutHandler(facade, newMemoryIdemStore(), testLogger())

	body, _ := json.Marshal(dto.CheckoutRequest{Lines: []dto.CartLineRequest{
		{ProductID: uuid.New(), SellerStoreID: uuid.New(), Quantity: 2, UnitPriceCents: 1000},
	}})
	rec := performRequest(handler.Checkout, http.MethodPost, body, requestOptions{principal: buyerPrincipal()})

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp dto.CheckoutResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Outcome != dto.OutcomePlaced {
		t.Fatalf("expected outcome placed, got %q", resp.Outcome)
	}
	if len(resp.CreatedOrders) != 1 || resp.CreatedOrders[0].ID != orderID {
		t.Fatalf("created order missing: %+v", resp.CreatedOrders)
	}
}

func TestCheckoutHandlerPartiallyPlaced(t *testing.T) {
	facade := testhelpers.CheckoutFacadeStub{
		CheckoutFn: func(ctx context.Context, buyer model.Principal, lines []model.CartLine, notes string) (*model.CheckoutResult, error) {
			return &model.CheckoutResult{
				CreatedOrders: []model.Order{{ID: uuid.New(), Status: model.OrderStatusPending}},
				LineFailures:  []model.LineFailure{{ProductID: uuid.New(), Requested: 5, Available: 1, Reason: model.FailureInsufficientStock}},
			}, nil
		},
	}
	handler := NewCheckoutHandler(facade, newMemoryIdemStore(), testLogger())

	body, _ := json.Marshal(dto.CheckoutRequest{Lines: []dto.CartLineRequest{{ProductID: uuid.New(), SellerStoreID: uuid.New(), Quantity: 5}}})
	rec := performRequest(handler.Checkout, http.MethodPost, body, requestOptions{principal: buyerPrincipal()})

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201 for partial placement, got %d", rec.Code)
	}
	var resp dto.CheckoutResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Outcome != dto.OutcomePartiallyPlaced {
		t.Fatalf("expected outcome partially_placed, got %q", resp.Outcome)
	}
	if len(resp.LineFailures) != 1 || resp.LineFailures[0].Reason != model.FailureInsufficientStock {
		t.Fatalf("failure details missing: %+v", resp.LineFailures)
	}
}

func TestCheckoutHandlerFullyFailed(t *testing.T) {
	facade := testhelpers.CheckoutFacadeStub{
		CheckoutFn: func(ctx context.Context, buyer model.Principal, lines []model.CartLine, notes string) (*model.CheckoutResult, error) {
			return &model.CheckoutResult{
				LineFailures: []model.LineFailure{{ProductID: uuid.New(), Requested: 1, Reason: model.FailureProductNotFound}},
			}, nil
		},
	}
	handler := NewCheckoutHandler(facade, newMemoryIdemStore(), testLogger())

	body, _ := json.Marshal(dto.CheckoutRequest{Lines: []dto.CartLineRequest{{ProductID: uuid.New(), SellerStoreID: uuid.New(), Quantity: 1}}})
	rec := performRequest(handler.Checkout, http.MethodPost, body, requestOptions{principal: buyerPrincipal()})

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 when nothing was placed, got %d", rec.Code)
	}
}

func TestCheckoutHandlerEmptyCart(t *testing.T) {
	facade := testhelpers.CheckoutFacadeStub{
		CheckoutFn: func(context.Context, model.Principal, []model.CartLine, string) (*model.CheckoutResult, error) {
			return nil, domainErrors.ErrEmptyCart
		},
	}
	handler := NewCheckoutHandler(facade, newMemoryIdemStore(), testLogger())

	body, _ := json.Marshal(dto.CheckoutRequest{})
	rec := performRequest(handler.Checkout, http.MethodPost, body, requestOptions{principal: buyerPrincipal()})

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestCheckoutHandlerIdempotencyReplay(t *testing.T) {
	calls := 0
	facade := testhelpers.CheckoutFacadeStub{
		CheckoutFn: func(ctx context.Context, buyer model.Principal, lines []model.CartLine, notes string) (*model.CheckoutResult, error) {
			calls++
			return &model.CheckoutResult{CreatedOrders: []model.Order{{ID: uuid.New(), Status: model.OrderStatusPending}}}, nil
		},
	}
	store := newMemoryIdemStore()
	handler := NewCheckoutHandler(facade, store, testLogger())

	principal := buyerPrincipal()
	body, _ := json.Marshal(dto.CheckoutRequest{Lines: []dto.CartLineRequest{{ProductID: uuid.New(), SellerStoreID: uuid.New(), Quantity: 1}}})
	headers := map[string]string{"Idempotency-Key": "retry-123"}

	first := performRequest(handler.Checkout, http.MethodPost, body, requestOptions{principal: principal, headers: headers})
	if first.Code != http.StatusCreated {
		t.Fatalf("expected 201 on first attempt, got %d", first.Code)
	}

	second := performRequest(handler.Checkout, http.MethodPost, body, requestOptions{principal: principal, headers: headers})
	if second.Code != http.StatusOK {
		t.Fatalf("expected 200 replay, got %d", second.Code)
	}
	if calls != 1 {
		t.Fatalf("replay must not hit inventory again, facade called %d times", calls)
	}
	if !bytes.Equal(first.Body.Bytes(), second.Body.Bytes()) {
		t.Fatalf("replayed body differs from the original")
	}
}

func TestOrderHandlerGet(t *testing.T) {
	principal := sellerPrincipal()
	orderID := uuid.New()
	facade := testhelpers.OrderFacadeStub{
		OrderFn: func(ctx context.Context, actor model.Principal, id uuid.UUID) (*model.Order, error) {
			if id != orderID {
				return nil, domainErrors.ErrNotFound
			}
			return &model.Order{ID: orderID, SellerStoreID: actor.StoreID, Status: model.OrderStatusPending}, nil
		},
	}
	handler := NewOrderHandler(facade)

	rec := performRequest(handler.Get, http.MethodGet, nil, requestOptions{principal: principal, paramID: orderID.String()})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	rec = performRequest(handler.Get, http.MethodGet, nil, requestOptions{principal: principal, paramID: uuid.NewString()})
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}

	rec = performRequest(handler.Get, http.MethodGet, nil, requestOptions{principal: principal, paramID: "not-a-uuid"})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for malformed id, got %d", rec.Code)
	}
}

func TestOrderHandlerListEmpty(t *testing.T) {
	handler := NewOrderHandler(testhelpers.OrderFacadeStub{})
	rec := performRequest(handler.List, http.MethodGet, nil, requestOptions{principal: sellerPrincipal()})
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204 for empty listing, got %d", rec.Code)
	}
}

func TestOrderHandlerUpdateStatus(t *testing.T) {
	principal := sellerPrincipal()
	orderID := uuid.New()
	facade := testhelpers.OrderFacadeStub{
		UpdateFn: func(ctx context.Context, actor model.Principal, id uuid.UUID, next model.OrderStatus) (*model.Order, error) {
			return &model.Order{ID: id, Status: next}, nil
		},
	}
	handler := NewOrderHandler(facade)

	body, _ := json.Marshal(dto.StatusUpdateRequest{Status: "CONFIRMED"})
	rec := performRequest(handler.UpdateStatus, http.MethodPatch, body, requestOptions{principal: principal, paramID: orderID.String()})

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var resp dto.StatusUpdateResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Status != "CONFIRMED" {
		t.Fatalf("expected CONFIRMED, got %q", resp.Status)
	}
}

func TestOrderHandlerUpdateStatusConflictBody(t *testing.T) {
	facade := testhelpers.OrderFacadeStub{
		UpdateFn: func(ctx context.Context, actor model.Principal, id uuid.UUID, next model.OrderStatus) (*model.Order, error) {
			return nil, domainErrors.NewInvalidTransition(model.OrderStatusShipped, next)
		},
	}
	handler := NewOrderHandler(facade)

	body, _ := json.Marshal(dto.StatusUpdateRequest{Status: "CANCELLED"})
	rec := performRequest(handler.UpdateStatus, http.MethodPatch, body, requestOptions{principal: sellerPrincipal(), paramID: uuid.NewString()})

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
	var payload map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if payload["from"] != "SHIPPED" || payload["to"] != "CANCELLED" {
		t.Fatalf("conflict body must carry the transition: %v", payload)
	}
	if _, ok := payload["allowed"]; !ok {
		t.Fatalf("conflict body must list allowed transitions: %v", payload)
	}
}

func TestOrderHandlerUpdateStatusInvalidValue(t *testing.T) {
	facade := testhelpers.OrderFacadeStub{
		UpdateFn: func(ctx context.Context, actor model.Principal, id uuid.UUID, next model.OrderStatus) (*model.Order, error) {
			return nil, domainErrors.ErrInvalidStatus
		},
	}
	handler := NewOrderHandler(facade)

	body, _ := json.Marshal(dto.StatusUpdateRequest{Status: "REFUNDED"})
	rec := performRequest(handler.UpdateStatus, http.MethodPatch, body, requestOptions{principal: sellerPrincipal(), paramID: uuid.NewString()})

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestOrderHandlerBatchUpdateStatus(t *testing.T) {
	facade := testhelpers.OrderFacadeStub{
		BatchUpdateFn: func(ctx context.Context, actor model.Principal, ids []uuid.UUID, next model.OrderStatus) (int, error) {
			return len(ids), nil
		},
	}
	handler := NewOrderHandler(facade)

	body, _ := json.Marshal(dto.BatchStatusUpdateRequest{OrderIDs: []uuid.UUID{uuid.New(), uuid.New()}, Status: "CONFIRMED"})
	rec := performRequest(handler.BatchUpdateStatus, http.MethodPatch, body, requestOptions{principal: sellerPrincipal()})

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var resp dto.BatchStatusUpdateResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.UpdatedCount != 2 || resp.Status != "CONFIRMED" {
		t.Fatalf("unexpected batch response: %+v", resp)
	}
}

func TestOrderHandlerBatchForbidden(t *testing.T) {
	facade := testhelpers.OrderFacadeStub{
		BatchUpdateFn: func(context.Context, model.Principal, []uuid.UUID, model.OrderStatus) (int, error) {
			return 0, domainErrors.ErrForbidden
		},
	}
	handler := NewOrderHandler(facade)

	body, _ := json.Marshal(dto.BatchStatusUpdateRequest{OrderIDs: []uuid.UUID{uuid.New()}, Status: "CONFIRMED"})
	rec := performRequest(handler.BatchUpdateStatus, http.MethodPatch, body, requestOptions{principal: buyerPrincipal()})

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
}

func TestOrderHandlerDelete(t *testing.T) {
	facade := testhelpers.OrderFacadeStub{
		DeleteFn: func(context.Context, model.Principal, uuid.UUID) error { return nil },
	}
	handler := NewOrderHandler(facade)

	rec := performRequest(handler.Delete, http.MethodDelete, nil, requestOptions{principal: buyerPrincipal(), paramID: uuid.NewString()})
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
}

func TestOrderHandlerDeleteShippedConflict(t *testing.T) {
	facade := testhelpers.OrderFacadeStub{
		DeleteFn: func(context.Context, model.Principal, uuid.UUID) error {
			return domainErrors.ErrNotCancellable
		},
	}
	handler := NewOrderHandler(facade)

	rec := performRequest(handler.Delete, http.MethodDelete, nil, requestOptions{principal: buyerPrincipal(), paramID: uuid.NewString()})
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
}

func TestProductHandlerCreate(t *testing.T) {
	principal := sellerPrincipal()
	facade := testhelpers.CatalogFacadeStub{}
	handler := NewProductHandler(facade)

	body, _ := json.Marshal(dto.ProductRequest{Name: "Blue Dream 1oz", UnitPriceCents: 18000, AvailableQty: 40})
	rec := performRequest(handler.Create, http.MethodPost, body, requestOptions{principal: principal})

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	var resp dto.ProductResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.SellerStoreID != principal.StoreID {
		t.Fatalf("product must belong to the acting seller's store")
	}
	if !resp.IsAvailable {
		t.Fatalf("availability must default to true")
	}
}

func TestProductHandlerCreateForbidden(t *testing.T) {
	facade := testhelpers.CatalogFacadeStub{
		CreateFn: func(context.Context, model.Principal, string, int, int, bool) (*model.Product, error) {
			return nil, domainErrors.ErrForbidden
		},
	}
	handler := NewProductHandler(facade)

	body, _ := json.Marshal(dto.ProductRequest{Name: "flower", UnitPriceCents: 100, AvailableQty: 1})
	rec := performRequest(handler.Create, http.MethodPost, body, requestOptions{principal: buyerPrincipal()})

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
}

func TestProductHandlerListFilter(t *testing.T) {
	seller := uuid.New()
	facade := testhelpers.CatalogFacadeStub{
		ProductsFn: func(ctx context.Context, sellerStoreID uuid.UUID) ([]model.Product, error) {
			if sellerStoreID != seller {
				t.Fatalf("filter not passed through: %s", sellerStoreID)
			}
			return []model.Product{{ID: uuid.New(), SellerStoreID: seller, Name: "flower"}}, nil
		},
	}
	handler := NewProductHandler(facade)

	rec := performRequest(handler.List, http.MethodGet, nil, requestOptions{principal: buyerPrincipal(), query: "seller_store_id=" + seller.String()})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}
