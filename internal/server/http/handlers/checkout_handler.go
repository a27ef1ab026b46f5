package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kmeans4/phenofarm/internal/adapter/idempotency"
	domainErrors "github.com/kmeans4/phenofarm/internal/domain/errors"
	"github.com/kmeans4/phenofarm/internal/domain/model"
	"github.com/kmeans4/phenofarm/internal/server/http/dto"
)

const idempotencyKeyHeader = "Idempotency-Key"

// CheckoutHandler turns a buyer's cart into vendor orders.
type CheckoutHandler struct {
	facade CheckoutFacade
	idem   idempotency.Store
	logger *slog.Logger
}

// NewCheckoutHandler constructs CheckoutHandler.
func NewCheckoutHandler(facade CheckoutFacade, idem idempotency.Store, logger *slog.Logger) *CheckoutHandler {
	return &CheckoutHandler{facade: facade, idem: idem, logger: logger}
}

// Checkout handles POST /api/checkout. A repeated Idempotency-Key replays
// the stored response instead of decrementing inventory again.
func (h *CheckoutHandler) Checkout(c *gin.Context) {
	principal := CurrentPrincipal(c)

	var req dto.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	idemKey := c.GetHeader(idempotencyKeyHeader)
	if idemKey != "" {
		cached, ok, err := h.idem.Get(c.Request.Context(), principal.StoreID, idemKey)
		if err != nil {
			h.logger.Error("idempotency lookup failed", slog.String("error", err.Error()))
		} else if ok {
			c.Data(http.StatusOK, "application/json", cached)
			return
		}
	}

	lines := make([]model.CartLine, 0, len(req.Lines))
	for _, l := range req.Lines {
		lines = append(lines, model.CartLine{
			ProductID:      l.ProductID,
			SellerStoreID:  l.SellerStoreID,
			Quantity:       l.Quantity,
			UnitPriceCents: l.UnitPriceCents,
		})
	}

	result, err := h.facade.Checkout(c.Request.Context(), principal, lines, req.Notes)
	if err != nil {
		switch {
		case errors.Is(err, domainErrors.ErrEmptyCart), errors.Is(err, domainErrors.ErrInvalidQuantity):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, domainErrors.ErrForbidden):
			c.Status(http.StatusForbidden)
		default:
			c.Status(http.StatusInternalServerError)
		}
		return
	}

	resp := toCheckoutResponse(result)
	status := http.StatusCreated
	if resp.Outcome == dto.OutcomeFailed {
		status = http.StatusUnprocessableEntity
	}

	if idemKey != "" && resp.Outcome != dto.OutcomeFailed {
		if body, err := json.Marshal(resp); err == nil {
			if err := h.idem.Save(c.Request.Context(), principal.StoreID, idemKey, body); err != nil {
				h.logger.Error("idempotency save failed", slog.String("error", err.Error()))
			}
		}
	}

	c.JSON(status, resp)
}

func toCheckoutResponse(result *model.CheckoutResult) dto.CheckoutResponse {
	resp := dto.CheckoutResponse{
		CreatedOrders: make([]dto.OrderResponse, 0, len(result.CreatedOrders)),
		LineFailures:  make([]dto.LineFailureResponse, 0, len(result.LineFailures)),
	}
	for _, order := range result.CreatedOrders {
		resp.CreatedOrders = append(resp.CreatedOrders, toOrderResponse(order))
	}
	for _, failure := range result.LineFailures {
		resp.LineFailures = append(resp.LineFailures, dto.LineFailureResponse{
			ProductID:     failure.ProductID,
			SellerStoreID: failure.SellerStoreID,
			Requested:     failure.Requested,
			Available:     failure.Available,
			Reason:        failure.Reason,
		})
	}

	switch {
	case result.FullyFailed():
		resp.Outcome = dto.OutcomeFailed
	case result.PartiallyPlaced():
		resp.Outcome = dto.OutcomePartiallyPlaced
	default:
		resp.Outcome = dto.OutcomePlaced
	}
	return resp
}
