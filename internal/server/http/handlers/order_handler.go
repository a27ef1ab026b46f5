package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	domainErrors "github.com/kmeans4/phenofarm/internal/domain/errors"
	"github.com/kmeans4/phenofarm/internal/domain/model"
	"github.com/kmeans4/phenofarm/internal/server/http/dto"
)

// OrderHandler exposes order retrieval and lifecycle operations.
type OrderHandler struct {
	facade OrderFacade
}

// NewOrderHandler creates OrderHandler instance.
func NewOrderHandler(facade OrderFacade) *OrderHandler {
	return &OrderHandler{facade: facade}
}

// List handles GET /api/orders. Growers see orders they sold, dispensaries
// orders they bought.
func (h *OrderHandler) List(c *gin.Context) {
	principal := CurrentPrincipal(c)

	orders, err := h.facade.Orders(c.Request.Context(), principal)
	if err != nil {
		c.Status(http.StatusInternalServerError)
		return
	}
	if len(orders) == 0 {
		c.Status(http.StatusNoContent)
		return
	}

	resp := make([]dto.OrderResponse, 0, len(orders))
	for _, order := range orders {
		resp = append(resp, toOrderResponse(order))
	}
	c.JSON(http.StatusOK, resp)
}

// Get handles GET /api/orders/:id.
func (h *OrderHandler) Get(c *gin.Context) {
	principal := CurrentPrincipal(c)

	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	order, err := h.facade.Order(c.Request.Context(), principal, orderID)
	if err != nil {
		switch {
		case errors.Is(err, domainErrors.ErrNotFound):
			c.Status(http.StatusNotFound)
		case errors.Is(err, domainErrors.ErrForbidden):
			c.Status(http.StatusForbidden)
		default:
			c.Status(http.StatusInternalServerError)
		}
		return
	}

	c.JSON(http.StatusOK, toOrderResponse(*order))
}

// UpdateStatus handles PATCH /api/orders/:id/status. An illegal transition
// answers 409 with the set of states reachable from the current one.
func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	principal := CurrentPrincipal(c)

	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	var req dto.StatusUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	order, err := h.facade.UpdateOrderStatus(c.Request.Context(), principal, orderID, model.OrderStatus(req.Status))
	if err != nil {
		h.writeLifecycleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.StatusUpdateResponse{
		Status:      string(order.Status),
		ShippedAt:   order.ShippedAt,
		DeliveredAt: order.DeliveredAt,
	})
}

// BatchUpdateStatus handles PATCH /api/orders/status. The batch is
// all-or-nothing: one bad order rejects the whole request.
func (h *OrderHandler) BatchUpdateStatus(c *gin.Context) {
	principal := CurrentPrincipal(c)

	var req dto.BatchStatusUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	updated, err := h.facade.BatchUpdateOrderStatus(c.Request.Context(), principal, req.OrderIDs, model.OrderStatus(req.Status))
	if err != nil {
		h.writeLifecycleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.BatchStatusUpdateResponse{
		UpdatedCount: updated,
		Status:       req.Status,
	})
}

// Delete handles DELETE /api/orders/:id. Removing an order first returns
// its reserved stock.
func (h *OrderHandler) Delete(c *gin.Context) {
	principal := CurrentPrincipal(c)

	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	if err := h.facade.DeleteOrder(c.Request.Context(), principal, orderID); err != nil {
		h.writeLifecycleError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *OrderHandler) writeLifecycleError(c *gin.Context, err error) {
	var transitionErr *domainErrors.InvalidTransitionError
	switch {
	case errors.As(err, &transitionErr):
		c.JSON(http.StatusConflict, gin.H{
			"error":   "invalid status transition",
			"from":    string(transitionErr.From),
			"to":      string(transitionErr.To),
			"allowed": transitionErr.Allowed,
		})
	case errors.Is(err, domainErrors.ErrNotCancellable):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, domainErrors.ErrInvalidStatus),
		errors.Is(err, domainErrors.ErrEmptyBatch):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, domainErrors.ErrNotFound):
		c.Status(http.StatusNotFound)
	case errors.Is(err, domainErrors.ErrForbidden):
		c.Status(http.StatusForbidden)
	default:
		c.Status(http.StatusInternalServerError)
	}
}
