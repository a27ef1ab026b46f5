package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	domainErrors "github.com/kmeans4/phenofarm/internal/domain/errors"
	"github.com/kmeans4/phenofarm/internal/server/http/dto"
)

// ProductHandler exposes the seller catalog.
type ProductHandler struct {
	facade CatalogFacade
}

// NewProductHandler creates ProductHandler instance.
func NewProductHandler(facade CatalogFacade) *ProductHandler {
	return &ProductHandler{facade: facade}
}

// Create handles POST /api/products.
func (h *ProductHandler) Create(c *gin.Context) {
	principal := CurrentPrincipal(c)

	var req dto.ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	isAvailable := true
	if req.IsAvailable != nil {
		isAvailable = *req.IsAvailable
	}

	product, err := h.facade.CreateProduct(c.Request.Context(), principal, req.Name, req.UnitPriceCents, req.AvailableQty, isAvailable)
	if err != nil {
		switch {
		case errors.Is(err, domainErrors.ErrInvalidQuantity):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, domainErrors.ErrForbidden):
			c.Status(http.StatusForbidden)
		default:
			c.Status(http.StatusInternalServerError)
		}
		return
	}

	c.JSON(http.StatusCreated, toProductResponse(*product))
}

// Get handles GET /api/products/:id.
func (h *ProductHandler) Get(c *gin.Context) {
	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	product, err := h.facade.Product(c.Request.Context(), productID)
	if err != nil {
		switch {
		case errors.Is(err, domainErrors.ErrNotFound):
			c.Status(http.StatusNotFound)
		default:
			c.Status(http.StatusInternalServerError)
		}
		return
	}

	c.JSON(http.StatusOK, toProductResponse(*product))
}

// List handles GET /api/products. An optional seller_store_id query narrows
// the listing to one vendor.
func (h *ProductHandler) List(c *gin.Context) {
	var sellerStoreID uuid.UUID
	if raw := c.Query("seller_store_id"); raw != "" {
		parsed, err := uuid.Parse(raw)
		if err != nil {
			c.Status(http.StatusBadRequest)
			return
		}
		sellerStoreID = parsed
	}

	products, err := h.facade.Products(c.Request.Context(), sellerStoreID)
	if err != nil {
		c.Status(http.StatusInternalServerError)
		return
	}
	if len(products) == 0 {
		c.Status(http.StatusNoContent)
		return
	}

	resp := make([]dto.ProductResponse, 0, len(products))
	for _, p := range products {
		resp = append(resp, toProductResponse(p))
	}
	c.JSON(http.StatusOK, resp)
}
