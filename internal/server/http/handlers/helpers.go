package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/kmeans4/phenofarm/internal/domain/model"
	"github.com/kmeans4/phenofarm/internal/server/http/dto"
	"github.com/kmeans4/phenofarm/internal/server/http/middleware"
)

// CurrentPrincipal extracts the authenticated principal from context.
func CurrentPrincipal(c *gin.Context) model.Principal {
	val, ok := c.Get(middleware.PrincipalContextKey)
	if !ok {
		return model.Principal{}
	}
	principal, _ := val.(model.Principal)
	return principal
}

func toOrderResponse(order model.Order) dto.OrderResponse {
	resp := dto.OrderResponse{
		ID:               order.ID,
		Number:           order.Number,
		SellerStoreID:    order.SellerStoreID,
		BuyerStoreID:     order.BuyerStoreID,
		Status:           string(order.Status),
		SubtotalCents:    order.SubtotalCents,
		TaxCents:         order.TaxCents,
		ShippingFeeCents: order.ShippingFeeCents,
		TotalCents:       order.TotalCents,
		Notes:            order.Notes,
		ShippedAt:        order.ShippedAt,
		DeliveredAt:      order.DeliveredAt,
		CreatedAt:        order.CreatedAt,
	}
	for _, line := range order.Lines {
		resp.Lines = append(resp.Lines, dto.OrderLineResponse{
			ProductID:      line.ProductID,
			Quantity:       line.Quantity,
			UnitPriceCents: line.UnitPriceCents,
			LineTotalCents: line.LineTotalCents,
		})
	}
	return resp
}

func toProductResponse(p model.Product) dto.ProductResponse {
	return dto.ProductResponse{
		ID:             p.ID,
		SellerStoreID:  p.SellerStoreID,
		Name:           p.Name,
		UnitPriceCents: p.UnitPriceCents,
		AvailableQty:   p.AvailableQty,
		IsAvailable:    p.IsAvailable,
		CreatedAt:      p.CreatedAt,
	}
}
