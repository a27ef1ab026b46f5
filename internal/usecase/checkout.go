package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/kmeans4/phenofarm/internal/adapter/events"
	domainErrors "github.com/kmeans4/phenofarm/internal/domain/errors"
	"github.com/kmeans4/phenofarm/internal/domain/model"
	"github.com/kmeans4/phenofarm/internal/domain/repository"
	"github.com/kmeans4/phenofarm/internal/telemetry"
)

// CheckoutUseCase turns a buyer's multi-vendor cart into per-vendor orders.
// Each vendor group commits independently: one seller running out of stock
// never rolls back another seller's already-placed order.
type CheckoutUseCase struct {
	orders           repository.OrderRepository
	taxRateBps       int
	shippingFeeCents int
	events           events.Publisher
	metrics          *telemetry.Metrics
	logger           *slog.Logger
}

// NewCheckoutUseCase constructs CheckoutUseCase.
func NewCheckoutUseCase(orders repository.OrderRepository, taxRateBps, shippingFeeCents int, publisher events.Publisher, metrics *telemetry.Metrics, logger *slog.Logger) *CheckoutUseCase {
	return &CheckoutUseCase{
		orders:           orders,
		taxRateBps:       taxRateBps,
		shippingFeeCents: shippingFeeCents,
		events:           publisher,
		metrics:          metrics,
		logger:           logger,
	}
}

// Checkout places orders for every vendor group of the cart and aggregates
// created orders with per-line failures. Partial success is a normal
// outcome, not an error.
func (u *CheckoutUseCase) Checkout(ctx context.Context, buyer model.Principal, lines []model.CartLine, notes string) (*model.CheckoutResult, error) {
	if !buyer.CanCheckout() {
		return nil, domainErrors.ErrForbidden
	}
	if len(lines) == 0 {
		return nil, domainErrors.ErrEmptyCart
	}
	for _, line := range lines {
		if line.Quantity <= 0 {
			return nil, domainErrors.ErrInvalidQuantity
		}
	}

	result := &model.CheckoutResult{}
	for _, group := range PartitionCart(lines) {
		draft := model.OrderDraft{
			Number:           orderNumber(),
			SellerStoreID:    group.SellerStoreID,
			BuyerStoreID:     buyer.StoreID,
			Lines:            group.Lines,
			Notes:            notes,
			ShippingFeeCents: u.shippingFeeCents,
			TaxRateBps:       u.taxRateBps,
		}

		order, failures, err := u.orders.CreateForVendor(ctx, draft)
		if err != nil {
			// A hard storage error in one group must not abort groups that
			// already committed; report the group's lines as failed.
			u.logger.Error("vendor order creation failed",
				slog.String("seller_store_id", group.SellerStoreID.String()),
				slog.String("buyer_store_id", buyer.StoreID.String()),
				slog.String("error", err.Error()),
			)
			for _, line := range group.Lines {
				failures = append(failures, model.LineFailure{
					ProductID:     line.ProductID,
					SellerStoreID: group.SellerStoreID,
					Requested:     line.Quantity,
					Reason:        model.FailureInternal,
				})
			}
		}

		for _, failure := range failures {
			u.metrics.LineFailures.WithLabelValues(failure.Reason).Inc()
			u.logger.Info("cart line rejected",
				slog.String("product_id", failure.ProductID.String()),
				slog.String("buyer_store_id", buyer.StoreID.String()),
				slog.Int("requested", failure.Requested),
				slog.String("reason", failure.Reason),
			)
		}
		result.LineFailures = append(result.LineFailures, failures...)

		if order == nil {
			continue
		}

		result.CreatedOrders = append(result.CreatedOrders, *order)
		u.metrics.OrdersCreated.Inc()
		u.publishCreated(*order)
	}

	u.logger.Info("checkout completed",
		slog.String("buyer_store_id", buyer.StoreID.String()),
		slog.Int("orders_created", len(result.CreatedOrders)),
		slog.Int("line_failures", len(result.LineFailures)),
	)
	return result, nil
}

func (u *CheckoutUseCase) publishCreated(order model.Order) {
	envelope, err := events.OrderCreated(order)
	if err != nil {
		u.logger.Error("build order created event failed",
			slog.String("order_id", order.ID.String()),
			slog.String("error", err.Error()),
		)
		return
	}
	u.events.Publish(envelope)
}

// orderNumber generates a human-readable unique order number.
func orderNumber() string {
	raw := strings.ReplaceAll(uuid.NewString(), "-", "")
	return fmt.Sprintf("PF-%s", strings.ToUpper(raw[:12]))
}
