package usecase

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/kmeans4/phenofarm/internal/adapter/events"
	domainErrors "github.com/kmeans4/phenofarm/internal/domain/errors"
	"github.com/kmeans4/phenofarm/internal/domain/model"
	"github.com/kmeans4/phenofarm/internal/domain/repository"
	"github.com/kmeans4/phenofarm/internal/telemetry"
)

// LifecycleUseCase advances orders through the fulfillment state machine.
type LifecycleUseCase struct {
	orders  repository.OrderRepository
	events  events.Publisher
	metrics *telemetry.Metrics
	logger  *slog.Logger
}

// NewLifecycleUseCase constructs LifecycleUseCase.
func NewLifecycleUseCase(orders repository.OrderRepository, publisher events.Publisher, metrics *telemetry.Metrics, logger *slog.Logger) *LifecycleUseCase {
	return &LifecycleUseCase{orders: orders, events: publisher, metrics: metrics, logger: logger}
}

// Get returns one order visible to the principal.
func (u *LifecycleUseCase) Get(ctx context.Context, actor model.Principal, orderID uuid.UUID) (*model.Order, error) {
	order, err := u.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !actor.Owns(order.SellerStoreID) && !actor.Owns(order.BuyerStoreID) {
		return nil, domainErrors.ErrForbidden
	}
	return order, nil
}

// List returns the principal's orders: sellers see orders placed with them,
// buyers the orders they placed.
func (u *LifecycleUseCase) List(ctx context.Context, actor model.Principal) ([]model.Order, error) {
	if actor.Role == model.RoleDispensary {
		return u.orders.ListByBuyer(ctx, actor.StoreID)
	}
	return u.orders.ListBySeller(ctx, actor.StoreID)
}

// UpdateStatus applies one transition to one order.
func (u *LifecycleUseCase) UpdateStatus(ctx context.Context, actor model.Principal, orderID uuid.UUID, next model.OrderStatus) (*model.Order, error) {
	if !model.ValidOrderStatus(next) {
		return nil, domainErrors.ErrInvalidStatus
	}
	if !actor.CanManageOrders() {
		return nil, domainErrors.ErrForbidden
	}

	order, previous, err := u.orders.UpdateStatus(ctx, actor, orderID, next)
	if err != nil {
		u.logger.Warn("order status update rejected",
			slog.String("order_id", orderID.String()),
			slog.String("actor_store_id", actor.StoreID.String()),
			slog.String("target_status", string(next)),
			slog.String("error", err.Error()),
		)
		return nil, err
	}

	if previous == order.Status {
		return order, nil
	}

	u.metrics.StatusTransitions.WithLabelValues(string(order.Status)).Inc()
	if order.Status == model.OrderStatusCancelled {
		u.metrics.StockRestorations.Inc()
	}
	u.logger.Info("order status updated",
		slog.String("order_id", order.ID.String()),
		slog.String("number", order.Number),
		slog.String("from", string(previous)),
		slog.String("to", string(order.Status)),
	)
	u.publishStatusChanged(*order, previous)
	return order, nil
}

// BatchUpdateStatus applies one transition to many orders of one seller.
// The ownership precondition and per-order legality are both all-or-nothing.
func (u *LifecycleUseCase) BatchUpdateStatus(ctx context.Context, actor model.Principal, orderIDs []uuid.UUID, next model.OrderStatus) (int, error) {
	if !model.ValidOrderStatus(next) {
		return 0, domainErrors.ErrInvalidStatus
	}
	if !actor.CanManageOrders() {
		return 0, domainErrors.ErrForbidden
	}
	if len(orderIDs) == 0 {
		return 0, domainErrors.ErrEmptyBatch
	}

	updated, err := u.orders.BatchUpdateStatus(ctx, actor, orderIDs, next)
	if err != nil {
		u.logger.Warn("batch status update rejected",
			slog.String("actor_store_id", actor.StoreID.String()),
			slog.Int("orders", len(orderIDs)),
			slog.String("target_status", string(next)),
			slog.String("error", err.Error()),
		)
		return 0, err
	}

	u.metrics.StatusTransitions.WithLabelValues(string(next)).Add(float64(updated))
	u.logger.Info("batch status updated",
		slog.String("actor_store_id", actor.StoreID.String()),
		slog.Int("updated", updated),
		slog.String("to", string(next)),
	)
	return updated, nil
}

// Delete cancels a not-yet-shipped order, restores its stock and removes it.
func (u *LifecycleUseCase) Delete(ctx context.Context, actor model.Principal, orderID uuid.UUID) error {
	order, err := u.orders.Delete(ctx, actor, orderID)
	if err != nil {
		u.logger.Warn("order deletion rejected",
			slog.String("order_id", orderID.String()),
			slog.String("actor_store_id", actor.StoreID.String()),
			slog.String("error", err.Error()),
		)
		return err
	}

	u.metrics.StockRestorations.Inc()
	u.logger.Info("order cancelled and deleted",
		slog.String("order_id", order.ID.String()),
		slog.String("number", order.Number),
		slog.String("actor_store_id", actor.StoreID.String()),
	)

	envelope, err := events.NewEnvelope(events.TypeOrderDeleted, order.ID, events.OrderDeletedPayload{
		Number:        order.Number,
		SellerStoreID: order.SellerStoreID.String(),
		BuyerStoreID:  order.BuyerStoreID.String(),
	})
	if err != nil {
		u.logger.Error("build order deleted event failed", slog.String("error", err.Error()))
		return nil
	}
	u.events.Publish(envelope)
	return nil
}

func (u *LifecycleUseCase) publishStatusChanged(order model.Order, from model.OrderStatus) {
	envelope, err := events.StatusChanged(order, from)
	if err != nil {
		u.logger.Error("build status changed event failed",
			slog.String("order_id", order.ID.String()),
			slog.String("error", err.Error()),
		)
		return
	}
	u.events.Publish(envelope)
}
