package usecase

import (
	"log/slog"

	"go.uber.org/fx"

	"github.com/kmeans4/phenofarm/internal/adapter/events"
	"github.com/kmeans4/phenofarm/internal/config"
	"github.com/kmeans4/phenofarm/internal/domain/repository"
	"github.com/kmeans4/phenofarm/internal/telemetry"
)

// Module provides core business use cases to the fx container.
var Module = fx.Provide(
	NewAuthUseCase,
	NewCatalogUseCase,
	NewLifecycleUseCase,
	newCheckoutUseCase,
)

type checkoutParams struct {
	fx.In

	Orders    repository.OrderRepository
	Config    *config.Config
	Publisher events.Publisher
	Metrics   *telemetry.Metrics
	Logger    *slog.Logger
}

func newCheckoutUseCase(p checkoutParams) *CheckoutUseCase {
	return NewCheckoutUseCase(p.Orders, p.Config.TaxRateBps, p.Config.DefaultShippingFeeCents, p.Publisher, p.Metrics, p.Logger)
}
