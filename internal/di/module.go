package di

import (
	"go.uber.org/fx"

	"github.com/kmeans4/phenofarm/internal/adapter/events"
	"github.com/kmeans4/phenofarm/internal/adapter/idempotency"
	"github.com/kmeans4/phenofarm/internal/app"
	"github.com/kmeans4/phenofarm/internal/config"
	"github.com/kmeans4/phenofarm/internal/logger"
	"github.com/kmeans4/phenofarm/internal/pkg/auth"
	"github.com/kmeans4/phenofarm/internal/server/http/handlers"
	"github.com/kmeans4/phenofarm/internal/server/http/router"
	"github.com/kmeans4/phenofarm/internal/storage/postgres"
	"github.com/kmeans4/phenofarm/internal/telemetry"
	"github.com/kmeans4/phenofarm/internal/usecase"
)

func Module(opts ...fx.Option) fx.Option {
	modules := []fx.Option{
		config.Module,
		logger.Module,
		auth.Module,
		postgres.Module,
		telemetry.Module,
		events.Module,
		idempotency.Module,
		usecase.Module,
		app.Module,
		fx.Provide(func(facade *app.MarketFacade) handlers.MarketFacade { return facade }),
		fx.Provide(func(storage *postgres.Storage) handlers.HealthChecker { return storage }),
		router.Module,
	}
	modules = append(modules, opts...)
	return fx.Options(modules...)
}
