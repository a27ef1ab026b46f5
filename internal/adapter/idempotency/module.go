package idempotency

import (
	"context"
	"log/slog"

	"go.uber.org/fx"

	"github.com/kmeans4/phenofarm/internal/config"
)

// Module provides the checkout idempotency store.
var Module = fx.Provide(newStore)

type storeParams struct {
	fx.In

	Lifecycle fx.Lifecycle
	Config    *config.Config
	Logger    *slog.Logger
}

func newStore(p storeParams) Store {
	if p.Config.RedisAddr == "" {
		p.Logger.Info("redis not configured, checkout idempotency disabled")
		return DisabledStore{}
	}

	store := NewRedisStore(p.Config.RedisAddr)
	p.Lifecycle.Append(fx.Hook{
		OnStop: func(context.Context) error {
			return store.Close()
		},
	})
	return store
}
