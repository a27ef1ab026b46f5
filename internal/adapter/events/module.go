package events

import (
	"context"
	"log/slog"

	"go.uber.org/fx"

	"github.com/kmeans4/phenofarm/internal/config"
)

// Module provides the order event publisher. Without configured brokers the
// publisher is a no-op and the service runs standalone.
var Module = fx.Provide(newPublisher)

type publisherParams struct {
	fx.In

	Lifecycle fx.Lifecycle
	Ctx       context.Context
	Config    *config.Config
	Logger    *slog.Logger
}

func newPublisher(p publisherParams) Publisher {
	if len(p.Config.KafkaBrokers) == 0 {
		p.Logger.Info("kafka brokers not configured, order events disabled")
		return NopPublisher{}
	}

	producer := NewProducer(p.Config.KafkaBrokers, p.Config.KafkaTopic, 0, p.Logger)

	runCtx, cancel := context.WithCancel(context.WithoutCancel(p.Ctx))
	p.Lifecycle.Append(fx.Hook{
		OnStart: func(context.Context) error {
			producer.Start(runCtx)
			return nil
		},
		OnStop: func(context.Context) error {
			cancel()
			producer.WaitClosed()
			return nil
		},
	})

	return producer
}
