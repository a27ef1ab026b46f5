package telemetry

import "go.uber.org/fx"

// Module exposes the metric set to the fx container.
var Module = fx.Provide(NewMetrics)
