package telemetry

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics bundles the fulfillment counters exposed on /metrics. Each
// instance owns its registry so tests can construct as many as they need.
type Metrics struct {
	registry *prometheus.Registry

	OrdersCreated     prometheus.Counter
	LineFailures      *prometheus.CounterVec
	StatusTransitions *prometheus.CounterVec
	StockRestorations prometheus.Counter
}

// NewMetrics creates and registers the fulfillment metric set.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,
		OrdersCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "phenofarm_orders_created_total",
			Help: "Vendor orders successfully placed at checkout.",
		}),
		LineFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "phenofarm_checkout_line_failures_total",
			Help: "Cart lines rejected at checkout, by reason.",
		}, []string{"reason"}),
		StatusTransitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "phenofarm_order_status_transitions_total",
			Help: "Applied order status transitions, by target status.",
		}, []string{"status"}),
		StockRestorations: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "phenofarm_stock_restorations_total",
			Help: "Cancellations and deletions that returned stock to inventory.",
		}),
	}

	registry.MustRegister(m.OrdersCreated, m.LineFailures, m.StatusTransitions, m.StockRestorations)
	return m
}

// Handler serves the registry in Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
