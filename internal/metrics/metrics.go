// internal/metrics/metrics.go

// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	// HTTP
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec

	// Billing webhooks
	WebhookEvents *prometheus.CounterVec

	// Premium lifecycle
	PremiumTransitions *prometheus.CounterVec
	SweepRuns          *prometheus.CounterVec
	SweepExpired       prometheus.Counter
	SweepDuration      prometheus.Histogram

	// Catalog
	CatalogQueries *prometheus.CounterVec
}

// New registers every collector with reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		RequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "motohanem_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "motohanem_http_request_duration_seconds",
				Help:    "HTTP request latency",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		WebhookEvents: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "motohanem_billing_webhook_events_total",
				Help: "Billing webhook events by type and outcome",
			},
			[]string{"type", "outcome"},
		),
		PremiumTransitions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "motohanem_premium_transitions_total",
				Help: "Premium state transitions by target state and source",
			},
			[]string{"to", "source"},
		),
		SweepRuns: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "motohanem_premium_sweep_runs_total",
				Help: "Expiry sweep runs by result",
			},
			[]string{"result"},
		),
		SweepExpired: factory.NewCounter(prometheus.CounterOpts{
			Name: "motohanem_premium_sweep_expired_total",
			Help: "Users expired by the sweep",
		}),
		SweepDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "motohanem_premium_sweep_duration_seconds",
			Help:    "Duration of expiry sweep runs",
			Buckets: prometheus.DefBuckets,
		}),
		CatalogQueries: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "motohanem_catalog_queries_total",
				Help: "Enriched model listing queries by sort",
			},
			[]string{"sort"},
		),
	}
}

// NewNop returns metrics registered on a throwaway registry.
func NewNop() *Metrics {
	return New(prometheus.NewRegistry())
}
