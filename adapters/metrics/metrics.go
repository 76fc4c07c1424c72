// Package metrics provides Prometheus metrics collection for denda.
package metrics

import (
	"github.com/artpar/denda/domain/penalty"
	"github.com/artpar/denda/ports"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "denda"

// Outcome labels for quotes.
const (
	OutcomeFine  = "fine"
	OutcomeClean = "clean"
)

// Collector holds all Prometheus metrics for denda.
type Collector struct {
	// Request metrics
	RequestsTotal    *prometheus.CounterVec
	RequestDuration  *prometheus.HistogramVec
	RequestsInFlight prometheus.Gauge
	RateLimitHits    prometheus.Counter

	// Quote metrics
	QuotesTotal *prometheus.CounterVec
	QuoteFine   *prometheus.HistogramVec

	// Config metrics
	ConfigReloads      prometheus.Counter
	ConfigReloadErrors prometheus.Counter
	ConfigLastReload   prometheus.Gauge
}

// New creates a collector registered with the default registry.
func New() *Collector {
	return NewWithRegistry(prometheus.DefaultRegisterer)
}

// NewWithRegistry creates a new metrics collector with a custom registry.
// Useful for testing to avoid global state.
func NewWithRegistry(reg prometheus.Registerer) *Collector {
	factory := promauto.With(reg)

	return &Collector{
		RequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "requests_total",
				Help:      "Total number of HTTP requests processed",
			},
			[]string{"method", "route", "status"},
		),
		RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   []float64{.0005, .001, .005, .01, .025, .05, .1, .25, .5, 1},
			},
			[]string{"method", "route", "status"},
		),
		RequestsInFlight: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "requests_in_flight",
				Help:      "Number of HTTP requests currently being processed",
			},
		),
		RateLimitHits: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "rate_limit_hits_total",
				Help:      "Total number of requests rejected by the rate limiter",
			},
		),
		QuotesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "quotes_total",
				Help:      "Total number of penalty quotes computed",
			},
			[]string{"app_id", "package_id", "outcome"},
		),
		QuoteFine: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "quote_total_fine_rupiah",
				Help:      "Total fine of quotes that carried a fine, in Rupiah",
				Buckets:   prometheus.ExponentialBuckets(5000, 2, 12),
			},
			[]string{"app_id"},
		),
		ConfigReloads: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "config_reloads_total",
				Help:      "Total number of successful config reloads",
			},
		),
		ConfigReloadErrors: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "config_reload_errors_total",
				Help:      "Total number of config reload errors",
			},
		),
		ConfigLastReload: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "config_last_reload_timestamp",
				Help:      "Unix timestamp of last successful config reload",
			},
		),
	}
}

// RecordQuote counts a quote and observes its fine.
func (c *Collector) RecordQuote(appID, packageID string, result penalty.Result) {
	outcome := OutcomeClean
	if result.HasFine() {
		outcome = OutcomeFine
		c.QuoteFine.WithLabelValues(appID).Observe(result.TotalFine)
	}
	c.QuotesTotal.WithLabelValues(appID, packageID, outcome).Inc()
}

var _ ports.QuoteRecorder = (*Collector)(nil)
