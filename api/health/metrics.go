package health

import (
	"coffeeshop_server/services"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var httpLabels = []string{"method", "route", "status"}

var (
	HttpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "pos",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Latency of POS API requests by route pattern",
			Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5},
		},
		httpLabels,
	)

	HttpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "pos",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "POS API requests by route pattern and status",
		},
		httpLabels,
	)

	HttpInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "pos",
			Subsystem: "http",
			Name:      "requests_in_flight",
			Help:      "POS API requests currently being served",
		},
	)
)

var registerOnce sync.Once

// RegisterMetrics registers the HTTP and order metrics with the default registry.
func RegisterMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			HttpDuration,
			HttpRequests,
			HttpInFlight,
			services.OrderStatusTransitions,
			services.OrdersCreated,
		)
	})
}
