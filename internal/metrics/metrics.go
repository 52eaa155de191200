package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "avatarshop"

var httpLatencyBuckets = []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10}

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency in seconds",
			Buckets:   httpLatencyBuckets,
		},
		[]string{"method", "path"},
	)
)

var (
	ItemsPurchased = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "items_purchased_total",
			Help:      "Total number of items purchased",
		},
		[]string{"currency"},
	)

	CurrencySpent = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "currency_spent_total",
			Help:      "Total currency spent on purchases",
		},
		[]string{"currency"},
	)

	EquipOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "equip_operations_total",
			Help:      "Equip and unequip calls by outcome",
		},
		[]string{"operation", "result"},
	)

	WSConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "ws_connections",
			Help:      "Open balance push connections",
		},
	)
)

// Result labels an operation outcome for EquipOperations.
func Result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
