package client

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	requestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "roadwatch",
			Subsystem: "client",
			Name:      "http_requests_total",
			Help:      "HTTP requests sent to the backend, by method and status class.",
		},
		[]string{"method", "status"},
	)

	favoritesEnqueuedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "roadwatch",
			Subsystem: "client",
			Name:      "favorites_enqueued_total",
			Help:      "Favorites accepted into the shard executor.",
		},
		[]string{"shard"},
	)

	favoritesFailedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "roadwatch",
			Subsystem: "client",
			Name:      "favorites_enqueue_failures_total",
			Help:      "Queued favorites whose job gave up with an error.",
		},
		[]string{"shard"},
	)
)

// statusClass buckets a status code as "2xx", "4xx", ... to bound label cardinality.
func statusClass(code int) string {
	return strconv.Itoa(code/100) + "xx"
}
