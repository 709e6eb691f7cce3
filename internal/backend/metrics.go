package backend

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hireboard_backend_requests_total",
		Help: "Requests sent to the recruitment backend by operation and result.",
	}, []string{"op", "result"})

	requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "hireboard_backend_request_duration_seconds",
		Help:    "Latency of recruitment backend requests.",
		Buckets: prometheus.DefBuckets,
	}, []string{"op"})
)
