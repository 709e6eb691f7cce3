package core

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	importsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hireboard_imports_total",
			Help: "Finished candidate imports by outcome status",
		},
		[]string{"status"},
	)

	importRowsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hireboard_import_rows_total",
			Help: "Candidate import rows by result",
		},
		[]string{"result"},
	)

	importDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "hireboard_import_duration_seconds",
			Help:    "Wall time of candidate imports",
			Buckets: []float64{1, 5, 15, 30, 60, 120, 300, 600},
		},
	)

	submitDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "hireboard_import_submit_duration_seconds",
			Help:    "Latency of single candidate create calls during imports",
			Buckets: prometheus.DefBuckets,
		},
	)

	importsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "hireboard_imports_active",
			Help: "Imports currently holding a limiter slot",
		},
	)
)
