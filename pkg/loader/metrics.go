package loader

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// loaderBatchesTotal tracks dispatched batch windows per loader
	loaderBatchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "loader_batches_total",
			Help: "Total number of dispatched batch windows",
		},
		[]string{"loader"}, // "item", "user"
	)

	// loaderBatchSize tracks distinct keys per dispatched batch
	loaderBatchSize = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "loader_batch_size",
			Help:    "Distinct keys per dispatched batch window",
			Buckets: []float64{1, 2, 5, 10, 25, 50, 100, 250},
		},
		[]string{"loader"},
	)

	// loaderKeysTotal tracks resolved keys by outcome
	loaderKeysTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "loader_keys_total",
			Help: "Total number of loaded keys by result",
		},
		[]string{"loader", "result"}, // result: "hit", "miss"
	)

	// loaderDispatchDuration tracks fetch duration per batch
	loaderDispatchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "loader_dispatch_duration_seconds",
			Help:    "Batch fetch duration in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
		},
		[]string{"loader"},
	)
)
