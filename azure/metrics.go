package azure

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	armRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "azvnet",
		Subsystem: "arm",
		Name:      "requests_total",
		Help:      "Resource Manager requests by outcome.",
	}, []string{"outcome"})

	fetchDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "azvnet",
		Subsystem: "fetch",
		Name:      "duration_seconds",
		Help:      "Wall time of a full inventory fetch.",
		Buckets:   []float64{1, 5, 15, 30, 60, 120, 300, 600},
	})
)
