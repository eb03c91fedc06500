package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	DesignsGenerated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "roomstage_designs_generated_total",
			Help: "Total number of layout generations completed",
		},
		[]string{"room_type", "style"},
	)

	DesignsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "roomstage_designs_failed_total",
			Help: "Total number of layout generations that failed terminally",
		},
		[]string{"stage"},
	)

	GenerationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "roomstage_generation_duration_seconds",
			Help: "Duration of end-to-end layout generation in seconds",
		},
		[]string{"room_type"},
	)

	LayoutCoverage = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "roomstage_layout_coverage",
			Help:    "Required-category coverage of generated layouts",
			Buckets: prometheus.LinearBuckets(0, 0.25, 5),
		},
	)
)
