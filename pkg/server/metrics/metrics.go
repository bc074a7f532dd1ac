package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	BuildInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "orderlake_build_info",
			Help: "Build information of the orderlake server",
		},
		[]string{"version", "commit", "date"},
	)

	SummaryRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "orderlake_summary_requests_total",
			Help: "Number of summary recomputations served, by outcome",
		},
		[]string{"status"},
	)

	SummaryDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "orderlake_summary_duration_seconds",
			Help:    "Time spent filtering and recomputing the derived tables",
			Buckets: prometheus.DefBuckets,
		},
	)
)
