// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ScoringRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scoring_requests_total",
			Help: "Total number of scoring requests by provenance",
		},
		[]string{"provenance"},
	)

	ScoringFallbacks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scoring_fallback_total",
			Help: "Total number of requests answered by the rule-based fallback",
		},
		[]string{"reason"},
	)

	ScoringDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name: "scoring_request_duration_seconds",
			Help: "Duration of score computation in seconds",
		},
	)

	PipelineRowsDropped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pipeline_rows_dropped_total",
			Help: "Rows dropped by the data cleaning stage",
		},
		[]string{"reason"},
	)

	TrainingRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "training_runs_total",
			Help: "Training pipeline runs by outcome",
		},
		[]string{"status"},
	)
)
