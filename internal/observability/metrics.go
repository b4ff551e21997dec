package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	TasksEnqueued = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pipeline_tasks_enqueued_total",
		Help: "The total number of tasks accepted into the queue",
	}, []string{"kind"})

	TasksProcessed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pipeline_tasks_processed_total",
		Help: "The total number of processed tasks",
	}, []string{"kind", "outcome"}) // outcome: completed, retried, failed

	FallbackDrafts = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pipeline_fallback_drafts_total",
		Help: "The total number of fallback drafts substituted for failed agents",
	})

	StageDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "pipeline_stage_duration_seconds",
		Help:    "Duration of pipeline stages.",
		Buckets: prometheus.ExponentialBuckets(0.05, 2, 12),
	}, []string{"stage"}) // stage: enrich, generate, persist
)
