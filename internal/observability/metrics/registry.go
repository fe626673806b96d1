// Package metrics provides centralized Prometheus metrics for the pipeline.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Pipeline metrics track the daily run and its stages.
var (
	// RunsTotal counts pipeline runs by outcome ("success" or "failure").
	RunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pipeline_runs_total",
			Help: "Total number of pipeline runs by outcome",
		},
		[]string{"outcome"},
	)

	// RunDuration measures full pipeline run duration in seconds.
	RunDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "pipeline_run_duration_seconds",
			Help:    "Pipeline run duration in seconds",
			Buckets: prometheus.ExponentialBuckets(1, 2, 12),
		},
	)

	// PapersFetchedTotal counts papers fetched per category.
	PapersFetchedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "papers_fetched_total",
			Help: "Total number of papers fetched per arXiv category",
		},
		[]string{"category"},
	)

	// PapersFilteredTotal counts papers surviving the keyword filter.
	PapersFilteredTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "papers_filtered_total",
			Help: "Total number of papers passing the keyword filter",
		},
	)

	// PapersAnnotatedTotal counts annotation attempts by status
	// ("success" or "failure").
	PapersAnnotatedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "papers_annotated_total",
			Help: "Total number of paper annotation attempts by status",
		},
		[]string{"status"},
	)

	// PapersFeaturedTotal counts papers the AI marked as featured.
	PapersFeaturedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "papers_featured_total",
			Help: "Total number of papers marked as featured",
		},
	)

	// AnnotationDuration measures a single annotation API call in seconds.
	AnnotationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "annotation_duration_seconds",
			Help:    "AI annotation call duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	// FetchErrors counts fetch failures by category and error type.
	FetchErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fetch_errors_total",
			Help: "Total number of arXiv fetch errors",
		},
		[]string{"category", "error_type"},
	)

	// ArchiveWritesTotal counts archive writes by artifact kind.
	ArchiveWritesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "archive_writes_total",
			Help: "Total number of archived artifacts by kind",
		},
		[]string{"kind"},
	)
)
