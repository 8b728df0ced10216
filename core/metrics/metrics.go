package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Sync pass metrics, labelled by source where it makes sense.
var (
	// EventsProcessed counts upsert outcomes per source.
	// outcome is one of: created, updated, skipped, failed.
	EventsProcessed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "eventsync_events_processed_total",
		Help: "Upsert outcomes per source and outcome.",
	}, []string{"source", "outcome"})

	// FetchPages counts upstream pages fetched per source.
	FetchPages = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "eventsync_fetch_pages_total",
		Help: "Upstream API pages fetched per source.",
	}, []string{"source"})

	// FetchFailures counts whole-fetch failures per source.
	FetchFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "eventsync_fetch_failures_total",
		Help: "Failed upstream fetches per source.",
	}, []string{"source"})

	// ImageFailures counts best-effort image downloads that failed.
	ImageFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "eventsync_image_failures_total",
		Help: "Event image downloads that failed (non-fatal).",
	}, []string{"source"})

	// Unpublished counts events hidden by visibility enforcement.
	Unpublished = promauto.NewCounter(prometheus.CounterOpts{
		Name: "eventsync_enforcement_unpublished_total",
		Help: "Events unpublished because they lack a source tag.",
	})

	// PassDuration observes full sync pass durations per source.
	PassDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "eventsync_pass_duration_seconds",
		Help:    "Duration of full sync passes per source.",
		Buckets: prometheus.ExponentialBuckets(0.5, 2, 10),
	}, []string{"source"})
)
