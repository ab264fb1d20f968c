// internal/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RatingsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "faculty_ratings_total",
			Help: "Total number of submitted faculty ratings",
		},
		[]string{"department"},
	)

	FacultyCreatedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "faculty_created_total",
			Help: "Total number of faculty rows added",
		},
	)

	InternalMarksHistogram = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "rating_internal_marks_midpoint",
			Help:    "Distribution of submitted internal-marks range midpoints",
			Buckets: prometheus.LinearBuckets(50, 5, 11),
		},
		[]string{"department"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"path", "method", "status"},
	)
)
