// Package metrics expone contadores Prometheus del servicio.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "story_gen"

// Resultados de un intento de generación.
const (
	OutcomeSuccess            = "success"
	OutcomeValidationError    = "validation_error"
	OutcomeConfigurationError = "configuration_error"
	OutcomeInsufficientQuota  = "insufficient_quota"
	OutcomeInvalidAPIKey      = "invalid_api_key"
	OutcomeProviderError      = "provider_error"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	StorySubmissionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "story",
			Name:      "submissions_total",
			Help:      "Story submissions by outcome",
		},
		[]string{"outcome"},
	)

	StoryGenerationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "story",
			Name:      "generation_duration_seconds",
			Help:      "Completion provider call duration in seconds",
			Buckets:   []float64{.5, 1, 2.5, 5, 10, 20, 30, 60, 120},
		},
		[]string{"outcome"},
	)
)

// RecordSubmission cuenta un intento que no llegó al proveedor.
func RecordSubmission(outcome string) {
	StorySubmissionsTotal.WithLabelValues(outcome).Inc()
}

// RecordGeneration cuenta un intento que llamó al proveedor.
func RecordGeneration(outcome string, elapsed time.Duration) {
	StorySubmissionsTotal.WithLabelValues(outcome).Inc()
	StoryGenerationDuration.WithLabelValues(outcome).Observe(elapsed.Seconds())
}
