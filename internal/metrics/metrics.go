// Package metrics holds the prometheus collectors of the quiz pipeline.
package metrics

import (
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RequestCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: []float64{0.1, 0.5, 1, 2, 5, 15, 60},
		},
		[]string{"method", "endpoint"},
	)

	ImagesProcessed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quiz_images_processed_total",
			Help: "Images run through text extraction, by kind and outcome",
		},
		[]string{"kind", "outcome"},
	)

	SynthesisOutcomes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quiz_synthesis_total",
			Help: "Quiz synthesis results by outcome (ok, repaired, fallback)",
		},
		[]string{"outcome"},
	)

	AttemptsScored = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quiz_attempts_scored_total",
			Help: "Scored quiz attempts by quiz type",
		},
		[]string{"type"},
	)

	DailyTasksGenerated = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "daily_tasks_generated_total",
			Help: "Automated daily task generation results by subject and outcome",
		},
		[]string{"subject", "outcome"},
	)
)

var registerOnce sync.Once

// Init registers every collector with the default registry. Safe to call more than once.
func Init() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			RequestCounter,
			RequestDuration,
			ImagesProcessed,
			SynthesisOutcomes,
			AttemptsScored,
			DailyTasksGenerated,
		)
	})
}

// Handler exposes the default registry in the prometheus text format.
func Handler() gin.HandlerFunc {
	h := promhttp.Handler()
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}
