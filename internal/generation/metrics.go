package generation

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	aiRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fable_ai_requests_total",
			Help: "Total number of requests to the AI API.",
		},
		[]string{"model", "status"},
	)
	aiRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "fable_ai_request_duration_seconds",
			Help:    "Histogram of AI API request durations.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"model"},
	)
	aiPromptTokens = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "fable_ai_prompt_tokens",
			Help:    "Histogram of prompt token counts.",
			Buckets: prometheus.LinearBuckets(250, 250, 20),
		},
		[]string{"model"},
	)
	aiCompletionTokens = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "fable_ai_completion_tokens",
			Help:    "Histogram of completion token counts.",
			Buckets: prometheus.LinearBuckets(100, 100, 20),
		},
		[]string{"model"},
	)

	generationAttemptsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fable_generation_attempts_total",
			Help: "Total generation attempts, partitioned by outcome.",
		},
		[]string{"outcome"}, // accepted, below_threshold, errored
	)
	generationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fable_generations_total",
			Help: "Total story generations, partitioned by result.",
		},
		[]string{"result"}, // completed, failed
	)
	attemptQualityScore = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "fable_attempt_quality_score",
			Help:    "Quality scores assigned to generation attempts.",
			Buckets: prometheus.LinearBuckets(1, 1, 10),
		},
	)
)
