package narrator

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	narratorRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gamemaster_narrator_requests_total",
			Help: "Total number of requests to the narrator backend.",
		},
		[]string{"model", "status"},
	)
	narratorRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "gamemaster_narrator_request_duration_seconds",
			Help:    "Histogram of narrator backend request durations.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"model"},
	)
	narratorPromptTokens = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "gamemaster_narrator_prompt_tokens",
			Help:    "Histogram of prompt token counts.",
			Buckets: prometheus.LinearBuckets(250, 250, 12),
		},
		[]string{"model"},
	)
	narratorCompletionTokens = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "gamemaster_narrator_completion_tokens",
			Help:    "Histogram of completion token counts.",
			Buckets: prometheus.LinearBuckets(100, 100, 12),
		},
		[]string{"model"},
	)
)

func observeRequest(model, status string) {
	narratorRequestsTotal.With(prometheus.Labels{"model": model, "status": status}).Inc()
}

func observeDuration(model string, d time.Duration) {
	narratorRequestDuration.With(prometheus.Labels{"model": model}).Observe(d.Seconds())
}

func observeTokens(model string, promptTokens, completionTokens int) {
	if promptTokens <= 0 && completionTokens <= 0 {
		return
	}
	narratorPromptTokens.With(prometheus.Labels{"model": model}).Observe(float64(promptTokens))
	narratorCompletionTokens.With(prometheus.Labels{"model": model}).Observe(float64(completionTokens))
}
