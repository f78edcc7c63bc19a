package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestsTotal counts HTTP requests by method, path, and status code.
	RequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "nvapp_requests_total",
		Help: "Total HTTP requests processed.",
	}, []string{"method", "path", "status"})

	// CompletionDuration tracks upstream completion latency per model.
	CompletionDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "nvapp_completion_duration_seconds",
		Help:    "Time spent waiting for the completion backend.",
		Buckets: []float64{0.5, 1, 2, 5, 10, 20, 30, 60, 120},
	}, []string{"model"})

	// CompletionFailures counts completion calls that returned an error.
	CompletionFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "nvapp_completion_failures_total",
		Help: "Completion calls that failed, by model.",
	}, []string{"model"})

	// PromptsTotal counts generated prompts by platform and task.
	PromptsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "nvapp_prompts_total",
		Help: "Prompts built, by platform and task.",
	}, []string{"platform", "task"})

	// PromptChars tracks the distribution of generated prompt lengths.
	PromptChars = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "nvapp_prompt_chars",
		Help:    "Number of characters in generated prompts.",
		Buckets: []float64{50, 100, 200, 300, 500, 1000},
	})

	// BackendAvailable tracks whether each completion backend is reachable.
	BackendAvailable = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "nvapp_backend_available",
		Help: "Whether a completion backend is available (1) or not (0).",
	}, []string{"backend"})
)
