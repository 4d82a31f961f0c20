// Package metrics exposes the Prometheus counters named in the spec's
// §12.3 observability expansion: job throughput by outcome, drift-detector
// activity, and LLM provider call/retry counts. Registration happens once
// per process via NewRegistry, which registers every counter in every
// tier; a tier only increments the counters it produces.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry bundles every counter any tier may increment. Binaries that
// never reach a given code path simply never call the corresponding
// method, leaving it at zero.
type Registry struct {
	JobsClaimed       prometheus.Counter
	JobsSucceeded     prometheus.Counter
	JobsGenFailed     prometheus.Counter
	JobsHTMLFailed    prometheus.Counter
	JobsDownloadFailed prometheus.Counter

	DriftTicksRun        prometheus.Counter
	DriftUpdatesSubmitted prometheus.Counter
	DriftCacheHits       prometheus.Counter

	LLMCalls   prometheus.Counter
	LLMRetries prometheus.Counter

	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
}

// NewRegistry constructs and registers every counter against reg.
func NewRegistry(reg prometheus.Registerer) *Registry {
	factory := promauto.With(reg)
	return &Registry{
		JobsClaimed: factory.NewCounter(prometheus.CounterOpts{
			Name: "llmstxt_jobs_claimed_total",
			Help: "Jobs claimed by the worker tier.",
		}),
		JobsSucceeded: factory.NewCounter(prometheus.CounterOpts{
			Name: "llmstxt_jobs_completed_total",
			Help: "Jobs completed by the worker tier, by outcome.",
			ConstLabels: prometheus.Labels{"outcome": "success"},
		}),
		JobsGenFailed: factory.NewCounter(prometheus.CounterOpts{
			Name: "llmstxt_jobs_completed_total",
			Help: "Jobs completed by the worker tier, by outcome.",
			ConstLabels: prometheus.Labels{"outcome": "generation_failed"},
		}),
		JobsHTMLFailed: factory.NewCounter(prometheus.CounterOpts{
			Name: "llmstxt_jobs_completed_total",
			Help: "Jobs completed by the worker tier, by outcome.",
			ConstLabels: prometheus.Labels{"outcome": "html_processing_failed"},
		}),
		JobsDownloadFailed: factory.NewCounter(prometheus.CounterOpts{
			Name: "llmstxt_jobs_completed_total",
			Help: "Jobs completed by the worker tier, by outcome.",
			ConstLabels: prometheus.Labels{"outcome": "download_failed"},
		}),
		DriftTicksRun: factory.NewCounter(prometheus.CounterOpts{
			Name: "llmstxt_drift_ticks_total",
			Help: "Cron drift-detector ticks run.",
		}),
		DriftUpdatesSubmitted: factory.NewCounter(prometheus.CounterOpts{
			Name: "llmstxt_drift_updates_submitted_total",
			Help: "Update jobs submitted by the drift detector.",
		}),
		DriftCacheHits: factory.NewCounter(prometheus.CounterOpts{
			Name: "llmstxt_drift_cache_hits_total",
			Help: "URLs skipped by the drift detector due to a cache hit.",
		}),
		LLMCalls: factory.NewCounter(prometheus.CounterOpts{
			Name: "llmstxt_llm_provider_calls_total",
			Help: "LLM provider calls made by the artifact pipeline.",
		}),
		LLMRetries: factory.NewCounter(prometheus.CounterOpts{
			Name: "llmstxt_llm_provider_retries_total",
			Help: "LLM provider retries made by the artifact pipeline.",
		}),
		HTTPRequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "llmstxt_http_requests_total",
			Help: "HTTP requests handled by the API tier, by method, route, and status.",
		}, []string{"method", "route", "status"}),
		HTTPRequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "llmstxt_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds, by method and route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
}

// Handler returns the Prometheus exposition-format HTTP handler for the
// given registry.
func Handler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}
