package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// comment-generation pipeline.
type Metrics struct {
	StageDuration *prometheus.HistogramVec // labels: stage
	StageErrors   *prometheus.CounterVec   // labels: stage, kind

	RetryCount       prometheus.Histogram
	EvaluationScore  prometheus.Histogram
	LLMFallbackTotal prometheus.Counter

	LLMRequestDuration *prometheus.HistogramVec // labels: provider
	LLMRequestErrors   *prometheus.CounterVec   // labels: provider

	CacheLookups *prometheus.CounterVec // labels: kind={read,previous_day,twelve_hours_ago}, result={hit,miss}
	CacheWrites  prometheus.Counter

	WorkerPoolActive prometheus.Gauge
	RunsTotal        *prometheus.CounterVec // labels: outcome={success,failure}
}

// NewMetrics creates and registers all pipeline metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		StageDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "comment_gen",
			Name:      "stage_duration_seconds",
			Help:      "Duration of each pipeline stage.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10, 30},
		}, []string{"stage"}),
		StageErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "comment_gen",
			Name:      "stage_errors_total",
			Help:      "Classified stage failures by stage and error kind.",
		}, []string{"stage", "kind"}),
		RetryCount: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "comment_gen",
			Name:      "retry_count",
			Help:      "Number of evaluator retries consumed before a run concluded.",
			Buckets:   []float64{0, 1, 2, 3, 4, 5},
		}),
		EvaluationScore: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "comment_gen",
			Name:      "evaluation_total_score",
			Help:      "Weighted total evaluator score of the accepted pair.",
			Buckets:   []float64{0, 0.2, 0.4, 0.5, 0.6, 0.7, 0.8, 0.9, 1},
		}),
		LLMFallbackTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "comment_gen",
			Name:      "llm_fallback_total",
			Help:      "Times the pair selector fell through to the deterministic fallback instead of the LLM's choice.",
		}),
		LLMRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "comment_gen",
			Name:      "llm_request_duration_seconds",
			Help:      "LLM provider call duration.",
			Buckets:   []float64{0.05, 0.1, 0.5, 1, 2.5, 5, 10, 30},
		}, []string{"provider"}),
		LLMRequestErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "comment_gen",
			Name:      "llm_request_errors_total",
			Help:      "LLM provider call failures.",
		}, []string{"provider"}),
		CacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "comment_gen",
			Name:      "forecast_cache_lookups_total",
			Help:      "Forecast cache reads by kind and hit/miss result.",
		}, []string{"kind", "result"}),
		CacheWrites: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "comment_gen",
			Name:      "forecast_cache_writes_total",
			Help:      "Forecast cache entries appended.",
		}),
		WorkerPoolActive: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "comment_gen",
			Name:      "worker_pool_active",
			Help:      "Number of locations currently being processed by the worker pool.",
		}),
		RunsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "comment_gen",
			Name:      "runs_total",
			Help:      "Completed pipeline runs by outcome.",
		}, []string{"outcome"}),
	}

	prometheus.MustRegister(
		m.StageDuration,
		m.StageErrors,
		m.RetryCount,
		m.EvaluationScore,
		m.LLMFallbackTotal,
		m.LLMRequestDuration,
		m.LLMRequestErrors,
		m.CacheLookups,
		m.CacheWrites,
		m.WorkerPoolActive,
		m.RunsTotal,
	)

	return m
}

// NewMetricsForTesting creates Metrics unregistered, so tests can construct
// as many instances as they like without tripping Prometheus's
// already-registered panic.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		StageDuration:      prometheus.NewHistogramVec(prometheus.HistogramOpts{Namespace: "comment_gen", Name: "stage_duration_seconds"}, []string{"stage"}),
		StageErrors:        prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "comment_gen", Name: "stage_errors_total"}, []string{"stage", "kind"}),
		RetryCount:         prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "comment_gen", Name: "retry_count"}),
		EvaluationScore:    prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "comment_gen", Name: "evaluation_total_score"}),
		LLMFallbackTotal:   prometheus.NewCounter(prometheus.CounterOpts{Namespace: "comment_gen", Name: "llm_fallback_total"}),
		LLMRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{Namespace: "comment_gen", Name: "llm_request_duration_seconds"}, []string{"provider"}),
		LLMRequestErrors:   prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "comment_gen", Name: "llm_request_errors_total"}, []string{"provider"}),
		CacheLookups:       prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "comment_gen", Name: "forecast_cache_lookups_total"}, []string{"kind", "result"}),
		CacheWrites:        prometheus.NewCounter(prometheus.CounterOpts{Namespace: "comment_gen", Name: "forecast_cache_writes_total"}),
		WorkerPoolActive:   prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "comment_gen", Name: "worker_pool_active"}),
		RunsTotal:          prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "comment_gen", Name: "runs_total"}, []string{"outcome"}),
	}
}
