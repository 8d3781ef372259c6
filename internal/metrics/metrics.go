package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RequestCount = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "guata_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "guata_http_request_duration_seconds",
			Help: "HTTP request duration in seconds",
		},
		[]string{"method", "endpoint"},
	)

	PipelineAnswers = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "guata_pipeline_answers_total",
			Help: "Answers produced, by pipeline path",
		},
		[]string{"path"},
	)

	PipelineLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "guata_pipeline_latency_seconds",
			Help:    "End-to-end message processing latency in seconds",
			Buckets: []float64{.001, .005, .025, .1, .5, 1, 2.5, 5, 10, 20},
		},
		[]string{"path"},
	)

	CacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "guata_cache_lookups_total",
			Help: "Similarity cache lookups, by result",
		},
		[]string{"result"},
	)

	CacheEntries = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "guata_cache_entries",
			Help: "Live entries in the similarity cache",
		},
	)

	CacheEvictions = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "guata_cache_evictions_total",
			Help: "Entries removed from the similarity cache",
		},
	)

	FetchDecisions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "guata_fetch_decisions_total",
			Help: "Fetch coordinator decisions, by outcome and gate",
		},
		[]string{"outcome", "gate"},
	)

	LearnedOverrides = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "guata_learned_overrides_total",
			Help: "Answers served from learned correction patterns",
		},
	)

	Corrections = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "guata_corrections_total",
			Help: "Corrections registered, by kind",
		},
		[]string{"kind"},
	)
)
