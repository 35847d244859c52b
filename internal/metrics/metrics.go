// Package metrics chứa các Prometheus collector của service
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "addr"

var (
	// ===== Parser =====
	ParseTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "parser",
			Name:      "parse_total",
			Help:      "Addresses parsed by result.",
		},
		[]string{"result"}, // matched|partial|unmatched|error
	)

	ParseSeconds = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "parser",
			Name:      "parse_seconds",
			Help:      "Latency of one parse including lookups.",
			Buckets:   []float64{0.0005, 0.001, 0.002, 0.005, 0.01, 0.02, 0.05, 0.1, 0.2, 0.5, 1},
		},
	)

	LevelsResolved = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "parser",
			Name:      "levels_resolved_total",
			Help:      "Administrative levels present in parse results.",
		},
		[]string{"level"},
	)

	// ===== Cache =====
	LookupCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "gazetteer",
			Name:      "lookup_cache_total",
			Help:      "Memoized gazetteer lookups by result.",
		},
		[]string{"op", "result"}, // prefix|code, hit|miss
	)

	ResultCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "result_cache_total",
			Help:      "Parse result cache lookups by result.",
		},
		[]string{"result"}, // hit|miss|error
	)

	GazetteerUnits = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "gazetteer",
			Name:      "units",
			Help:      "Administrative units loaded per level.",
		},
		[]string{"level"},
	)

	// ===== Batch jobs =====
	BatchJobsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "batch",
			Name:      "jobs_total",
			Help:      "Batch jobs by final status.",
		},
		[]string{"status"}, // completed|failed
	)

	BatchInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "batch",
			Name:      "jobs_in_flight",
			Help:      "Batch jobs currently processing.",
		},
	)

	// ===== HTTP =====
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by route and status.",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_seconds",
			Help:      "HTTP request latency.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)
)

var regOnce sync.Once

// MustRegisterAll đăng ký tất cả collector đúng một lần
func MustRegisterAll() {
	regOnce.Do(func() {
		prometheus.MustRegister(
			ParseTotal,
			ParseSeconds,
			LevelsResolved,
			LookupCacheTotal,
			ResultCacheTotal,
			GazetteerUnits,
			BatchJobsTotal,
			BatchInFlight,
			HTTPRequestsTotal,
			HTTPRequestSeconds,
		)
	})
}
