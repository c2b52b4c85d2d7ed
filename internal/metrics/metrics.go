// Package metrics exposes Prometheus collectors for the aggregation service.
package metrics

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Cache lookup outcomes.
const (
	CacheHit  = "hit"
	CacheMiss = "miss"
)

// Upstream names used as label values.
const (
	UpstreamDetails = "details_api"
	UpstreamCatalog = "catalog_api"
	UpstreamPage    = "item_page"
)

var (
	httpRequestsTotal          *prometheus.CounterVec
	httpRequestDurationSeconds *prometheus.HistogramVec
	upstreamRequestsTotal      *prometheus.CounterVec
	upstreamDurationSeconds    *prometheus.HistogramVec
	cacheLookupsTotal          *prometheus.CounterVec
	cacheStoreErrorsTotal      *prometheus.CounterVec
	extractionsTotal           *prometheus.CounterVec

	once sync.Once
)

// Init registers the collectors with the default registry.
// It is safe to call this function multiple times.
func Init() {
	once.Do(func() {
		httpRequestsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests, labeled by method and code.",
			},
			[]string{"method", "code"},
		)

		httpRequestDurationSeconds = promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "Histogram of HTTP request latencies, labeled by method and route.",
				Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5},
			},
			[]string{"method", "route"},
		)

		upstreamRequestsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "workshop_upstream_requests_total",
				Help: "Total number of upstream calls, labeled by upstream and outcome.",
			},
			[]string{"upstream", "outcome"},
		)

		upstreamDurationSeconds = promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "workshop_upstream_request_duration_seconds",
				Help:    "Histogram of upstream call latencies, labeled by upstream.",
				Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 5, 10},
			},
			[]string{"upstream"},
		)

		cacheLookupsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "workshop_cache_lookups_total",
				Help: "Total number of response cache lookups, labeled by route and outcome.",
			},
			[]string{"route", "outcome"},
		)

		cacheStoreErrorsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "workshop_cache_store_errors_total",
				Help: "Total number of failed background cache writes, labeled by route.",
			},
			[]string{"route"},
		)

		extractionsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "workshop_extractions_total",
				Help: "Total number of HTML extractions, labeled by signal and winning strategy.",
			},
			[]string{"signal", "strategy"},
		)
	})
}

// Handler returns an http.Handler for exposing Prometheus metrics.
func Handler() http.Handler {
	return promhttp.Handler()
}

// ObserveHTTPRequest increments the HTTP request metrics.
func ObserveHTTPRequest(method, route string, code int, duration time.Duration) {
	Init()
	httpRequestsTotal.WithLabelValues(method, strconv.Itoa(code)).Inc()
	httpRequestDurationSeconds.WithLabelValues(method, route).Observe(duration.Seconds())
}

// ObserveUpstream records one upstream call.
func ObserveUpstream(upstream, outcome string, duration time.Duration) {
	Init()
	upstreamRequestsTotal.WithLabelValues(upstream, outcome).Inc()
	upstreamDurationSeconds.WithLabelValues(upstream).Observe(duration.Seconds())
}

// ObserveCacheLookup records a cache hit or miss for a route.
func ObserveCacheLookup(route, outcome string) {
	Init()
	cacheLookupsTotal.WithLabelValues(route, outcome).Inc()
}

// ObserveCacheStoreError records a failed background cache write.
func ObserveCacheStoreError(route string) {
	Init()
	cacheStoreErrorsTotal.WithLabelValues(route).Inc()
}

// ObserveExtraction records which strategy produced a signal.
func ObserveExtraction(signal, strategy string) {
	Init()
	extractionsTotal.WithLabelValues(signal, strategy).Inc()
}
