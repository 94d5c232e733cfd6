// Package metrics exposes prometheus collectors shared by the services.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics bundles the collectors for one service process.
type Metrics struct {
	registry *prometheus.Registry

	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec
	inFlight     prometheus.Gauge
	cacheHits    prometheus.Counter
	cacheMisses  prometheus.Counter
	aiFailures   prometheus.Counter
	identityMiss prometheus.Counter
}

// New registers and returns the collectors.
func New() *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "HTTP requests by service, method, path and status.",
		}, []string{"service", "method", "path", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency.",
			Buckets: prometheus.DefBuckets,
		}, []string{"service", "method", "path"}),
		inFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "http_requests_in_flight",
			Help: "In-flight HTTP requests.",
		}),
		cacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "meal_cache_hits_total",
			Help: "Meal enrichment cache hits.",
		}),
		cacheMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "meal_cache_misses_total",
			Help: "Meal enrichment cache misses.",
		}),
		aiFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "nutrition_ai_failures_total",
			Help: "AI nutrition calls absorbed by the local estimator.",
		}),
		identityMiss: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "identity_resolution_failures_total",
			Help: "Coach email lookups resolved with the placeholder.",
		}),
	}

	registry.MustRegister(
		m.httpRequests,
		m.httpDuration,
		m.inFlight,
		m.cacheHits,
		m.cacheMisses,
		m.aiFailures,
		m.identityMiss,
	)

	return m
}

// RecordHTTPRequest records one completed request.
func (m *Metrics) RecordHTTPRequest(service, method, path, status string, duration time.Duration) {
	m.httpRequests.WithLabelValues(service, method, path, status).Inc()
	m.httpDuration.WithLabelValues(service, method, path).Observe(duration.Seconds())
}

// IncrementInFlight marks a request as started.
func (m *Metrics) IncrementInFlight() { m.inFlight.Inc() }

// DecrementInFlight marks a request as finished.
func (m *Metrics) DecrementInFlight() { m.inFlight.Dec() }

// RecordCacheHit counts an estimator cache hit.
func (m *Metrics) RecordCacheHit() { m.cacheHits.Inc() }

// RecordCacheMiss counts an estimator cache miss.
func (m *Metrics) RecordCacheMiss() { m.cacheMisses.Inc() }

// RecordAIFailure counts a degraded AI resolution.
func (m *Metrics) RecordAIFailure() { m.aiFailures.Inc() }

// RecordIdentityFallback counts a placeholder email resolution.
func (m *Metrics) RecordIdentityFallback() { m.identityMiss.Inc() }

// Handler serves the registry for scraping.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
