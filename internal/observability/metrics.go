package observability

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics is the prometheus-backed Observer. Each instance owns its
// registry so tests and processes never fight over global collectors.
type Metrics struct {
	registry *prometheus.Registry

	// Cache hit/miss per city. Hit rate = hits/(hits+misses).
	cacheLookupsTotal *prometheus.CounterVec

	// Upstream call rate and outcome. Watch for: error vs success ratio.
	providerCallsTotal *prometheus.CounterVec

	// Upstream latency. Watch for: p95 > 2s (provider degradation).
	providerCallDuration *prometheus.HistogramVec

	// Population messages that could not be enqueued; the cache simply
	// stays cold for those lookups.
	publishFailuresTotal prometheus.Counter

	// Worker cache writes by outcome; failures become redeliveries.
	cacheWritesTotal *prometheus.CounterVec
}

// NewMetrics creates and registers the lookup metrics.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()

	registry.MustRegister(
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		collectors.NewGoCollector(),
	)

	m := &Metrics{
		registry: registry,
		cacheLookupsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "weather_cache_lookups_total",
				Help: "Total cache lookups by result",
			},
			[]string{"result", "city"},
		),
		providerCallsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "weather_provider_calls_total",
				Help: "Total upstream provider calls by outcome",
			},
			[]string{"outcome"},
		),
		providerCallDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "weather_provider_call_duration_seconds",
				Help:    "Upstream provider call latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"outcome"},
		),
		publishFailuresTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "weather_publish_failures_total",
				Help: "Cache-population messages that failed to publish",
			},
		),
		cacheWritesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "weather_cache_writes_total",
				Help: "Worker cache writes by outcome",
			},
			[]string{"outcome"},
		),
	}

	registry.MustRegister(
		m.cacheLookupsTotal,
		m.providerCallsTotal,
		m.providerCallDuration,
		m.publishFailuresTotal,
		m.cacheWritesTotal,
	)

	return m
}

// CacheHit records a lookup served from the cache
func (m *Metrics) CacheHit(city string) {
	m.cacheLookupsTotal.WithLabelValues("hit", city).Inc()
}

// CacheMiss records a lookup that fell through to the provider
func (m *Metrics) CacheMiss(city string) {
	m.cacheLookupsTotal.WithLabelValues("miss", city).Inc()
}

// ProviderCall records one upstream call with its outcome and latency
func (m *Metrics) ProviderCall(outcome string, elapsed time.Duration) {
	m.providerCallsTotal.WithLabelValues(outcome).Inc()
	m.providerCallDuration.WithLabelValues(outcome).Observe(elapsed.Seconds())
}

// PublishFailure records a cache-population message that could not be enqueued
func (m *Metrics) PublishFailure() {
	m.publishFailuresTotal.Inc()
}

// CacheWrite records one worker write attempt with its outcome
func (m *Metrics) CacheWrite(outcome string) {
	m.cacheWritesTotal.WithLabelValues(outcome).Inc()
}

// Handler exposes the registry in the prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
