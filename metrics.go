package saluran

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MetricsCollector provides Prometheus metrics for the pipeline's request
// lifecycle and reliability layers. It is safe for concurrent use.
type MetricsCollector struct {
	requestsTotal    *prometheus.CounterVec
	requestDuration  *prometheus.HistogramVec
	requestsInFlight *prometheus.GaugeVec

	retriesTotal *prometheus.CounterVec

	cacheHits   *prometheus.CounterVec
	cacheMisses *prometheus.CounterVec
	cacheSize   *prometheus.GaugeVec

	rateLimiterRemaining *prometheus.GaugeVec

	circuitBreakerState *prometheus.GaugeVec

	coalescedTotal *prometheus.CounterVec

	errorsTotal *prometheus.CounterVec
}

// NewMetricsCollector creates a collector on the default registerer.
func NewMetricsCollector() *MetricsCollector {
	return NewMetricsCollectorWithRegistry(prometheus.DefaultRegisterer)
}

// NewMetricsCollectorWithRegistry creates a collector using the supplied registerer.
func NewMetricsCollectorWithRegistry(registry prometheus.Registerer) *MetricsCollector {
	return &MetricsCollector{
		requestsTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "saluran_requests_total",
				Help: "Total number of orchestrated calls",
			},
			[]string{"kind", "status_code", "target"},
		),
		requestDuration: promauto.With(registry).NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "saluran_request_duration_seconds",
				Help:    "Duration of orchestrated calls in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"kind", "status_code", "target"},
		),
		requestsInFlight: promauto.With(registry).NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "saluran_requests_in_flight",
				Help: "Number of calls currently in flight",
			},
			[]string{"kind", "target"},
		),
		retriesTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "saluran_retries_total",
				Help: "Total number of retry attempts",
			},
			[]string{"kind", "target", "attempt"},
		),
		cacheHits: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "saluran_cache_hits_total",
				Help: "Total number of cache hits",
			},
			[]string{"kind", "target"},
		),
		cacheMisses: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "saluran_cache_misses_total",
				Help: "Total number of cache misses",
			},
			[]string{"kind", "target"},
		),
		cacheSize: promauto.With(registry).NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "saluran_cache_size",
				Help: "Current number of entries in the cache",
			},
			[]string{"name"},
		),
		rateLimiterRemaining: promauto.With(registry).NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "saluran_rate_limiter_remaining",
				Help: "Admissions remaining in the current rate limit window",
			},
			[]string{"name"},
		),
		circuitBreakerState: promauto.With(registry).NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "saluran_circuit_breaker_state",
				Help: "Current circuit breaker state (0=closed, 1=open, 2=half-open)",
			},
			[]string{"name"},
		),
		coalescedTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "saluran_coalesced_total",
				Help: "Total number of calls coalesced onto an in-flight duplicate",
			},
			[]string{"kind", "target"},
		),
		errorsTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "saluran_errors_total",
				Help: "Total number of errors by kind",
			},
			[]string{"error_kind", "kind", "target"},
		),
	}
}

// RecordRequest records request count and duration.
func (mc *MetricsCollector) RecordRequest(kind, target string, statusCode int, duration time.Duration) {
	if mc == nil {
		return
	}
	status := strconv.Itoa(statusCode)
	mc.requestsTotal.WithLabelValues(kind, status, target).Inc()
	mc.requestDuration.WithLabelValues(kind, status, target).Observe(duration.Seconds())
}

// RecordRequestStart increments the in-flight gauge.
func (mc *MetricsCollector) RecordRequestStart(kind, target string) {
	if mc == nil {
		return
	}
	mc.requestsInFlight.WithLabelValues(kind, target).Inc()
}

// RecordRequestEnd decrements the in-flight gauge.
func (mc *MetricsCollector) RecordRequestEnd(kind, target string) {
	if mc == nil {
		return
	}
	mc.requestsInFlight.WithLabelValues(kind, target).Dec()
}

// RecordRetry increments the retry counter for an attempt.
func (mc *MetricsCollector) RecordRetry(kind, target string, attempt int) {
	if mc == nil {
		return
	}
	mc.retriesTotal.WithLabelValues(kind, target, strconv.Itoa(attempt)).Inc()
}

// RecordCacheHit increments the cache hit counter.
func (mc *MetricsCollector) RecordCacheHit(kind, target string) {
	if mc == nil {
		return
	}
	mc.cacheHits.WithLabelValues(kind, target).Inc()
}

// RecordCacheMiss increments the cache miss counter.
func (mc *MetricsCollector) RecordCacheMiss(kind, target string) {
	if mc == nil {
		return
	}
	mc.cacheMisses.WithLabelValues(kind, target).Inc()
}

// RecordCacheSize sets the cache size gauge.
func (mc *MetricsCollector) RecordCacheSize(name string, size int) {
	if mc == nil {
		return
	}
	mc.cacheSize.WithLabelValues(name).Set(float64(size))
}

// RecordRateLimiterRemaining sets the remaining-admissions gauge.
func (mc *MetricsCollector) RecordRateLimiterRemaining(name string, remaining int) {
	if mc == nil {
		return
	}
	mc.rateLimiterRemaining.WithLabelValues(name).Set(float64(remaining))
}

// RecordCircuitBreakerState sets the breaker state gauge.
func (mc *MetricsCollector) RecordCircuitBreakerState(name string, state CircuitState) {
	if mc == nil {
		return
	}
	mc.circuitBreakerState.WithLabelValues(name).Set(float64(state))
}

// RecordCoalesced increments the coalesced-call counter.
func (mc *MetricsCollector) RecordCoalesced(kind, target string) {
	if mc == nil {
		return
	}
	mc.coalescedTotal.WithLabelValues(kind, target).Inc()
}

// RecordError increments the error counter by kind.
func (mc *MetricsCollector) RecordError(errorKind, kind, target string) {
	if mc == nil {
		return
	}
	mc.errorsTotal.WithLabelValues(errorKind, kind, target).Inc()
}

// PrometheusRecorder adapts a MetricsCollector to the narrow Recorder
// interface consumed by the Metrics middleware.
type PrometheusRecorder struct {
	successTotal *prometheus.CounterVec
	latency      prometheus.Histogram
}

// NewPrometheusRecorder creates a Recorder registering on the given registerer.
func NewPrometheusRecorder(registry prometheus.Registerer) *PrometheusRecorder {
	return &PrometheusRecorder{
		successTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "saluran_middleware_requests_total",
				Help: "Calls observed by the metrics middleware",
			},
			[]string{"outcome", "error_kind"},
		),
		latency: promauto.With(registry).NewHistogram(
			prometheus.HistogramOpts{
				Name:    "saluran_middleware_request_latency_seconds",
				Help:    "Latency observed by the metrics middleware",
				Buckets: prometheus.DefBuckets,
			},
		),
	}
}

// RecordRequest implements Recorder.
func (r *PrometheusRecorder) RecordRequest(success bool, latency time.Duration, errorKind string) {
	outcome := "success"
	if !success {
		outcome = "failure"
	}
	r.successTotal.WithLabelValues(outcome, errorKind).Inc()
	r.latency.Observe(latency.Seconds())
}
