// Package metrics provides Prometheus metrics for the movie ratings lookup service.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	defaultRefreshInterval = 10 * time.Second
)

// Upstream latency buckets in milliseconds. Third-party APIs answer in tens to
// thousands of milliseconds, so the defaults (seconds) are a poor fit.
var upstreamBuckets = []float64{10, 25, 50, 100, 250, 500, 1000, 2500, 5000, 10000} //nolint:gochecknoglobals

// Manager manages all Prometheus metrics for the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	refreshInterval  time.Duration
	registry         prometheus.Registerer

	// Lookup outcomes
	searches          *prometheus.CounterVec
	detailsAssembled  *prometheus.CounterVec
	ratingsResolved   *prometheus.CounterVec
	ratingsUnresolved *prometheus.CounterVec
	trailerSelections *prometheus.CounterVec
	scrapeAttempts    *prometheus.CounterVec

	// Upstream providers
	upstreamRequests *prometheus.CounterVec
	upstreamLatency  *prometheus.HistogramVec
	upstreamRetries  *prometheus.CounterVec

	// Caches
	cacheHits    *prometheus.CounterVec
	cacheMisses  *prometheus.CounterVec
	cacheEntries *prometheus.GaugeVec

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	rateLimited         *prometheus.CounterVec

	// Prefetch queue
	queueSize          prometheus.Gauge
	queueCapacity      prometheus.Gauge
	queueUtilization   prometheus.Gauge
	queueEnqueueTotal  prometheus.Counter
	queueDequeueTotal  prometheus.Counter
	queueEnqueueErrors prometheus.Counter

	// Prefetch workers
	workerCount             prometheus.Gauge
	workerActiveCount       prometheus.Gauge
	workerProcessingLatency prometheus.Histogram
	workerErrors            prometheus.Counter

	// Errors
	errorRateByComponent *prometheus.CounterVec
	errorRateByType      *prometheus.CounterVec
	errorRateByEndpoint  *prometheus.CounterVec
	errorLatency         *prometheus.HistogramVec

	// System
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
}

var globalManager *Manager //nolint:gochecknoglobals // singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals

func init() { //nolint:gochecknoinits
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// Option applies a configuration option to the Manager.
type Option func(*Manager)

// WithPrometheusRegistry sets a custom Prometheus registry.
func WithPrometheusRegistry(registry prometheus.Registerer) Option {
	return func(m *Manager) {
		if registry != nil {
			m.registry = registry
		}
	}
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "movieratings",
		subsystem:        "lookup",
		histogramBuckets: prometheus.DefBuckets,
		refreshInterval:  defaultRefreshInterval,
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

func (m *Manager) counterVec(name, help string, labels ...string) *prometheus.CounterVec {
	return promauto.With(m.registry).NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      name,
		Help:      help,
	}, labels)
}

func (m *Manager) counter(name, help string) prometheus.Counter {
	return promauto.With(m.registry).NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      name,
		Help:      help,
	})
}

func (m *Manager) gauge(name, help string) prometheus.Gauge {
	return promauto.With(m.registry).NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      name,
		Help:      help,
	})
}

//nolint:funlen // one place for every metric family
func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.searches = m.counterVec("searches_total", "Catalog searches by outcome", "outcome")
	m.detailsAssembled = m.counterVec("details_total", "Detail lookups by outcome", "outcome")
	m.ratingsResolved = m.counterVec("ratings_resolved_total",
		"Rating fields filled, by the tier that filled them", "tier", "field")
	m.ratingsUnresolved = m.counterVec("ratings_unresolved_total",
		"Rating fields still empty after all tiers", "field")
	m.trailerSelections = m.counterVec("trailer_selections_total",
		"Trailer selections by outcome (video or search_fallback)", "outcome")
	m.scrapeAttempts = m.counterVec("scrape_attempts_total",
		"Title page scrape attempts by outcome and parse path", "outcome")

	m.upstreamRequests = m.counterVec("upstream_requests_total",
		"Requests to third-party providers", "provider", "operation", "outcome")
	m.upstreamLatency = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "upstream_latency_milliseconds",
		Help:      "Third-party request latency in milliseconds",
		Buckets:   upstreamBuckets,
	}, []string{"provider", "operation"})
	m.upstreamRetries = m.counterVec("upstream_retries_total",
		"Retried third-party requests", "provider")

	m.cacheHits = m.counterVec("cache_hits_total", "Cache hits", "cache")
	m.cacheMisses = m.counterVec("cache_misses_total", "Cache misses", "cache")
	m.cacheEntries = auto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "cache_entries",
		Help:      "Live cache entries",
	}, []string{"cache"})

	m.httpRequests = m.counterVec("http_requests_total",
		"Total number of HTTP requests by endpoint and method", "endpoint", "method", "status_code")
	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "http_request_duration_milliseconds",
		Help:      "HTTP request duration in milliseconds",
		Buckets:   upstreamBuckets,
	}, []string{"endpoint", "method", "status_code"})
	m.rateLimited = m.counterVec("rate_limited_total", "Requests rejected by the rate limiter", "route")

	m.queueSize = m.gauge("prefetch_queue_size", "Current size of the prefetch queue")
	m.queueCapacity = m.gauge("prefetch_queue_capacity", "Maximum prefetch queue capacity")
	m.queueUtilization = m.gauge("prefetch_queue_utilization_ratio", "Prefetch queue utilization (size / capacity)")
	m.queueEnqueueTotal = m.counter("prefetch_enqueue_total", "Prefetch jobs enqueued")
	m.queueDequeueTotal = m.counter("prefetch_dequeue_total", "Prefetch jobs dequeued")
	m.queueEnqueueErrors = m.counter("prefetch_enqueue_errors_total", "Prefetch jobs rejected by the queue")

	m.workerCount = m.gauge("prefetch_worker_count", "Configured prefetch workers")
	m.workerActiveCount = m.gauge("prefetch_worker_active_count", "Prefetch workers currently running")
	m.workerProcessingLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "prefetch_processing_latency_milliseconds",
		Help:      "Time spent warming one detail record",
		Buckets:   upstreamBuckets,
	})
	m.workerErrors = m.counter("prefetch_errors_total", "Prefetch jobs that failed")

	m.errorRateByComponent = m.counterVec("errors_by_component_total",
		"Total number of errors by component", "component", "error_type")
	m.errorRateByType = m.counterVec("errors_by_type_total",
		"Total number of errors by type", "error_type", "severity")
	m.errorRateByEndpoint = m.counterVec("errors_by_endpoint_total",
		"Total number of errors by endpoint", "endpoint", "method", "error_type")
	m.errorLatency = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "error_latency_milliseconds",
		Help:      "Latency of operations that resulted in errors",
		Buckets:   m.histogramBuckets,
	}, []string{"component", "error_type"})

	m.systemMemoryUsage = m.gauge("system_memory_usage_bytes", "System memory usage in bytes")
	m.systemGoroutineCount = m.gauge("system_goroutine_count", "Number of goroutines")
	m.systemGCPauseTime = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "system_gc_pause_time_milliseconds",
		Help:      "GC pause time in milliseconds",
		Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000},
	})
}

// Lookup outcome functions.

// RecordSearch counts a catalog search by outcome (ok, empty, cached, error).
func RecordSearch(outcome string) {
	globalManager.searches.WithLabelValues(outcome).Inc()
}

// RecordDetails counts a detail lookup by outcome (ok, cached, error).
func RecordDetails(outcome string) {
	globalManager.detailsAssembled.WithLabelValues(outcome).Inc()
}

// RecordRatingResolved counts a rating field filled by a tier.
func RecordRatingResolved(tier, field string) {
	globalManager.ratingsResolved.WithLabelValues(tier, field).Inc()
}

// RecordRatingUnresolved counts a rating field left empty after every tier.
func RecordRatingUnresolved(field string) {
	globalManager.ratingsUnresolved.WithLabelValues(field).Inc()
}

// RecordTrailerSelection counts a trailer selection outcome.
func RecordTrailerSelection(outcome string) {
	globalManager.trailerSelections.WithLabelValues(outcome).Inc()
}

// RecordScrapeAttempt counts a title page scrape by outcome (jsonld, regex, miss, error).
func RecordScrapeAttempt(outcome string) {
	globalManager.scrapeAttempts.WithLabelValues(outcome).Inc()
}

// Upstream functions.

// RecordUpstreamRequest counts one request to a provider and observes its latency.
func RecordUpstreamRequest(provider, operation, outcome string, latencyMs float64) {
	globalManager.upstreamRequests.WithLabelValues(provider, operation, outcome).Inc()
	globalManager.upstreamLatency.WithLabelValues(provider, operation).Observe(latencyMs)
}

// RecordUpstreamRetry counts a retried provider request.
func RecordUpstreamRetry(provider string) {
	globalManager.upstreamRetries.WithLabelValues(provider).Inc()
}

// Cache functions.

// RecordCacheHit increments the hit counter of a named cache.
func RecordCacheHit(cache string) {
	globalManager.cacheHits.WithLabelValues(cache).Inc()
}

// RecordCacheMiss increments the miss counter of a named cache.
func RecordCacheMiss(cache string) {
	globalManager.cacheMisses.WithLabelValues(cache).Inc()
}

// UpdateCacheEntries sets the live entry count of a named cache.
func UpdateCacheEntries(cache string, n int) {
	globalManager.cacheEntries.WithLabelValues(cache).Set(float64(n))
}

// HTTP functions.

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// RecordRateLimited counts a request rejected by the limiter.
func RecordRateLimited(route string) {
	globalManager.rateLimited.WithLabelValues(route).Inc()
}

// Queue functions.

// UpdateQueueSize sets the current queue size.
func UpdateQueueSize(size int) {
	globalManager.queueSize.Set(float64(size))
}

// UpdateQueueCapacity sets the maximum queue capacity.
func UpdateQueueCapacity(capacity int) {
	globalManager.queueCapacity.Set(float64(capacity))
}

// UpdateQueueUtilization sets the queue utilization ratio.
func UpdateQueueUtilization(utilization float64) {
	globalManager.queueUtilization.Set(utilization)
}

// RecordQueueEnqueue increments the enqueue counter.
func RecordQueueEnqueue() {
	globalManager.queueEnqueueTotal.Inc()
}

// RecordQueueDequeue increments the dequeue counter.
func RecordQueueDequeue() {
	globalManager.queueDequeueTotal.Inc()
}

// RecordQueueEnqueueError increments the enqueue error counter.
func RecordQueueEnqueueError() {
	globalManager.queueEnqueueErrors.Inc()
}

// Worker functions.

// UpdateWorkerCount sets the configured worker count.
func UpdateWorkerCount(count int) {
	globalManager.workerCount.Set(float64(count))
}

// UpdateWorkerActiveCount sets the number of running workers.
func UpdateWorkerActiveCount(count int) {
	globalManager.workerActiveCount.Set(float64(count))
}

// RecordWorkerProcessingLatency records worker processing latency.
func RecordWorkerProcessingLatency(latencyMs float64) {
	globalManager.workerProcessingLatency.Observe(latencyMs)
}

// RecordWorkerError increments the worker error counter.
func RecordWorkerError() {
	globalManager.workerErrors.Inc()
}

// Error functions.

// RecordErrorByComponent records an error with component and type labels.
func RecordErrorByComponent(component, errorType string) {
	globalManager.errorRateByComponent.WithLabelValues(component, errorType).Inc()
}

// RecordErrorByType records an error with type and severity labels.
func RecordErrorByType(errorType, severity string) {
	globalManager.errorRateByType.WithLabelValues(errorType, severity).Inc()
}

// RecordErrorByEndpoint records an error with endpoint, method, and error type labels.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	globalManager.errorRateByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// RecordErrorLatency records the latency of an operation that resulted in an error.
func RecordErrorLatency(component, errorType string, latencyMs float64) {
	globalManager.errorLatency.WithLabelValues(component, errorType).Observe(latencyMs)
}

// System functions.

// UpdateSystemMemoryUsage sets the system memory usage in bytes.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the number of goroutines.
func UpdateSystemGoroutineCount(count int) {
	globalManager.systemGoroutineCount.Set(float64(count))
}

// RecordSystemGCPauseTime records GC pause time in milliseconds.
func RecordSystemGCPauseTime(pauseMs float64) {
	globalManager.systemGCPauseTime.Observe(pauseMs)
}

// RefreshInterval reports how often periodic gauges should be refreshed.
func RefreshInterval() time.Duration {
	return globalManager.refreshInterval
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
