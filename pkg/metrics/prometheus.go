// Package metrics provides Prometheus metrics for the V-Strike recommendation engine.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager manages all Prometheus metrics for the engine.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	constLabels      prometheus.Labels
	registry         prometheus.Registerer

	// Recommendation pipeline
	generations        *prometheus.CounterVec
	factsGenerated     prometheus.Counter
	parleysGenerated   *prometheus.CounterVec
	generationDuration prometheus.Histogram
	confidence         prometheus.Histogram

	// Odds feed
	oddsRequests       *prometheus.CounterVec
	oddsRequestLatency prometheus.Histogram
	oddsCache          *prometheus.CounterVec
	keyRotations       prometheus.Counter
	keysExhausted      *prometheus.CounterVec
	injuryRefreshes    *prometheus.CounterVec

	// Grading and feedback
	graded      *prometheus.CounterVec
	gradingRuns prometheus.Counter
	insights    *prometheus.CounterVec
	adjustments *prometheus.CounterVec

	// Storage
	storeOperations *prometheus.CounterVec
	storeLatency    *prometheus.HistogramVec

	// Job queue and worker
	queueSize          prometheus.Gauge
	queueCapacity      prometheus.Gauge
	queueEnqueue       prometheus.Counter
	queueEnqueueErrors prometheus.Counter
	queueDequeue       prometheus.Counter
	jobs               *prometheus.CounterVec
	jobLatency         *prometheus.HistogramVec

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	errorRateByComponent *prometheus.CounterVec
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

// Initialize global metrics.
func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "vstrike",
		subsystem:        "engine",
		histogramBuckets: prometheus.DefBuckets,
		constLabels:      prometheus.Labels{},
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

func (m *Manager) counter(name, help string) prometheus.CounterOpts {
	return prometheus.CounterOpts{Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels}
}

func (m *Manager) gauge(name, help string) prometheus.GaugeOpts {
	return prometheus.GaugeOpts{Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels}
}

func (m *Manager) histogram(name, help string, buckets []float64) prometheus.HistogramOpts {
	return prometheus.HistogramOpts{Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, Buckets: buckets, ConstLabels: m.constLabels}
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() { //nolint:funlen // long function required for comprehensive metrics initialization
	auto := promauto.With(m.registry)
	latencyMs := []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000, 10000}

	m.generations = auto.NewCounterVec(m.counter("generations_total",
		"Daily set builds by resulting state"), []string{"state"})
	m.factsGenerated = auto.NewCounter(m.counter("facts_generated_total",
		"Scored candidate facts produced by generation runs"))
	m.parleysGenerated = auto.NewCounterVec(m.counter("parleys_generated_total",
		"Parley cards produced by subtype"), []string{"subtype"})
	m.generationDuration = auto.NewHistogram(m.histogram("generation_duration_seconds",
		"Wall time of a daily set build", m.histogramBuckets))
	m.confidence = auto.NewHistogram(m.histogram("confidence_score",
		"Distribution of confidence scores", []float64{10, 20, 30, 40, 50, 60, 70, 80, 90, 100}))

	m.oddsRequests = auto.NewCounterVec(m.counter("odds_requests_total",
		"Odds feed requests by endpoint and status"), []string{"endpoint", "status"})
	m.oddsRequestLatency = auto.NewHistogram(m.histogram("odds_request_latency_milliseconds",
		"Odds feed request latency in milliseconds", latencyMs))
	m.oddsCache = auto.NewCounterVec(m.counter("odds_cache_total",
		"Odds cache lookups by result (hit, stale, miss)"), []string{"result"})
	m.keyRotations = auto.NewCounter(m.counter("api_key_rotations_total",
		"API key rotations after a rate-limit signal"))
	m.keysExhausted = auto.NewCounterVec(m.counter("api_keys_exhausted_total",
		"Fetches abandoned because every API key was exhausted"), []string{"sport"})
	m.injuryRefreshes = auto.NewCounterVec(m.counter("injury_refreshes_total",
		"Injury feed refreshes by status"), []string{"status"})

	m.graded = auto.NewCounterVec(m.counter("graded_total",
		"Facts graded by result"), []string{"result"})
	m.gradingRuns = auto.NewCounter(m.counter("grading_runs_total",
		"Grading passes that changed a stored set"))
	m.insights = auto.NewCounterVec(m.counter("insights_total",
		"Feedback insights produced by type"), []string{"type"})
	m.adjustments = auto.NewCounterVec(m.counter("adjustments_applied_total",
		"Confirmed strategy adjustments by parameter"), []string{"param"})

	m.storeOperations = auto.NewCounterVec(m.counter("store_operations_total",
		"Store operations by backend, operation and status"), []string{"backend", "op", "status"})
	m.storeLatency = auto.NewHistogramVec(m.histogram("store_latency_milliseconds",
		"Store operation latency in milliseconds", latencyMs), []string{"backend", "op"})

	m.queueSize = auto.NewGauge(m.gauge("queue_size", "Jobs waiting in the queue"))
	m.queueCapacity = auto.NewGauge(m.gauge("queue_capacity", "Maximum queue capacity"))
	m.queueEnqueue = auto.NewCounter(m.counter("queue_enqueue_total", "Jobs enqueued"))
	m.queueEnqueueErrors = auto.NewCounter(m.counter("queue_enqueue_errors_total", "Jobs rejected by a full or closed queue"))
	m.queueDequeue = auto.NewCounter(m.counter("queue_dequeue_total", "Jobs dequeued"))
	m.jobs = auto.NewCounterVec(m.counter("jobs_total",
		"Jobs executed by name and status"), []string{"job", "status"})
	m.jobLatency = auto.NewHistogramVec(m.histogram("job_latency_milliseconds",
		"Job execution latency in milliseconds", latencyMs), []string{"job"})

	m.httpRequests = auto.NewCounterVec(m.counter("http_requests_total",
		"HTTP requests by endpoint, method and status"), []string{"endpoint", "method", "status_code"})
	m.httpRequestDuration = auto.NewHistogramVec(m.histogram("http_request_duration_seconds",
		"HTTP request duration in seconds", m.histogramBuckets), []string{"endpoint", "method", "status_code"})

	m.errorRateByComponent = auto.NewCounterVec(m.counter("errors_by_component_total",
		"Errors by component and type"), []string{"component", "error_type"})
}

// RecordGeneration counts a daily set build ending in state.
func RecordGeneration(state string) {
	globalManager.generations.WithLabelValues(state).Inc()
}

// RecordFactsGenerated adds n scored facts.
func RecordFactsGenerated(n int) {
	globalManager.factsGenerated.Add(float64(n))
}

// RecordParley counts a generated parley card.
func RecordParley(subtype string) {
	globalManager.parleysGenerated.WithLabelValues(subtype).Inc()
}

// RecordGenerationDuration records a build duration in seconds.
func RecordGenerationDuration(seconds float64) {
	globalManager.generationDuration.Observe(seconds)
}

// RecordConfidence records one confidence score.
func RecordConfidence(score int) {
	globalManager.confidence.Observe(float64(score))
}

// RecordOddsRequest counts an odds feed request.
func RecordOddsRequest(endpoint, status string) {
	globalManager.oddsRequests.WithLabelValues(endpoint, status).Inc()
}

// RecordOddsRequestLatency records request latency in milliseconds.
func RecordOddsRequestLatency(latencyMs float64) {
	globalManager.oddsRequestLatency.Observe(latencyMs)
}

// RecordOddsCache counts a cache lookup result.
func RecordOddsCache(result string) {
	globalManager.oddsCache.WithLabelValues(result).Inc()
}

// RecordKeyRotation counts an API key rotation.
func RecordKeyRotation() {
	globalManager.keyRotations.Inc()
}

// RecordKeysExhausted counts a fetch abandoned for lack of keys.
func RecordKeysExhausted(sport string) {
	globalManager.keysExhausted.WithLabelValues(sport).Inc()
}

// RecordInjuryRefresh counts an injury feed refresh.
func RecordInjuryRefresh(status string) {
	globalManager.injuryRefreshes.WithLabelValues(status).Inc()
}

// RecordGraded counts a graded fact.
func RecordGraded(result string) {
	globalManager.graded.WithLabelValues(result).Inc()
}

// RecordGradingRun counts a grading pass that changed a set.
func RecordGradingRun() {
	globalManager.gradingRuns.Inc()
}

// RecordInsight counts a produced insight.
func RecordInsight(kind string) {
	globalManager.insights.WithLabelValues(kind).Inc()
}

// RecordAdjustment counts a confirmed adjustment.
func RecordAdjustment(param string) {
	globalManager.adjustments.WithLabelValues(param).Inc()
}

// RecordStoreOperation counts a store operation.
func RecordStoreOperation(backend, op, status string) {
	globalManager.storeOperations.WithLabelValues(backend, op, status).Inc()
}

// RecordStoreLatency records store latency in milliseconds.
func RecordStoreLatency(backend, op string, latencyMs float64) {
	globalManager.storeLatency.WithLabelValues(backend, op).Observe(latencyMs)
}

// Queue Metrics Functions.

// UpdateQueueSize sets the current queue size.
func UpdateQueueSize(size int) {
	globalManager.queueSize.Set(float64(size))
}

// UpdateQueueCapacity sets the maximum queue capacity.
func UpdateQueueCapacity(capacity int) {
	globalManager.queueCapacity.Set(float64(capacity))
}

// RecordQueueEnqueue increments the enqueue counter.
func RecordQueueEnqueue() {
	globalManager.queueEnqueue.Inc()
}

// RecordQueueEnqueueError increments the enqueue error counter.
func RecordQueueEnqueueError() {
	globalManager.queueEnqueueErrors.Inc()
}

// RecordQueueDequeue increments the dequeue counter.
func RecordQueueDequeue() {
	globalManager.queueDequeue.Inc()
}

// Worker Metrics Functions.

// RecordJob counts an executed job.
func RecordJob(job, status string) {
	globalManager.jobs.WithLabelValues(job, status).Inc()
}

// RecordJobLatency records job latency in milliseconds.
func RecordJobLatency(job string, latencyMs float64) {
	globalManager.jobLatency.WithLabelValues(job).Observe(latencyMs)
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// RecordErrorByComponent records an error with component and type labels.
func RecordErrorByComponent(component, errorType string) {
	globalManager.errorRateByComponent.WithLabelValues(component, errorType).Inc()
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
