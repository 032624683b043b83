package service

import (
	"fmt"
	"net/http"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/noah-isme/kyoto-flow-api/internal/models"
)

// MetricsService encapsulates Prometheus instrumentation and provides lightweight snapshots for API consumption.
type MetricsService struct {
	registry            *prometheus.Registry
	handler             http.Handler
	requestDuration     *prometheus.HistogramVec
	requestTotal        *prometheus.CounterVec
	cacheLatency        prometheus.Observer
	cacheWrite          prometheus.Observer
	cacheHitRatio       prometheus.Gauge
	cacheHits           prometheus.Counter
	cacheMisses         prometheus.Counter
	mutations           *prometheus.CounterVec
	rejectedTransitions *prometheus.CounterVec
	snapshotSave        *prometheus.HistogramVec
	eventsStored        prometheus.Gauge
	daysIndexed         prometheus.Gauge

	cacheHitCount         uint64
	cacheMissCount        uint64
	requestCount          uint64
	requestDurationTotal  uint64
	mutationCount         uint64
	rejectedCount         uint64
	snapshotCount         uint64
	snapshotDurationTotal uint64
}

// NewMetricsService registers core Prometheus collectors.
func NewMetricsService() *MetricsService {
	registry := prometheus.NewRegistry()

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	requestTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	cacheLatency := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "weather_cache_latency_seconds",
		Help:    "Latency for weather cache lookups",
		Buckets: prometheus.DefBuckets,
	})

	cacheWrite := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "weather_cache_write_seconds",
		Help:    "Latency for weather cache writes",
		Buckets: prometheus.DefBuckets,
	})

	cacheHitRatio := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "weather_cache_hit_ratio",
		Help: "Ratio of cache hits to total cache lookups",
	})

	cacheHits := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "weather_cache_hits_total",
		Help: "Total cache hits",
	})

	cacheMisses := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "weather_cache_misses_total",
		Help: "Total cache misses",
	})

	mutations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "itinerary_mutations_total",
		Help: "Committed itinerary mutations by operation",
	}, []string{"op"})

	rejected := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "itinerary_rejected_transitions_total",
		Help: "Workflow operations refused by the state machine or the save guard",
	}, []string{"op", "reason"})

	snapshotSave := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "itinerary_snapshot_save_seconds",
		Help:    "Duration of snapshot persistence",
		Buckets: prometheus.DefBuckets,
	}, []string{"result"})

	eventsStored := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "itinerary_events",
		Help: "Number of events in the store",
	})

	daysIndexed := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "itinerary_days",
		Help: "Number of days in the day index",
	})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(requestDuration, requestTotal, cacheLatency, cacheWrite, cacheHitRatio, cacheHits, cacheMisses,
		mutations, rejected, snapshotSave, eventsStored, daysIndexed, goroutines)

	return &MetricsService{
		registry:            registry,
		handler:             promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestDuration:     requestDuration,
		requestTotal:        requestTotal,
		cacheLatency:        cacheLatency,
		cacheWrite:          cacheWrite,
		cacheHitRatio:       cacheHitRatio,
		cacheHits:           cacheHits,
		cacheMisses:         cacheMisses,
		mutations:           mutations,
		rejectedTransitions: rejected,
		snapshotSave:        snapshotSave,
		eventsStored:        eventsStored,
		daysIndexed:         daysIndexed,
	}
}

// Handler exposes the Prometheus HTTP handler.
func (m *MetricsService) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// ObserveHTTPRequest records request metrics and aggregates simple stats for snapshots.
func (m *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	labelStatus := fmt.Sprintf("%d", status)
	m.requestDuration.WithLabelValues(method, path, labelStatus).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(method, path, labelStatus).Inc()
	atomic.AddUint64(&m.requestCount, 1)
	atomic.AddUint64(&m.requestDurationTotal, uint64(duration.Nanoseconds()))
}

// RecordCacheOperation records cache hit/miss metrics and updates hit ratio.
func (m *MetricsService) RecordCacheOperation(hit bool, duration time.Duration) {
	if m == nil {
		return
	}
	m.cacheLatency.Observe(duration.Seconds())
	if hit {
		m.cacheHits.Inc()
		atomic.AddUint64(&m.cacheHitCount, 1)
	} else {
		m.cacheMisses.Inc()
		atomic.AddUint64(&m.cacheMissCount, 1)
	}
	hits := atomic.LoadUint64(&m.cacheHitCount)
	misses := atomic.LoadUint64(&m.cacheMissCount)
	if total := hits + misses; total > 0 {
		m.cacheHitRatio.Set(float64(hits) / float64(total))
	}
}

// ObserveCacheWrite tracks the duration for cache write operations.
func (m *MetricsService) ObserveCacheWrite(duration time.Duration) {
	if m == nil {
		return
	}
	m.cacheWrite.Observe(duration.Seconds())
}

// RecordMutation counts a committed change and refreshes the size gauges.
func (m *MetricsService) RecordMutation(op string, days, events int) {
	if m == nil {
		return
	}
	m.mutations.WithLabelValues(op).Inc()
	m.daysIndexed.Set(float64(days))
	m.eventsStored.Set(float64(events))
	atomic.AddUint64(&m.mutationCount, 1)
}

// SetSizes refreshes the size gauges without counting a mutation.
func (m *MetricsService) SetSizes(days, events int) {
	if m == nil {
		return
	}
	m.daysIndexed.Set(float64(days))
	m.eventsStored.Set(float64(events))
}

// RecordRejected counts an operation the workflow refused.
func (m *MetricsService) RecordRejected(op, reason string) {
	if m == nil {
		return
	}
	m.rejectedTransitions.WithLabelValues(op, reason).Inc()
	atomic.AddUint64(&m.rejectedCount, 1)
}

// ObserveSnapshotSave records persistence timing.
func (m *MetricsService) ObserveSnapshotSave(ok bool, duration time.Duration) {
	if m == nil {
		return
	}
	result := "ok"
	if !ok {
		result = "error"
	}
	m.snapshotSave.WithLabelValues(result).Observe(duration.Seconds())
	atomic.AddUint64(&m.snapshotCount, 1)
	atomic.AddUint64(&m.snapshotDurationTotal, uint64(duration.Nanoseconds()))
}

// Snapshot returns aggregated metrics suitable for the metrics snapshot endpoint.
func (m *MetricsService) Snapshot() models.SystemMetrics {
	if m == nil {
		return models.SystemMetrics{}
	}
	hits := atomic.LoadUint64(&m.cacheHitCount)
	misses := atomic.LoadUint64(&m.cacheMissCount)
	requests := atomic.LoadUint64(&m.requestCount)
	reqDuration := atomic.LoadUint64(&m.requestDurationTotal)
	saves := atomic.LoadUint64(&m.snapshotCount)
	saveDuration := atomic.LoadUint64(&m.snapshotDurationTotal)

	var cacheRatio float64
	if totalLookups := hits + misses; totalLookups > 0 {
		cacheRatio = float64(hits) / float64(totalLookups)
	}

	var avgRequestMs float64
	if requests > 0 {
		avgRequestMs = float64(reqDuration) / float64(requests) / float64(time.Millisecond)
	}

	var avgSaveMs float64
	if saves > 0 {
		avgSaveMs = float64(saveDuration) / float64(saves) / float64(time.Millisecond)
	}

	return models.SystemMetrics{
		CacheHitRatio:            cacheRatio,
		CacheHits:                hits,
		CacheMisses:              misses,
		RequestsTotal:            requests,
		AverageRequestDurationMs: avgRequestMs,
		Mutations:                atomic.LoadUint64(&m.mutationCount),
		RejectedTransitions:      atomic.LoadUint64(&m.rejectedCount),
		SnapshotSaves:            saves,
		AverageSnapshotSaveMs:    avgSaveMs,
		Goroutines:               runtime.NumGoroutine(),
		GeneratedAt:              time.Now().UTC(),
	}
}
