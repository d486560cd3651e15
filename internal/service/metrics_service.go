package service

import (
	"net/http"
	"runtime"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/noah-isme/tahfidz-api/internal/models"
)

// Merge outcomes recorded per ledger merge attempt.
const (
	MergeOutcomeCreated = "created"
	MergeOutcomeMerged  = "merged"
	MergeOutcomeSkipped = "skipped"
)

// MetricsService encapsulates Prometheus instrumentation. A nil receiver is a no-op.
type MetricsService struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	cacheLatency    prometheus.Histogram
	cacheLookups    *prometheus.CounterVec
	ticketReviews   *prometheus.CounterVec
	reviewDuration  prometheus.Histogram
	mushafMerges    *prometheus.CounterVec
	notifications   *prometheus.CounterVec
	archived        prometheus.Counter
}

// NewMetricsService registers the collectors on a private registry.
func NewMetricsService() *MetricsService {
	registry := prometheus.NewRegistry()

	m := &MetricsService{
		registry: registry,
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path", "status"}),
		requestTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"method", "path", "status"}),
		cacheLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "mushaf_cache_latency_seconds",
			Help:    "Latency of personal mushaf cache lookups",
			Buckets: prometheus.DefBuckets,
		}),
		cacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "mushaf_cache_lookups_total",
			Help: "Personal mushaf cache lookups by result",
		}, []string{"result"}),
		ticketReviews: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ticket_reviews_total",
			Help: "Ticket review decisions by outcome",
		}, []string{"decision", "workflow_step"}),
		reviewDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "ticket_review_duration_seconds",
			Help:    "Time spent applying a ticket review decision",
			Buckets: prometheus.DefBuckets,
		}),
		mushafMerges: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "mushaf_merges_total",
			Help: "Mistake ledger merge attempts by outcome",
		}, []string{"outcome"}),
		notifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "notifications_total",
			Help: "Notification deliveries by type and result",
		}, []string{"type", "result"}),
		archived: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "assignments_archived_total",
			Help: "Completed assignments moved to archived",
		}),
	}

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(
		m.requestDuration, m.requestTotal, m.cacheLatency, m.cacheLookups,
		m.ticketReviews, m.reviewDuration, m.mushafMerges, m.notifications, m.archived,
		goroutines, collectors.NewGoCollector(),
	)
	m.handler = promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
	return m
}

// Handler exposes the Prometheus HTTP handler.
func (m *MetricsService) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "metrics disabled", http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// Registry returns the underlying registry.
func (m *MetricsService) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// ObserveHTTPRequest records request metrics.
func (m *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	labelStatus := strconv.Itoa(status)
	m.requestDuration.WithLabelValues(method, path, labelStatus).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(method, path, labelStatus).Inc()
}

// RecordCacheOperation records a cache lookup.
func (m *MetricsService) RecordCacheOperation(hit bool, duration time.Duration) {
	if m == nil {
		return
	}
	m.cacheLatency.Observe(duration.Seconds())
	result := "miss"
	if hit {
		result = "hit"
	}
	m.cacheLookups.WithLabelValues(result).Inc()
}

// RecordTicketReview counts a committed review decision.
func (m *MetricsService) RecordTicketReview(decision models.TicketStatus, step models.WorkflowStep, duration time.Duration) {
	if m == nil {
		return
	}
	m.ticketReviews.WithLabelValues(string(decision), string(step)).Inc()
	m.reviewDuration.Observe(duration.Seconds())
}

// RecordMushafMerge counts a ledger merge attempt.
func (m *MetricsService) RecordMushafMerge(outcome string) {
	if m == nil {
		return
	}
	m.mushafMerges.WithLabelValues(outcome).Inc()
}

// RecordNotification counts a notification delivery attempt.
func (m *MetricsService) RecordNotification(kind string, delivered bool) {
	if m == nil {
		return
	}
	result := "failed"
	if delivered {
		result = "delivered"
	}
	m.notifications.WithLabelValues(kind, result).Inc()
}

// RecordArchived counts archived assignments.
func (m *MetricsService) RecordArchived(n int64) {
	if m == nil || n <= 0 {
		return
	}
	m.archived.Add(float64(n))
}

// RegisterQueueDepth exposes a background queue's buffered job count.
func (m *MetricsService) RegisterQueueDepth(queue string, depth func() int) error {
	if m == nil || depth == nil {
		return nil
	}
	gauge := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name:        "job_queue_depth",
		Help:        "Jobs buffered in a background queue",
		ConstLabels: prometheus.Labels{"queue": queue},
	}, func() float64 {
		return float64(depth())
	})
	return m.registry.Register(gauge)
}
