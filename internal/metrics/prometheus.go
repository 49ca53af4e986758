package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/ashureev/debate-coach/internal/domain"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Manager owns the service's Prometheus collectors. Each Manager registers on
// its own registry so tests can create as many as they like.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	registry         *prometheus.Registry

	// Evaluation pipeline
	evaluations        *prometheus.CounterVec
	evaluationFallback *prometheus.CounterVec
	evaluationDuration prometheus.Histogram

	// Persistence
	argumentsSaved   prometheus.Counter
	argumentsDeleted prometheus.Counter
	usageSeconds     *prometheus.CounterVec
	journalDropped   prometheus.Counter

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
}

// NewManager creates a metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "debate",
		subsystem:        "coach",
		histogramBuckets: prometheus.DefBuckets,
	}

	for _, opt := range opts {
		opt(m)
	}

	if m.registry == nil {
		m.registry = prometheus.NewRegistry()
		m.registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}

	m.initializeMetrics()
	return m
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.evaluations = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "evaluations_total",
		Help:      "Total number of argument evaluations by outcome",
	}, []string{"outcome"})

	m.evaluationFallback = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "evaluation_fallbacks_total",
		Help:      "Parsed fields substituted with defaults, by field",
	}, []string{"field"})

	m.evaluationDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "evaluation_duration_seconds",
		Help:      "Evaluation latency including the generator call",
		Buckets:   m.histogramBuckets,
	})

	m.argumentsSaved = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "arguments_saved_total",
		Help:      "Total number of argument records saved",
	})

	m.argumentsDeleted = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "arguments_deleted_total",
		Help:      "Total number of argument delete requests",
	})

	m.usageSeconds = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "usage_seconds_total",
		Help:      "Timer seconds recorded by category",
	}, []string{"category"})

	m.journalDropped = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "journal_dropped_total",
		Help:      "Evaluation journal entries dropped because the queue was full",
	})

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests by route, method and status",
	}, []string{"route", "method", "status_code"})

	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request duration in seconds",
		Buckets:   m.histogramBuckets,
	}, []string{"route", "method", "status_code"})
}

// ObserveEvaluation records one evaluation outcome.
func (m *Manager) ObserveEvaluation(outcome string, fallbacks domain.Fallback, elapsed time.Duration) {
	m.evaluations.WithLabelValues(outcome).Inc()
	m.evaluationDuration.Observe(elapsed.Seconds())

	for _, f := range []domain.Fallback{domain.FallbackScore, domain.FallbackReasoning, domain.FallbackFeedback} {
		if fallbacks.Has(f) {
			m.evaluationFallback.WithLabelValues(f.String()).Inc()
		}
	}
}

// RecordArgumentSaved counts a saved argument.
func (m *Manager) RecordArgumentSaved() {
	m.argumentsSaved.Inc()
}

// RecordArgumentDeleted counts a delete request.
func (m *Manager) RecordArgumentDeleted() {
	m.argumentsDeleted.Inc()
}

// RecordUsage adds seconds to the category counter.
func (m *Manager) RecordUsage(category domain.UsageCategory, seconds int64) {
	m.usageSeconds.WithLabelValues(string(category)).Add(float64(seconds))
}

// RecordJournalDrop counts a dropped journal entry.
func (m *Manager) RecordJournalDrop() {
	m.journalDropped.Inc()
}

// Registry returns the registry backing this manager.
func (m *Manager) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Manager) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Middleware records request count and latency labelled by chi route pattern.
func (m *Manager) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				route = pattern
			}
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		code := strconv.Itoa(status)

		m.httpRequests.WithLabelValues(route, r.Method, code).Inc()
		m.httpRequestDuration.WithLabelValues(route, r.Method, code).Observe(time.Since(start).Seconds())
	})
}
