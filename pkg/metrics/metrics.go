// Package metrics provides Prometheus instrumentation for the timeline
// pipeline and its delivery surfaces.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Manager owns the pipeline's Prometheus instruments. All record methods are
// safe on a nil or disabled manager, so call sites never need to branch.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	registry         *prometheus.Registry

	// Pipeline metrics
	runs          *prometheus.CounterVec
	stageDuration *prometheus.HistogramVec

	// Content fetch metrics
	fetchOutcomes *prometheus.CounterVec
	fetchRetries  *prometheus.CounterVec

	// Render metrics
	renderOutcomes *prometheus.CounterVec

	// HTTP delivery metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
}

// NewManager creates a metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "timeline",
		subsystem:        "pipeline",
		histogramBuckets: prometheus.DefBuckets,
		enabled:          true,
		registry:         prometheus.NewRegistry(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(m)
		}
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.runs = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "runs_total",
			Help:      "Total pipeline runs by terminal result",
		},
		[]string{"result"},
	)

	m.stageDuration = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "stage_duration_seconds",
			Help:      "Duration of each pipeline stage in seconds",
			Buckets:   m.histogramBuckets,
		},
		[]string{"stage"},
	)

	m.fetchOutcomes = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "fetch_documents_total",
			Help:      "Document fetch outcomes by key (loaded, degraded, failed)",
		},
		[]string{"document", "outcome"},
	)

	m.fetchRetries = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "fetch_retries_total",
			Help:      "Retry waits taken while fetching a document",
		},
		[]string{"document"},
	)

	m.renderOutcomes = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "render_outcomes_total",
			Help:      "Composite render outcomes by area",
		},
		[]string{"area", "outcome"},
	)

	m.httpRequests = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "http_requests_total",
			Help:      "HTTP requests by endpoint, method, and status code",
		},
		[]string{"endpoint", "method", "status_code"},
	)

	m.httpRequestDuration = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   m.histogramBuckets,
		},
		[]string{"endpoint", "method", "status_code"},
	)
}

// RecordRun counts one finished pipeline run. Result is "ready" or "failed".
func (m *Manager) RecordRun(result string) {
	if m == nil || !m.enabled {
		return
	}
	m.runs.WithLabelValues(result).Inc()
}

// RecordStageDuration observes how long one pipeline stage took.
func (m *Manager) RecordStageDuration(stage string, d time.Duration) {
	if m == nil || !m.enabled {
		return
	}
	m.stageDuration.WithLabelValues(stage).Observe(d.Seconds())
}

// RecordFetchOutcome counts one document fetch terminal outcome.
func (m *Manager) RecordFetchOutcome(document, outcome string) {
	if m == nil || !m.enabled {
		return
	}
	m.fetchOutcomes.WithLabelValues(document, outcome).Inc()
}

// RecordFetchRetry counts one retry wait for a document.
func (m *Manager) RecordFetchRetry(document string) {
	if m == nil || !m.enabled {
		return
	}
	m.fetchRetries.WithLabelValues(document).Inc()
}

// RecordRenderOutcome counts one composite render outcome.
func (m *Manager) RecordRenderOutcome(area string, ok bool) {
	if m == nil || !m.enabled {
		return
	}
	outcome := "ok"
	if !ok {
		outcome = "degraded"
	}
	m.renderOutcomes.WithLabelValues(area, outcome).Inc()
}

// RecordHTTPRequest counts one HTTP request and observes its duration.
func (m *Manager) RecordHTTPRequest(endpoint, method, statusCode string, d time.Duration) {
	if m == nil || !m.enabled {
		return
	}
	m.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
	m.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(d.Seconds())
}

// Registry exposes the manager's registry for callers that register their own
// collectors alongside the pipeline's.
func (m *Manager) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// Handler serves the manager's registry in the Prometheus exposition format.
func (m *Manager) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
