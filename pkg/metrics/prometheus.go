// Package metrics provides Prometheus metrics for the lineup service.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Manager owns every metric the service exports. A nil *Manager is valid and
// records nothing.
type Manager struct {
	namespace        string
	histogramBuckets []float64
	registry         *prometheus.Registry

	predictions      *prometheus.CounterVec
	aiFallbacks      *prometheus.CounterVec
	delegateLatency  *prometheus.HistogramVec
	chatMessages     *prometheus.CounterVec
	wsConnections    prometheus.Gauge
	httpRequests     *prometheus.CounterVec
	httpRequestDurMs *prometheus.HistogramVec
}

// Option applies a configuration option to the Manager.
type Option func(*Manager)

// WithNamespace sets the namespace for all metrics.
func WithNamespace(namespace string) Option {
	return func(m *Manager) {
		if namespace != "" {
			m.namespace = namespace
		}
	}
}

// WithHistogramBuckets sets custom histogram buckets for latency metrics.
func WithHistogramBuckets(buckets []float64) Option {
	return func(m *Manager) {
		if len(buckets) > 0 {
			m.histogramBuckets = buckets
		}
	}
}

// WithRegistry registers metrics on the given registry instead of a fresh one.
func WithRegistry(registry *prometheus.Registry) Option {
	return func(m *Manager) {
		if registry != nil {
			m.registry = registry
		}
	}
}

// NewManager creates a metrics manager with its own registry by default.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "fusion_ai",
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

	m.predictions = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "lineup_predictions_total",
		Help:      "Lineup predictions served, by the method that produced them",
	}, []string{"method", "strategy"})

	m.aiFallbacks = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "ai_fallbacks_total",
		Help:      "Times the AI delegate was skipped or failed and rule-based scoring was used",
	}, []string{"reason"})

	m.delegateLatency = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Name:      "ai_delegate_latency_seconds",
		Help:      "Latency of calls to the AI delegate",
		Buckets:   m.histogramBuckets,
	}, []string{"operation", "outcome"})

	m.chatMessages = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "chat_messages_total",
		Help:      "Chat messages handled, by whether a lineup was attached",
	}, []string{"lineup"})

	m.wsConnections = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Name:      "websocket_connections",
		Help:      "Currently open chat websocket connections",
	})

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests by endpoint and method",
	}, []string{"endpoint", "method", "status_code"})

	m.httpRequestDurMs = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Name:      "http_request_duration_milliseconds",
		Help:      "HTTP request duration in milliseconds",
		Buckets:   []float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000, 10000},
	}, []string{"endpoint", "method", "status_code"})
}

func (m *Manager) RecordPrediction(method, strategy string) {
	if m == nil {
		return
	}
	m.predictions.WithLabelValues(method, strategy).Inc()
}

func (m *Manager) RecordFallback(reason string) {
	if m == nil {
		return
	}
	m.aiFallbacks.WithLabelValues(reason).Inc()
}

func (m *Manager) ObserveDelegateLatency(operation string, err error, d time.Duration) {
	if m == nil {
		return
	}
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	m.delegateLatency.WithLabelValues(operation, outcome).Observe(d.Seconds())
}

func (m *Manager) RecordChatMessage(withLineup bool) {
	if m == nil {
		return
	}
	m.chatMessages.WithLabelValues(strconv.FormatBool(withLineup)).Inc()
}

func (m *Manager) SetWebsocketConnections(n int) {
	if m == nil {
		return
	}
	m.wsConnections.Set(float64(n))
}

func (m *Manager) RecordHTTPRequest(endpoint, method string, status int, d time.Duration) {
	if m == nil {
		return
	}
	code := strconv.Itoa(status)
	m.httpRequests.WithLabelValues(endpoint, method, code).Inc()
	m.httpRequestDurMs.WithLabelValues(endpoint, method, code).Observe(float64(d.Milliseconds()))
}

// Registry exposes the underlying registry.
func (m *Manager) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Manager) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
