// Package monitoring exposes Prometheus metrics for the web server and the
// recipe generator
package monitoring

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

const namespace = "fridgechef"

// MetricsCollector handles Prometheus metrics collection
type MetricsCollector struct {
	logger   *zap.Logger
	registry *prometheus.Registry

	// HTTP metrics
	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Generation metrics
	aiRequestsTotal   *prometheus.CounterVec
	aiRequestDuration *prometheus.HistogramVec

	// Application errors by code
	errorsTotal *prometheus.CounterVec
}

// NewMetricsCollector creates a collector with its own registry
func NewMetricsCollector(logger *zap.Logger) *MetricsCollector {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(registry)

	return &MetricsCollector{
		logger:   logger,
		registry: registry,

		httpRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "path", "status_code"},
		),
		httpRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
		aiRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "ai_requests_total",
				Help:      "Total number of recipe generation requests",
			},
			[]string{"provider", "model", "status"},
		),
		aiRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "ai_request_duration_seconds",
				Help:      "Recipe generation duration in seconds",
				Buckets:   []float64{0.5, 1, 2, 5, 10, 20, 30, 60, 120},
			},
			[]string{"provider", "model"},
		),
		errorsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "errors_total",
				Help:      "Application errors by error code",
			},
			[]string{"code"},
		),
	}
}

// ObserveGeneration records one generation call
func (m *MetricsCollector) ObserveGeneration(provider, model, status string, elapsed time.Duration) {
	m.aiRequestsTotal.WithLabelValues(provider, model, status).Inc()
	m.aiRequestDuration.WithLabelValues(provider, model).Observe(elapsed.Seconds())
}

// RecordError counts an application error by its code
func (m *MetricsCollector) RecordError(code string) {
	m.errorsTotal.WithLabelValues(code).Inc()
}

// TrackActiveSessions exposes the current session count as a gauge
func (m *MetricsCollector) TrackActiveSessions(count func() int) {
	promauto.With(m.registry).NewGaugeFunc(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_sessions",
			Help:      "Number of live planner sessions",
		},
		func() float64 { return float64(count()) },
	)
}

// HTTPMiddleware records request count and latency per route pattern
func (m *MetricsCollector) HTTPMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		path := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			path = rctx.RoutePattern()
		}

		m.httpRequestsTotal.WithLabelValues(r.Method, path, strconv.Itoa(status)).Inc()
		m.httpRequestDuration.WithLabelValues(r.Method, path).Observe(time.Since(start).Seconds())
	})
}

// Handler returns the Prometheus metrics HTTP handler
func (m *MetricsCollector) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{
		ErrorLog: zap.NewStdLog(m.logger),
	})
}
