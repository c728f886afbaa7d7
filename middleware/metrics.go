package middleware

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dmitrymomot/bucketdesk/core/handler"
)

// MetricsConfig configures the Prometheus metrics middleware.
type MetricsConfig struct {
	// Namespace is the metrics namespace (default: "bucketdesk").
	Namespace string
	// Subsystem is the metrics subsystem (default: "http").
	Subsystem string
	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels
	// Buckets are the histogram buckets for request duration (default: prometheus.DefBuckets).
	Buckets []float64
	// Registry receives the collectors. Default: a fresh registry with Go and process collectors.
	Registry *prometheus.Registry
}

// MetricsOption configures the metrics collectors.
type MetricsOption func(*MetricsConfig)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Namespace = namespace
	}
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) MetricsOption {
	return func(c *MetricsConfig) {
		c.ConstLabels = labels
	}
}

// WithBuckets sets the histogram buckets.
func WithBuckets(buckets []float64) MetricsOption {
	return func(c *MetricsConfig) {
		c.Buckets = buckets
	}
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry *prometheus.Registry) MetricsOption {
	return func(c *MetricsConfig) {
		c.Registry = registry
	}
}

// Metrics holds the HTTP collectors and the registry they live in.
type Metrics struct {
	registry *prometheus.Registry
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
	inFlight prometheus.Gauge
}

// NewMetrics creates and registers the HTTP collectors.
func NewMetrics(opts ...MetricsOption) *Metrics {
	cfg := MetricsConfig{
		Namespace: "bucketdesk",
		Subsystem: "http",
		Buckets:   prometheus.DefBuckets,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.Registry == nil {
		cfg.Registry = prometheus.NewRegistry()
		cfg.Registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}

	factory := promauto.With(cfg.Registry)

	return &Metrics{
		registry: cfg.Registry,
		requests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   cfg.Namespace,
			Subsystem:   cfg.Subsystem,
			Name:        "requests_total",
			Help:        "Total number of HTTP requests by method and status code.",
			ConstLabels: cfg.ConstLabels,
		}, []string{"method", "status"}),
		duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   cfg.Namespace,
			Subsystem:   cfg.Subsystem,
			Name:        "request_duration_seconds",
			Help:        "HTTP request duration in seconds.",
			ConstLabels: cfg.ConstLabels,
			Buckets:     cfg.Buckets,
		}, []string{"method"}),
		inFlight: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   cfg.Namespace,
			Subsystem:   cfg.Subsystem,
			Name:        "requests_in_flight",
			Help:        "Number of HTTP requests being rendered.",
			ConstLabels: cfg.ConstLabels,
		}),
	}
}

// Registry returns the registry holding the collectors.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler returns the Prometheus exposition endpoint for the registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// MetricsMiddleware records request count and latency for every request that
// reaches the renderer, including routing and handler errors.
func MetricsMiddleware[C Decoratable](m *Metrics) handler.Middleware[C] {
	return func(next handler.HandlerFunc[C]) handler.HandlerFunc[C] {
		return func(ctx C) handler.Response {
			start := time.Now()
			method := ctx.Request().Method

			observe := func(status int) {
				m.requests.WithLabelValues(method, strconv.Itoa(status)).Inc()
				m.duration.WithLabelValues(method).Observe(time.Since(start).Seconds())
			}

			resp := next(ctx)
			if resp != nil {
				// Short-circuit from a later middleware.
				return func(w http.ResponseWriter, r *http.Request) error {
					return m.render(resp, w, r, observe)
				}
			}

			ctx.AddDecorator(func(inner handler.Response) handler.Response {
				return func(w http.ResponseWriter, r *http.Request) error {
					return m.render(inner, w, r, observe)
				}
			})
			return nil
		}
	}
}

func (m *Metrics) render(resp handler.Response, w http.ResponseWriter, r *http.Request, observe func(int)) error {
	m.inFlight.Inc()
	defer m.inFlight.Dec()

	sw := &statusWriter{ResponseWriter: w}
	err := resp(sw, r)
	observe(resolveStatus(sw.status, err))
	return err
}

func resolveStatus(written int, err error) int {
	if err != nil {
		var sc interface{ StatusCode() int }
		if errors.As(err, &sc) {
			return sc.StatusCode()
		}
		return http.StatusInternalServerError
	}
	if written == 0 {
		return http.StatusOK
	}
	return written
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	if w.status == 0 {
		w.status = code
	}
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusWriter) Write(b []byte) (int, error) {
	if w.status == 0 {
		w.status = http.StatusOK
	}
	return w.ResponseWriter.Write(b)
}

func (w *statusWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}
