// Package metrics provides Prometheus instrumentation for MarketTakip.
//
// It pre-defines the HTTP metrics plus counters for the parts of this app
// worth watching: Entity Store operations, snapshot fan-out, and image
// downscaling.
//
// Wire it up once in internal/server:
//
//	r.Use(metrics.Middleware())
//	r.HandleFunc("/metrics", metrics.Handler())
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// RequestDuration tracks how long each HTTP request takes,
	// broken down by method, path, and status code.
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "markettakip",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	// RequestTotal counts all HTTP requests.
	RequestTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "markettakip",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests.",
		},
		[]string{"method", "path", "status"},
	)

	// RequestInFlight tracks how many requests are currently being served.
	RequestInFlight = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "markettakip",
		Subsystem: "http",
		Name:      "requests_in_flight",
		Help:      "Number of HTTP requests currently being served.",
	})

	// StoreOpDuration tracks Entity Store operation latency.
	StoreOpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "markettakip",
			Subsystem: "store",
			Name:      "operation_duration_seconds",
			Help:      "Duration of Entity Store operations in seconds.",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .5, 1},
		},
		[]string{"collection", "operation"}, // "find" | "create" | "update" | "delete" | "batch"
	)

	// SnapshotsPublished counts full-collection snapshots pushed to clients.
	SnapshotsPublished = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "markettakip",
			Subsystem: "live",
			Name:      "snapshots_published_total",
			Help:      "Total collection snapshots fanned out to subscribers.",
		},
		[]string{"collection"},
	)

	// StreamClients tracks currently connected SSE/WebSocket clients.
	StreamClients = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "markettakip",
			Subsystem: "live",
			Name:      "stream_clients",
			Help:      "Connected snapshot stream clients.",
		},
		[]string{"transport"}, // "sse" | "ws"
	)

	// ImageDownscaleDuration tracks how long image downscaling takes.
	ImageDownscaleDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "markettakip",
			Subsystem: "imaging",
			Name:      "downscale_duration_seconds",
			Help:      "Duration of image decode+resize+encode in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
	)
)

// DefaultRegistry is the Prometheus registry used by MarketTakip.
var DefaultRegistry = prometheus.NewRegistry()

func init() {
	// Go runtime metrics (GC, goroutines, memory)
	DefaultRegistry.MustRegister(collectors.NewGoCollector())
	// OS process metrics (CPU, open FDs)
	DefaultRegistry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	DefaultRegistry.MustRegister(
		RequestDuration,
		RequestTotal,
		RequestInFlight,
		StoreOpDuration,
		SnapshotsPublished,
		StreamClients,
		ImageDownscaleDuration,
	)
}

// Register adds your own prometheus.Collector to the registry.
func Register(c prometheus.Collector) error {
	return DefaultRegistry.Register(c)
}

// ObserveStoreOp records one Entity Store operation.
func ObserveStoreOp(collection, operation string, start time.Time) {
	StoreOpDuration.WithLabelValues(collection, operation).Observe(time.Since(start).Seconds())
}

// responseRecorder wraps http.ResponseWriter to capture the status code.
type responseRecorder struct {
	http.ResponseWriter
	status int
}

func (r *responseRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *responseRecorder) Flush() {
	if f, ok := r.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// Middleware instruments every HTTP request.
func Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			RequestInFlight.Inc()
			defer RequestInFlight.Dec()

			rec := &responseRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)

			status := strconv.Itoa(rec.status)
			RequestDuration.WithLabelValues(r.Method, r.URL.Path, status).Observe(time.Since(start).Seconds())
			RequestTotal.WithLabelValues(r.Method, r.URL.Path, status).Inc()
		})
	}
}

// Handler returns the /metrics scrape endpoint.
func Handler() http.HandlerFunc {
	h := promhttp.HandlerFor(DefaultRegistry, promhttp.HandlerOpts{})
	return h.ServeHTTP
}
