package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus collectors of the inventory HTTP surface
type Metrics struct {
	requestCounter  *prometheus.CounterVec
	requestLatency  *prometheus.HistogramVec
	requestSummary  *prometheus.SummaryVec
	totalProducts   prometheus.Gauge
	batchesRecorded prometheus.Counter
	unitsReceived   prometheus.Counter
	entriesRejected *prometheus.CounterVec
}

// NewMetrics creates the collectors and registers them with reg
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		requestCounter: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "inventory_service_requests_total",
				Help: "Total number of requests to inventory service",
			},
			[]string{"method", "endpoint", "status"},
		),
		requestLatency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "inventory_service_request_duration_seconds",
				Help:    "Duration of inventory service requests in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "endpoint"},
		),
		// Summary metric for percentile calculation (p50, p90, p95, p99)
		requestSummary: prometheus.NewSummaryVec(
			prometheus.SummaryOpts{
				Name: "inventory_service_request_duration_summary",
				Help: "Summary of request durations with percentiles (client-side quantiles)",
				Objectives: map[float64]float64{
					0.5:  0.05,
					0.9:  0.01,
					0.95: 0.01,
					0.99: 0.001,
				},
				MaxAge: 10 * time.Minute,
			},
			[]string{"method", "endpoint"},
		),
		totalProducts: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "inventory_service_total_products",
				Help: "Total number of products in the system",
			},
		),
		batchesRecorded: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "inventory_service_batches_recorded_total",
				Help: "Total number of committed batch entries",
			},
		),
		unitsReceived: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "inventory_service_units_received_total",
				Help: "Total quantity received through committed batch entries",
			},
		),
		entriesRejected: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "inventory_service_batch_entries_rejected_total",
				Help: "Total number of rejected batch entries by reason",
			},
			[]string{"reason"},
		),
	}

	reg.MustRegister(
		m.requestCounter,
		m.requestLatency,
		m.requestSummary,
		m.totalProducts,
		m.batchesRecorded,
		m.unitsReceived,
		m.entriesRejected,
	)

	return m
}

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// instrument wraps handlers with Prometheus metrics
func (m *Metrics) instrument(endpoint string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(rw, r)

		duration := time.Since(start).Seconds()

		m.requestCounter.WithLabelValues(r.Method, endpoint, strconv.Itoa(rw.statusCode)).Inc()
		m.requestLatency.WithLabelValues(r.Method, endpoint).Observe(duration)
		m.requestSummary.WithLabelValues(r.Method, endpoint).Observe(duration)
	}
}
