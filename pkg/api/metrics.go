package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	statusSuccess = "success"
	statusError   = "error"
)

// Metrics holds all Prometheus metrics for the API
type Metrics struct {
	// HTTP request metrics
	httpRequestsTotal    *prometheus.CounterVec
	httpRequestDuration  *prometheus.HistogramVec
	httpRequestsInFlight *prometheus.GaugeVec

	// Document metrics
	documentOpensTotal   *prometheus.CounterVec
	documentOpenDuration prometheus.Histogram
	fieldsScannedTotal   prometheus.Counter
	payloadBytesTotal    prometheus.Counter

	// API key authentication metrics
	authRequestsTotal *prometheus.CounterVec

	handler http.Handler
}

// NewMetrics creates all Prometheus metrics and registers them with reg. When
// reg is also a Gatherer, Handler serves exactly its metrics.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	m := &Metrics{
		httpRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "vfb_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "endpoint", "status_code"},
		),

		httpRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "vfb_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "endpoint"},
		),

		httpRequestsInFlight: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "vfb_http_requests_in_flight",
				Help: "Number of HTTP requests currently being processed",
			},
			[]string{"method", "endpoint"},
		),

		documentOpensTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "vfb_document_opens_total",
				Help: "Total number of documents opened, by result",
			},
			[]string{"status"},
		),

		documentOpenDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "vfb_document_open_duration_seconds",
				Help:    "Time to parse a header and scan a directory",
				Buckets: prometheus.DefBuckets,
			},
		),

		fieldsScannedTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "vfb_fields_scanned_total",
				Help: "Total number of directory entries scanned",
			},
		),

		payloadBytesTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "vfb_payload_bytes_total",
				Help: "Total number of entry payload bytes served",
			},
		),

		authRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "vfb_auth_requests_total",
				Help: "Total number of authentication requests",
			},
			[]string{"status"},
		),
	}

	if g, ok := reg.(prometheus.Gatherer); ok {
		m.handler = promhttp.HandlerFor(g, promhttp.HandlerOpts{})
	} else {
		m.handler = promhttp.Handler()
	}
	return m
}

// Handler serves the metrics in the Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	return m.handler
}

// RecordHTTPRequest records an HTTP request
func (m *Metrics) RecordHTTPRequest(method, endpoint string, statusCode int, duration time.Duration) {
	statusCodeStr := strconv.Itoa(statusCode)

	m.httpRequestsTotal.WithLabelValues(method, endpoint, statusCodeStr).Inc()
	m.httpRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// RecordDocumentOpen records one parse of a document
func (m *Metrics) RecordDocumentOpen(success bool, fields int, duration time.Duration) {
	status := statusSuccess
	if !success {
		status = statusError
	}
	m.documentOpensTotal.WithLabelValues(status).Inc()
	m.documentOpenDuration.Observe(duration.Seconds())
	m.fieldsScannedTotal.Add(float64(fields))
}

// RecordPayloadBytes records payload bytes written to a client
func (m *Metrics) RecordPayloadBytes(n int) {
	m.payloadBytesTotal.Add(float64(n))
}

// RecordAuthRequest records an authentication request
func (m *Metrics) RecordAuthRequest(success bool) {
	status := statusSuccess
	if !success {
		status = statusError
	}
	m.authRequestsTotal.WithLabelValues(status).Inc()
}

// InstrumentHandler instruments an HTTP handler with metrics
func (m *Metrics) InstrumentHandler(method, endpoint string, handler http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		gauge := m.httpRequestsInFlight.WithLabelValues(method, endpoint)
		gauge.Inc()
		defer gauge.Dec()

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		handler(rw, r)

		m.RecordHTTPRequest(method, endpoint, rw.statusCode, time.Since(start))
	}
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
