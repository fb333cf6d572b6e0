package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the Prometheus collectors for one engine. Collectors live
// on a private registry, so multiple engines can run in one process without
// registration collisions.
type Metrics struct {
	registry *prometheus.Registry

	registrations *prometheus.CounterVec
	queries       *prometheus.CounterVec
	verdicts      *prometheus.CounterVec
	queryDuration *prometheus.HistogramVec
	httpRequests  *prometheus.CounterVec
	httpDuration  *prometheus.HistogramVec
}

// New creates and registers the collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		registrations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "espalier_registrations_total",
				Help: "Total number of machine registrations by outcome",
			},
			[]string{"outcome"},
		),
		queries: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "espalier_queries_total",
				Help: "Total number of machine queries by operation and outcome",
			},
			[]string{"machine", "op", "outcome"},
		),
		verdicts: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "espalier_test_verdicts_total",
				Help: "Total number of membership test verdicts per machine",
			},
			[]string{"machine", "verdict"},
		),
		queryDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name: "espalier_query_duration_seconds",
				Help: "Duration of machine queries",
			},
			[]string{"op"},
		),
		httpRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "espalier_http_requests_total",
				Help: "Total number of HTTP requests by method, route and status",
			},
			[]string{"method", "route", "status"},
		),
		httpDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name: "espalier_http_request_duration_seconds",
				Help: "Duration of HTTP requests by route",
			},
			[]string{"route"},
		),
	}
	m.registry.MustRegister(
		m.registrations,
		m.queries,
		m.verdicts,
		m.queryDuration,
		m.httpRequests,
		m.httpDuration,
	)
	return m
}

// Handler serves the collected metrics in Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveRegistration records one registration attempt.
func (m *Metrics) ObserveRegistration(err error) {
	outcome := "accepted"
	if err != nil {
		outcome = "rejected"
	}
	m.registrations.WithLabelValues(outcome).Inc()
}

// ObserveQuery records one query and its duration.
func (m *Metrics) ObserveQuery(machine, op string, start time.Time, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.queries.WithLabelValues(machine, op, outcome).Inc()
	m.queryDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
}

// ObserveVerdict records one membership test verdict.
func (m *Metrics) ObserveVerdict(machine string, accepted bool) {
	verdict := "rejected"
	if accepted {
		verdict = "accepted"
	}
	m.verdicts.WithLabelValues(machine, verdict).Inc()
}

// Middleware records request counts and latency per chi route pattern.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(sw, r)

		route := chi.RouteContext(r.Context()).RoutePattern()
		if route == "" {
			route = r.URL.Path
		}
		m.httpRequests.WithLabelValues(r.Method, route, strconv.Itoa(sw.status)).Inc()
		m.httpDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	})
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

// Flush lets SSE responses stream through the middleware.
func (w *statusWriter) Flush() {
	if f, ok := w.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}
