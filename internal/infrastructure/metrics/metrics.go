// Package metrics exposes Prometheus collectors for roster transitions and HTTP traffic.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"sportmeet/internal/domain"
	"sportmeet/internal/ports/output"
)

const namespace = "sportmeet"

var _ output.RosterMetrics = (*Metrics)(nil)

type Metrics struct {
	Registry *prometheus.Registry

	joins        *prometheus.CounterVec
	leaves       *prometheus.CounterVec
	promotions   prometheus.Counter
	notifyFailed *prometheus.CounterVec
	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec
	httpInFlight prometheus.Gauge
}

// New registers all collectors on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		joins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "roster", Name: "joins_total",
			Help: "Successful joins by resulting status.",
		}, []string{"status"}),
		leaves: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "roster", Name: "leaves_total",
			Help: "Successful leaves by the leaver's former status.",
		}, []string{"status"}),
		promotions: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "roster", Name: "promotions_total",
			Help: "Waiting participants promoted to confirmed.",
		}),
		notifyFailed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "notify", Name: "failures_total",
			Help: "Notifications that could not be delivered.",
		}, []string{"kind"}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "http", Name: "requests_total",
			Help: "Total number of HTTP requests handled.",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace, Subsystem: "http", Name: "request_duration_seconds",
			Help:    "Duration of HTTP requests.",
			Buckets: prometheus.ExponentialBuckets(0.005, 2, 10), // 5ms to ~5s
		}, []string{"method", "route"}),
		httpInFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Subsystem: "http", Name: "inflight_requests",
			Help: "Current number of in-flight HTTP requests.",
		}),
	}
	m.Registry.MustRegister(
		m.joins, m.leaves, m.promotions, m.notifyFailed,
		m.httpRequests, m.httpDuration, m.httpInFlight,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

func (m *Metrics) Joined(status domain.Status) { m.joins.WithLabelValues(string(status)).Inc() }
func (m *Metrics) Left(status domain.Status)   { m.leaves.WithLabelValues(string(status)).Inc() }
func (m *Metrics) Promoted(n int)              { m.promotions.Add(float64(n)) }

func (m *Metrics) NotificationFailed(kind string) {
	m.notifyFailed.WithLabelValues(kind).Inc()
}

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
}

// Instrument records count, latency and in-flight gauge per mux route template.
func (m *Metrics) Instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		route := "unmatched"
		if cur := mux.CurrentRoute(r); cur != nil {
			if tpl, err := cur.GetPathTemplate(); err == nil {
				route = tpl
			}
		}
		if route == "/metrics" {
			next.ServeHTTP(w, r)
			return
		}

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()
		m.httpInFlight.Inc()
		defer m.httpInFlight.Dec()

		next.ServeHTTP(rec, r)

		m.httpRequests.WithLabelValues(r.Method, route, strconv.Itoa(rec.status)).Inc()
		m.httpDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}
