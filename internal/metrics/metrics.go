// Package metrics exposes Prometheus counters for submissions, export ticks
// and HTTP traffic.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/soaringjerry/avatar-survey/internal/middleware"
)

const namespace = "avatar_survey"

// Metrics implements services.Observer and owns its registry.
type Metrics struct {
	registry *prometheus.Registry

	submissions   *prometheus.CounterVec
	exportTicks   *prometheus.CounterVec
	exportRows    *prometheus.GaugeVec
	exportLatency *prometheus.HistogramVec
	lastExport    *prometheus.GaugeVec
	httpRequests  *prometheus.CounterVec
	httpLatency   *prometheus.HistogramVec
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		submissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "submissions_total",
			Help:      "Survey and user-study submissions by outcome.",
		}, []string{"kind", "outcome"}),
		exportTicks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "export_runs_total",
			Help:      "CSV export attempts per table by outcome.",
		}, []string{"table", "outcome"}),
		exportRows: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "export_rows",
			Help:      "Rows written by the last successful export of a table.",
		}, []string{"table"}),
		exportLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "export_duration_seconds",
			Help:      "Time to dump and write one table.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"table"}),
		lastExport: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "export_last_success_timestamp_seconds",
			Help:      "Unix time of the last successful export of a table.",
		}, []string{"table"}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route template, method and status.",
		}, []string{"route", "method", "status"}),
		httpLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route template.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "method"}),
	}
	m.registry.MustRegister(
		m.submissions, m.exportTicks, m.exportRows, m.exportLatency, m.lastExport,
		m.httpRequests, m.httpLatency,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

func outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

func (m *Metrics) ObserveSubmission(kind string, err error) {
	m.submissions.With(prometheus.Labels{"kind": kind, "outcome": outcome(err)}).Inc()
}

func (m *Metrics) ObserveExport(table string, rows int, elapsed time.Duration, err error) {
	m.exportTicks.With(prometheus.Labels{"table": table, "outcome": outcome(err)}).Inc()
	m.exportLatency.With(prometheus.Labels{"table": table}).Observe(elapsed.Seconds())
	if err != nil {
		return
	}
	m.exportRows.With(prometheus.Labels{"table": table}).Set(float64(rows))
	m.lastExport.With(prometheus.Labels{"table": table}).SetToCurrentTime()
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry is exposed for tests and extra collectors.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Instrument is gorilla/mux middleware; requests are labelled with the
// matched route template so path parameters do not explode cardinality.
func (m *Metrics) Instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		route := "unmatched"
		if cur := mux.CurrentRoute(r); cur != nil {
			if tpl, err := cur.GetPathTemplate(); err == nil {
				route = tpl
			}
		}
		start := time.Now()
		rec := middleware.NewStatusRecorder(w)
		next.ServeHTTP(rec, r)
		m.httpRequests.With(prometheus.Labels{
			"route":  route,
			"method": r.Method,
			"status": strconv.Itoa(rec.Status),
		}).Inc()
		m.httpLatency.With(prometheus.Labels{"route": route, "method": r.Method}).Observe(time.Since(start).Seconds())
	})
}
