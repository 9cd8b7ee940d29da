package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveSubmission(t *testing.T) {
	m := New()
	m.ObserveSubmission("survey", nil)
	m.ObserveSubmission("survey", nil)
	m.ObserveSubmission("survey", errors.New("name is required"))

	ok := m.submissions.With(prometheus.Labels{"kind": "survey", "outcome": "ok"})
	bad := m.submissions.With(prometheus.Labels{"kind": "survey", "outcome": "error"})
	assert.Equal(t, 2.0, testutil.ToFloat64(ok))
	assert.Equal(t, 1.0, testutil.ToFloat64(bad))
}

func TestObserveExport(t *testing.T) {
	m := New()
	m.ObserveExport("survey", 7, 3*time.Millisecond, nil)
	m.ObserveExport("survey", 0, time.Millisecond, errors.New("disk full"))

	assert.Equal(t, 7.0, testutil.ToFloat64(m.exportRows.With(prometheus.Labels{"table": "survey"})))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.exportTicks.With(prometheus.Labels{"table": "survey", "outcome": "error"})))
	assert.Greater(t, testutil.ToFloat64(m.lastExport.With(prometheus.Labels{"table": "survey"})), 0.0)
}

func TestInstrumentUsesRouteTemplate(t *testing.T) {
	m := New()
	r := mux.NewRouter()
	r.Use(m.Instrument)
	r.HandleFunc("/api/export/{table}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})
	r.Handle("/metrics", m.Handler())

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/export/surveys", nil))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/export/user-studies", nil))

	c := m.httpRequests.With(prometheus.Labels{"route": "/api/export/{table}", "method": "GET", "status": "401"})
	assert.Equal(t, 2.0, testutil.ToFloat64(c))

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "avatar_survey_http_requests_total")
}
