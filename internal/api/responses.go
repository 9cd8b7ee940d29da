package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/soaringjerry/avatar-survey/internal/services"
)

type surveyRequest struct {
	Name  string          `json:"name"`
	Age   json.RawMessage `json:"age"`
	Model string          `json:"model"`
}

// parseAge accepts a JSON number or a numeric string. Absent, null and empty
// values give 0, which validation reports as missing.
func parseAge(raw json.RawMessage) (int, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return 0, nil
	}
	s := string(raw)
	if raw[0] == '"' {
		if err := json.Unmarshal(raw, &s); err != nil {
			return 0, &services.ValidationError{Field: "age", Rule: "number"}
		}
		s = strings.TrimSpace(s)
		if s == "" {
			return 0, nil
		}
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, &services.ValidationError{Field: "age", Rule: "number"}
	}
	return n, nil
}

// POST /api/surveys {name, age, model} -> {rows, count}
func (rt *Router) handleSubmitSurvey(w http.ResponseWriter, r *http.Request) {
	var req surveyRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	age, err := parseAge(req.Age)
	// name precedes age, so a missing name is reported first
	if err != nil && req.Name != "" {
		writeError(w, r, err)
		return
	}
	table, err := rt.responses.SubmitSurvey(r.Context(), services.SurveySubmission{Name: req.Name, Age: age, Model: req.Model})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, table)
}

// GET /api/surveys
func (rt *Router) handleListSurveys(w http.ResponseWriter, r *http.Request) {
	table, err := rt.responses.LoadSurveys(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, table)
}

// POST /api/user-studies {metric_a, metric_b, metric_c, name} -> {ok}
func (rt *Router) handleSubmitUserStudy(w http.ResponseWriter, r *http.Request) {
	var req services.UserStudySubmission
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if err := rt.responses.SubmitUserStudy(r.Context(), req); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]bool{"ok": true})
}

// GET /api/user-studies
func (rt *Router) handleListUserStudies(w http.ResponseWriter, r *http.Request) {
	table, err := rt.responses.LoadUserStudies(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, table)
}

// GET /api/user-studies/summary
func (rt *Router) handleUserStudySummary(w http.ResponseWriter, r *http.Request) {
	sum, err := rt.analytics.Summary(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sum)
}
