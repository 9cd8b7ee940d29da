package api

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/soaringjerry/avatar-survey/internal/middleware"
	"github.com/soaringjerry/avatar-survey/internal/services"
	"github.com/soaringjerry/avatar-survey/internal/utils"
)

// POST /api/admin/login {password} -> {token, expires_in}
func (rt *Router) handleAdminLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Password string `json:"password"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	res, err := rt.admin.Login(req.Password)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"token":      res.Token,
		"expires_in": int(res.ExpiresIn.Seconds()),
	})
}

// GET /api/export/{table} streams a fresh CSV dump; requires an admin token.
func (rt *Router) handleExport(w http.ResponseWriter, r *http.Request) {
	table, err := services.ParseExportTable(mux.Vars(r)["table"])
	if err != nil {
		writeError(w, r, err)
		return
	}
	res, err := rt.exporter.Dump(r.Context(), table)
	if err != nil {
		writeError(w, r, err)
		return
	}
	sub, _ := middleware.SubjectFromContext(r.Context())
	utils.LoggerFromContext(r.Context()).InfoContext(r.Context(), "csv downloaded",
		"table", res.Table, "rows", res.Rows, "subject", sub)
	w.Header().Set("Content-Type", res.ContentType)
	w.Header().Set("Content-Disposition", "attachment; filename="+strconv.Quote(res.Filename))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(res.Data)
}
