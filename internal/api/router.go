package api

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/soaringjerry/avatar-survey/internal/middleware"
	"github.com/soaringjerry/avatar-survey/internal/services"
	"github.com/soaringjerry/avatar-survey/internal/utils"
)

const maxBodyBytes = 1 << 20

// BuildInfo is reported by /health and /version.
type BuildInfo struct {
	Commit    string `json:"commit"`
	BuildTime string `json:"build_time"`
}

type Deps struct {
	Store         Store
	Exporter      *services.Exporter
	Observer      services.Observer
	Authenticator *middleware.Authenticator
	// AdminPassHash is a bcrypt hash; nil disables admin login.
	AdminPassHash []byte
	ImageURLs     []string
	VideoURLs     []string
	Build         BuildInfo
}

type Router struct {
	responses *services.ResponseService
	analytics *services.AnalyticsService
	media     *services.MediaService
	admin     *services.AdminAuthService
	exporter  *services.Exporter
	authn     *middleware.Authenticator
	build     BuildInfo
}

func NewRouter(d Deps) *Router {
	authn := d.Authenticator
	if authn == nil {
		authn = middleware.NewAuthenticator("")
	}
	exporter := d.Exporter
	if exporter == nil {
		exporter = services.NewExporter(d.Store, nil).WithObserver(d.Observer)
	}
	return &Router{
		responses: services.NewResponseService(d.Store).WithObserver(d.Observer),
		analytics: services.NewAnalyticsService(d.Store),
		media:     services.NewMediaService(d.ImageURLs, d.VideoURLs),
		admin:     services.NewAdminAuthService(d.AdminPassHash, authn.SignToken),
		exporter:  exporter,
		authn:     authn,
		build:     d.Build,
	}
}

func (rt *Router) Register(r *mux.Router) {
	r.HandleFunc("/health", rt.handleHealth).Methods(http.MethodGet)
	r.HandleFunc("/version", rt.handleVersion).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/surveys", rt.handleSubmitSurvey).Methods(http.MethodPost)
	api.HandleFunc("/surveys", rt.handleListSurveys).Methods(http.MethodGet)
	api.HandleFunc("/user-studies", rt.handleSubmitUserStudy).Methods(http.MethodPost)
	api.HandleFunc("/user-studies", rt.handleListUserStudies).Methods(http.MethodGet)
	api.HandleFunc("/user-studies/summary", rt.handleUserStudySummary).Methods(http.MethodGet)
	api.HandleFunc("/gallery", rt.handleGallery).Methods(http.MethodGet)
	api.HandleFunc("/gallery/select", rt.handleGallerySelect).Methods(http.MethodPost)
	api.HandleFunc("/videos", rt.handleVideos).Methods(http.MethodGet)
	api.HandleFunc("/admin/login", rt.handleAdminLogin).Methods(http.MethodPost)

	export := api.PathPrefix("/export").Subrouter()
	export.Use(rt.authn.WithAuth, middleware.RequireAuth)
	export.HandleFunc("/{table}", rt.handleExport).Methods(http.MethodGet)
}

func (rt *Router) handleHealth(w http.ResponseWriter, r *http.Request) {
	locale := middleware.LocaleFromContext(r.Context())
	writeJSON(w, http.StatusOK, map[string]any{
		"ok":         true,
		"name":       "avatar-survey",
		"locale":     locale,
		"msg":        utils.T(locale, "health.ok"),
		"commit":     rt.build.Commit,
		"build_time": rt.build.BuildTime,
	})
}

func (rt *Router) handleVersion(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, rt.build)
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return services.NewInvalidError("invalid JSON body")
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps service errors onto HTTP statuses. Validation messages are
// localized; unexpected errors are logged and answered with a generic 500.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	if ve, ok := services.AsValidationError(err); ok {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error": validationMessage(middleware.LocaleFromContext(r.Context()), ve),
			"field": ve.Field,
			"rule":  ve.Rule,
		})
		return
	}
	if se, ok := services.AsServiceError(err); ok {
		status := http.StatusBadRequest
		switch se.Code {
		case services.ErrorUnauthorized:
			status = http.StatusUnauthorized
		case services.ErrorForbidden:
			status = http.StatusForbidden
		case services.ErrorNotFound:
			status = http.StatusNotFound
		}
		writeJSON(w, status, map[string]string{"error": se.Message})
		return
	}
	utils.LoggerFromContext(r.Context()).ErrorContext(r.Context(), "request failed",
		"method", r.Method, "path", r.URL.Path, "error", err)
	writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
}

func validationMessage(locale string, ve *services.ValidationError) string {
	key := ve.MessageKey()
	if ve.Rule == "oneof" {
		allowed := strings.Join(strings.Fields(ve.Param), ", ")
		if utils.HasT(key) {
			return utils.Tf(locale, key, allowed)
		}
		return utils.Tf(locale, "validation.oneof", ve.Field, allowed)
	}
	if utils.HasT(key) {
		return utils.T(locale, key)
	}
	return ve.Error()
}
