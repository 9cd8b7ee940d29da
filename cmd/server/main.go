package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"

	"github.com/soaringjerry/avatar-survey/internal/api"
	"github.com/soaringjerry/avatar-survey/internal/config"
	"github.com/soaringjerry/avatar-survey/internal/metrics"
	"github.com/soaringjerry/avatar-survey/internal/middleware"
	"github.com/soaringjerry/avatar-survey/internal/services"
	"github.com/soaringjerry/avatar-survey/internal/utils"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		return err
	}
	logger, err := utils.NewLogger(os.Stderr, cfg.LogFormat, cfg.LogLevel)
	if err != nil {
		return err
	}
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := metrics.New()
	store, err := openStore(ctx, cfg, m)
	if err != nil {
		return err
	}
	defer store.Close()

	schedule, err := cfg.Schedule()
	if err != nil {
		return err
	}
	exporter := services.NewExporter(store, schedule, cfg.ExportTargets()...).WithObserver(m)
	if cfg.ExportOnce {
		if err := exporter.ExportOnce(ctx); err != nil {
			return err
		}
		logger.Info("export written", "survey", cfg.SurveyExportPath, "user_study", cfg.UserStudyExportPath)
		return nil
	}

	hash, err := services.HashPassword(cfg.AdminPassword)
	if err != nil {
		return err
	}
	if hash == nil {
		logger.Warn("SURVEY_ADMIN_PASSWORD not set; CSV download disabled")
	}
	if cfg.JWTSecret == "" && hash != nil {
		logger.Warn("SURVEY_JWT_SECRET not set; using development secret")
	}

	r := mux.NewRouter()
	r.Use(m.Instrument)
	api.NewRouter(api.Deps{
		Store:         store,
		Exporter:      exporter,
		Observer:      m,
		Authenticator: middleware.NewAuthenticator(cfg.JWTSecret),
		AdminPassHash: hash,
		VideoURLs:     cfg.VideoURLs,
		Build:         api.BuildInfo{Commit: cfg.Commit, BuildTime: cfg.BuildTime},
	}).Register(r)
	r.Handle("/metrics", m.Handler()).Methods(http.MethodGet)
	if cfg.StaticDir != "" {
		r.PathPrefix("/").Handler(api.NewSPAHandler(cfg.StaticDir))
	}

	var handler http.Handler = r
	handler = middleware.LocaleMiddleware(handler)
	handler = middleware.NoStore(handler)
	handler = middleware.SecureHeaders(handler)
	handler = middleware.CORS(cfg.CORSOrigins...)(handler)
	handler = middleware.RequestLogger(logger)(handler)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 2)
	exportCtx, stopExporter := context.WithCancel(ctx)
	defer stopExporter()
	exporterDone := startExporter(exportCtx, exporter, errCh)
	go func() {
		logger.Info("avatar-survey listening", "addr", cfg.Addr, "db", cfg.DBPath, "export_schedule", describeSchedule(cfg))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	var runErr error
	select {
	case <-ctx.Done():
		logger.Info("shutting down")
	case runErr = <-errCh:
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("http shutdown", "error", err)
	}
	// the store closes on return; let an in-flight tick finish first
	stopExporter()
	<-exporterDone
	return runErr
}

type exportRunner interface {
	Run(ctx context.Context) error
}

// startExporter runs r in its own goroutine, sending a failure to errCh.
// The returned channel closes once Run has returned.
func startExporter(ctx context.Context, r exportRunner, errCh chan<- error) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := r.Run(ctx); err != nil {
			errCh <- err
		}
	}()
	return done
}

func describeSchedule(cfg config.Config) string {
	if cfg.ExportCron != "" {
		return "cron " + cfg.ExportCron
	}
	return "every " + cfg.ExportInterval.String()
}
