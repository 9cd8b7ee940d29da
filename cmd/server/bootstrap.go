package main

import (
	"context"
	"log/slog"

	"github.com/cockroachdb/errors"

	"github.com/soaringjerry/avatar-survey/internal/config"
	dbstore "github.com/soaringjerry/avatar-survey/internal/db"
	"github.com/soaringjerry/avatar-survey/internal/services"
)

// openStore opens the database file, creates missing tables and, when asked,
// seeds the demo rows into an empty survey table.
func openStore(ctx context.Context, cfg config.Config, obs services.Observer) (*dbstore.SQLiteStore, error) {
	store, err := dbstore.Open(cfg.DBPath, cfg.MigrationsDir)
	if err != nil {
		return nil, err
	}
	if err := store.EnsureSchema(ctx); err != nil {
		_ = store.Close()
		return nil, errors.Wrapf(err, "prepare %s", cfg.DBPath)
	}
	if !cfg.SeedDemo {
		return store, nil
	}
	seeded, err := services.NewResponseService(store).WithObserver(obs).SeedDemo(ctx)
	if err != nil {
		_ = store.Close()
		return nil, errors.Wrap(err, "seed demo rows")
	}
	if seeded {
		slog.InfoContext(ctx, "demo surveys inserted", "db", cfg.DBPath)
	}
	return store, nil
}
