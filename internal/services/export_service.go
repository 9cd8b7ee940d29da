package services

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"

	"github.com/soaringjerry/avatar-survey/internal/models"
	"github.com/soaringjerry/avatar-survey/internal/utils"
)

// Exportable tables.
const (
	TableSurvey    = "survey"
	TableUserStudy = "user_study"
)

// ExportStore is the read side the exporter needs.
type ExportStore interface {
	ListSurveys(ctx context.Context) (models.SurveyTable, error)
	ListUserStudies(ctx context.Context) (models.UserStudyTable, error)
}

// ExportTarget binds a table to the file its dump overwrites on every tick.
type ExportTarget struct {
	Table string
	Path  string
}

type ExportResult struct {
	Table       string
	Filename    string
	ContentType string
	Rows        int
	Data        []byte
}

// Exporter periodically dumps whole tables to CSV files. It is a convenience
// backup, not a durability mechanism: there is no delta export and no retry.
type Exporter struct {
	store    ExportStore
	schedule Schedule
	targets  []ExportTarget
	observer Observer
	now      func() time.Time
	runID    func() string
}

func NewExporter(store ExportStore, schedule Schedule, targets ...ExportTarget) *Exporter {
	return &Exporter{
		store:    store,
		schedule: schedule,
		targets:  targets,
		observer: nopObserver{},
		now:      time.Now,
		runID:    uuid.NewString,
	}
}

// WithObserver sets the export observer.
func (e *Exporter) WithObserver(o Observer) *Exporter {
	if o != nil {
		e.observer = o
	}
	return e
}

// ParseExportTable maps route spellings ("surveys", "user-studies", ...) to a table name.
func ParseExportTable(s string) (string, error) {
	switch strings.ToLower(strings.TrimSuffix(strings.TrimSpace(s), ".csv")) {
	case "survey", "surveys":
		return TableSurvey, nil
	case "user_study", "user_studies", "user-study", "user-studies":
		return TableUserStudy, nil
	default:
		return "", NewNotFoundError("unknown table")
	}
}

// Dump reads the whole table and renders it as CSV.
func (e *Exporter) Dump(ctx context.Context, table string) (*ExportResult, error) {
	switch table {
	case TableSurvey:
		t, err := e.store.ListSurveys(ctx)
		if err != nil {
			return nil, err
		}
		b, err := ExportSurveysCSV(t.Rows)
		if err != nil {
			return nil, errors.Wrap(err, "render survey csv")
		}
		return &ExportResult{Table: table, Filename: "survey.csv", ContentType: "text/csv; charset=utf-8", Rows: t.Count, Data: b}, nil
	case TableUserStudy:
		t, err := e.store.ListUserStudies(ctx)
		if err != nil {
			return nil, err
		}
		b, err := ExportUserStudiesCSV(t.Rows)
		if err != nil {
			return nil, errors.Wrap(err, "render user study csv")
		}
		return &ExportResult{Table: table, Filename: "user_study.csv", ContentType: "text/csv; charset=utf-8", Rows: t.Count, Data: b}, nil
	default:
		return nil, NewNotFoundError("unknown table")
	}
}

// ExportOnce runs a single tick: every target is re-read and its file
// overwritten. The first failure aborts the tick.
func (e *Exporter) ExportOnce(ctx context.Context) error {
	logger := utils.LoggerFromContext(ctx).With("job", "export", "run_id", e.runID())
	for _, target := range e.targets {
		start := e.now()
		res, err := e.Dump(ctx, target.Table)
		if err == nil {
			err = writeFileReplacing(target.Path, res.Data)
		}
		rows := 0
		if res != nil {
			rows = res.Rows
		}
		e.observer.ObserveExport(target.Table, rows, e.now().Sub(start), err)
		if err != nil {
			return errors.Wrapf(err, "export %s to %s", target.Table, target.Path)
		}
		logger.DebugContext(ctx, "export written", "table", target.Table, "rows", rows, "path", target.Path)
	}
	return nil
}

// Run fires ExportOnce on the schedule until ctx is cancelled. Ticks missed
// while an export ran long or the host stalled are not replayed. An export
// failure stops the loop and is returned; cancellation returns nil.
func (e *Exporter) Run(ctx context.Context) error {
	if e.schedule == nil {
		return errors.New("exporter has no schedule")
	}
	logger := utils.LoggerFromContext(ctx)
	next, err := e.schedule.Next(e.now())
	if err != nil {
		return err
	}
	logger.InfoContext(ctx, "exporter started", "targets", len(e.targets), "first_tick", next)
	for {
		timer := time.NewTimer(next.Sub(e.now()))
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil
		case <-timer.C:
		}
		if err := e.ExportOnce(ctx); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			logger.ErrorContext(ctx, "export failed", "error", err)
			return err
		}
		// missed ticks collapse into one: plan from now when the tick overran
		after := next
		if now := e.now(); now.After(after) {
			after = now
		}
		if next, err = e.schedule.Next(after); err != nil {
			return err
		}
	}
}

// writeFileReplacing overwrites path with data through a temp file and a
// rename, so readers never see a half-written export.
func writeFileReplacing(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrap(err, "create export dir")
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return errors.Wrap(err, "create temp file")
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return errors.Wrap(err, "write temp file")
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return errors.Wrap(err, "close temp file")
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		_ = os.Remove(tmpName)
		return errors.Wrap(err, "chmod temp file")
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return errors.Wrap(err, "replace export file")
	}
	return nil
}
