package db

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	sq "github.com/Masterminds/squirrel"
	"github.com/cockroachdb/errors"
	_ "github.com/mattn/go-sqlite3"

	"github.com/soaringjerry/avatar-survey/internal/models"
)

const (
	surveyTable    = "survey"
	userStudyTable = "user_study"
)

var (
	surveyColumns    = []string{"id", "create_at", "name", "age", "model"}
	userStudyColumns = []string{"id", "create_at", "name", "metric_a", "metric_b", "metric_c"}
)

// SQLiteStore persists survey and user-study rows in one SQLite file.
// Each operation checks out its own connection and gives it back when done;
// idle connections are never kept, so every call opens and closes one.
type SQLiteStore struct {
	db            *sql.DB
	migrationsDir string
}

// Open opens (creating if needed) the database file at path.
func Open(path, migrationsDir string) (*SQLiteStore, error) {
	if path == "" {
		return nil, errors.New("sqlite path is required")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, errors.Wrap(err, "create sqlite dir")
		}
	}
	dsn := fmt.Sprintf("file:%s?_busy_timeout=5000&_journal_mode=WAL&_synchronous=NORMAL", filepath.ToSlash(path))
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, errors.Wrap(err, "open sqlite")
	}
	return NewSQLiteStore(db, migrationsDir)
}

// NewSQLiteStore wraps an already opened handle.
func NewSQLiteStore(db *sql.DB, migrationsDir string) (*SQLiteStore, error) {
	if db == nil {
		return nil, errors.New("nil db")
	}
	db.SetMaxIdleConns(0)
	return &SQLiteStore{db: db, migrationsDir: migrationsDir}, nil
}

// Close releases the underlying handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) withConn(ctx context.Context, op string, fn func(conn *sql.Conn) error) error {
	conn, err := s.db.Conn(ctx)
	if err != nil {
		return errors.Wrapf(err, "%s: acquire connection", op)
	}
	defer func() {
		if cerr := conn.Close(); cerr != nil {
			slog.WarnContext(ctx, "sqlite store: close connection", "op", op, "error", cerr)
		}
	}()
	if err := fn(conn); err != nil {
		return errors.Wrap(err, op)
	}
	return nil
}

// EnsureSchema creates the survey and user_study tables when they are missing.
func (s *SQLiteStore) EnsureSchema(ctx context.Context) error {
	return s.withConn(ctx, "ensure schema", func(conn *sql.Conn) error {
		return RunMigrations(ctx, conn, s.migrationsDir)
	})
}

// InsertSurvey appends one survey row and returns the whole table afterwards.
func (s *SQLiteStore) InsertSurvey(ctx context.Context, name string, age int, model string) (models.SurveyTable, error) {
	var out models.SurveyTable
	err := s.withConn(ctx, "insert survey", func(conn *sql.Conn) error {
		query, args, err := sq.Insert(surveyTable).
			Columns("name", "age", "model").
			Values(name, age, model).
			ToSql()
		if err != nil {
			return err
		}
		if _, err := conn.ExecContext(ctx, query, args...); err != nil {
			return err
		}
		out, err = selectSurveys(ctx, conn)
		return err
	})
	return out, err
}

// InsertUserStudy appends one user-study row.
func (s *SQLiteStore) InsertUserStudy(ctx context.Context, name, metricA, metricB, metricC string) error {
	return s.withConn(ctx, "insert user study", func(conn *sql.Conn) error {
		query, args, err := sq.Insert(userStudyTable).
			Columns("name", "metric_a", "metric_b", "metric_c").
			Values(name, metricA, metricB, metricC).
			ToSql()
		if err != nil {
			return err
		}
		_, err = conn.ExecContext(ctx, query, args...)
		return err
	})
}

// ListSurveys returns every survey row in insertion order plus the count.
func (s *SQLiteStore) ListSurveys(ctx context.Context) (models.SurveyTable, error) {
	var out models.SurveyTable
	err := s.withConn(ctx, "list surveys", func(conn *sql.Conn) error {
		var err error
		out, err = selectSurveys(ctx, conn)
		return err
	})
	return out, err
}

// ListUserStudies returns every user-study row in insertion order plus the count.
func (s *SQLiteStore) ListUserStudies(ctx context.Context) (models.UserStudyTable, error) {
	var out models.UserStudyTable
	err := s.withConn(ctx, "list user studies", func(conn *sql.Conn) error {
		query, args, err := sq.Select(userStudyColumns...).From(userStudyTable).OrderBy("id ASC").ToSql()
		if err != nil {
			return err
		}
		rows, err := conn.QueryContext(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()
		out.Rows = []models.UserStudyResponse{}
		for rows.Next() {
			var (
				r             models.UserStudyResponse
				name, a, b, c sql.NullString
			)
			if err := rows.Scan(&r.ID, &r.CreatedAt, &name, &a, &b, &c); err != nil {
				return err
			}
			r.Name, r.MetricA, r.MetricB, r.MetricC = name.String, a.String, b.String, c.String
			out.Rows = append(out.Rows, r)
		}
		if err := rows.Err(); err != nil {
			return err
		}
		out.Count, err = countRows(ctx, conn, userStudyTable)
		return err
	})
	return out, err
}

func selectSurveys(ctx context.Context, conn *sql.Conn) (models.SurveyTable, error) {
	out := models.SurveyTable{Rows: []models.SurveyResponse{}}
	query, args, err := sq.Select(surveyColumns...).From(surveyTable).OrderBy("id ASC").ToSql()
	if err != nil {
		return out, err
	}
	rows, err := conn.QueryContext(ctx, query, args...)
	if err != nil {
		return out, err
	}
	defer rows.Close()
	for rows.Next() {
		var (
			r           models.SurveyResponse
			name, model sql.NullString
			age         sql.NullInt64
		)
		if err := rows.Scan(&r.ID, &r.CreatedAt, &name, &age, &model); err != nil {
			return out, err
		}
		r.Name, r.Age, r.Model = name.String, int(age.Int64), model.String
		out.Rows = append(out.Rows, r)
	}
	if err := rows.Err(); err != nil {
		return out, err
	}
	out.Count, err = countRows(ctx, conn, surveyTable)
	return out, err
}

func countRows(ctx context.Context, conn *sql.Conn, table string) (int, error) {
	query, args, err := sq.Select("COUNT(*)").From(table).ToSql()
	if err != nil {
		return 0, err
	}
	var n int
	if err := conn.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}
