package db

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soaringjerry/avatar-survey/internal/services"
)

var (
	_ services.ResponseStore  = (*SQLiteStore)(nil)
	_ services.ExportStore    = (*SQLiteStore)(nil)
	_ services.AnalyticsStore = (*SQLiteStore)(nil)
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "nested", "survey.db"), "")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	require.NoError(t, store.EnsureSchema(context.Background()))
	return store
}

func TestInsertSurveyGrowsTable(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	table, err := store.InsertSurvey(ctx, "John", 25, "model1")
	require.NoError(t, err)
	require.Equal(t, 1, table.Count)
	row := table.Rows[0]
	assert.Equal(t, int64(1), row.ID)
	assert.Equal(t, "John", row.Name)
	assert.Equal(t, 25, row.Age)
	assert.Equal(t, "model1", row.Model)
	assert.WithinDuration(t, time.Now().UTC(), row.CreatedAt, time.Minute)

	table, err = store.InsertSurvey(ctx, "  Ünïcode, \"quoted\"  ", 101, "model 2")
	require.NoError(t, err)
	require.Equal(t, 2, table.Count)
	assert.Equal(t, "  Ünïcode, \"quoted\"  ", table.Rows[1].Name, "stored verbatim")
}

func TestListPreservesInsertionOrder(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	names := []string{"c", "a", "b", "a"}
	for i, n := range names {
		_, err := store.InsertSurvey(ctx, n, 20+i, "m")
		require.NoError(t, err)
	}
	table, err := store.ListSurveys(ctx)
	require.NoError(t, err)
	require.Equal(t, len(names), table.Count)
	for i, n := range names {
		assert.Equal(t, n, table.Rows[i].Name)
		assert.Equal(t, 20+i, table.Rows[i].Age)
	}
}

func TestUserStudyRows(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	table, err := store.ListUserStudies(ctx)
	require.NoError(t, err)
	assert.Zero(t, table.Count)
	assert.NotNil(t, table.Rows)

	require.NoError(t, store.InsertUserStudy(ctx, "Jane", "A", "B", "C"))
	require.NoError(t, store.InsertUserStudy(ctx, "Max", "E", "D", "C"))
	table, err = store.ListUserStudies(ctx)
	require.NoError(t, err)
	require.Equal(t, 2, table.Count)
	assert.Equal(t, "Jane", table.Rows[0].Name)
	assert.Equal(t, []string{"E", "D", "C"}, []string{table.Rows[1].MetricA, table.Rows[1].MetricB, table.Rows[1].MetricC})

	surveys, err := store.ListSurveys(ctx)
	require.NoError(t, err)
	assert.Zero(t, surveys.Count, "tables are independent")
}

func TestEnsureSchemaIsIdempotent(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	_, err := store.InsertSurvey(ctx, "John", 25, "model1")
	require.NoError(t, err)

	require.NoError(t, store.EnsureSchema(ctx))
	table, err := store.ListSurveys(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, table.Count)
}

func TestReopenKeepsRows(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "survey.db")
	store, err := Open(path, "")
	require.NoError(t, err)
	require.NoError(t, store.EnsureSchema(ctx))
	_, err = store.InsertSurvey(ctx, "Alice", 30, "model2")
	require.NoError(t, err)
	require.NoError(t, store.Close())

	store, err = Open(path, "")
	require.NoError(t, err)
	defer store.Close()
	require.NoError(t, store.EnsureSchema(ctx))
	table, err := store.ListSurveys(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, table.Count)
	assert.Equal(t, "Alice", table.Rows[0].Name)
}

func TestMissingSchemaFails(t *testing.T) {
	store, err := Open(filepath.Join(t.TempDir(), "bare.db"), "")
	require.NoError(t, err)
	defer store.Close()
	_, err = store.ListSurveys(context.Background())
	assert.Error(t, err)
}

func TestMigrationsDirOverridesEmbedded(t *testing.T) {
	dir := t.TempDir()
	schema := `CREATE TABLE IF NOT EXISTS survey (
  id INTEGER PRIMARY KEY AUTOINCREMENT NOT NULL,
  create_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP NOT NULL,
  name TEXT, age INTEGER, model TEXT, note TEXT
);`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "0001_init.sql"), []byte(schema), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "README.md"), []byte("ignored"), 0o644))

	store, err := Open(filepath.Join(t.TempDir(), "custom.db"), dir)
	require.NoError(t, err)
	defer store.Close()
	ctx := context.Background()
	require.NoError(t, store.EnsureSchema(ctx))
	_, err = store.InsertSurvey(ctx, "John", 25, "model1")
	require.NoError(t, err)
	_, err = store.ListUserStudies(ctx)
	assert.Error(t, err, "custom schema has no user_study table")
}

func TestMigrationsDirWithoutSchemaFails(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("no sql here"), 0o644))

	store, err := Open(filepath.Join(t.TempDir(), "empty.db"), dir)
	require.NoError(t, err)
	defer store.Close()
	err = store.EnsureSchema(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no .sql schema files")
}

func TestMissingMigrationsDirUsesEmbedded(t *testing.T) {
	store, err := Open(filepath.Join(t.TempDir(), "s.db"), filepath.Join(t.TempDir(), "absent"))
	require.NoError(t, err)
	defer store.Close()
	ctx := context.Background()
	require.NoError(t, store.EnsureSchema(ctx))
	_, err = store.InsertSurvey(ctx, "John", 25, "model1")
	assert.NoError(t, err)
}

func TestOpenRequiresPath(t *testing.T) {
	_, err := Open("", "")
	assert.Error(t, err)
}
