package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soaringjerry/avatar-survey/internal/models"
)

type stubResponseStore struct {
	surveys     []models.SurveyResponse
	userStudies []models.UserStudyResponse
	insertErr   error
	inserts     int
}

func (s *stubResponseStore) InsertSurvey(_ context.Context, name string, age int, model string) (models.SurveyTable, error) {
	s.inserts++
	if s.insertErr != nil {
		return models.SurveyTable{}, s.insertErr
	}
	s.surveys = append(s.surveys, models.SurveyResponse{
		ID: int64(len(s.surveys) + 1), CreatedAt: time.Unix(0, 0).UTC(), Name: name, Age: age, Model: model,
	})
	return s.ListSurveys(context.Background())
}

func (s *stubResponseStore) ListSurveys(context.Context) (models.SurveyTable, error) {
	rows := append([]models.SurveyResponse{}, s.surveys...)
	return models.SurveyTable{Rows: rows, Count: len(rows)}, nil
}

func (s *stubResponseStore) InsertUserStudy(_ context.Context, name, a, b, c string) error {
	s.inserts++
	if s.insertErr != nil {
		return s.insertErr
	}
	s.userStudies = append(s.userStudies, models.UserStudyResponse{
		ID: int64(len(s.userStudies) + 1), Name: name, MetricA: a, MetricB: b, MetricC: c,
	})
	return nil
}

func (s *stubResponseStore) ListUserStudies(context.Context) (models.UserStudyTable, error) {
	rows := append([]models.UserStudyResponse{}, s.userStudies...)
	return models.UserStudyTable{Rows: rows, Count: len(rows)}, nil
}

type recordingObserver struct {
	submissions []string
	failures    int
	exports     []string
}

func (o *recordingObserver) ObserveSubmission(kind string, err error) {
	o.submissions = append(o.submissions, kind)
	if err != nil {
		o.failures++
	}
}

func (o *recordingObserver) ObserveExport(table string, _ int, _ time.Duration, err error) {
	o.exports = append(o.exports, table)
	if err != nil {
		o.failures++
	}
}

func TestSubmitSurveySuccess(t *testing.T) {
	store := &stubResponseStore{}
	obs := &recordingObserver{}
	svc := NewResponseService(store).WithObserver(obs)

	table, err := svc.SubmitSurvey(context.Background(), SurveySubmission{Name: "John", Age: 25, Model: "model1"})
	require.NoError(t, err)
	require.Equal(t, 1, table.Count)
	assert.Equal(t, "John", table.Rows[0].Name)
	assert.Equal(t, 25, table.Rows[0].Age)
	assert.Equal(t, "model1", table.Rows[0].Model)
	assert.Equal(t, []string{KindSurvey}, obs.submissions)
	assert.Zero(t, obs.failures)
}

func TestSubmitSurveyValidation(t *testing.T) {
	cases := []struct {
		name  string
		in    SurveySubmission
		field string
	}{
		{"missing name", SurveySubmission{Age: 25, Model: "model1"}, "name"},
		{"missing age", SurveySubmission{Name: "John", Model: "model1"}, "age"},
		{"missing model", SurveySubmission{Name: "John", Age: 25}, "model"},
		{"all missing reports name first", SurveySubmission{}, "name"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			store := &stubResponseStore{}
			svc := NewResponseService(store)
			_, err := svc.SubmitSurvey(context.Background(), c.in)
			ve, ok := AsValidationError(err)
			require.True(t, ok, "want ValidationError, got %v", err)
			assert.Equal(t, c.field, ve.Field)
			assert.Equal(t, "required", ve.Rule)
			assert.Zero(t, store.inserts, "store must not be touched")
		})
	}
}

func TestSubmitUserStudy(t *testing.T) {
	store := &stubResponseStore{}
	svc := NewResponseService(store)

	err := svc.SubmitUserStudy(context.Background(), UserStudySubmission{MetricA: "A", MetricB: "B", MetricC: "C", Name: "Jane"})
	require.NoError(t, err)
	table, err := svc.LoadUserStudies(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, table.Count)
	assert.Equal(t, "Jane", table.Rows[0].Name)
}

func TestSubmitUserStudyMissingMetric(t *testing.T) {
	store := &stubResponseStore{}
	svc := NewResponseService(store)

	err := svc.SubmitUserStudy(context.Background(), UserStudySubmission{MetricA: "", MetricB: "B", MetricC: "C", Name: "Jane"})
	ve, ok := AsValidationError(err)
	require.True(t, ok)
	assert.Equal(t, "metric_a", ve.Field)
	assert.Zero(t, store.inserts)
	assert.Empty(t, store.userStudies)
}

func TestSubmitUserStudyUnknownLabel(t *testing.T) {
	store := &stubResponseStore{}
	svc := NewResponseService(store)

	err := svc.SubmitUserStudy(context.Background(), UserStudySubmission{MetricA: "A", MetricB: "Z", MetricC: "C", Name: "Jane"})
	ve, ok := AsValidationError(err)
	require.True(t, ok)
	assert.Equal(t, "metric_b", ve.Field)
	assert.Equal(t, "oneof", ve.Rule)
	assert.Equal(t, "metric_b must be one of A, B, C, D, E", ve.Error())
	assert.Equal(t, "validation.oneof.metric_b", ve.MessageKey())
}

func TestSubmitSurveyStoreErrorPropagates(t *testing.T) {
	boom := errors.New("database is locked")
	store := &stubResponseStore{insertErr: boom}
	obs := &recordingObserver{}
	svc := NewResponseService(store).WithObserver(obs)

	_, err := svc.SubmitSurvey(context.Background(), SurveySubmission{Name: "John", Age: 25, Model: "model1"})
	require.ErrorIs(t, err, boom)
	_, isValidation := AsValidationError(err)
	assert.False(t, isValidation)
	assert.Equal(t, 1, obs.failures)
}

func TestSeedDemo(t *testing.T) {
	store := &stubResponseStore{}
	svc := NewResponseService(store)

	seeded, err := svc.SeedDemo(context.Background())
	require.NoError(t, err)
	assert.True(t, seeded)

	seeded, err = svc.SeedDemo(context.Background())
	require.NoError(t, err)
	assert.False(t, seeded)

	table, err := svc.LoadSurveys(context.Background())
	require.NoError(t, err)
	require.Equal(t, 2, table.Count)
	assert.Equal(t, "John", table.Rows[0].Name)
	assert.Equal(t, "Alice", table.Rows[1].Name)
}
