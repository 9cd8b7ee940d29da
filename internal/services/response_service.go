package services

import (
	"context"
	"errors"

	"github.com/soaringjerry/avatar-survey/internal/models"
)

// ResponseStore abstracts persistence operations required by ResponseService.
// Implementations do no validation of their own.
type ResponseStore interface {
	InsertSurvey(ctx context.Context, name string, age int, model string) (models.SurveyTable, error)
	ListSurveys(ctx context.Context) (models.SurveyTable, error)
	InsertUserStudy(ctx context.Context, name, metricA, metricB, metricC string) error
	ListUserStudies(ctx context.Context) (models.UserStudyTable, error)
}

const (
	KindSurvey    = "survey"
	KindUserStudy = "user_study"
)

// ResponseService validates submissions and hands them to the store.
type ResponseService struct {
	store    ResponseStore
	observer Observer
}

// NewResponseService constructs a service bound to the provided persistence interface.
func NewResponseService(store ResponseStore) *ResponseService {
	return &ResponseService{store: store, observer: nopObserver{}}
}

// WithObserver sets the submission observer.
func (s *ResponseService) WithObserver(o Observer) *ResponseService {
	if o != nil {
		s.observer = o
	}
	return s
}

// SubmitSurvey validates in and appends it, returning the updated table.
// A validation failure aborts before the store is touched.
func (s *ResponseService) SubmitSurvey(ctx context.Context, in SurveySubmission) (models.SurveyTable, error) {
	if s.store == nil {
		return models.SurveyTable{}, errors.New("response service store is nil")
	}
	if err := ValidateStruct(in); err != nil {
		s.observer.ObserveSubmission(KindSurvey, err)
		return models.SurveyTable{}, err
	}
	table, err := s.store.InsertSurvey(ctx, in.Name, in.Age, in.Model)
	s.observer.ObserveSubmission(KindSurvey, err)
	return table, err
}

// SubmitUserStudy validates in and appends it.
func (s *ResponseService) SubmitUserStudy(ctx context.Context, in UserStudySubmission) error {
	if s.store == nil {
		return errors.New("response service store is nil")
	}
	if err := ValidateStruct(in); err != nil {
		s.observer.ObserveSubmission(KindUserStudy, err)
		return err
	}
	err := s.store.InsertUserStudy(ctx, in.Name, in.MetricA, in.MetricB, in.MetricC)
	s.observer.ObserveSubmission(KindUserStudy, err)
	return err
}

func (s *ResponseService) LoadSurveys(ctx context.Context) (models.SurveyTable, error) {
	return s.store.ListSurveys(ctx)
}

func (s *ResponseService) LoadUserStudies(ctx context.Context) (models.UserStudyTable, error) {
	return s.store.ListUserStudies(ctx)
}

// SeedDemo inserts two sample surveys when the survey table is empty and
// reports whether it did.
func (s *ResponseService) SeedDemo(ctx context.Context) (bool, error) {
	current, err := s.store.ListSurveys(ctx)
	if err != nil {
		return false, err
	}
	if current.Count > 0 {
		return false, nil
	}
	demo := []SurveySubmission{
		{Name: "John", Age: 25, Model: "model1"},
		{Name: "Alice", Age: 30, Model: "model2"},
	}
	for _, in := range demo {
		if _, err := s.SubmitSurvey(ctx, in); err != nil {
			return false, err
		}
	}
	return true, nil
}
