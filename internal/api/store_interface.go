package api

import (
	"context"

	"github.com/soaringjerry/avatar-survey/internal/models"
	"github.com/soaringjerry/avatar-survey/internal/services"
)

// Store is everything the HTTP layer's services need from persistence.
// internal/db.SQLiteStore is the production implementation.
type Store interface {
	InsertSurvey(ctx context.Context, name string, age int, model string) (models.SurveyTable, error)
	ListSurveys(ctx context.Context) (models.SurveyTable, error)
	InsertUserStudy(ctx context.Context, name, metricA, metricB, metricC string) error
	ListUserStudies(ctx context.Context) (models.UserStudyTable, error)
}

var (
	_ services.ResponseStore  = Store(nil)
	_ services.ExportStore    = Store(nil)
	_ services.AnalyticsStore = Store(nil)
)
