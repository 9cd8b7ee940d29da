package services

import (
	"bytes"
	"encoding/csv"
	"strconv"

	"github.com/soaringjerry/avatar-survey/internal/models"
)

var (
	surveyCSVHeader    = []string{"id", "date_created", "name", "age", "model"}
	userStudyCSVHeader = []string{"id", "date_created", "name", "metric_a", "metric_b", "metric_c"}
)

// ExportSurveysCSV renders the survey table, one record per row, header first.
func ExportSurveysCSV(rows []models.SurveyResponse) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	_ = w.Write(surveyCSVHeader)
	for _, r := range rows {
		rec := []string{
			strconv.FormatInt(r.ID, 10),
			r.CreatedAt.UTC().Format(models.TimestampLayout),
			r.Name,
			strconv.Itoa(r.Age),
			r.Model,
		}
		if err := w.Write(rec); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

// ExportUserStudiesCSV renders the user_study table, one record per row, header first.
func ExportUserStudiesCSV(rows []models.UserStudyResponse) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	_ = w.Write(userStudyCSVHeader)
	for _, r := range rows {
		rec := []string{
			strconv.FormatInt(r.ID, 10),
			r.CreatedAt.UTC().Format(models.TimestampLayout),
			r.Name,
			r.MetricA,
			r.MetricB,
			r.MetricC,
		}
		if err := w.Write(rec); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}
