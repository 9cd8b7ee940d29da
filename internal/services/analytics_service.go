package services

import (
	"context"
	"sort"

	"github.com/soaringjerry/avatar-survey/internal/models"
)

type AnalyticsStore interface {
	ListUserStudies(ctx context.Context) (models.UserStudyTable, error)
}

type AnalyticsService struct {
	store AnalyticsStore
}

type MetricSummary struct {
	Metric    string   `json:"metric"`
	Labels    []string `json:"labels"`
	Histogram []int    `json:"histogram"`
	Total     int      `json:"total"`
	Mean      float64  `json:"mean"`
}

type AnalyticsTimeseries struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

type UserStudySummary struct {
	TotalResponses int                   `json:"total_responses"`
	Metrics        []MetricSummary       `json:"metrics"`
	Timeseries     []AnalyticsTimeseries `json:"timeseries"`
	Alpha          float64               `json:"alpha"`
	N              int                   `json:"n"`
}

func NewAnalyticsService(store AnalyticsStore) *AnalyticsService {
	return &AnalyticsService{store: store}
}

// Summary aggregates the user_study table: label histograms and mean ordinal
// score per metric, submissions per UTC day, and Cronbach's alpha over the
// three metrics for rows where all three carry a known label.
func (s *AnalyticsService) Summary(ctx context.Context) (*UserStudySummary, error) {
	table, err := s.store.ListUserStudies(ctx)
	if err != nil {
		return nil, err
	}
	metricNames := []string{"metric_a", "metric_b", "metric_c"}
	pick := func(r models.UserStudyResponse) []string {
		return []string{r.MetricA, r.MetricB, r.MetricC}
	}

	summaries := make([]MetricSummary, len(metricNames))
	sums := make([]float64, len(metricNames))
	for i, name := range metricNames {
		summaries[i] = MetricSummary{
			Metric:    name,
			Labels:    models.MetricLabels,
			Histogram: make([]int, len(models.MetricLabels)),
		}
	}
	countsByDay := map[string]int{}
	matrix := make([][]float64, 0, len(table.Rows))
	for _, r := range table.Rows {
		countsByDay[r.CreatedAt.UTC().Format("2006-01-02")]++
		row := make([]float64, 0, len(metricNames))
		for i, label := range pick(r) {
			score, ok := MetricScore(label)
			if !ok {
				continue
			}
			summaries[i].Histogram[len(models.MetricLabels)-score]++
			summaries[i].Total++
			sums[i] += float64(score)
			row = append(row, float64(score))
		}
		if len(row) == len(metricNames) {
			matrix = append(matrix, row)
		}
	}
	for i := range summaries {
		if summaries[i].Total > 0 {
			summaries[i].Mean = sums[i] / float64(summaries[i].Total)
		}
	}
	return &UserStudySummary{
		TotalResponses: table.Count,
		Metrics:        summaries,
		Timeseries:     buildTimeseries(countsByDay),
		Alpha:          CronbachAlpha(matrix),
		N:              len(matrix),
	}, nil
}

func buildTimeseries(counts map[string]int) []AnalyticsTimeseries {
	days := make([]string, 0, len(counts))
	for d := range counts {
		days = append(days, d)
	}
	sort.Strings(days)
	out := make([]AnalyticsTimeseries, 0, len(days))
	for _, d := range days {
		out = append(out, AnalyticsTimeseries{Date: d, Count: counts[d]})
	}
	return out
}
