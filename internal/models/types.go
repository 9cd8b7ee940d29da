package models

import "time"

// TimestampLayout is the layout SQLite uses for CURRENT_TIMESTAMP.
const TimestampLayout = "2006-01-02 15:04:05"

// MetricLabels is the fixed ordinal label set for user-study ratings, best first.
var MetricLabels = []string{"A", "B", "C", "D", "E"}

// SurveyResponse is one row of the survey table.
type SurveyResponse struct {
	ID        int64     `json:"id"`
	CreatedAt time.Time `json:"date_created"`
	Name      string    `json:"name"`
	Age       int       `json:"age"`
	Model     string    `json:"model"`
}

// UserStudyResponse is one row of the user_study table.
type UserStudyResponse struct {
	ID        int64     `json:"id"`
	CreatedAt time.Time `json:"date_created"`
	Name      string    `json:"name"`
	MetricA   string    `json:"metric_a"`
	MetricB   string    `json:"metric_b"`
	MetricC   string    `json:"metric_c"`
}

// SurveyTable is the full survey table in insertion order plus its row count.
type SurveyTable struct {
	Rows  []SurveyResponse `json:"rows"`
	Count int              `json:"count"`
}

// UserStudyTable is the full user_study table in insertion order plus its row count.
type UserStudyTable struct {
	Rows  []UserStudyResponse `json:"rows"`
	Count int                 `json:"count"`
}

// MediaItem references an image or video shown to respondents.
type MediaItem struct {
	URL     string `json:"url"`
	Caption string `json:"caption"`
}
