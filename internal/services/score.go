package services

import "github.com/soaringjerry/avatar-survey/internal/models"

// ReverseScore maps a raw Likert value to its reverse-scored value
// given the number of points in the scale. Out-of-range values are clamped.
func ReverseScore(raw, points int) int {
	if points < 2 {
		return raw
	}
	raw = max(1, min(raw, points))
	return (points + 1) - raw
}

// MetricScore turns a rating label into an ordinal score: the first label
// (A) scores highest, the last (E) scores 1.
func MetricScore(label string) (int, bool) {
	for i, l := range models.MetricLabels {
		if l == label {
			return ReverseScore(i+1, len(models.MetricLabels)), true
		}
	}
	return 0, false
}
