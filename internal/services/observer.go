package services

import "time"

// Observer receives outcome notifications for submissions and export ticks.
type Observer interface {
	ObserveSubmission(kind string, err error)
	ObserveExport(table string, rows int, elapsed time.Duration, err error)
}

type nopObserver struct{}

func (nopObserver) ObserveSubmission(string, error) {}
func (nopObserver) ObserveExport(string, int, time.Duration, error) {}
