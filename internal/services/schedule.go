package services

import (
	"time"

	"github.com/adhocore/gronx"
	"github.com/cockroachdb/errors"
)

// Schedule yields the next fire time strictly after a reference time.
type Schedule interface {
	Next(after time.Time) (time.Time, error)
}

// IntervalSchedule fires every d.
type IntervalSchedule time.Duration

func (d IntervalSchedule) Next(after time.Time) (time.Time, error) {
	if d <= 0 {
		return time.Time{}, errors.Newf("export interval must be positive, got %s", time.Duration(d))
	}
	return after.Add(time.Duration(d)), nil
}

// CronSchedule fires on a cron expression. Six-segment expressions carry a
// leading seconds field.
type CronSchedule struct {
	expr string
}

func NewCronSchedule(expr string) (*CronSchedule, error) {
	if !gronx.New().IsValid(expr) {
		return nil, errors.Newf("invalid cron expression %q", expr)
	}
	return &CronSchedule{expr: expr}, nil
}

func (c *CronSchedule) Next(after time.Time) (time.Time, error) {
	next, err := gronx.NextTickAfter(c.expr, after, false)
	if err != nil {
		return time.Time{}, errors.Wrapf(err, "next tick of %q", c.expr)
	}
	return next, nil
}

func (c *CronSchedule) String() string { return c.expr }
