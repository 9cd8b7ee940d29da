package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIntervalSchedule(t *testing.T) {
	ref := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	next, err := IntervalSchedule(60 * time.Second).Next(ref)
	require.NoError(t, err)
	assert.Equal(t, ref.Add(time.Minute), next)

	_, err = IntervalSchedule(-time.Second).Next(ref)
	assert.Error(t, err)
}

func TestCronSchedule(t *testing.T) {
	s, err := NewCronSchedule("*/5 * * * *")
	require.NoError(t, err)

	ref := time.Date(2024, 1, 1, 10, 2, 30, 0, time.UTC)
	next, err := s.Next(ref)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 1, 1, 10, 5, 0, 0, time.UTC), next)
	assert.Equal(t, "*/5 * * * *", s.String())
}

func TestCronScheduleInvalid(t *testing.T) {
	_, err := NewCronSchedule("every minute")
	assert.Error(t, err)
}
