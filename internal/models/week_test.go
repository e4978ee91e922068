package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestWeekStartNormalisesToMonday(t *testing.T) {
	cases := map[string]string{
		"2025-01-13": "2025-01-13", // Monday
		"2025-01-15": "2025-01-13",
		"2025-01-19": "2025-01-13", // Sunday belongs to the preceding Monday
		"2025-01-20": "2025-01-20",
		"2024-12-31": "2024-12-30",
	}
	for in, want := range cases {
		d, err := ParseDate(in)
		assert.NoError(t, err)
		assert.Equal(t, want, WeekStart(d.Time).String(), in)
	}
}

func TestWeekStartUsesUTC(t *testing.T) {
	berlin := time.FixedZone("CET", 3600)
	// Monday 00:30 in Berlin is still Sunday in UTC.
	ts := time.Date(2025, 1, 20, 0, 30, 0, 0, berlin)
	assert.Equal(t, "2025-01-13", WeekKey(ts))
}

func TestWeekWindow(t *testing.T) {
	start, end := WeekWindow(time.Date(2025, 1, 16, 18, 0, 0, 0, time.UTC))
	assert.Equal(t, time.Date(2025, 1, 13, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2025, 1, 20, 0, 0, 0, 0, time.UTC), end)
}
