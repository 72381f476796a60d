package tz

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseClock(t *testing.T) {
	m, err := ParseClock("18:30")
	require.NoError(t, err)
	assert.Equal(t, 18*60+30, m)

	_, err = ParseClock("25:00")
	assert.Error(t, err)
	_, err = ParseClock("late")
	assert.Error(t, err)
}

func TestFormatClockPadsHours(t *testing.T) {
	m, err := ParseClock("9:05")
	require.NoError(t, err)
	assert.Equal(t, "09:05", FormatClock(m))
	assert.Equal(t, "18:30", FormatClock(18*60+30))
}

func TestAtUsesPragueWallClock(t *testing.T) {
	d, err := ParseDate("2026-07-01")
	require.NoError(t, err)

	start := At(d, 18*60)
	assert.Equal(t, 18, start.Hour())
	// CEST in July.
	assert.Equal(t, "2026-07-01T16:00:00Z", start.UTC().Format(time.RFC3339))
}

func TestToday(t *testing.T) {
	now := time.Date(2026, 1, 10, 23, 30, 0, 0, time.UTC) // already the 11th in Prague
	today := Today(now)
	assert.Equal(t, 11, today.Day())
	assert.Equal(t, 0, today.Hour())
}
