package tz

import (
	"fmt"
	"time"
)

// Prague is the Europe/Prague location (CET/CEST with automatic DST).
var Prague *time.Location

func init() {
	var err error
	Prague, err = time.LoadLocation("Europe/Prague")
	if err != nil {
		panic("tz: load Europe/Prague: " + err.Error())
	}
}

// Today returns midnight of now's calendar day in Prague.
func Today(now time.Time) time.Time {
	y, m, d := now.In(Prague).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, Prague)
}

// ParseDate parses a YYYY-MM-DD date as midnight in Prague.
func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(time.DateOnly, s, Prague)
}

// ParseClock parses "HH:MM" into minutes since midnight.
func ParseClock(s string) (int, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, fmt.Errorf("tz: invalid clock %q: %w", s, err)
	}
	return t.Hour()*60 + t.Minute(), nil
}

// At combines a calendar date with a clock offset in minutes, in Prague.
func At(date time.Time, minutes int) time.Time {
	y, m, d := date.In(Prague).Date()
	return time.Date(y, m, d, minutes/60, minutes%60, 0, 0, Prague)
}

// FormatClock renders minutes since midnight as zero-padded "HH:MM".
func FormatClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}
