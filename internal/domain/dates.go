package domain

import (
	"fmt"
	"math"
	"time"
)

// DateLayout is the calendar date format used for completion keys.
const DateLayout = "2006-01-02"

// timestampLayouts lists the created_at formats accepted when reading a document.
// Layouts without a zone are interpreted in the observer's location.
var timestampLayouts = []struct {
	layout string
	zoned  bool
}{
	{time.RFC3339Nano, true},
	{"2006-01-02T15:04:05", false},
	{"2006-01-02 15:04:05", false},
	{DateLayout, false},
}

// CalendarDay returns the wall-clock date of t as midnight UTC, so that
// day arithmetic is free of DST shifts.
func CalendarDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a "YYYY-MM-DD" completion date into a calendar day.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return t, nil
}

// ParseTimestamp parses a created_at value, either a full timestamp or a bare
// date, and returns the calendar day it falls on in loc.
func ParseTimestamp(s string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	for _, l := range timestampLayouts {
		if l.zoned {
			if t, err := time.Parse(l.layout, s); err == nil {
				return CalendarDay(t.In(loc)), nil
			}
			continue
		}
		if t, err := time.ParseInLocation(l.layout, s, loc); err == nil {
			return CalendarDay(t), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised timestamp %q", s)
}

// DaysBetween returns the number of calendar days from a to b. Both values
// must come from CalendarDay or ParseDate.
func DaysBetween(a, b time.Time) int {
	return int(math.Round(b.Sub(a).Hours() / 24))
}

// FormatDate renders t's wall-clock date as a completion key.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// FormatTimestamp renders t the way created_at and completion timestamps are stored.
func FormatTimestamp(t time.Time) string {
	return t.Format(time.RFC3339)
}
