package domain

import (
	"math"
	"time"
)

// WindowStart returns the first day of the observation window: the earlier of
// the creation date and the earliest completion. ok is false when neither is known.
func WindowStart(h Habit, loc *time.Location) (start time.Time, ok bool) {
	days := h.CompletionDays()
	if len(days) > 0 {
		start, ok = days[len(days)-1], true
	}

	created, err := ParseTimestamp(h.CreatedAt, loc)
	if err != nil {
		return start, ok
	}
	if !ok || created.Before(start) {
		return created, true
	}
	return start, true
}

// DaysTracked returns the length of the observation window ending today,
// inclusive, floored at 1. It is 0 when the window has no known start.
func DaysTracked(h Habit, now time.Time) int {
	start, ok := WindowStart(h, now.Location())
	if !ok {
		return 0
	}
	days := DaysBetween(start, CalendarDay(now)) + 1
	if days < 1 {
		return 1
	}
	return days
}

// CompletionRate returns the rounded percentage of tracked days on which the
// habit was completed, clamped to [0, 100]. Habits without completions score 0.
func CompletionRate(h Habit, now time.Time) int {
	completed := len(h.CompletionDays())
	if completed == 0 {
		return 0
	}
	tracked := DaysTracked(h, now)
	if tracked < 1 {
		tracked = 1
	}
	rate := int(math.Round(float64(completed) / float64(tracked) * 100))
	return clampPercent(rate)
}

func clampPercent(v int) int {
	switch {
	case v < 0:
		return 0
	case v > 100:
		return 100
	default:
		return v
	}
}

// RoundTo rounds v to the given number of decimal places.
func RoundTo(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
