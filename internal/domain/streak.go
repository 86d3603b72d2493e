package domain

import "time"

// CurrentStreak counts consecutive completed days ending today or yesterday,
// as seen from now's wall clock. A run ending earlier is broken and yields 0.
func CurrentStreak(h Habit, now time.Time) int {
	days := h.CompletionDays()
	if len(days) == 0 {
		return 0
	}

	today := CalendarDay(now)
	yesterday := today.AddDate(0, 0, -1)
	if !days[0].Equal(today) && !days[0].Equal(yesterday) {
		return 0
	}

	streak := 1
	last := days[0]
	for _, d := range days[1:] {
		if DaysBetween(d, last) != 1 {
			break
		}
		streak++
		last = d
	}
	return streak
}

// LongestStreak returns the longest run of consecutive completed days in the
// whole history, regardless of when it ended.
func LongestStreak(h Habit) int {
	days := h.CompletionDays()
	if len(days) == 0 {
		return 0
	}

	longest, run := 1, 1
	for i := 1; i < len(days); i++ {
		if DaysBetween(days[i], days[i-1]) == 1 {
			run++
		} else {
			run = 1
		}
		if run > longest {
			longest = run
		}
	}
	return longest
}
