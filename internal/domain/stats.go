package domain

import "time"

// HabitStats holds the derived statistics for one habit.
type HabitStats struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	TotalCompletions int    `json:"total_completions"`
	Streak           int    `json:"streak"`
	LongestStreak    int    `json:"longest_streak"`
	CompletionRate   int    `json:"completion_rate"`
}

// StatsSummary is the per-habit statistics payload.
type StatsSummary struct {
	TotalHabits int          `json:"total_habits"`
	HabitsData  []HabitStats `json:"habits_data"`
}

// BasicStats holds aggregate statistics across all habits.
type BasicStats struct {
	TotalHabits            int     `json:"total_habits"`
	TotalCompletions       int     `json:"total_completions"`
	AvgCompletionsPerHabit float64 `json:"avg_completions_per_habit"`
	BestPerformingHabit    string  `json:"best_performing_habit"`
	OverallCompletionRate  float64 `json:"overall_completion_rate"`
}

// ComputeHabitStats derives the statistics of a single habit as of now.
func ComputeHabitStats(h Habit, now time.Time) HabitStats {
	return HabitStats{
		ID:               h.ID,
		Name:             h.Name,
		TotalCompletions: len(h.Completions),
		Streak:           CurrentStreak(h, now),
		LongestStreak:    LongestStreak(h),
		CompletionRate:   CompletionRate(h, now),
	}
}

// ComputeStats derives statistics for every habit in list order.
func ComputeStats(c *HabitCollection, now time.Time) StatsSummary {
	summary := StatsSummary{HabitsData: []HabitStats{}}
	if c == nil {
		return summary
	}
	summary.TotalHabits = len(c.Habits)
	for _, h := range c.Habits {
		summary.HabitsData = append(summary.HabitsData, ComputeHabitStats(h, now))
	}
	return summary
}

// ComputeBasicStats aggregates statistics across habits. The overall rate is
// the mean of each habit's own completion rate, every habit weighted equally.
// Returns the zero value for an empty slice.
func ComputeBasicStats(habits []Habit, now time.Time) BasicStats {
	if len(habits) == 0 {
		return BasicStats{}
	}

	var (
		total     int
		rateSum   int
		best      string
		bestCount = -1
	)
	for _, h := range habits {
		n := len(h.Completions)
		total += n
		if n > bestCount {
			bestCount = n
			best = h.Name
		}
		rateSum += CompletionRate(h, now)
	}

	count := float64(len(habits))
	return BasicStats{
		TotalHabits:            len(habits),
		TotalCompletions:       total,
		AvgCompletionsPerHabit: RoundTo(float64(total)/count, 1),
		BestPerformingHabit:    best,
		OverallCompletionRate:  RoundTo(float64(rateSum)/count, 1),
	}
}
