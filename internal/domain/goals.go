package domain

import (
	"fmt"
	"math"
	"time"
)

// MinGoalCompletions is the number of completions across all habits needed
// before per-habit goals are suggested.
const MinGoalCompletions = 5

// GoalSuggestion is an adaptive weekly target for one habit.
type GoalSuggestion struct {
	HabitID           string `json:"habit_id"`
	HabitName         string `json:"habit_name"`
	CompletionRate    int    `json:"completion_rate"`
	CurrentStreak     int    `json:"current_streak"`
	TargetDaysPerWeek int    `json:"target_days_per_week"`
	Suggestion        string `json:"suggestion"`
}

// GoalReport is the goal-suggestion payload.
type GoalReport struct {
	Message     string           `json:"message"`
	Suggestion  string           `json:"suggestion,omitempty"`
	Suggestions []GoalSuggestion `json:"suggestions,omitempty"`
}

// SuggestGoals proposes a weekly target per habit, one day above the pace
// implied by its completion rate.
func SuggestGoals(c *HabitCollection, now time.Time) GoalReport {
	if c == nil || len(c.Habits) == 0 {
		return GoalReport{Message: "Add some habits to get goal suggestions"}
	}
	if c.TotalCompletions() < MinGoalCompletions {
		return GoalReport{
			Message:    "Goal suggestions will be available after more habit tracking",
			Suggestion: "Try to complete at least one habit every day",
		}
	}

	report := GoalReport{Message: "Goals based on your consistency so far"}
	for _, h := range c.Habits {
		rate := CompletionRate(h, now)
		streak := CurrentStreak(h, now)
		pace := int(math.Round(float64(rate) * 7 / 100))
		target := pace + 1
		if target > 7 {
			target = 7
		}

		var text string
		switch {
		case rate == 0:
			text = "Start small: complete it at least once this week."
		case pace >= 7:
			text = fmt.Sprintf("Excellent consistency. Keep your %d-day streak going.", streak)
		default:
			text = fmt.Sprintf("You complete this about %d days per week. Aim for %d.", pace, target)
		}

		report.Suggestions = append(report.Suggestions, GoalSuggestion{
			HabitID:           h.ID,
			HabitName:         h.Name,
			CompletionRate:    rate,
			CurrentStreak:     streak,
			TargetDaysPerWeek: target,
			Suggestion:        text,
		})
	}
	return report
}
