package insights

import (
	"fmt"
	"strings"
	"time"

	"github.com/emiliopalmerini/mhabit/internal/domain"
)

// RecentDatesInPrompt is how many of the latest completion dates a habit prompt carries.
const RecentDatesInPrompt = 7

// HabitPrompt builds the per-habit request. The output depends only on the
// habit and now, so identical inputs always produce identical prompts.
func HabitPrompt(h domain.Habit, now time.Time) string {
	recent := h.RecentDates(RecentDatesInPrompt)
	dates := "none"
	if len(recent) > 0 {
		dates = strings.Join(recent, ", ")
	}

	var b strings.Builder
	b.WriteString("You are a supportive habit coach. Look at this habit tracking data and ")
	b.WriteString("give one short, specific insight about the pattern in at most two sentences.\n\n")
	fmt.Fprintf(&b, "Habit: %s\n", h.Name)
	fmt.Fprintf(&b, "Recent completion dates: %s\n", dates)
	fmt.Fprintf(&b, "Completion rate: %d%%\n", domain.CompletionRate(h, now))
	fmt.Fprintf(&b, "Days tracked: %d\n", domain.DaysTracked(h, now))
	return b.String()
}

// OverallPrompt builds the request summarizing every habit.
func OverallPrompt(stats domain.BasicStats) string {
	var b strings.Builder
	b.WriteString("You are a supportive habit coach. Summarize this person's overall habit ")
	b.WriteString("tracking in at most three sentences and suggest one improvement.\n\n")
	fmt.Fprintf(&b, "Habits tracked: %d\n", stats.TotalHabits)
	fmt.Fprintf(&b, "Total completions: %d\n", stats.TotalCompletions)
	fmt.Fprintf(&b, "Average completions per habit: %.1f\n", stats.AvgCompletionsPerHabit)
	fmt.Fprintf(&b, "Most completed habit: %s\n", stats.BestPerformingHabit)
	fmt.Fprintf(&b, "Overall completion rate: %.1f%%\n", stats.OverallCompletionRate)
	return b.String()
}
