package domain

import (
	"sort"
	"time"
)

// Completion records that a habit was performed on a calendar date.
// Timestamp is informational and never used by calculations.
type Completion struct {
	Date      string `json:"date"`
	Timestamp string `json:"timestamp"`
}

// Habit is a user-defined habit and its completion history.
type Habit struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Description string       `json:"description"`
	CreatedAt   string       `json:"created_at"`
	Completions []Completion `json:"completions"`
}

// HabitUpdate carries the mutable fields of a habit. Nil fields are left unchanged.
type HabitUpdate struct {
	Name        *string
	Description *string
}

// Empty reports whether u changes nothing.
func (u HabitUpdate) Empty() bool {
	return u.Name == nil && u.Description == nil
}

// NewHabit builds a habit with an empty history, created at now.
func NewHabit(id, name, description string, now time.Time) Habit {
	return Habit{
		ID:          id,
		Name:        name,
		Description: description,
		CreatedAt:   FormatTimestamp(now),
		Completions: []Completion{},
	}
}

// HasCompletion reports whether the habit is marked complete on date.
func (h *Habit) HasCompletion(date string) bool {
	for _, c := range h.Completions {
		if c.Date == date {
			return true
		}
	}
	return false
}

// Toggle flips the presence of date in the completion history and reports
// whether the date is now marked complete.
func (h *Habit) Toggle(date string, now time.Time) bool {
	if h.HasCompletion(date) {
		kept := h.Completions[:0]
		for _, c := range h.Completions {
			if c.Date != date {
				kept = append(kept, c)
			}
		}
		h.Completions = kept
		return false
	}

	h.Completions = append(h.Completions, Completion{
		Date:      date,
		Timestamp: FormatTimestamp(now),
	})
	return true
}

// Apply updates name and description. id, created_at and completions are never touched.
func (h *Habit) Apply(u HabitUpdate) {
	if u.Name != nil {
		h.Name = *u.Name
	}
	if u.Description != nil {
		h.Description = *u.Description
	}
}

// CompletionDays returns the distinct, parseable completion dates sorted
// newest first. Malformed dates are skipped.
func (h Habit) CompletionDays() []time.Time {
	seen := make(map[string]struct{}, len(h.Completions))
	days := make([]time.Time, 0, len(h.Completions))
	for _, c := range h.Completions {
		if _, ok := seen[c.Date]; ok {
			continue
		}
		d, err := ParseDate(c.Date)
		if err != nil {
			continue
		}
		seen[c.Date] = struct{}{}
		days = append(days, d)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].After(days[j]) })
	return days
}

// RecentDates returns up to n most recent completion dates, oldest first.
func (h Habit) RecentDates(n int) []string {
	days := h.CompletionDays()
	if len(days) > n {
		days = days[:n]
	}
	out := make([]string, len(days))
	for i, d := range days {
		out[len(days)-1-i] = FormatDate(d)
	}
	return out
}

// HabitCollection is the persisted envelope. List order is insertion order.
type HabitCollection struct {
	Habits []Habit `json:"habits"`
}

// NewHabitCollection returns an empty collection.
func NewHabitCollection() *HabitCollection {
	return &HabitCollection{Habits: []Habit{}}
}

// Normalize replaces nil slices so the document always serializes with arrays.
func (c *HabitCollection) Normalize() {
	if c.Habits == nil {
		c.Habits = []Habit{}
	}
	for i := range c.Habits {
		if c.Habits[i].Completions == nil {
			c.Habits[i].Completions = []Completion{}
		}
	}
}

// Find returns a pointer to the habit with id, or nil.
func (c *HabitCollection) Find(id string) *Habit {
	for i := range c.Habits {
		if c.Habits[i].ID == id {
			return &c.Habits[i]
		}
	}
	return nil
}

// Add appends a habit to the end of the collection.
func (c *HabitCollection) Add(h Habit) {
	c.Habits = append(c.Habits, h)
}

// Remove deletes the habit with id and reports whether it existed.
func (c *HabitCollection) Remove(id string) bool {
	for i := range c.Habits {
		if c.Habits[i].ID == id {
			c.Habits = append(c.Habits[:i], c.Habits[i+1:]...)
			return true
		}
	}
	return false
}

// TotalCompletions sums completion records across all habits.
func (c *HabitCollection) TotalCompletions() int {
	total := 0
	for _, h := range c.Habits {
		total += len(h.Completions)
	}
	return total
}
