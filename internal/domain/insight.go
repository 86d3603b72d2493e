package domain

// HabitInsight is the free-text pattern analysis for one habit.
type HabitInsight struct {
	HabitName string `json:"habit_name"`
	HabitID   string `json:"habit_id"`
	Insight   string `json:"insight"`
}

// InsightReport is the result of a pattern analysis over the whole habit set.
// BasicStats is nil only when there are no habits at all.
type InsightReport struct {
	AnalysisReady   bool           `json:"analysis_ready"`
	Message         string         `json:"message,omitempty"`
	BasicStats      *BasicStats    `json:"basic_stats,omitempty"`
	HabitInsights   []HabitInsight `json:"habit_insights,omitempty"`
	OverallAnalysis string         `json:"overall_analysis,omitempty"`
	GeneratedAt     string         `json:"generated_at"`
}
