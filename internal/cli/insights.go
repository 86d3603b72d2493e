package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/emiliopalmerini/mhabit/internal/util"
)

var insightsCmd = &cobra.Command{
	Use:   "insights",
	Short: "Analyze habit patterns with the local model",
	Args:  cobra.NoArgs,
	RunE:  runInsights,
}

var goalsCmd = &cobra.Command{
	Use:   "goals",
	Short: "Suggest weekly targets per habit",
	Args:  cobra.NoArgs,
	RunE:  runGoals,
}

var insightsJSON bool

func init() {
	rootCmd.AddCommand(insightsCmd, goalsCmd)
	insightsCmd.Flags().BoolVar(&insightsJSON, "json", false, "Print JSON")
	goalsCmd.Flags().BoolVar(&insightsJSON, "json", false, "Print JSON")
}

func runInsights(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	app, err := NewAppContext(ctx)
	if err != nil {
		return err
	}
	defer app.Close()

	report, err := app.Service.Insights(ctx)
	if err != nil {
		return fmt.Errorf("failed to generate insights: %w", err)
	}
	if insightsJSON {
		return printJSON(cmd.OutOrStdout(), report)
	}

	out := cmd.OutOrStdout()
	if report.Message != "" {
		fmt.Fprintln(out, report.Message)
	}
	if s := report.BasicStats; s != nil {
		fmt.Fprintf(out, "\nHabits: %d  Completions: %d  Avg/habit: %.1f  Overall rate: %.1f%%\n",
			s.TotalHabits, s.TotalCompletions, s.AvgCompletionsPerHabit, s.OverallCompletionRate)
		if s.BestPerformingHabit != "" {
			fmt.Fprintf(out, "Most completed: %s\n", s.BestPerformingHabit)
		}
	}
	for _, hi := range report.HabitInsights {
		fmt.Fprintf(out, "\n%s\n  %s\n", hi.HabitName, hi.Insight)
	}
	if report.OverallAnalysis != "" {
		fmt.Fprintf(out, "\nOverall\n  %s\n", report.OverallAnalysis)
	}
	if report.GeneratedAt != "" {
		fmt.Fprintf(out, "\nGenerated %s\n", util.FormatDateTime(report.GeneratedAt))
	}
	return nil
}

func runGoals(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	app, err := NewAppContext(ctx)
	if err != nil {
		return err
	}
	defer app.Close()

	report := app.Service.Goals(ctx)
	if insightsJSON {
		return printJSON(cmd.OutOrStdout(), report)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, report.Message)
	if report.Suggestion != "" {
		fmt.Fprintln(out, report.Suggestion)
	}
	for _, g := range report.Suggestions {
		fmt.Fprintf(out, "\n%s (%d%%, streak %d): %d days/week\n  %s\n",
			g.HabitName, g.CompletionRate, g.CurrentStreak, g.TargetDaysPerWeek, g.Suggestion)
	}
	return nil
}
