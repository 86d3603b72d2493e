package cli

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show streaks and completion rates",
	Args:  cobra.NoArgs,
	RunE:  runStats,
}

var statsJSON bool

func init() {
	rootCmd.AddCommand(statsCmd)
	statsCmd.Flags().BoolVar(&statsJSON, "json", false, "Print JSON")
}

func runStats(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	app, err := NewAppContext(ctx)
	if err != nil {
		return err
	}
	defer app.Close()

	stats := app.Service.Stats(ctx)
	if statsJSON {
		return printJSON(cmd.OutOrStdout(), stats)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Habits: %d\n\n", stats.TotalHabits)
	if stats.TotalHabits == 0 {
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tTOTAL\tSTREAK\tLONGEST\tRATE")
	for _, h := range stats.HabitsData {
		fmt.Fprintf(w, "%s\t%d\t%d\t%d\t%d%%\n", h.Name, h.TotalCompletions, h.Streak, h.LongestStreak, h.CompletionRate)
	}
	return w.Flush()
}
