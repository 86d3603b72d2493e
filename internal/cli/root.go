package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "mhabit",
	Short: "Habit tracker with streaks, completion rates and local AI insights",
	Long: `mhabit tracks daily habits, computes streaks and completion rates, and
asks a local Ollama model for short insights about your patterns.

All commands read their configuration from MHABIT_* environment variables.`,
	SilenceUsage: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
