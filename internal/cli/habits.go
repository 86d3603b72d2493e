package cli

import (
	"context"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/emiliopalmerini/mhabit/internal/domain"
	"github.com/emiliopalmerini/mhabit/internal/util"
)

var habitsCmd = &cobra.Command{
	Use:   "habits",
	Short: "Manage habits",
	Long:  `List, add, toggle, update and delete habits.`,
}

var habitsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List habits",
	Args:  cobra.NoArgs,
	RunE:  runHabitsList,
}

var habitsAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Add a habit",
	Long: `Add a new habit.

Examples:
  mhabit habits add "Read" --description "20 pages"`,
	Args: cobra.ExactArgs(1),
	RunE: runHabitsAdd,
}

var habitsToggleCmd = &cobra.Command{
	Use:   "toggle <id> [date]",
	Short: "Toggle completion for a date (default today)",
	Long: `Mark a habit complete on a date, or unmark it if it already is.

Examples:
  mhabit habits toggle 3f2a...             # Today
  mhabit habits toggle 3f2a... 2026-03-14  # A specific day`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runHabitsToggle,
}

var habitsUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Rename a habit or change its description",
	Args:  cobra.ExactArgs(1),
	RunE:  runHabitsUpdate,
}

var habitsDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a habit and its history",
	Args:  cobra.ExactArgs(1),
	RunE:  runHabitsDelete,
}

var (
	habitDescription string
	habitName        string
	habitsJSON       bool
)

func init() {
	rootCmd.AddCommand(habitsCmd)
	habitsCmd.AddCommand(habitsListCmd, habitsAddCmd, habitsToggleCmd, habitsUpdateCmd, habitsDeleteCmd)

	habitsListCmd.Flags().BoolVar(&habitsJSON, "json", false, "Print the raw habit document")
	habitsAddCmd.Flags().StringVarP(&habitDescription, "description", "d", "", "Habit description")
	habitsUpdateCmd.Flags().StringVarP(&habitName, "name", "n", "", "New name")
	habitsUpdateCmd.Flags().StringVarP(&habitDescription, "description", "d", "", "New description")
}

func runHabitsList(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	app, err := NewAppContext(ctx)
	if err != nil {
		return err
	}
	defer app.Close()

	list := app.Service.List(ctx)
	if habitsJSON {
		return printJSON(cmd.OutOrStdout(), domain.HabitCollection{Habits: list})
	}

	if len(list) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No habits yet. Add one with: mhabit habits add <name>")
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tCOMPLETIONS\tCREATED\tDESCRIPTION")
	for _, h := range list {
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%s\n",
			h.ID, h.Name, len(h.Completions), util.FormatDateHuman(h.CreatedAt), truncate(h.Description, 40))
	}
	return w.Flush()
}

func runHabitsAdd(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	app, err := NewAppContext(ctx)
	if err != nil {
		return err
	}
	defer app.Close()

	h, err := app.Service.Create(ctx, args[0], habitDescription)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Created habit %q (%s)\n", h.Name, h.ID)
	return nil
}

func runHabitsToggle(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	app, err := NewAppContext(ctx)
	if err != nil {
		return err
	}
	defer app.Close()

	date := domain.FormatDate(time.Now())
	if len(args) == 2 {
		date = args[1]
	}

	result, err := app.Service.Toggle(ctx, args[0], date)
	if err != nil {
		return err
	}
	state := "not completed"
	if result.Completed {
		state = "completed"
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s marked %s on %s\n", result.HabitID, state, result.Date)
	return nil
}

func runHabitsUpdate(cmd *cobra.Command, args []string) error {
	var u domain.HabitUpdate
	if cmd.Flags().Changed("name") {
		u.Name = &habitName
	}
	if cmd.Flags().Changed("description") {
		u.Description = &habitDescription
	}
	if u.Empty() {
		return fmt.Errorf("nothing to update: pass --name and/or --description")
	}

	ctx := context.Background()
	app, err := NewAppContext(ctx)
	if err != nil {
		return err
	}
	defer app.Close()

	h, err := app.Service.Update(ctx, args[0], u)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Updated habit %q (%s)\n", h.Name, h.ID)
	return nil
}

func runHabitsDelete(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	app, err := NewAppContext(ctx)
	if err != nil {
		return err
	}
	defer app.Close()

	if err := app.Service.Delete(ctx, args[0]); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Deleted habit %s\n", args[0])
	return nil
}
