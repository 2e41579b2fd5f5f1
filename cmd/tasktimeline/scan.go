package main

import (
	"encoding/json"
	"io"

	"github.com/spf13/cobra"

	"github.com/rcliao/tasktimeline/internal/rpc"
	"github.com/rcliao/tasktimeline/internal/search"
	"github.com/rcliao/tasktimeline/internal/service"
)

// scanCmd runs one pass and prints tasks grouped by tag
var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Print tasks grouped by tag",
	Long: `Run one pass over the notes folder and print tasks grouped by tag, each
with its due date and urgency.

Examples:
  # Text timeline
  tasktimeline scan

  # JSON for scripts
  tasktimeline scan --json | jq '.groups[].tag'`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()
		return runTimelineView(cmd, a)
	},
}

// calendarCmd runs one pass and prints month grids
var calendarCmd = &cobra.Command{
	Use:   "calendar",
	Short: "Print tasks on a month calendar",
	Long: `Run one pass over the notes folder and print a calendar for every month
from the earliest to the latest task date.

Examples:
  tasktimeline calendar --today 2024-03-05
  tasktimeline calendar --json`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()
		return runCalendarView(cmd, a)
	},
}

// searchLimit caps the number of search results
var searchLimit int

// searchCmd ranks tasks against a query
var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Find tasks by text, tag or note name",
	Long: `Run one pass and rank the visible tasks against a case-insensitive query.
Task text weighs most, then tags, then note names.

Examples:
  tasktimeline search invoice
  tasktimeline search '#Work' --limit 5`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		pass, err := a.workspace.Refresh(cmd.Context(), a.today)
		if err != nil {
			return err
		}
		results := search.Search(pass.Records, args[0], search.Options{Limit: searchLimit})
		if jsonOutput {
			return writeJSON(cmd.OutOrStdout(), results)
		}
		return formatSearchResults(cmd.OutOrStdout(), results)
	},
}

func init() {
	searchCmd.Flags().IntVar(&searchLimit, "limit", 20, "maximum results (0 for all)")
}

func runTimelineView(cmd *cobra.Command, a *app) error {
	pass, err := a.workspace.Refresh(cmd.Context(), a.today)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if jsonOutput {
		return writeJSON(out, rpc.TimelineResult{
			ID:       pass.ID,
			Today:    pass.Today,
			Groups:   pass.Groups,
			Warnings: pass.Warnings,
			Stats:    pass.Stats,
		})
	}
	writeWarnings(cmd.ErrOrStderr(), pass)
	return formatTimeline(out, pass, a.cfg.View.ShowFileNames)
}

func runCalendarView(cmd *cobra.Command, a *app) error {
	pass, err := a.workspace.Refresh(cmd.Context(), a.today)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if jsonOutput {
		return writeJSON(out, rpc.CalendarResult{
			ID:       pass.ID,
			Today:    pass.Today,
			Calendar: pass.Calendar,
			Warnings: pass.Warnings,
		})
	}
	writeWarnings(cmd.ErrOrStderr(), pass)
	return formatCalendar(out, pass.Calendar)
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeWarnings(w io.Writer, pass *service.Pass) {
	for _, warning := range pass.Warnings {
		formatWarning(w, warning)
	}
}
