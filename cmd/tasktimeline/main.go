// Package main implements the tasktimeline CLI: it scans a folder of notes
// for dated, tagged tasks and prints them as a tag timeline or a calendar.
package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/rcliao/tasktimeline/internal/config"
)

var (
	// configPath is the YAML config file
	configPath string
	// rootDir overrides vault.root
	rootDir string
	// todayFlag pins the reference date (YYYY-MM-DD)
	todayFlag string
	// jsonOutput switches scan and calendar to JSON
	jsonOutput bool
	// version information
	version = "dev"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "tasktimeline",
	Short: "Collect dated tasks from notes into a timeline",
	Long: `tasktimeline scans markdown notes for lines like

  Complete project -> _05-Mar-2024_ #Work

and groups them by tag with an urgency for each task, or lays them out on a
month calendar.

Run without a subcommand to print the view selected by view.mode.

Examples:
  # Print the timeline for the current folder
  tasktimeline scan

  # Calendar for a notes folder as of a fixed date
  tasktimeline calendar --root ~/notes --today 2024-03-05

  # Serve JSON-RPC on stdin/stdout for an editor plugin
  tasktimeline serve`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: false,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		if a.cfg.View.Mode == config.ModeCalendar {
			return runCalendarView(cmd, a)
		}
		return runTimelineView(cmd, a)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", defaultConfigPath(), "config file (YAML)")
	rootCmd.PersistentFlags().StringVar(&rootDir, "root", "", "notes folder (overrides vault.root)")
	rootCmd.PersistentFlags().StringVar(&todayFlag, "today", "", "reference date as YYYY-MM-DD (default: local date)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "print JSON instead of text")

	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(calendarCmd)
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(tagsCmd)
	rootCmd.AddCommand(presetsCmd)
}

func defaultConfigPath() string {
	if p := os.Getenv("TASKTIMELINE_CONFIG"); p != "" {
		return p
	}
	return "tasktimeline.yaml"
}
