package main

import (
	"fmt"
	"io"
	"maps"
	"slices"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/rcliao/tasktimeline/internal/domain"
	"github.com/rcliao/tasktimeline/internal/pattern"
)

// tagsCmd is the parent command for tag preferences
var tagsCmd = &cobra.Command{
	Use:   "tags",
	Short: "Change tag order and colors",
	Long: `Change how tag groups are ordered and colored. Changes are saved to
state.path.

Examples:
  # Show #Work before #Home
  tasktimeline tags move '#Work' '#Home'

  # Give #Work a custom color
  tasktimeline tags color '#Work' '#e06c75'

  # Back to defaults
  tasktimeline tags reset`,
}

var tagsMoveCmd = &cobra.Command{
	Use:   "move <tag> <anchor>",
	Short: "Place a tag before another in the display order",
	Long: `Place <tag> before <anchor> in the tag display order. If <anchor> is not
in the order, <tag> goes last.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		prefs, err := a.preferences.MoveTag(cmd.Context(), args[0], args[1])
		if err != nil {
			return err
		}
		return printPreferences(cmd.OutOrStdout(), prefs)
	},
}

var tagsColorCmd = &cobra.Command{
	Use:   "color <tag> [#hex]",
	Short: "Set or clear a tag's custom color",
	Long: `Set <tag>'s custom color and turn custom colors on. Without a color the
tag's custom color is removed.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		var prefs *domain.Preferences
		if len(args) == 1 {
			prefs, err = a.preferences.ClearTagColor(cmd.Context(), args[0])
		} else {
			prefs, err = a.preferences.SetTagColor(cmd.Context(), args[0], args[1])
		}
		if err != nil {
			return err
		}
		return printPreferences(cmd.OutOrStdout(), prefs)
	},
}

var tagsResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Restore default tag order and colors",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		prefs, err := a.preferences.Reset(cmd.Context())
		if err != nil {
			return err
		}
		return printPreferences(cmd.OutOrStdout(), prefs)
	},
}

// presetsCmd lists the built-in task formats
var presetsCmd = &cobra.Command{
	Use:   "presets",
	Short: "List built-in task formats",
	Long: `List the built-in task formats. Select one with extraction.preset, or
copy its pattern into extraction.pattern.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		presets := a.timeline.Presets(a.cfg.Extraction.DateFormat)
		if jsonOutput {
			return writeJSON(cmd.OutOrStdout(), presets)
		}
		return formatPresets(cmd.OutOrStdout(), presets)
	},
}

func init() {
	tagsCmd.AddCommand(tagsMoveCmd)
	tagsCmd.AddCommand(tagsColorCmd)
	tagsCmd.AddCommand(tagsResetCmd)
}

func printPreferences(w io.Writer, prefs *domain.Preferences) error {
	if jsonOutput {
		return writeJSON(w, prefs)
	}
	return formatPreferences(w, prefs)
}

func formatPreferences(w io.Writer, prefs *domain.Preferences) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "custom colors:\t%t\n", prefs.UseCustomColors)
	fmt.Fprintf(tw, "default color:\t%s\n", prefs.DefaultColor)
	fmt.Fprintln(tw, "order:")
	for i, tag := range prefs.TagOrder {
		fmt.Fprintf(tw, "  %d.\t%s\n", i+1, tag)
	}
	if len(prefs.TagColors) > 0 {
		fmt.Fprintln(tw, "colors:")
		for _, tag := range slices.Sorted(maps.Keys(prefs.TagColors)) {
			fmt.Fprintf(tw, "  #%s\t%s\n", tag, prefs.TagColors[tag])
		}
	}
	return tw.Flush()
}

func formatPresets(w io.Writer, presets []pattern.Preset) error {
	for i, p := range presets {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintf(w, "%s\n  example: %s\n  pattern: %s\n", p.Name, p.Example, p.Pattern)
	}
	return nil
}
