package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/rcliao/tasktimeline/internal/calendar"
	"github.com/rcliao/tasktimeline/internal/domain"
	"github.com/rcliao/tasktimeline/internal/search"
	"github.com/rcliao/tasktimeline/internal/service"
)

const weekdayHeader = " Su  Mo  Tu  We  Th  Fr  Sa"

// formatTimeline writes one block per tag group.
func formatTimeline(w io.Writer, pass *service.Pass, showFileNames bool) error {
	if len(pass.Groups) == 0 {
		_, err := fmt.Fprintln(w, "No dated tasks found.")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for i, group := range pass.Groups {
		if i > 0 {
			fmt.Fprintln(tw)
		}
		fmt.Fprintf(tw, "%s (%d)\n", group.Tag, len(group.Tasks))
		for _, task := range group.Tasks {
			fmt.Fprintf(tw, "  %s\t%s\t%s", task.Text, task.Date, task.Label)
			if showFileNames {
				fmt.Fprintf(tw, "\t%s:%d", task.SourceLabel, task.Position.Line+1)
			}
			fmt.Fprintln(tw)
		}
	}
	return tw.Flush()
}

// formatCalendar writes a grid per month followed by the tasks of each day.
func formatCalendar(w io.Writer, cal *calendar.Calendar) error {
	if cal == nil || cal.NoData {
		_, err := fmt.Fprintln(w, "No dated tasks found.")
		return err
	}

	var sb strings.Builder
	for i, month := range cal.Months {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(fmt.Sprintf("%s %d\n", month.Month, month.Year))
		sb.WriteString(weekdayHeader + "\n")
		for _, week := range month.Weeks() {
			cells := make([]string, len(week))
			for j, cell := range week {
				cells[j] = formatCell(cell)
			}
			sb.WriteString(strings.TrimRight(strings.Join(cells, " "), " ") + "\n")
		}

		for _, cell := range month.Cells {
			if cell.Blank || len(cell.Tasks) == 0 {
				continue
			}
			sb.WriteString(fmt.Sprintf("  %s\n", cell.Date))
			for _, task := range cell.Tasks {
				sb.WriteString(fmt.Sprintf("    %s %s\n", task.Text, task.Tag))
			}
			if cell.Overflow > 0 {
				sb.WriteString(fmt.Sprintf("    +%d more\n", cell.Overflow))
			}
		}
	}

	_, err := io.WriteString(w, sb.String())
	return err
}

// formatCell renders a day in three columns: a marker and the day number.
// Today is marked with '>' and other days with tasks with '*'.
func formatCell(cell calendar.Cell) string {
	if cell.Blank {
		return "   "
	}
	marker := ' '
	switch {
	case cell.Today:
		marker = '>'
	case len(cell.Tasks) > 0:
		marker = '*'
	}
	return fmt.Sprintf("%c%2d", marker, cell.Date.Day)
}

func formatSearchResults(w io.Writer, results []search.Result) error {
	if len(results) == 0 {
		_, err := fmt.Fprintln(w, "No matching tasks.")
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, r := range results {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", r.Record.Date, r.Record.Tag, r.Snippet, r.Record.Label)
	}
	return tw.Flush()
}

// formatPassLine is the one-line summary printed by watch.
func formatPassLine(pass *service.Pass) string {
	summary := service.Summarize(pass)
	line := fmt.Sprintf("%s  %d tasks in %d tags, %d overdue, %d due today (%d documents)",
		pass.Today, summary.Total, len(summary.ByTag),
		summary.ByUrgency[domain.UrgencyOverdue], summary.ByUrgency[domain.UrgencyToday],
		pass.Stats.Documents)
	if n := len(pass.Warnings); n > 0 {
		line += fmt.Sprintf(", %d warnings", n)
	}
	return line
}

func formatWarning(w io.Writer, warning service.Warning) {
	if warning.SourceID != "" {
		fmt.Fprintf(w, "warning: %s: %s\n", warning.SourceID, warning.Message)
		return
	}
	fmt.Fprintf(w, "warning: %s\n", warning.Message)
}
