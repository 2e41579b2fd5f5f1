// Package calendar lays task records out on month-by-month day grids.
package calendar

import (
	"time"

	"github.com/rcliao/tasktimeline/internal/domain"
)

// DefaultMaxVisible is how many tasks a day cell shows before overflowing.
const DefaultMaxVisible = 3

// MaxMonths bounds how many month grids one calendar builds. A stray
// far-off date otherwise turns into thousands of empty months.
const MaxMonths = 120

const daysPerWeek = 7

// Cell is one slot of a month grid. Blank cells pad the first and last week.
type Cell struct {
	Blank    bool                `json:"blank"`
	Date     domain.CalendarDate `json:"date,omitzero"`
	Tasks    []domain.TaskRecord `json:"tasks,omitempty"`
	Overflow int                 `json:"overflow,omitempty"`
	Today    bool                `json:"today,omitempty"`
}

// Month is the grid for one calendar month, Sunday first.
type Month struct {
	Year  int        `json:"year"`
	Month time.Month `json:"month"`
	Cells []Cell     `json:"cells"`
}

// Weeks splits the grid into rows of seven.
func (m Month) Weeks() [][]Cell {
	weeks := make([][]Cell, 0, len(m.Cells)/daysPerWeek)
	for i := 0; i < len(m.Cells); i += daysPerWeek {
		end := min(i+daysPerWeek, len(m.Cells))
		weeks = append(weeks, m.Cells[i:end])
	}
	return weeks
}

// TaskDays counts the day cells that hold at least one task.
func (m Month) TaskDays() int {
	n := 0
	for _, c := range m.Cells {
		if !c.Blank && (len(c.Tasks) > 0 || c.Overflow > 0) {
			n++
		}
	}
	return n
}

// Calendar is the bucketed view of one pass. NoData marks an input with no
// dated records, in which case Months is empty. OmittedMonths counts the
// months past MaxMonths that got no grid; their records stay in Cells.
type Calendar struct {
	Months        []Month                                      `json:"months"`
	Cells         map[domain.CalendarDate][]domain.TaskRecord `json:"cells"`
	NoData        bool                                         `json:"noData"`
	OmittedMonths int                                          `json:"omittedMonths,omitempty"`
}

// Bucketize groups records by day and builds a grid for every month from the
// earliest to the latest date present, up to MaxMonths grids. Day cells
// show at most maxVisible tasks; maxVisible <= 0 means DefaultMaxVisible.
func Bucketize(records []domain.TaskRecord, today domain.CalendarDate, maxVisible int) *Calendar {
	if maxVisible <= 0 {
		maxVisible = DefaultMaxVisible
	}

	cal := &Calendar{
		Months: make([]Month, 0),
		Cells:  make(map[domain.CalendarDate][]domain.TaskRecord),
	}
	if len(records) == 0 {
		cal.NoData = true
		return cal
	}

	first, last := records[0].Date, records[0].Date
	for _, rec := range records {
		cal.Cells[rec.Date] = append(cal.Cells[rec.Date], rec)
		if rec.Date.Before(first) {
			first = rec.Date
		}
		if rec.Date.After(last) {
			last = rec.Date
		}
	}

	span := (last.Year-first.Year)*12 + int(last.Month-first.Month) + 1
	if span > MaxMonths {
		cal.OmittedMonths = span - MaxMonths
		span = MaxMonths
	}

	year, month := first.Year, first.Month
	for range span {
		cal.Months = append(cal.Months, buildMonth(year, month, cal.Cells, today, maxVisible))
		month++
		if month > time.December {
			month = time.January
			year++
		}
	}

	return cal
}

func buildMonth(year int, month time.Month, buckets map[domain.CalendarDate][]domain.TaskRecord, today domain.CalendarDate, maxVisible int) Month {
	firstOfMonth := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	leading := int(firstOfMonth.Weekday())
	days := firstOfMonth.AddDate(0, 1, -1).Day()
	trailing := (daysPerWeek - (leading+days)%daysPerWeek) % daysPerWeek

	cells := make([]Cell, 0, leading+days+trailing)
	for i := 0; i < leading; i++ {
		cells = append(cells, Cell{Blank: true})
	}
	for d := 1; d <= days; d++ {
		date := domain.NewCalendarDate(year, month, d)
		tasks := buckets[date]
		cell := Cell{Date: date, Today: date == today}
		if len(tasks) > maxVisible {
			cell.Tasks = tasks[:maxVisible:maxVisible]
			cell.Overflow = len(tasks) - maxVisible
		} else {
			cell.Tasks = tasks
		}
		cells = append(cells, cell)
	}
	for i := 0; i < trailing; i++ {
		cells = append(cells, Cell{Blank: true})
	}

	return Month{Year: year, Month: month, Cells: cells}
}
