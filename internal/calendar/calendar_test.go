package calendar

import (
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rcliao/tasktimeline/internal/domain"
)

func on(year int, month time.Month, day int, text string) domain.TaskRecord {
	return domain.TaskRecord{Text: text, Tag: "#t", Date: domain.NewCalendarDate(year, month, day)}
}

func dayCell(t *testing.T, m Month, day int) Cell {
	t.Helper()
	for _, c := range m.Cells {
		if !c.Blank && c.Date.Day == day {
			return c
		}
	}
	t.Fatalf("day %d not found in %d-%02d", day, m.Year, m.Month)
	return Cell{}
}

func TestBucketize_MonthRange(t *testing.T) {
	records := []domain.TaskRecord{
		on(2024, time.April, 1, "later"),
		on(2024, time.February, 10, "earlier"),
	}

	cal := Bucketize(records, domain.NewCalendarDate(2024, time.March, 15), 0)

	require.False(t, cal.NoData)
	require.Len(t, cal.Months, 3)
	assert.Equal(t, time.February, cal.Months[0].Month)
	assert.Equal(t, time.March, cal.Months[1].Month)
	assert.Equal(t, time.April, cal.Months[2].Month)

	march := cal.Months[1]
	assert.Equal(t, 0, march.TaskDays())
	// 2024-03-01 is a Friday: five leading blanks, 31 days, six trailing blanks.
	assert.Len(t, march.Cells, 42)
	assert.True(t, march.Cells[4].Blank)
	assert.False(t, march.Cells[5].Blank)
	assert.Equal(t, 1, march.Cells[5].Date.Day)
	assert.True(t, dayCell(t, march, 15).Today)

	assert.Equal(t, 1, cal.Months[0].TaskDays())
	assert.Equal(t, "earlier", dayCell(t, cal.Months[0], 10).Tasks[0].Text)
	assert.Equal(t, 1, cal.Months[2].TaskDays())
}

func TestBucketize_GridShape(t *testing.T) {
	tests := []struct {
		month    time.Month
		leading  int
		days     int
		trailing int
	}{
		{time.February, 4, 29, 2},
		{time.April, 1, 30, 4},
		{time.September, 0, 30, 5},
	}

	for _, tt := range tests {
		t.Run(tt.month.String(), func(t *testing.T) {
			cal := Bucketize([]domain.TaskRecord{on(2024, tt.month, 1, "x")}, domain.CalendarDate{}, 0)
			require.Len(t, cal.Months, 1)
			m := cal.Months[0]

			require.Len(t, m.Cells, tt.leading+tt.days+tt.trailing)
			assert.Zero(t, len(m.Cells)%7)
			for i := 0; i < tt.leading; i++ {
				assert.True(t, m.Cells[i].Blank)
			}
			for i := len(m.Cells) - tt.trailing; i < len(m.Cells); i++ {
				assert.True(t, m.Cells[i].Blank)
			}
			for _, week := range m.Weeks() {
				assert.Len(t, week, 7)
			}
		})
	}
}

func TestBucketize_SpansYearBoundary(t *testing.T) {
	records := []domain.TaskRecord{on(2023, time.November, 30, "a"), on(2024, time.February, 2, "b")}

	cal := Bucketize(records, domain.CalendarDate{}, 0)

	require.Len(t, cal.Months, 4)
	assert.Zero(t, cal.OmittedMonths)
	assert.Equal(t, 2023, cal.Months[1].Year)
	assert.Equal(t, time.December, cal.Months[1].Month)
	assert.Equal(t, 2024, cal.Months[2].Year)
	assert.Equal(t, time.January, cal.Months[2].Month)
}

func TestBucketize_CapsMonthCount(t *testing.T) {
	stray := on(9024, time.March, 5, "typo")
	records := []domain.TaskRecord{on(2026, time.October, 19, "real"), stray}

	cal := Bucketize(records, domain.CalendarDate{}, 0)

	require.Len(t, cal.Months, MaxMonths)
	assert.Equal(t, 2026, cal.Months[0].Year)
	assert.Equal(t, time.October, cal.Months[0].Month)
	assert.Equal(t, (9024-2026)*12+int(time.March-time.October)+1-MaxMonths, cal.OmittedMonths)
	assert.Len(t, cal.Cells[stray.Date], 1)
	assert.False(t, cal.NoData)
}

func TestBucketize_OverflowCap(t *testing.T) {
	var records []domain.TaskRecord
	for i := 0; i < 5; i++ {
		records = append(records, on(2024, time.May, 7, fmt.Sprintf("task-%d", i)))
	}

	cal := Bucketize(records, domain.CalendarDate{}, 0)
	cell := dayCell(t, cal.Months[0], 7)
	assert.Len(t, cell.Tasks, DefaultMaxVisible)
	assert.Equal(t, 2, cell.Overflow)
	assert.Equal(t, "task-0", cell.Tasks[0].Text)
	// The bucket map keeps every record.
	assert.Len(t, cal.Cells[domain.NewCalendarDate(2024, time.May, 7)], 5)

	cal = Bucketize(records, domain.CalendarDate{}, 10)
	cell = dayCell(t, cal.Months[0], 7)
	assert.Len(t, cell.Tasks, 5)
	assert.Zero(t, cell.Overflow)
}

func TestBucketize_NoData(t *testing.T) {
	cal := Bucketize(nil, domain.NewCalendarDate(2024, time.March, 1), 3)

	assert.True(t, cal.NoData)
	assert.Empty(t, cal.Months)
	assert.Empty(t, cal.Cells)
}

func TestCalendar_JSON(t *testing.T) {
	cal := Bucketize([]domain.TaskRecord{on(2024, time.June, 3, "x")}, domain.CalendarDate{}, 0)

	data, err := json.Marshal(cal)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"2024-06-03"`)
	assert.Contains(t, string(data), `"noData":false`)
}
