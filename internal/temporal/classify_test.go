package temporal

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/rcliao/tasktimeline/internal/domain"
)

func TestDaysLeft(t *testing.T) {
	today := domain.NewCalendarDate(2024, time.March, 10)

	assert.Equal(t, 0, DaysLeft(today, today))
	assert.Equal(t, 1, DaysLeft(today.AddDays(1), today))
	assert.Equal(t, -1, DaysLeft(today.AddDays(-1), today))
	assert.Equal(t, 30, DaysLeft(today.AddDays(30), today))
	assert.Equal(t, 366, DaysLeft(domain.NewCalendarDate(2025, time.March, 11), today))
}

func TestDaysLeft_AcrossDSTTransition(t *testing.T) {
	// Spans the US and EU spring-forward weekends.
	today := domain.NewCalendarDate(2024, time.March, 1)
	assert.Equal(t, 31, DaysLeft(domain.NewCalendarDate(2024, time.April, 1), today))
}

func TestDaysLeft_FarDates(t *testing.T) {
	today := domain.NewCalendarDate(2026, time.October, 19)

	tests := []struct {
		date domain.CalendarDate
		want int
	}{
		{domain.NewCalendarDate(2400, time.January, 1), 136309},
		{domain.NewCalendarDate(9999, time.January, 1), 2911787},
		{domain.NewCalendarDate(1700, time.January, 1), -119360},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, DaysLeft(tt.date, today), tt.date.String())
	}

	rec := Annotate(domain.TaskRecord{Date: domain.NewCalendarDate(9999, time.January, 1)}, today)
	assert.Equal(t, domain.UrgencyNormal, rec.Urgency)
	assert.Equal(t, "2911787 days left", rec.Label)
}

func TestClassify(t *testing.T) {
	tests := []struct {
		daysLeft int
		urgency  domain.Urgency
		label    string
	}{
		{-5, domain.UrgencyOverdue, "Overdue"},
		{-1, domain.UrgencyOverdue, "Overdue"},
		{0, domain.UrgencyToday, "Today"},
		{1, domain.UrgencyTomorrow, "Tomorrow"},
		{2, domain.UrgencySoon, "2 days left"},
		{7, domain.UrgencySoon, "7 days left"},
		{8, domain.UrgencyNormal, "8 days left"},
		{120, domain.UrgencyNormal, "120 days left"},
	}

	for _, tt := range tests {
		urgency := Classify(tt.daysLeft)
		assert.Equal(t, tt.urgency, urgency, "daysLeft=%d", tt.daysLeft)
		assert.Equal(t, tt.label, urgency.Label(tt.daysLeft))
	}
}

func TestAnnotate(t *testing.T) {
	today := domain.NewCalendarDate(2024, time.March, 10)
	rec := domain.TaskRecord{Text: "Pay rent", Date: today.AddDays(-1), Tag: "#Home"}

	got := Annotate(rec, today)

	assert.Equal(t, -1, got.DaysLeft)
	assert.True(t, got.Overdue)
	assert.Equal(t, domain.UrgencyOverdue, got.Urgency)
	assert.Equal(t, "Overdue", got.Label)
	// The input is left untouched.
	assert.Zero(t, rec.DaysLeft)
	assert.False(t, rec.Overdue)
}

func TestAnnotateAll_SharesToday(t *testing.T) {
	today := domain.NewCalendarDate(2024, time.March, 10)
	records := []domain.TaskRecord{
		{Date: today},
		{Date: today.AddDays(1)},
		{Date: today.AddDays(3)},
	}

	got := AnnotateAll(records, today)

	assert.Equal(t, []int{0, 1, 3}, []int{got[0].DaysLeft, got[1].DaysLeft, got[2].DaysLeft})
	assert.Equal(t, domain.UrgencySoon, got[2].Urgency)
}

func TestToday(t *testing.T) {
	now := time.Date(2024, time.March, 10, 23, 59, 0, 0, time.Local)
	assert.Equal(t, domain.NewCalendarDate(2024, time.March, 10), Today(now))
}
