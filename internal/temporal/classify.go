package temporal

import (
	"time"

	"github.com/rcliao/tasktimeline/internal/domain"
)

const secondsPerDay = 24 * 60 * 60

// Today pins the local calendar day of now. Call it once per pass.
func Today(now time.Time) domain.CalendarDate {
	return domain.DateOf(now.Local())
}

// DaysLeft returns the whole days from today to date. Both dates are taken
// at UTC midnight, so the difference is an exact multiple of a day across DST
// and is not bounded by the range of time.Duration.
func DaysLeft(date, today domain.CalendarDate) int {
	diff := date.Time(time.UTC).Unix() - today.Time(time.UTC).Unix()
	return int(diff / secondsPerDay)
}

// Classify maps days remaining onto an urgency tier.
func Classify(daysLeft int) domain.Urgency {
	switch {
	case daysLeft < 0:
		return domain.UrgencyOverdue
	case daysLeft == 0:
		return domain.UrgencyToday
	case daysLeft == 1:
		return domain.UrgencyTomorrow
	case daysLeft <= domain.SoonWindow:
		return domain.UrgencySoon
	default:
		return domain.UrgencyNormal
	}
}

// Annotate returns a copy of rec with its derived fields computed against today.
func Annotate(rec domain.TaskRecord, today domain.CalendarDate) domain.TaskRecord {
	rec.DaysLeft = DaysLeft(rec.Date, today)
	rec.Overdue = rec.DaysLeft < 0
	rec.Urgency = Classify(rec.DaysLeft)
	rec.Label = rec.Urgency.Label(rec.DaysLeft)
	return rec
}

// AnnotateAll annotates every record against the same today.
func AnnotateAll(records []domain.TaskRecord, today domain.CalendarDate) []domain.TaskRecord {
	out := make([]domain.TaskRecord, len(records))
	for i, rec := range records {
		out[i] = Annotate(rec, today)
	}
	return out
}
