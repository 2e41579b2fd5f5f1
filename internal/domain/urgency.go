package domain

import "fmt"

type Urgency string

const (
	UrgencyOverdue  Urgency = "overdue"
	UrgencyToday    Urgency = "today"
	UrgencyTomorrow Urgency = "tomorrow"
	UrgencySoon     Urgency = "soon"
	UrgencyNormal   Urgency = "normal"
)

// SoonWindow is the largest daysLeft still classified as soon.
const SoonWindow = 7

// Label returns the human-readable badge for an urgency tier.
func (u Urgency) Label(daysLeft int) string {
	switch u {
	case UrgencyOverdue:
		return "Overdue"
	case UrgencyToday:
		return "Today"
	case UrgencyTomorrow:
		return "Tomorrow"
	default:
		return fmt.Sprintf("%d days left", daysLeft)
	}
}

type SortPolicy string

const (
	SortDateAsc  SortPolicy = "date-asc"
	SortDateDesc SortPolicy = "date-desc"
	SortTag      SortPolicy = "tag"
)

func (p SortPolicy) Valid() bool {
	switch p {
	case SortDateAsc, SortDateDesc, SortTag:
		return true
	}
	return false
}
