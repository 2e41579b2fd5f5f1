// Package temporal parses task date tokens and classifies tasks by urgency
// relative to a pinned "today".
package temporal

import (
	"strconv"
	"strings"
	"time"

	"github.com/rcliao/tasktimeline/internal/domain"
)

var months = map[string]time.Month{
	"jan": time.January, "feb": time.February, "mar": time.March,
	"apr": time.April, "may": time.May, "jun": time.June,
	"jul": time.July, "aug": time.August, "sep": time.September,
	"oct": time.October, "nov": time.November, "dec": time.December,
}

// ParseDate parses a day-Mon-year token such as "05-Mar-2024". The month
// abbreviation is case-insensitive. Days outside the month are rejected
// rather than rolled over into the next month.
func ParseDate(dateText string) (domain.CalendarDate, bool) {
	parts := strings.Split(dateText, "-")
	if len(parts) != 3 {
		return domain.CalendarDate{}, false
	}

	day, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return domain.CalendarDate{}, false
	}
	month, ok := months[strings.ToLower(strings.TrimSpace(parts[1]))]
	if !ok {
		return domain.CalendarDate{}, false
	}
	year, err := strconv.Atoi(strings.TrimSpace(parts[2]))
	if err != nil {
		return domain.CalendarDate{}, false
	}

	if day < 1 || day > DaysIn(year, month) {
		return domain.CalendarDate{}, false
	}

	return domain.NewCalendarDate(year, month, day), true
}

// DaysIn returns the number of days in month of year.
func DaysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
