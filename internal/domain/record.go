package domain

import (
	"fmt"
	"strings"
	"time"
)

// CalendarDate is a day-granularity date with no time-of-day component.
// It marshals as YYYY-MM-DD so it can key JSON objects.
type CalendarDate struct {
	Year  int
	Month time.Month
	Day   int
}

var monthAbbrev = [...]string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}

func NewCalendarDate(year int, month time.Month, day int) CalendarDate {
	return CalendarDate{Year: year, Month: month, Day: day}
}

// DateOf returns the calendar day t falls on in t's location.
func DateOf(t time.Time) CalendarDate {
	y, m, d := t.Date()
	return CalendarDate{Year: y, Month: m, Day: d}
}

// Time returns midnight of the date in loc.
func (d CalendarDate) Time(loc *time.Location) time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, loc)
}

func (d CalendarDate) IsZero() bool {
	return d == CalendarDate{}
}

func (d CalendarDate) Before(o CalendarDate) bool {
	return d.Compare(o) < 0
}

func (d CalendarDate) After(o CalendarDate) bool {
	return d.Compare(o) > 0
}

// Compare returns -1, 0 or +1.
func (d CalendarDate) Compare(o CalendarDate) int {
	switch {
	case d.Year != o.Year:
		return sign(d.Year - o.Year)
	case d.Month != o.Month:
		return sign(int(d.Month) - int(o.Month))
	default:
		return sign(d.Day - o.Day)
	}
}

// AddDays uses UTC so day arithmetic never crosses a DST boundary.
func (d CalendarDate) AddDays(n int) CalendarDate {
	return DateOf(d.Time(time.UTC).AddDate(0, 0, n))
}

// String renders the date as DD-Mon-YYYY.
func (d CalendarDate) String() string {
	if d.Month < time.January || d.Month > time.December {
		return fmt.Sprintf("%02d-%02d-%d", d.Day, int(d.Month), d.Year)
	}
	return fmt.Sprintf("%02d-%s-%d", d.Day, monthAbbrev[d.Month-1], d.Year)
}

// ISO renders the date as YYYY-MM-DD.
func (d CalendarDate) ISO() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

func (d CalendarDate) MarshalText() ([]byte, error) {
	return []byte(d.ISO()), nil
}

func (d *CalendarDate) UnmarshalText(text []byte) error {
	t, err := time.Parse(time.DateOnly, string(text))
	if err != nil {
		return fmt.Errorf("invalid calendar date %q: %w", text, err)
	}
	*d = DateOf(t)
	return nil
}

func sign(v int) int {
	switch {
	case v < 0:
		return -1
	case v > 0:
		return 1
	}
	return 0
}

// Position locates a match inside its source text. Offsets are byte offsets,
// Line is 0-based and Column counts runes since the last newline.
type Position struct {
	Line        int `json:"line"`
	Column      int `json:"column"`
	OffsetStart int `json:"offsetStart"`
	OffsetEnd   int `json:"offsetEnd"`
}

// Document is one caller-supplied input to an extraction pass.
type Document struct {
	SourceID    string
	SourceLabel string
	Text        string
}

// Completion markers, checked as literal prefixes of the trimmed task text.
var completionMarkers = []string{"[x]", "- [x]"}

// IsCompletedText reports whether text starts with a completion marker.
func IsCompletedText(text string) bool {
	for _, marker := range completionMarkers {
		if strings.HasPrefix(text, marker) {
			return true
		}
	}
	return false
}

// TaskRecord is one extracted task. It only exists for successfully parsed dates.
type TaskRecord struct {
	Text        string       `json:"text"`
	DateText    string       `json:"dateText"`
	Date        CalendarDate `json:"date"`
	Tag         string       `json:"tag"`
	SourceID    string       `json:"sourceId"`
	SourceLabel string       `json:"sourceLabel"`
	Position    Position     `json:"position"`
	Completed   bool         `json:"completed"`

	// Derived per pass.
	DaysLeft int     `json:"daysLeft"`
	Overdue  bool    `json:"overdue"`
	Urgency  Urgency `json:"urgency"`
	Label    string  `json:"label"`
}

// TagGroup is the set of records sharing one tag, in display order.
type TagGroup struct {
	Tag   string       `json:"tag"`
	Color string       `json:"color"`
	Tasks []TaskRecord `json:"tasks"`
}
