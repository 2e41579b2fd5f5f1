package service

import (
	"slices"

	"github.com/rcliao/tasktimeline/internal/domain"
)

// UpcomingLimit caps Summary.Upcoming.
const UpcomingLimit = 5

type Summary struct {
	Today     domain.CalendarDate    `json:"today"`
	Total     int                    `json:"total"`
	Completed int                    `json:"completed"`
	ByUrgency map[domain.Urgency]int `json:"byUrgency"`
	ByTag     []TagSummary           `json:"byTag"`
	Overdue   []domain.TaskRecord    `json:"overdue"`
	Upcoming  []domain.TaskRecord    `json:"upcoming"`
}

type TagSummary struct {
	Tag     string `json:"tag"`
	Color   string `json:"color"`
	Total   int    `json:"total"`
	Overdue int    `json:"overdue"`
}

// Summarize counts a pass's visible records. Upcoming holds the earliest
// records due today or later.
func Summarize(pass *Pass) *Summary {
	summary := &Summary{
		Today:     pass.Today,
		ByUrgency: make(map[domain.Urgency]int),
		ByTag:     make([]TagSummary, 0, len(pass.Groups)),
		Overdue:   make([]domain.TaskRecord, 0),
		Upcoming:  make([]domain.TaskRecord, 0, UpcomingLimit),
	}

	for _, group := range pass.Groups {
		ts := TagSummary{Tag: group.Tag, Color: group.Color, Total: len(group.Tasks)}
		for _, rec := range group.Tasks {
			if rec.Overdue {
				ts.Overdue++
			}
		}
		summary.ByTag = append(summary.ByTag, ts)
	}

	var upcoming []domain.TaskRecord
	for _, rec := range pass.Records {
		summary.Total++
		summary.ByUrgency[rec.Urgency]++
		if rec.Completed {
			summary.Completed++
		}
		if rec.Overdue {
			summary.Overdue = append(summary.Overdue, rec)
		} else {
			upcoming = append(upcoming, rec)
		}
	}

	// Records follow the pass sort policy, which may be descending.
	slices.SortStableFunc(upcoming, func(a, b domain.TaskRecord) int {
		return a.Date.Compare(b.Date)
	})
	summary.Upcoming = append(summary.Upcoming, upcoming[:min(len(upcoming), UpcomingLimit)]...)
	return summary
}
