package extract

import (
	"strings"

	"github.com/rcliao/tasktimeline/internal/domain"
	"github.com/rcliao/tasktimeline/internal/pattern"
	"github.com/rcliao/tasktimeline/internal/temporal"
)

// Stats counts what happened while building records for one document.
type Stats struct {
	Matches   int
	Records   int
	Discarded int
}

// Records extracts dated task records from doc in text order. Matches whose
// date does not parse are counted and dropped. On a scan error the records
// found so far are returned with the error.
func Records(doc domain.Document, p *pattern.Compiled) ([]domain.TaskRecord, Stats, error) {
	var (
		records []domain.TaskRecord
		stats   Stats
	)

	for raw, err := range Scan(doc.Text, p) {
		if err != nil {
			return records, stats, err
		}
		stats.Matches++

		rec, ok := NewRecord(doc, raw)
		if !ok {
			stats.Discarded++
			continue
		}
		records = append(records, rec)
		stats.Records++
	}

	return records, stats, nil
}

// NewRecord builds a record from a raw match, or reports false if its date
// token does not parse or its tag is empty.
func NewRecord(doc domain.Document, raw RawMatch) (domain.TaskRecord, bool) {
	tag := strings.TrimSpace(raw.Tag)
	if tag == "" {
		return domain.TaskRecord{}, false
	}
	dateText := strings.TrimSpace(raw.Date)
	date, ok := temporal.ParseDate(dateText)
	if !ok {
		return domain.TaskRecord{}, false
	}

	text := strings.TrimSpace(raw.Text)
	return domain.TaskRecord{
		Text:        text,
		DateText:    dateText,
		Date:        date,
		Tag:         tag,
		SourceID:    doc.SourceID,
		SourceLabel: doc.SourceLabel,
		Position: domain.Position{
			Line:        raw.Line,
			Column:      raw.Column,
			OffsetStart: raw.Start,
			OffsetEnd:   raw.End,
		},
		Completed: domain.IsCompletedText(text),
	}, true
}
