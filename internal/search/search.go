// Package search ranks task records against a free-text query.
package search

import (
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/rcliao/tasktimeline/internal/domain"
)

// Match types, in the order they are tried.
const (
	MatchText   = "text"
	MatchTag    = "tag"
	MatchSource = "source"
)

const snippetContext = 30

type Options struct {
	Limit  int
	Offset int
}

// Result is one ranked record. Snippet marks the matched part with **.
type Result struct {
	Record    domain.TaskRecord `json:"record"`
	Score     float64           `json:"score"`
	MatchType string            `json:"matchType"`
	Snippet   string            `json:"snippet"`
}

// Search scores every record against query, case-insensitively, and returns
// the matches best first. Ties keep the input order. An empty query matches
// nothing.
func Search(records []domain.TaskRecord, query string, opts Options) []Result {
	query = strings.TrimSpace(query)
	results := make([]Result, 0)
	if query == "" {
		return results
	}

	for _, rec := range records {
		// Scores add up; the snippet comes from the strongest single match.
		best := Result{Record: rec}
		top := 0.0
		for _, strategy := range strategies {
			score, snippet := strategy.score(rec, query)
			if score <= 0 {
				continue
			}
			best.Score += score
			if score > top {
				top = score
				best.MatchType = strategy.matchType
				best.Snippet = snippet
			}
		}
		if best.Score > 0 {
			results = append(results, best)
		}
	}

	slices.SortStableFunc(results, func(a, b Result) int {
		switch {
		case a.Score > b.Score:
			return -1
		case a.Score < b.Score:
			return 1
		default:
			return 0
		}
	})

	return paginate(results, opts)
}

type strategy struct {
	matchType string
	score     func(rec domain.TaskRecord, query string) (float64, string)
}

var strategies = []strategy{
	{MatchText, textScore},
	{MatchTag, tagScore},
	{MatchSource, sourceScore},
}

// textScore weights task text heaviest, with a bonus for an exact match.
func textScore(rec domain.TaskRecord, query string) (float64, string) {
	if indexFold(rec.Text, query) < 0 {
		return 0, ""
	}
	score := 10.0
	if strings.EqualFold(rec.Text, query) {
		score += 5.0
	}
	return score, extractSnippet(rec.Text, query)
}

// tagScore matches the tag with or without its leading '#'.
func tagScore(rec domain.TaskRecord, query string) (float64, string) {
	if indexFold(rec.Tag, query) < 0 {
		return 0, ""
	}
	score := 7.0
	if strings.EqualFold(rec.Tag, query) || strings.EqualFold(strings.TrimPrefix(rec.Tag, "#"), query) {
		score += 3.0
	}
	return score, rec.Text + " " + highlightText(rec.Tag, query)
}

func sourceScore(rec domain.TaskRecord, query string) (float64, string) {
	if indexFold(rec.SourceID, query) < 0 && indexFold(rec.SourceLabel, query) < 0 {
		return 0, ""
	}
	return 4.0, "Source: " + highlightText(rec.SourceID, query)
}

func paginate(results []Result, opts Options) []Result {
	if opts.Offset > 0 {
		if opts.Offset >= len(results) {
			return []Result{}
		}
		results = results[opts.Offset:]
	}
	if opts.Limit > 0 && len(results) > opts.Limit {
		results = results[:opts.Limit]
	}
	return results
}

// extractSnippet cuts text down to the match and some context around it.
func extractSnippet(text, query string) string {
	index := indexFold(text, query)
	if index < 0 {
		return text
	}

	start := clampToRune(text, index-snippetContext)
	end := clampToRune(text, index+len(query)+snippetContext)

	snippet := text[start:end]
	if start > 0 {
		snippet = "..." + snippet
	}
	if end < len(text) {
		snippet = snippet + "..."
	}
	return highlightText(snippet, query)
}

func highlightText(text, query string) string {
	index := indexFold(text, query)
	if index < 0 {
		return text
	}
	end := index + len(query)
	return text[:index] + "**" + text[index:end] + "**" + text[end:]
}

// indexFold is a case-insensitive strings.Index that only reports matches
// starting on a rune boundary.
func indexFold(s, substr string) int {
	n := len(substr)
	for i := range s {
		if i+n > len(s) {
			break
		}
		if strings.EqualFold(s[i:i+n], substr) {
			return i
		}
	}
	return -1
}

// clampToRune bounds i to text and moves it back to a rune boundary.
func clampToRune(text string, i int) int {
	if i <= 0 {
		return 0
	}
	if i >= len(text) {
		return len(text)
	}
	for i > 0 && !utf8.RuneStart(text[i]) {
		i--
	}
	return i
}
