// Package aggregate filters, sorts and groups task records by tag.
package aggregate

import (
	"slices"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/rcliao/tasktimeline/internal/domain"
)

// Options controls one aggregation.
type Options struct {
	Sort             domain.SortPolicy
	TagOrder         []string
	IncludeCompleted bool

	// Language drives locale-aware tag comparison. Zero means language.Und.
	Language language.Tag
}

// Aggregate filters records, sorts them and partitions them by exact tag.
// Groups come back in tag display order; Color is left for the caller.
func Aggregate(records []domain.TaskRecord, opts Options) []domain.TagGroup {
	cmp := NewTagComparer(opts.Language)

	filtered := Filter(records, opts.IncludeCompleted)
	sorted := Sort(filtered, opts.Sort, cmp)

	byTag := make(map[string][]domain.TaskRecord)
	var tags []string
	for _, rec := range sorted {
		if _, seen := byTag[rec.Tag]; !seen {
			tags = append(tags, rec.Tag)
		}
		byTag[rec.Tag] = append(byTag[rec.Tag], rec)
	}

	groups := make([]domain.TagGroup, 0, len(tags))
	for _, tag := range OrderTags(tags, opts.TagOrder, cmp) {
		groups = append(groups, domain.TagGroup{Tag: tag, Tasks: byTag[tag]})
	}
	return groups
}

// Filter drops completed records unless includeCompleted is set.
func Filter(records []domain.TaskRecord, includeCompleted bool) []domain.TaskRecord {
	out := make([]domain.TaskRecord, 0, len(records))
	for _, rec := range records {
		if rec.Completed && !includeCompleted {
			continue
		}
		out = append(out, rec)
	}
	return out
}

// Sort returns a stably sorted copy of records. Unknown policies keep input order.
func Sort(records []domain.TaskRecord, policy domain.SortPolicy, cmp *TagComparer) []domain.TaskRecord {
	out := slices.Clone(records)
	switch policy {
	case domain.SortDateAsc:
		slices.SortStableFunc(out, func(a, b domain.TaskRecord) int {
			return a.Date.Compare(b.Date)
		})
	case domain.SortDateDesc:
		slices.SortStableFunc(out, func(a, b domain.TaskRecord) int {
			return b.Date.Compare(a.Date)
		})
	case domain.SortTag:
		slices.SortStableFunc(out, func(a, b domain.TaskRecord) int {
			return cmp.Compare(a.Tag, b.Tag)
		})
	}
	return out
}

// OrderTags puts tags listed in order first, in list order, followed by the
// rest in collation order.
func OrderTags(tags, order []string, cmp *TagComparer) []string {
	index := make(map[string]int, len(order))
	for i, tag := range order {
		if _, dup := index[tag]; !dup {
			index[tag] = i
		}
	}

	out := slices.Clone(tags)
	slices.SortStableFunc(out, func(a, b string) int {
		ia, okA := index[a]
		ib, okB := index[b]
		switch {
		case okA && okB:
			return ia - ib
		case okA:
			return -1
		case okB:
			return 1
		default:
			return cmp.Compare(a, b)
		}
	})
	return out
}

// TagComparer compares tags the way a user's locale would. It is not safe
// for concurrent use.
type TagComparer struct {
	collator *collate.Collator
}

func NewTagComparer(lang language.Tag) *TagComparer {
	return &TagComparer{collator: collate.New(lang)}
}

// Compare falls back to byte order when the collator considers a and b equal,
// so distinct tags never tie.
func (c *TagComparer) Compare(a, b string) int {
	if r := c.collator.CompareString(a, b); r != 0 {
		return r
	}
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
