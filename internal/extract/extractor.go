// Package extract scans document text for task matches.
package extract

import (
	"fmt"
	"iter"
	"strings"
	"unicode/utf8"

	"github.com/dlclark/regexp2"

	"github.com/rcliao/tasktimeline/internal/pattern"
)

// RawMatch is one pattern match before date parsing. Groups absent from the
// match are empty strings.
type RawMatch struct {
	Text    string
	Date    string
	Tag     string
	Matched string

	Start  int // byte offset of the match
	End    int // byte offset just past the match
	Line   int // 0-based
	Column int // runes since the last newline
}

// Scan yields every non-overlapping match of p in text, left to right. The
// sequence stops after the first error, which is yielded with a zero match.
func Scan(text string, p *pattern.Compiled) iter.Seq2[RawMatch, error] {
	return func(yield func(RawMatch, error) bool) {
		re := p.Regexp()
		m, err := re.FindStringMatch(text)

		offsets := newRuneOffsets(text)
		lines := lineTracker{text: text}

		for m != nil && err == nil {
			start := offsets.byteOffset(m.Index)
			end := offsets.byteOffset(m.Index + m.Length)
			line, column := lines.position(start)

			raw := RawMatch{
				Text:    group(m, 1),
				Date:    group(m, 2),
				Tag:     group(m, 3),
				Matched: text[start:end],
				Start:   start,
				End:     end,
				Line:    line,
				Column:  column,
			}
			if !yield(raw, nil) {
				return
			}

			m, err = re.FindNextMatch(m)
		}

		if err != nil {
			yield(RawMatch{}, fmt.Errorf("scanning with pattern %q: %w", p.Source(), err))
		}
	}
}

func group(m *regexp2.Match, n int) string {
	g := m.GroupByNumber(n)
	if g == nil {
		return ""
	}
	return g.String()
}

// runeOffsets converts regexp2 rune indexes into byte offsets. Matches come
// in increasing order, so the cursor only moves forward in the common case.
type runeOffsets struct {
	text      string
	runeIndex int
	byteIndex int
}

func newRuneOffsets(text string) *runeOffsets {
	return &runeOffsets{text: text}
}

func (r *runeOffsets) byteOffset(runeIndex int) int {
	if runeIndex < r.runeIndex {
		r.runeIndex, r.byteIndex = 0, 0
	}
	for r.runeIndex < runeIndex && r.byteIndex < len(r.text) {
		_, size := utf8.DecodeRuneInString(r.text[r.byteIndex:])
		r.byteIndex += size
		r.runeIndex++
	}
	return r.byteIndex
}

// lineTracker counts newlines incrementally between successive offsets.
type lineTracker struct {
	text      string
	offset    int
	line      int
	lineStart int
}

func (l *lineTracker) position(offset int) (line, column int) {
	if offset < l.offset {
		l.offset, l.line, l.lineStart = 0, 0, 0
	}
	segment := l.text[l.offset:offset]
	if n := strings.Count(segment, "\n"); n > 0 {
		l.line += n
		l.lineStart = l.offset + strings.LastIndexByte(segment, '\n') + 1
	}
	l.offset = offset
	return l.line, utf8.RuneCountInString(l.text[l.lineStart:offset])
}
