package tags

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf16"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/rcliao/tasktimeline/internal/domain"
)

// ErrInvalidColor is returned for colors that are not #rgb or #rrggbb hex.
var ErrInvalidColor = errors.New("invalid color")

// OverrideKey is the key a tag's custom color is stored under: the tag with
// one leading '#' removed.
func OverrideKey(tag string) string {
	return strings.TrimPrefix(tag, "#")
}

// ColorFor resolves the display color of tag. With custom colors on, a
// stored override wins and defaultColor covers the rest; otherwise the
// color is derived from the tag itself.
func ColorFor(tag string, overrides map[string]string, useCustom bool, defaultColor string) string {
	if useCustom {
		if c, ok := overrides[OverrideKey(tag)]; ok && c != "" {
			return c
		}
		if defaultColor == "" {
			return domain.DefaultTagColor
		}
		return defaultColor
	}
	return HashColor(tag)
}

// HashColor derives a stable #rrggbb color from tag. The hash runs over
// UTF-16 code units with 32-bit wraparound, and each channel is kept in
// 100..199 so colors stay mid-toned.
func HashColor(tag string) string {
	var hash int32
	for _, unit := range utf16.Encode([]rune(tag)) {
		hash = int32(unit) + (hash<<5 - hash)
	}

	var b strings.Builder
	b.WriteByte('#')
	for i := 0; i < 3; i++ {
		value := (hash >> (i * 8)) & 0xFF
		fmt.Fprintf(&b, "%02x", 100+value%100)
	}
	return b.String()
}

// NormalizeColor validates a #rrggbb color and returns it in lower case.
func NormalizeColor(s string) (string, error) {
	c, err := colorful.Hex(strings.TrimSpace(s))
	if err != nil {
		return "", fmt.Errorf("%w %q: %w", ErrInvalidColor, s, err)
	}
	return c.Hex(), nil
}

// WithColor proposes prefs with tag's color set to color. Picking a color
// also turns custom colors on.
func WithColor(prefs *domain.Preferences, tag, color string) (*domain.Preferences, error) {
	normalized, err := NormalizeColor(color)
	if err != nil {
		return nil, err
	}
	next := prefs.Clone()
	next.TagColors[OverrideKey(tag)] = normalized
	next.UseCustomColors = true
	return next, nil
}

// WithoutColor proposes prefs with tag's custom color removed.
func WithoutColor(prefs *domain.Preferences, tag string) *domain.Preferences {
	next := prefs.Clone()
	delete(next.TagColors, OverrideKey(tag))
	return next
}

// WithMove proposes prefs with moved placed before anchor in the tag order.
func WithMove(prefs *domain.Preferences, moved, anchor string) *domain.Preferences {
	next := prefs.Clone()
	next.TagOrder = Move(next.TagOrder, moved, anchor)
	return next
}

// Colorize fills in each group's color.
func Colorize(groups []domain.TagGroup, prefs *domain.Preferences) []domain.TagGroup {
	if prefs == nil {
		prefs = domain.NewPreferences()
	}
	out := make([]domain.TagGroup, len(groups))
	for i, g := range groups {
		g.Color = ColorFor(g.Tag, prefs.TagColors, prefs.UseCustomColors, prefs.DefaultColor)
		out[i] = g
	}
	return out
}
