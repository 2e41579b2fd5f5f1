// Package tags resolves tag display order and tag colors. Every operation
// returns a new value and leaves its inputs untouched.
package tags

import "slices"

// Move removes moved from order and reinserts it immediately before anchor.
// If anchor is not in the list, moved goes to the end. Moving a tag onto
// itself changes nothing.
func Move(order []string, moved, anchor string) []string {
	out := slices.Clone(order)
	if moved == anchor {
		return out
	}

	out = slices.DeleteFunc(out, func(tag string) bool { return tag == moved })

	if i := slices.Index(out, anchor); i >= 0 {
		return slices.Insert(out, i, moved)
	}
	return append(out, moved)
}
