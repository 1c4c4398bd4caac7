// Package textsearch implements the Turkish-locale case folding and ordering
// used by every searchable list in the client.
package textsearch

import (
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Fold lower-cases s under Turkish rules ("İ" -> "i", "I" -> "ı").
// A Caser is stateful, so each call builds its own.
func Fold(s string) string {
	return cases.Lower(language.Turkish).String(s)
}

// Contains reports whether needle occurs in haystack after Turkish folding.
// An empty or blank needle matches everything.
func Contains(haystack, needle string) bool {
	q := Fold(strings.TrimSpace(needle))
	if q == "" {
		return true
	}
	return strings.Contains(Fold(haystack), q)
}

// Join concatenates display fields with single spaces, skipping empty ones.
func Join(fields ...string) string {
	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		if f = strings.TrimSpace(f); f != "" {
			parts = append(parts, f)
		}
	}
	return strings.Join(parts, " ")
}

// Filter keeps the items whose text contains query.
func Filter[T any](items []T, query string, text func(T) string) []T {
	if strings.TrimSpace(query) == "" {
		out := make([]T, len(items))
		copy(out, items)
		return out
	}
	q := Fold(strings.TrimSpace(query))
	out := make([]T, 0, len(items))
	for _, it := range items {
		if strings.Contains(Fold(text(it)), q) {
			out = append(out, it)
		}
	}
	return out
}

// Sort orders items by name using Turkish collation (ç after c, ş after s, ...).
func Sort[T any](items []T, name func(T) string) {
	c := collate.New(language.Turkish)
	sort.SliceStable(items, func(i, j int) bool {
		return c.CompareString(name(items[i]), name(items[j])) < 0
	})
}
