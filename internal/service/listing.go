// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"sort"
	"strings"

	"eventdesk/internal/model"
)

// Sort modes for event listings.
const (
	SortNewest       = "newest"
	SortOldest       = "oldest"
	SortAlphabetical = "alphabetical"
)

// CategoryAll matches every category.
const CategoryAll = "all"

// Filter narrows and orders an event listing. The zero value matches
// everything and keeps newest-first ordering.
type Filter struct {
	Query    string
	Category string
	Sort     string
}

// NormalizeFilter fills in defaults for empty filter fields.
func NormalizeFilter(f Filter) Filter {
	if f.Category == "" {
		f.Category = CategoryAll
	}
	switch f.Sort {
	case SortNewest, SortOldest, SortAlphabetical:
	default:
		f.Sort = SortNewest
	}
	return f
}

// Apply filters and sorts a copy of events. It is pure: the input slice
// is never mutated and the result is recomputed in full on every call.
func (f Filter) Apply(events []model.Event) []model.Event {
	f = NormalizeFilter(f)

	out := make([]model.Event, 0, len(events))

	query := strings.ToLower(strings.TrimSpace(f.Query))
	for _, e := range events {
		if query != "" && !matchesQuery(e, query) {
			continue
		}
		if f.Category != CategoryAll && e.Category != f.Category {
			continue
		}
		out = append(out, e)
	}

	// Stable sort keeps the incoming order for ties.
	switch f.Sort {
	case SortOldest:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		})
	case SortAlphabetical:
		sort.SliceStable(out, func(i, j int) bool {
			return lessTitle(out[i].Title, out[j].Title)
		})
	default:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		})
	}

	return out
}

// matchesQuery reports whether the lowercased query occurs in the
// event's title or description.
func matchesQuery(e model.Event, query string) bool {
	return strings.Contains(strings.ToLower(e.Title), query) ||
		strings.Contains(strings.ToLower(e.Description), query)
}

// lessTitle compares titles ignoring case first, falling back to a
// byte-wise compare so "apple" and "Apple" order deterministically.
func lessTitle(a, b string) bool {
	la, lb := strings.ToLower(a), strings.ToLower(b)
	if la != lb {
		return la < lb
	}
	return a < b
}
