// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"testing"
	"time"

	"eventdesk/internal/model"
)

func listingFixture() []model.Event {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	return []model.Event{
		{ID: 1, Title: "Go Workshop", Description: "Hands-on coding", Category: model.CategoryWorkshop, CreatedAt: base.Add(3 * time.Hour)},
		{ID: 2, Title: "AI Hackathon", Description: "Build with ML", Category: model.CategoryHackathon, CreatedAt: base.Add(2 * time.Hour)},
		{ID: 3, Title: "Cloud Seminar", Description: "Talks about kubernetes", Category: model.CategorySeminar, CreatedAt: base.Add(1 * time.Hour)},
		{ID: 4, Title: "apple pie workshop", Description: "Baking basics", Category: model.CategoryWorkshop, CreatedAt: base},
	}
}

func ids(events []model.Event) []int64 {
	out := make([]int64, len(events))
	for i, e := range events {
		out[i] = e.ID
	}
	return out
}

func equalIDs(a []int64, b ...int64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestFilterApply(t *testing.T) {
	events := listingFixture()

	tests := []struct {
		name   string
		filter Filter
		want   []int64
	}{
		{
			name:   "zero filter keeps newest first",
			filter: Filter{},
			want:   []int64{1, 2, 3, 4},
		},
		{
			name:   "query matches title case-insensitively",
			filter: Filter{Query: "hackathon"},
			want:   []int64{2},
		},
		{
			name:   "query matches description",
			filter: Filter{Query: "KUBERNETES"},
			want:   []int64{3},
		},
		{
			name:   "query with surrounding whitespace",
			filter: Filter{Query: "  baking  "},
			want:   []int64{4},
		},
		{
			name:   "category filter",
			filter: Filter{Category: model.CategoryWorkshop},
			want:   []int64{1, 4},
		},
		{
			name:   "category all matches everything",
			filter: Filter{Category: CategoryAll},
			want:   []int64{1, 2, 3, 4},
		},
		{
			name:   "query and category combine",
			filter: Filter{Query: "workshop", Category: model.CategoryWorkshop},
			want:   []int64{1, 4},
		},
		{
			name:   "oldest sort",
			filter: Filter{Sort: SortOldest},
			want:   []int64{4, 3, 2, 1},
		},
		{
			name:   "alphabetical sort ignores case",
			filter: Filter{Sort: SortAlphabetical},
			want:   []int64{2, 4, 3, 1},
		},
		{
			name:   "unknown sort falls back to newest",
			filter: Filter{Sort: "sideways"},
			want:   []int64{1, 2, 3, 4},
		},
		{
			name:   "no matches",
			filter: Filter{Query: "quantum"},
			want:   nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.filter.Apply(events)
			if !equalIDs(ids(got), tt.want...) {
				t.Errorf("Apply() ids = %v, want %v", ids(got), tt.want)
			}
		})
	}
}

func TestFilterApplyDoesNotMutateInput(t *testing.T) {
	events := listingFixture()

	Filter{Sort: SortAlphabetical}.Apply(events)

	if !equalIDs(ids(events), 1, 2, 3, 4) {
		t.Errorf("input order changed: %v", ids(events))
	}
}

func TestFilterApplyAlphabeticalIsNonDecreasing(t *testing.T) {
	events := listingFixture()

	got := Filter{Sort: SortAlphabetical}.Apply(events)
	for i := 1; i < len(got); i++ {
		if lessTitle(got[i].Title, got[i-1].Title) {
			t.Errorf("titles out of order at %d: %q before %q", i, got[i-1].Title, got[i].Title)
		}
	}
}

func TestFilterApplyDateScenario(t *testing.T) {
	old := model.Event{ID: 1, Title: "Old", CreatedAt: time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)}
	future := model.Event{ID: 2, Title: "Future", CreatedAt: time.Date(2099, 1, 1, 0, 0, 0, 0, time.UTC)}
	events := []model.Event{future, old}

	oldest := Filter{Sort: SortOldest}.Apply(events)
	if !equalIDs(ids(oldest), 1, 2) {
		t.Errorf("oldest = %v, want [1 2]", ids(oldest))
	}

	newest := Filter{Sort: SortNewest}.Apply(events)
	if !equalIDs(ids(newest), 2, 1) {
		t.Errorf("newest = %v, want [2 1]", ids(newest))
	}
}

func TestNormalizeFilter(t *testing.T) {
	f := NormalizeFilter(Filter{})
	if f.Category != CategoryAll || f.Sort != SortNewest {
		t.Errorf("NormalizeFilter zero = %+v", f)
	}

	f = NormalizeFilter(Filter{Category: model.CategorySeminar, Sort: SortOldest})
	if f.Category != model.CategorySeminar || f.Sort != SortOldest {
		t.Errorf("NormalizeFilter kept = %+v", f)
	}
}
