// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"database/sql"
	"testing"
	"time"
)

func TestCategoryInfoFor(t *testing.T) {
	tests := []struct {
		category  string
		wantLabel string
	}{
		{CategoryWorkshop, "Workshop"},
		{CategoryCompetition, "Competition"},
		{CategorySeminar, "Seminar"},
		{CategoryHackathon, "Hackathon"},
		{CategoryConference, "Conference"},
		{"", "Workshop"},        // missing value falls back
		{"unknown", "Workshop"}, // unrecognized value falls back
		{"WORKSHOP", "Workshop"},
	}

	for _, tt := range tests {
		t.Run(tt.category, func(t *testing.T) {
			info := CategoryInfoFor(tt.category)
			if info.Label != tt.wantLabel {
				t.Errorf("CategoryInfoFor(%q).Label = %q; want %q", tt.category, info.Label, tt.wantLabel)
			}
			if info.BadgeClass == "" {
				t.Errorf("CategoryInfoFor(%q).BadgeClass is empty", tt.category)
			}
		})
	}
}

func TestNormalizeCategory(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"hackathon", "hackathon"},
		{"conference", "conference"},
		{"", "workshop"},
		{"meetup", "workshop"},
	}

	for _, tt := range tests {
		if got := NormalizeCategory(tt.in); got != tt.want {
			t.Errorf("NormalizeCategory(%q) = %q; want %q", tt.in, got, tt.want)
		}
	}
}

func TestIsValidCategory(t *testing.T) {
	for _, c := range ValidCategories {
		if !IsValidCategory(c) {
			t.Errorf("IsValidCategory(%q) = false; want true", c)
		}
	}
	if IsValidCategory("") {
		t.Error("IsValidCategory(\"\") = true; want false")
	}
}

func TestEventDateLabel(t *testing.T) {
	e := Event{}
	if got := e.DateLabel(); got != "Date TBD" {
		t.Errorf("DateLabel() = %q; want %q", got, "Date TBD")
	}

	e.EventDate = sql.NullTime{Time: time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC), Valid: true}
	if got := e.DateLabel(); got != "Sat, Mar 14, 2026" {
		t.Errorf("DateLabel() = %q; want %q", got, "Sat, Mar 14, 2026")
	}
}

func TestUserIsAdmin(t *testing.T) {
	tests := []struct {
		role string
		want bool
	}{
		{RoleAdmin, true},
		{RoleUser, false},
		{"", false},
		{"Admin", false},
	}

	for _, tt := range tests {
		u := User{Role: tt.role}
		if got := u.IsAdmin(); got != tt.want {
			t.Errorf("IsAdmin() with role %q = %v; want %v", tt.role, got, tt.want)
		}
	}
}
