// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"database/sql"
	"time"
)

// PlaceholderImageURL is used for events created without an uploaded image,
// and as the client-side fallback when an image fails to load.
const PlaceholderImageURL = "https://images.unsplash.com/photo-1551288049-bebda4e38f71?ixlib=rb-4.0.3&auto=format&fit=crop&w=800&q=80"

// Event categories.
const (
	CategoryWorkshop    = "workshop"
	CategoryCompetition = "competition"
	CategorySeminar     = "seminar"
	CategoryHackathon   = "hackathon"
	CategoryConference  = "conference"
)

// Event represents an organization event.
type Event struct {
	ID              int64        `json:"id"`
	Title           string       `json:"title"`
	Description     string       `json:"description"`
	ImageURL        string       `json:"image_url"`
	RegistrationURL string       `json:"registration_url,omitempty"`
	Category        string       `json:"category"`
	EventDate       sql.NullTime `json:"event_date,omitempty"`
	CreatedBy       int64        `json:"created_by"`
	CreatedAt       time.Time    `json:"created_at"`
	UpdatedAt       sql.NullTime `json:"updated_at,omitempty"`
}

// DateLabel returns the human-readable event date, or "Date TBD" when no
// date has been set.
func (e *Event) DateLabel() string {
	if !e.EventDate.Valid {
		return "Date TBD"
	}
	return e.EventDate.Time.Format("Mon, Jan 2, 2006")
}

// HasRegistration reports whether the event has an external registration link.
func (e *Event) HasRegistration() bool {
	return e.RegistrationURL != ""
}

// CategoryInfo holds the display label and badge style for an event category.
type CategoryInfo struct {
	Label      string
	BadgeClass string
}

// categories is the fixed category lookup table. Rendering always goes
// through CategoryInfoFor, which falls back to workshop for unrecognized or
// missing values.
var categories = map[string]CategoryInfo{
	CategoryWorkshop:    {Label: "Workshop", BadgeClass: "badge-workshop"},
	CategoryCompetition: {Label: "Competition", BadgeClass: "badge-competition"},
	CategorySeminar:     {Label: "Seminar", BadgeClass: "badge-seminar"},
	CategoryHackathon:   {Label: "Hackathon", BadgeClass: "badge-hackathon"},
	CategoryConference:  {Label: "Conference", BadgeClass: "badge-conference"},
}

// ValidCategories lists all recognized category values in display order.
var ValidCategories = []string{
	CategoryWorkshop,
	CategoryCompetition,
	CategorySeminar,
	CategoryHackathon,
	CategoryConference,
}

// IsValidCategory reports whether the given value is a recognized category.
func IsValidCategory(category string) bool {
	_, ok := categories[category]
	return ok
}

// CategoryInfoFor returns display info for a category, falling back to
// workshop for unrecognized or missing values.
func CategoryInfoFor(category string) CategoryInfo {
	if info, ok := categories[category]; ok {
		return info
	}
	return categories[CategoryWorkshop]
}

// NormalizeCategory returns the category unchanged when recognized, and
// workshop otherwise.
func NormalizeCategory(category string) string {
	if IsValidCategory(category) {
		return category
	}
	return CategoryWorkshop
}
