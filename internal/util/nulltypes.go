// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package util provides general-purpose utility functions.
package util

import (
	"database/sql"
	"time"
)

// NullStringFromValue creates a valid sql.NullString from a string value.
// An empty string produces an invalid NullString.
func NullStringFromValue(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

// NullTimeFromValue creates a valid sql.NullTime from a time value.
// A zero time produces an invalid NullTime.
func NullTimeFromValue(t time.Time) sql.NullTime {
	if t.IsZero() {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: t, Valid: true}
}

// ParseNullDate parses a string in YYYY-MM-DD form into sql.NullTime.
// Returns an invalid NullTime for an empty string and an error for a
// non-empty string that is not a calendar date.
func ParseNullDate(s string) (sql.NullTime, error) {
	if s == "" {
		return sql.NullTime{}, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return sql.NullTime{}, err
	}
	return sql.NullTime{Time: t, Valid: true}, nil
}
