// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package model defines domain models and types used throughout the
// application, including User, Event, and the event category table.
package model

import (
	"database/sql"
	"time"
)

// User roles. New accounts are always created with RoleUser; RoleAdmin is
// assigned out-of-band (seeding or direct database update), never by a
// request handler.
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// User represents an application user profile. Exactly one row exists per
// identity; profiles are never deleted by the application.
type User struct {
	ID           int64          `json:"id"`
	Email        string         `json:"email"`
	PasswordHash string         `json:"-"` // Never expose in JSON; empty for federated-only accounts
	Role         string         `json:"role"`
	Name         string         `json:"name"`
	GoogleSub    sql.NullString `json:"-"` // OIDC subject for federated accounts
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	LastLoginAt  sql.NullTime   `json:"last_login_at,omitempty"`
}

// IsAdmin returns true if the user has admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
