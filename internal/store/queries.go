// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"time"

	"eventdesk/internal/model"
)

// DBTX is the minimal database interface used by Queries. Both *sql.DB and
// *sql.Tx satisfy it.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Queries provides typed access to the users and events tables. Create and
// update timestamps are assigned here, so callers always observe
// store-assigned time.
type Queries struct {
	db DBTX
}

// New creates a Queries instance bound to the given database handle.
func New(db DBTX) *Queries {
	return &Queries{db: db}
}

// WithTx returns a Queries instance bound to the given transaction.
func (q *Queries) WithTx(tx *sql.Tx) *Queries {
	return &Queries{db: tx}
}

const userColumns = `id, email, password_hash, role, name, google_sub, created_at, updated_at, last_login_at`

func scanUser(row interface{ Scan(...any) error }) (model.User, error) {
	var u model.User
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Role, &u.Name,
		&u.GoogleSub, &u.CreatedAt, &u.UpdatedAt, &u.LastLoginAt)
	return u, err
}

// CreateUserParams holds the fields for creating a user.
type CreateUserParams struct {
	Email        string
	PasswordHash string
	Role         string
	Name         string
	GoogleSub    sql.NullString
}

// CreateUser inserts a new user profile and returns it.
func (q *Queries) CreateUser(ctx context.Context, arg CreateUserParams) (model.User, error) {
	now := time.Now().UTC()
	res, err := q.db.ExecContext(ctx,
		`INSERT INTO users (email, password_hash, role, name, google_sub, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		arg.Email, arg.PasswordHash, arg.Role, arg.Name, arg.GoogleSub, now, now)
	if err != nil {
		return model.User{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.User{}, err
	}
	return model.User{
		ID:           id,
		Email:        arg.Email,
		PasswordHash: arg.PasswordHash,
		Role:         arg.Role,
		Name:         arg.Name,
		GoogleSub:    arg.GoogleSub,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// GetUserByID fetches a user by primary key.
func (q *Queries) GetUserByID(ctx context.Context, id int64) (model.User, error) {
	row := q.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id)
	return scanUser(row)
}

// GetUserByEmail fetches a user by email.
func (q *Queries) GetUserByEmail(ctx context.Context, email string) (model.User, error) {
	row := q.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE email = ?`, email)
	return scanUser(row)
}

// GetUserByGoogleSub fetches a user by federated subject identifier.
func (q *Queries) GetUserByGoogleSub(ctx context.Context, sub string) (model.User, error) {
	row := q.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE google_sub = ?`, sub)
	return scanUser(row)
}

// TouchUser bumps a user's updated_at timestamp, used on repeat federated
// sign-ins.
func (q *Queries) TouchUser(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx,
		`UPDATE users SET updated_at = ? WHERE id = ?`, time.Now().UTC(), id)
	return err
}

// LinkUserGoogleSub attaches a federated subject to an existing account.
func (q *Queries) LinkUserGoogleSub(ctx context.Context, id int64, sub string) error {
	_, err := q.db.ExecContext(ctx,
		`UPDATE users SET google_sub = ?, updated_at = ? WHERE id = ?`,
		sub, time.Now().UTC(), id)
	return err
}

// UpdateUserPassword replaces a user's password hash.
func (q *Queries) UpdateUserPassword(ctx context.Context, id int64, passwordHash string) error {
	_, err := q.db.ExecContext(ctx,
		`UPDATE users SET password_hash = ?, updated_at = ? WHERE id = ?`,
		passwordHash, time.Now().UTC(), id)
	return err
}

// UpdateUserLastLogin records the time of a successful login.
func (q *Queries) UpdateUserLastLogin(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx,
		`UPDATE users SET last_login_at = ? WHERE id = ?`,
		sql.NullTime{Time: time.Now().UTC(), Valid: true}, id)
	return err
}

// CountUsers returns the total number of user profiles.
func (q *Queries) CountUsers(ctx context.Context) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&n)
	return n, err
}

const eventColumns = `id, title, description, image_url, registration_url, category, event_date, created_by, created_at, updated_at`

func scanEvent(row interface{ Scan(...any) error }) (model.Event, error) {
	var e model.Event
	err := row.Scan(&e.ID, &e.Title, &e.Description, &e.ImageURL, &e.RegistrationURL,
		&e.Category, &e.EventDate, &e.CreatedBy, &e.CreatedAt, &e.UpdatedAt)
	return e, err
}

// CreateEventParams holds the fields for creating an event.
type CreateEventParams struct {
	Title           string
	Description     string
	ImageURL        string
	RegistrationURL string
	Category        string
	EventDate       sql.NullTime
	CreatedBy       int64
}

// CreateEvent inserts a new event and returns its assigned ID.
func (q *Queries) CreateEvent(ctx context.Context, arg CreateEventParams) (int64, error) {
	res, err := q.db.ExecContext(ctx,
		`INSERT INTO events (title, description, image_url, registration_url, category, event_date, created_by, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		arg.Title, arg.Description, arg.ImageURL, arg.RegistrationURL,
		arg.Category, arg.EventDate, arg.CreatedBy, time.Now().UTC())
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// GetEventByID fetches an event by primary key.
func (q *Queries) GetEventByID(ctx context.Context, id int64) (model.Event, error) {
	row := q.db.QueryRowContext(ctx, `SELECT `+eventColumns+` FROM events WHERE id = ?`, id)
	return scanEvent(row)
}

// ListEvents returns the full event collection ordered by creation time
// descending (newest first). Ties fall back to ID so the order is stable.
func (q *Queries) ListEvents(ctx context.Context) ([]model.Event, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT `+eventColumns+` FROM events ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var events []model.Event
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

// UpdateEventParams holds the fields for updating an event. ImageURL must
// carry the previous value when no new image was uploaded; the update always
// writes every listed column.
type UpdateEventParams struct {
	ID              int64
	Title           string
	Description     string
	ImageURL        string
	RegistrationURL string
	Category        string
	EventDate       sql.NullTime
}

// UpdateEvent writes the given fields and sets updated_at to store time.
func (q *Queries) UpdateEvent(ctx context.Context, arg UpdateEventParams) error {
	res, err := q.db.ExecContext(ctx,
		`UPDATE events
		 SET title = ?, description = ?, image_url = ?, registration_url = ?,
		     category = ?, event_date = ?, updated_at = ?
		 WHERE id = ?`,
		arg.Title, arg.Description, arg.ImageURL, arg.RegistrationURL,
		arg.Category, arg.EventDate,
		sql.NullTime{Time: time.Now().UTC(), Valid: true}, arg.ID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// DeleteEvent removes an event record.
func (q *Queries) DeleteEvent(ctx context.Context, id int64) error {
	res, err := q.db.ExecContext(ctx, `DELETE FROM events WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// CountEvents returns the total number of events.
func (q *Queries) CountEvents(ctx context.Context) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM events`).Scan(&n)
	return n, err
}

// CreateAuditEntryParams holds the fields for an audit log entry.
type CreateAuditEntryParams struct {
	Level    string
	Message  string
	UserID   sql.NullInt64
	Path     string
	Metadata string
}

// CreateAuditEntry appends a row to the audit log.
func (q *Queries) CreateAuditEntry(ctx context.Context, arg CreateAuditEntryParams) error {
	if arg.Metadata == "" {
		arg.Metadata = "{}"
	}
	_, err := q.db.ExecContext(ctx,
		`INSERT INTO audit_log (level, message, user_id, path, metadata, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		arg.Level, arg.Message, arg.UserID, arg.Path, arg.Metadata, time.Now().UTC())
	return err
}
