package handler

import (
	"context"
	"database/sql"
	"net/http"
	"testing"
	"testing/fstest"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/go-chi/chi/v5"
	_ "modernc.org/sqlite"

	"eventdesk/internal/model"
	"eventdesk/internal/render"
)

// testDB creates an in-memory SQLite database with the required schema for testing.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	schema := `
		CREATE TABLE users (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			email TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL DEFAULT '',
			role TEXT NOT NULL DEFAULT 'user',
			name TEXT NOT NULL,
			google_sub TEXT UNIQUE,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			last_login_at DATETIME
		);
		CREATE INDEX idx_users_email ON users(email);
		CREATE INDEX idx_users_role ON users(role);

		CREATE TABLE sessions (
			token TEXT PRIMARY KEY,
			data BLOB NOT NULL,
			expiry REAL NOT NULL
		);
		CREATE INDEX idx_sessions_expiry ON sessions(expiry);

		CREATE TABLE events (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			title TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			image_url TEXT NOT NULL DEFAULT '',
			registration_url TEXT NOT NULL DEFAULT '',
			category TEXT NOT NULL DEFAULT 'workshop',
			event_date DATETIME,
			created_by INTEGER NOT NULL,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME,
			FOREIGN KEY (created_by) REFERENCES users(id)
		);
		CREATE INDEX idx_events_category ON events(category);
		CREATE INDEX idx_events_created_at ON events(created_at DESC);

		CREATE TABLE audit_log (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			level TEXT NOT NULL DEFAULT 'info',
			message TEXT NOT NULL,
			user_id INTEGER,
			path TEXT NOT NULL DEFAULT '',
			metadata TEXT NOT NULL DEFAULT '{}',
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE SET NULL
		);
	`

	if _, err := db.Exec(schema); err != nil {
		t.Fatalf("failed to create test schema: %v", err)
	}

	t.Cleanup(func() {
		_ = db.Close()
	})

	return db
}

// testSessionManager creates a session manager for testing.
func testSessionManager(t *testing.T) *scs.SessionManager {
	t.Helper()
	sm := scs.New()
	sm.Lifetime = 24 * time.Hour
	return sm
}

// testRenderer builds a renderer over stripped-down templates so handlers
// can be exercised end to end without the real web assets.
func testRenderer(t *testing.T, sm *scs.SessionManager) *render.Renderer {
	t.Helper()

	base := `{{define "base"}}<html><body>{{template "content" .}}</body></html>{{end}}`
	content := `{{define "content"}}{{.Title}}{{end}}`

	templatesFS := fstest.MapFS{
		"layouts/base.html":       {Data: []byte(base)},
		"layouts/admin.html":      {Data: []byte(`{{define "admin"}}{{end}}`)},
		"auth/login.html":         {Data: []byte(content)},
		"auth/register.html":      {Data: []byte(content)},
		"frontend/events.html":    {Data: []byte(content)},
		"admin/events_list.html":  {Data: []byte(content)},
		"admin/event_form.html":   {Data: []byte(content)},
		"admin/event_delete.html": {Data: []byte(content)},
	}

	renderer, err := render.New(render.Config{
		TemplatesFS:    templatesFS,
		SessionManager: sm,
		IsDev:          true,
	})
	if err != nil {
		t.Fatalf("failed to build test renderer: %v", err)
	}
	return renderer
}

// testUser is a test user for testing.
type testUser struct {
	ID           int64
	Email        string
	Name         string
	Role         string
	PasswordHash string
}

// createTestUser creates a test user in the database.
func createTestUser(t *testing.T, db *sql.DB, user testUser) model.User {
	t.Helper()

	if user.Role == "" {
		user.Role = model.RoleUser
	}

	now := time.Now()
	result, err := db.Exec(
		`INSERT INTO users (email, password_hash, role, name, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)`,
		user.Email, user.PasswordHash, user.Role, user.Name, now, now,
	)
	if err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}

	id, _ := result.LastInsertId()
	return model.User{
		ID:           id,
		Email:        user.Email,
		PasswordHash: user.PasswordHash,
		Role:         user.Role,
		Name:         user.Name,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// createTestEvent inserts an event row directly.
func createTestEvent(t *testing.T, db *sql.DB, title, category string, createdBy int64) model.Event {
	t.Helper()

	result, err := db.Exec(
		`INSERT INTO events (title, description, image_url, category, created_by) VALUES (?, ?, ?, ?, ?)`,
		title, "", model.PlaceholderImageURL, category, createdBy,
	)
	if err != nil {
		t.Fatalf("failed to create test event: %v", err)
	}

	id, _ := result.LastInsertId()
	return model.Event{
		ID:       id,
		Title:    title,
		ImageURL: model.PlaceholderImageURL,
		Category: category,
	}
}

// requestWithURLParams adds chi URL parameters to a request.
func requestWithURLParams(r *http.Request, params map[string]string) *http.Request {
	rctx := chi.NewRouteContext()
	for key, value := range params {
		rctx.URLParams.Add(key, value)
	}
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// requestWithSession wraps a request with session context.
func requestWithSession(sm *scs.SessionManager, r *http.Request) *http.Request {
	ctx, err := sm.Load(r.Context(), "")
	if err != nil {
		return r
	}
	return r.WithContext(ctx)
}

// assertStatus checks if the response status code matches the expected value.
func assertStatus(t *testing.T, got, want int) {
	t.Helper()
	if got != want {
		t.Errorf("status = %d; want %d", got, want)
	}
}
