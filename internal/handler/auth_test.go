package handler

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/alexedwards/scs/v2"

	"eventdesk/internal/auth"
	"eventdesk/internal/model"
)

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		duration time.Duration
		want     string
	}{
		{0, "0 seconds"},
		{30 * time.Second, "30 seconds"},
		{59 * time.Second, "59 seconds"},
		{1 * time.Minute, "1 minute"},
		{90 * time.Second, "1 minute"},
		{5 * time.Minute, "5 minutes"},
		{59 * time.Minute, "59 minutes"},
		{1 * time.Hour, "1 hour"},
		{90 * time.Minute, "1 hour"},
		{2 * time.Hour, "2 hours"},
	}

	for _, tt := range tests {
		t.Run(tt.duration.String(), func(t *testing.T) {
			got := formatDuration(tt.duration)
			if got != tt.want {
				t.Errorf("formatDuration(%v) = %q; want %q", tt.duration, got, tt.want)
			}
		})
	}
}

func TestNewAuthHandler(t *testing.T) {
	db := testDB(t)
	sm := testSessionManager(t)

	handler := NewAuthHandler(db, nil, sm, nil, nil)

	if handler == nil {
		t.Fatal("NewAuthHandler returned nil")
	}
	if handler.queries == nil {
		t.Error("queries should not be nil")
	}
	if handler.facade == nil {
		t.Error("facade should not be nil")
	}
	if handler.sessionManager != sm {
		t.Error("sessionManager not set correctly")
	}
	if handler.loginProtection != nil {
		t.Error("loginProtection should be nil when not provided")
	}
}

// postForm runs a handler on a form POST inside the session middleware
// and returns the recorder.
func postForm(sm *scs.SessionManager, h http.HandlerFunc, target string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	sm.LoadAndSave(h).ServeHTTP(w, req)
	return w
}

func TestAuthHandler_Login(t *testing.T) {
	db := testDB(t)
	sm := testSessionManager(t)
	renderer := testRenderer(t, sm)
	handler := NewAuthHandler(db, renderer, sm, nil, nil)

	hash, err := auth.HashPassword("correct horse")
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	createTestUser(t, db, testUser{
		Email:        "user@example.com",
		Name:         "Regular User",
		Role:         model.RoleUser,
		PasswordHash: hash,
	})
	createTestUser(t, db, testUser{
		Email:        "boss@example.com",
		Name:         "The Boss",
		Role:         model.RoleAdmin,
		PasswordHash: hash,
	})

	tests := []struct {
		name         string
		email        string
		password     string
		wantLocation string
	}{
		{"regular user lands on listing", "user@example.com", "correct horse", "/"},
		{"admin lands on event management", "boss@example.com", "correct horse", "/admin/events"},
		{"wrong password returns to login", "user@example.com", "wrong", "/login"},
		{"unknown email returns to login", "nobody@example.com", "correct horse", "/login"},
		{"missing fields return to login", "", "", "/login"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			form := url.Values{}
			form.Set("email", tt.email)
			form.Set("password", tt.password)

			w := postForm(sm, handler.Login, "/login", form)

			assertStatus(t, w.Code, http.StatusSeeOther)
			if got := w.Header().Get("Location"); got != tt.wantLocation {
				t.Errorf("Location = %q; want %q", got, tt.wantLocation)
			}
		})
	}
}

func TestAuthHandler_Register(t *testing.T) {
	db := testDB(t)
	sm := testSessionManager(t)
	renderer := testRenderer(t, sm)
	handler := NewAuthHandler(db, renderer, sm, nil, nil)

	validForm := func() url.Values {
		form := url.Values{}
		form.Set("name", "New Member")
		form.Set("email", "new@example.com")
		form.Set("password", "secret123")
		form.Set("confirm_password", "secret123")
		form.Set("terms", "on")
		return form
	}

	t.Run("successful registration signs the user in", func(t *testing.T) {
		w := postForm(sm, handler.Register, "/register", validForm())

		assertStatus(t, w.Code, http.StatusSeeOther)
		if got := w.Header().Get("Location"); got != "/" {
			t.Errorf("Location = %q; want %q", got, "/")
		}

		var role string
		err := db.QueryRow(`SELECT role FROM users WHERE email = ?`, "new@example.com").Scan(&role)
		if err != nil {
			t.Fatalf("user not created: %v", err)
		}
		if role != model.RoleUser {
			t.Errorf("role = %q; want %q", role, model.RoleUser)
		}
	})

	t.Run("validation failures return to register", func(t *testing.T) {
		tests := []struct {
			name  string
			mutate func(url.Values)
		}{
			{"short name", func(f url.Values) { f.Set("name", "X") }},
			{"password mismatch", func(f url.Values) { f.Set("confirm_password", "different") }},
			{"terms not accepted", func(f url.Values) { f.Del("terms") }},
			{"duplicate email", func(f url.Values) { f.Set("name", "Dup") }},
			{"weak password", func(f url.Values) {
				f.Set("email", "weak@example.com")
				f.Set("password", "abc")
				f.Set("confirm_password", "abc")
			}},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				form := validForm()
				tt.mutate(form)

				w := postForm(sm, handler.Register, "/register", form)

				assertStatus(t, w.Code, http.StatusSeeOther)
				if got := w.Header().Get("Location"); got != "/register" {
					t.Errorf("Location = %q; want %q", got, "/register")
				}
			})
		}
	})
}

func TestAuthHandler_Logout(t *testing.T) {
	db := testDB(t)
	sm := testSessionManager(t)
	renderer := testRenderer(t, sm)
	handler := NewAuthHandler(db, renderer, sm, nil, nil)

	w := postForm(sm, handler.Logout, "/logout", url.Values{})

	assertStatus(t, w.Code, http.StatusSeeOther)
	if got := w.Header().Get("Location"); got != "/login" {
		t.Errorf("Location = %q; want %q", got, "/login")
	}
}

func TestAuthHandler_GoogleLoginUnconfigured(t *testing.T) {
	db := testDB(t)
	sm := testSessionManager(t)
	renderer := testRenderer(t, sm)
	handler := NewAuthHandler(db, renderer, sm, nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/auth/google", nil)
	w := httptest.NewRecorder()
	sm.LoadAndSave(http.HandlerFunc(handler.GoogleLogin)).ServeHTTP(w, req)

	assertStatus(t, w.Code, http.StatusSeeOther)
	if got := w.Header().Get("Location"); got != "/login" {
		t.Errorf("Location = %q; want %q", got, "/login")
	}
}

func TestAuthHandler_GoogleCallbackStateMismatch(t *testing.T) {
	db := testDB(t)
	sm := testSessionManager(t)
	renderer := testRenderer(t, sm)
	google := auth.NewGoogleProvider("client-id", "client-secret", "http://localhost:8080/auth/google/callback")
	handler := NewAuthHandler(db, renderer, sm, nil, google)

	req := httptest.NewRequest(http.MethodGet, "/auth/google/callback?state=bogus&code=abc", nil)
	w := httptest.NewRecorder()
	sm.LoadAndSave(http.HandlerFunc(handler.GoogleCallback)).ServeHTTP(w, req)

	assertStatus(t, w.Code, http.StatusSeeOther)
	if got := w.Header().Get("Location"); got != "/login" {
		t.Errorf("Location = %q; want %q", got, "/login")
	}
}

func TestAuthHandler_LoginFormRendersPage(t *testing.T) {
	db := testDB(t)
	sm := testSessionManager(t)
	renderer := testRenderer(t, sm)
	handler := NewAuthHandler(db, renderer, sm, nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/login", nil)
	w := httptest.NewRecorder()
	sm.LoadAndSave(http.HandlerFunc(handler.LoginForm)).ServeHTTP(w, req)

	assertStatus(t, w.Code, http.StatusOK)
	if body := w.Body.String(); !strings.Contains(body, "Sign In") {
		t.Errorf("body missing page title: %q", body)
	}
}
