// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"

	"eventdesk/internal/model"
	"eventdesk/internal/store"
)

// MinPasswordLength is the minimum accepted password length.
const MinPasswordLength = 6

// Facade wraps the session provider's account operations behind a uniform
// error taxonomy. All failures from Register and Login carry a
// *ProviderError code from errors.go.
type Facade struct {
	queries *store.Queries
}

// NewFacade creates a Facade over the given database handle.
func NewFacade(db *sql.DB) *Facade {
	return &Facade{queries: store.New(db)}
}

// Register creates a new account and its user profile with role "user".
func (f *Facade) Register(ctx context.Context, name, email, password string) (model.User, error) {
	email = strings.TrimSpace(email)
	if _, err := mail.ParseAddress(email); err != nil {
		return model.User{}, &ProviderError{Code: CodeInvalidEmail, Message: "malformed email address"}
	}
	if len(password) < MinPasswordLength {
		return model.User{}, &ProviderError{
			Code:    CodeWeakPassword,
			Message: fmt.Sprintf("password must be at least %d characters", MinPasswordLength),
		}
	}

	if _, err := f.queries.GetUserByEmail(ctx, email); err == nil {
		return model.User{}, &ProviderError{Code: CodeEmailInUse, Message: "email already in use"}
	} else if !errors.Is(err, sql.ErrNoRows) {
		return model.User{}, fmt.Errorf("checking email: %w", err)
	}

	hash, err := HashPassword(password)
	if err != nil {
		return model.User{}, fmt.Errorf("hashing password: %w", err)
	}

	name = strings.TrimSpace(name)
	if name == "" {
		name = emailLocalPart(email)
	}

	user, err := f.queries.CreateUser(ctx, store.CreateUserParams{
		Email:        email,
		PasswordHash: hash,
		Role:         model.RoleUser,
		Name:         name,
	})
	if err != nil {
		return model.User{}, fmt.Errorf("creating user: %w", err)
	}
	return user, nil
}

// Login authenticates an email/password pair.
func (f *Facade) Login(ctx context.Context, email, password string) (model.User, error) {
	email = strings.TrimSpace(email)
	if _, err := mail.ParseAddress(email); err != nil {
		return model.User{}, &ProviderError{Code: CodeInvalidEmail, Message: "malformed email address"}
	}

	user, err := f.queries.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.User{}, &ProviderError{Code: CodeUserNotFound, Message: "no account for this email"}
		}
		return model.User{}, fmt.Errorf("looking up user: %w", err)
	}

	if user.PasswordHash == "" {
		// Federated-only account; password login is not possible.
		return model.User{}, &ProviderError{Code: CodeWrongPassword, Message: "password sign-in not enabled for this account"}
	}

	valid, err := CheckPassword(password, user.PasswordHash)
	if err != nil {
		return model.User{}, fmt.Errorf("checking password: %w", err)
	}
	if !valid {
		return model.User{}, &ProviderError{Code: CodeWrongPassword, Message: "incorrect password"}
	}

	// Re-hash if the stored hash uses outdated parameters.
	if NeedsRehash(user.PasswordHash) {
		if newHash, err := HashPassword(password); err == nil {
			if err := f.queries.UpdateUserPassword(ctx, user.ID, newHash); err != nil {
				slog.Error("failed to re-hash password", "error", err, "user_id", user.ID)
			} else {
				user.PasswordHash = newHash
				slog.Info("password re-hashed with updated parameters", "user_id", user.ID)
			}
		}
	}

	if err := f.queries.UpdateUserLastLogin(ctx, user.ID); err != nil {
		// Don't block login on this error.
		slog.Error("failed to update last login time", "error", err, "user_id", user.ID)
	}

	return user, nil
}

// FederatedClaims carries the identity attributes returned by a federated
// sign-in provider.
type FederatedClaims struct {
	Subject string
	Email   string
	Name    string
}

// CompleteFederatedLogin resolves a federated identity to a user profile,
// creating the profile on first sign-in. The synthesized profile uses the
// provider display name, falling back to the email local-part, and always
// role "user". Repeat sign-ins bump updated_at only.
func (f *Facade) CompleteFederatedLogin(ctx context.Context, claims FederatedClaims) (model.User, error) {
	if claims.Subject == "" {
		return model.User{}, fmt.Errorf("federated claims missing subject")
	}

	user, err := f.queries.GetUserByGoogleSub(ctx, claims.Subject)
	if err == nil {
		if err := f.queries.TouchUser(ctx, user.ID); err != nil {
			slog.Error("failed to touch federated user", "error", err, "user_id", user.ID)
		}
		if err := f.queries.UpdateUserLastLogin(ctx, user.ID); err != nil {
			slog.Error("failed to update last login time", "error", err, "user_id", user.ID)
		}
		return user, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return model.User{}, fmt.Errorf("looking up federated user: %w", err)
	}

	// Link by email if an account already exists for this address.
	if claims.Email != "" {
		if existing, err := f.queries.GetUserByEmail(ctx, claims.Email); err == nil {
			if err := f.queries.LinkUserGoogleSub(ctx, existing.ID, claims.Subject); err != nil {
				return model.User{}, fmt.Errorf("linking federated identity: %w", err)
			}
			if err := f.queries.UpdateUserLastLogin(ctx, existing.ID); err != nil {
				slog.Error("failed to update last login time", "error", err, "user_id", existing.ID)
			}
			return existing, nil
		} else if !errors.Is(err, sql.ErrNoRows) {
			return model.User{}, fmt.Errorf("looking up user by email: %w", err)
		}
	}

	name := strings.TrimSpace(claims.Name)
	if name == "" {
		name = emailLocalPart(claims.Email)
	}

	user, err = f.queries.CreateUser(ctx, store.CreateUserParams{
		Email:     claims.Email,
		Role:      model.RoleUser,
		Name:      name,
		GoogleSub: sql.NullString{String: claims.Subject, Valid: true},
	})
	if err != nil {
		return model.User{}, fmt.Errorf("creating federated user: %w", err)
	}
	return user, nil
}

// IsAdmin reports whether the identity has the admin role. Admin status is
// fail-closed: a missing profile or a lookup failure yields false, never an
// error.
func (f *Facade) IsAdmin(ctx context.Context, userID int64) bool {
	user, err := f.queries.GetUserByID(ctx, userID)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			slog.Error("error checking admin status", "error", err, "user_id", userID)
		}
		return false
	}
	return user.IsAdmin()
}

// emailLocalPart returns the part of an email address before the '@'.
func emailLocalPart(email string) string {
	if i := strings.Index(email, "@"); i > 0 {
		return email[:i]
	}
	return email
}
