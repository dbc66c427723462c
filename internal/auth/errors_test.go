// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package auth

import (
	"errors"
	"fmt"
	"testing"
)

func TestRegisterErrorMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			"email_in_use",
			&ProviderError{Code: CodeEmailInUse, Message: "email already in use"},
			"Registration failed. Email already registered.",
		},
		{
			"invalid_email",
			&ProviderError{Code: CodeInvalidEmail, Message: "malformed email address"},
			"Registration failed. Invalid email address.",
		},
		{
			"weak_password",
			&ProviderError{Code: CodeWeakPassword, Message: "password must be at least 6 characters"},
			"Registration failed. Password is too weak.",
		},
		{
			// Unmapped code falls through to the raw provider message
			"unmapped_code",
			&ProviderError{Code: "quota-exceeded", Message: "project quota exceeded"},
			"Registration failed. project quota exceeded",
		},
		{
			"plain_error",
			errors.New("connection refused"),
			"Registration failed. connection refused",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := RegisterErrorMessage(tt.err); got != tt.want {
				t.Errorf("RegisterErrorMessage() = %q; want %q", got, tt.want)
			}
		})
	}
}

func TestLoginErrorMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			"user_not_found",
			&ProviderError{Code: CodeUserNotFound},
			"Login failed. User not found.",
		},
		{
			"wrong_password",
			&ProviderError{Code: CodeWrongPassword},
			"Login failed. Incorrect password.",
		},
		{
			"invalid_email",
			&ProviderError{Code: CodeInvalidEmail},
			"Login failed. Invalid email address.",
		},
		{
			"unmapped_code",
			&ProviderError{Code: "too-many-requests", Message: "too many attempts"},
			"Login failed. too many attempts",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := LoginErrorMessage(tt.err); got != tt.want {
				t.Errorf("LoginErrorMessage() = %q; want %q", got, tt.want)
			}
		})
	}
}

func TestAsProviderError(t *testing.T) {
	pe := &ProviderError{Code: CodeUserNotFound}
	wrapped := fmt.Errorf("login: %w", pe)

	if got := AsProviderError(wrapped); got == nil || got.Code != CodeUserNotFound {
		t.Errorf("AsProviderError(wrapped) = %v; want code %q", got, CodeUserNotFound)
	}
	if got := AsProviderError(errors.New("plain")); got != nil {
		t.Errorf("AsProviderError(plain) = %v; want nil", got)
	}
	if got := AsProviderError(nil); got != nil {
		t.Errorf("AsProviderError(nil) = %v; want nil", got)
	}
}

func TestProviderErrorError(t *testing.T) {
	if got := (&ProviderError{Code: CodeWeakPassword}).Error(); got != CodeWeakPassword {
		t.Errorf("Error() = %q; want code fallback", got)
	}
	if got := (&ProviderError{Code: CodeWeakPassword, Message: "too short"}).Error(); got != "too short" {
		t.Errorf("Error() = %q; want message", got)
	}
}
