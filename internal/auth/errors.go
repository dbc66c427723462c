// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package auth

import "errors"

// Provider error codes. These mirror the session provider's error taxonomy
// and are the only codes the user-facing message tables know about; anything
// else falls through to the raw error message.
const (
	CodeEmailInUse    = "email-already-in-use"
	CodeInvalidEmail  = "invalid-email"
	CodeWeakPassword  = "weak-password"
	CodeUserNotFound  = "user-not-found"
	CodeWrongPassword = "wrong-password"
)

// ProviderError is an authentication or registration failure with a stable
// machine-readable code.
type ProviderError struct {
	Code    string
	Message string
}

func (e *ProviderError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return e.Code
}

// AsProviderError unwraps err into a *ProviderError, or nil.
func AsProviderError(err error) *ProviderError {
	var pe *ProviderError
	if errors.As(err, &pe) {
		return pe
	}
	return nil
}

// registerMessages maps provider codes to user-facing registration failure
// text.
var registerMessages = map[string]string{
	CodeEmailInUse:   "Email already registered.",
	CodeInvalidEmail: "Invalid email address.",
	CodeWeakPassword: "Password is too weak.",
}

// loginMessages maps provider codes to user-facing login failure text.
var loginMessages = map[string]string{
	CodeUserNotFound:  "User not found.",
	CodeWrongPassword: "Incorrect password.",
	CodeInvalidEmail:  "Invalid email address.",
}

// RegisterErrorMessage converts a registration error into user-facing text.
// Unmapped codes and non-provider errors surface the raw message.
func RegisterErrorMessage(err error) string {
	return mapError(err, "Registration failed. ", registerMessages)
}

// LoginErrorMessage converts a login error into user-facing text.
func LoginErrorMessage(err error) string {
	return mapError(err, "Login failed. ", loginMessages)
}

func mapError(err error, prefix string, table map[string]string) string {
	if err == nil {
		return ""
	}
	if pe := AsProviderError(err); pe != nil {
		if msg, ok := table[pe.Code]; ok {
			return prefix + msg
		}
	}
	return prefix + err.Error()
}
