// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import "fmt"

// Route pattern constants for chi router registration.
const (
	// RouteRoot is the root path.
	RouteRoot = "/"
	// RouteLogin is the login route.
	RouteLogin = "/login"
	// RouteRegister is the registration route.
	RouteRegister = "/register"
	// RouteLogout is the logout route.
	RouteLogout = "/logout"
	// RouteGoogleLogin starts the Google sign-in flow.
	RouteGoogleLogin = "/auth/google"
	// RouteGoogleCallback completes the Google sign-in flow.
	RouteGoogleCallback = "/auth/google/callback"

	// RouteEvents is the events admin route.
	RouteEvents = "/events"
	// RouteSuffixNew is the suffix for "new" routes.
	RouteSuffixNew = "/new"
	// RouteParamID is the ID parameter pattern.
	RouteParamID = "/{id}"
	// RouteEventsID is the events ID route pattern.
	RouteEventsID = RouteEvents + RouteParamID
)

const (
	redirectRoot           = RouteRoot
	redirectLogin          = RouteLogin
	redirectRegister       = RouteRegister
	redirectAdmin          = "/admin"
	redirectAdminEvents    = redirectAdmin + RouteEvents
	redirectAdminEventsNew = redirectAdminEvents + RouteSuffixNew
	redirectAdminEventsID  = redirectAdminEvents + "/%d"
)

// editEventURL returns the admin edit URL for an event.
func editEventURL(id int64) string {
	return fmt.Sprintf(redirectAdminEventsID, id)
}

// Session keys used across handlers.
const (
	// SessionKeyUserID is the session key for storing the authenticated user ID.
	SessionKeyUserID = "user_id"
	// SessionKeyOAuthState holds the pending OAuth state token.
	SessionKeyOAuthState = "oauth_state"
)
