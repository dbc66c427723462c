// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// googleUserinfoURL is the OIDC userinfo endpoint used to resolve the
// signed-in identity after token exchange.
const googleUserinfoURL = "https://openidconnect.googleapis.com/v1/userinfo"

// GoogleProvider implements federated sign-in against Google's OAuth2
// endpoints.
type GoogleProvider struct {
	config      *oauth2.Config
	userinfoURL string
}

// NewGoogleProvider creates a provider for the given client credentials.
func NewGoogleProvider(clientID, clientSecret, redirectURL string) *GoogleProvider {
	return &GoogleProvider{
		config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Scopes:       []string{"openid", "email", "profile"},
			Endpoint:     google.Endpoint,
		},
		userinfoURL: googleUserinfoURL,
	}
}

// AuthURL returns the provider consent page URL for the given state token.
func (p *GoogleProvider) AuthURL(state string) string {
	return p.config.AuthCodeURL(state)
}

// Exchange trades an authorization code for the signed-in identity's claims.
func (p *GoogleProvider) Exchange(ctx context.Context, code string) (FederatedClaims, error) {
	token, err := p.config.Exchange(ctx, code)
	if err != nil {
		return FederatedClaims{}, fmt.Errorf("exchanging authorization code: %w", err)
	}

	client := p.config.Client(ctx, token)
	resp, err := client.Get(p.userinfoURL)
	if err != nil {
		return FederatedClaims{}, fmt.Errorf("fetching userinfo: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return FederatedClaims{}, fmt.Errorf("userinfo request failed: %s: %s", resp.Status, body)
	}

	var info struct {
		Sub   string `json:"sub"`
		Email string `json:"email"`
		Name  string `json:"name"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return FederatedClaims{}, fmt.Errorf("decoding userinfo: %w", err)
	}
	if info.Sub == "" {
		return FederatedClaims{}, fmt.Errorf("userinfo response missing subject")
	}

	return FederatedClaims{
		Subject: info.Sub,
		Email:   info.Email,
		Name:    info.Name,
	}, nil
}
