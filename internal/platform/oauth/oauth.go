// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package oauth adapts external identity providers to a single contract.

The rest of the application only sees a verified [Identity]; token exchange and
profile retrieval stay inside the provider adapter.
*/
package oauth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// ErrExchange is returned when the provider rejects the authorization code or
// the profile cannot be read.
var ErrExchange = errors.New("oauth: exchange failed")

// Identity is the profile an external provider vouches for.
type Identity struct {
	Subject       string `json:"sub"`
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
	GivenName     string `json:"given_name"`
	FamilyName    string `json:"family_name"`
}

// Provider runs the authorization code flow for one identity provider.
type Provider interface {
	// AuthCodeURL returns the consent page URL carrying state.
	AuthCodeURL(state string) string

	// Exchange trades an authorization code for the caller's identity.
	Exchange(ctx context.Context, code string) (*Identity, error)
}

// googleUserInfoURL is the OpenID Connect userinfo endpoint.
const googleUserInfoURL = "https://openidconnect.googleapis.com/v1/userinfo"

// Google implements [Provider] against Google's OpenID Connect endpoints.
type Google struct {
	config      oauth2.Config
	userInfoURL string
}

// NewGoogle configures the Google adapter.
func NewGoogle(clientID, clientSecret, redirectURL string) *Google {
	return &Google{
		config: oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Scopes:       []string{"openid", "email", "profile"},
			Endpoint:     google.Endpoint,
		},
		userInfoURL: googleUserInfoURL,
	}
}

// WithEndpoints points the adapter at different token and userinfo URLs.
func (provider *Google) WithEndpoints(endpoint oauth2.Endpoint, userInfoURL string) *Google {
	provider.config.Endpoint = endpoint
	provider.userInfoURL = userInfoURL
	return provider
}

func (provider *Google) AuthCodeURL(state string) string {
	return provider.config.AuthCodeURL(state, oauth2.AccessTypeOnline)
}

/*
Exchange completes the authorization code flow.

Parameters:
  - ctx: context.Context
  - code: string (from the provider callback)

Returns:
  - *Identity: The profile returned by the userinfo endpoint
  - error: [ErrExchange] wrapping the provider failure
*/
func (provider *Google) Exchange(ctx context.Context, code string) (*Identity, error) {
	token, err := provider.config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrExchange, err)
	}

	client := provider.config.Client(ctx, token)
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, provider.userInfoURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrExchange, err)
	}

	response, err := client.Do(request)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrExchange, err)
	}
	defer response.Body.Close()

	if response.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: userinfo status %d", ErrExchange, response.StatusCode)
	}

	var identity Identity
	if err := json.NewDecoder(response.Body).Decode(&identity); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrExchange, err)
	}
	if identity.Subject == "" || identity.Email == "" {
		return nil, fmt.Errorf("%w: incomplete profile", ErrExchange)
	}
	return &identity, nil
}
