// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package oauth_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"

	"github.com/madr-app/madr/internal/platform/oauth"
)

func newProviderServer(t *testing.T, profile map[string]any) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/token", func(writer http.ResponseWriter, request *http.Request) {
		require.NoError(t, request.ParseForm())
		if request.PostForm.Get("code") != "good-code" {
			http.Error(writer, `{"error":"invalid_grant"}`, http.StatusBadRequest)
			return
		}
		writer.Header().Set("Content-Type", "application/json")
		_, _ = writer.Write([]byte(`{"access_token":"provider-token","token_type":"Bearer","expires_in":3600}`))
	})
	mux.HandleFunc("/userinfo", func(writer http.ResponseWriter, request *http.Request) {
		if request.Header.Get("Authorization") != "Bearer provider-token" {
			writer.WriteHeader(http.StatusUnauthorized)
			return
		}
		writer.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(writer).Encode(profile)
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

/*
TestGoogle_Exchange trades a code for the userinfo profile.
*/
func TestGoogle_Exchange(t *testing.T) {
	server := newProviderServer(t, map[string]any{
		"sub":            "1234567890",
		"email":          "reader@gmail.com",
		"email_verified": true,
		"given_name":     "Ada",
		"family_name":    "Lovelace",
	})

	provider := oauth.NewGoogle("client", "secret", "http://127.0.0.1/auth/callback/google").
		WithEndpoints(oauth2.Endpoint{
			AuthURL:   server.URL + "/auth",
			TokenURL:  server.URL + "/token",
			AuthStyle: oauth2.AuthStyleInParams,
		}, server.URL+"/userinfo")

	t.Run("auth_code_url_carries_state", func(t *testing.T) {
		parsed, err := url.Parse(provider.AuthCodeURL("xyz"))
		require.NoError(t, err)
		assert.Equal(t, "xyz", parsed.Query().Get("state"))
		assert.Equal(t, "client", parsed.Query().Get("client_id"))
	})

	t.Run("valid_code", func(t *testing.T) {
		identity, err := provider.Exchange(context.Background(), "good-code")
		require.NoError(t, err)
		assert.Equal(t, "1234567890", identity.Subject)
		assert.Equal(t, "reader@gmail.com", identity.Email)
		assert.True(t, identity.EmailVerified)
		assert.Equal(t, "Ada", identity.GivenName)
	})

	t.Run("rejected_code", func(t *testing.T) {
		_, err := provider.Exchange(context.Background(), "bad-code")
		assert.ErrorIs(t, err, oauth.ErrExchange)
	})
}

/*
TestGoogle_IncompleteProfile rejects a profile without a subject.
*/
func TestGoogle_IncompleteProfile(t *testing.T) {
	server := newProviderServer(t, map[string]any{"email": "reader@gmail.com"})

	provider := oauth.NewGoogle("client", "secret", "http://127.0.0.1/cb").
		WithEndpoints(oauth2.Endpoint{TokenURL: server.URL + "/token", AuthStyle: oauth2.AuthStyleInParams}, server.URL+"/userinfo")

	_, err := provider.Exchange(context.Background(), "good-code")
	assert.ErrorIs(t, err, oauth.ErrExchange)
}
