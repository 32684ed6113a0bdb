// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/madr-app/madr/internal/platform/apperr"
	"github.com/madr-app/madr/internal/platform/middleware"
	"github.com/madr-app/madr/internal/platform/respond"
	"github.com/madr-app/madr/internal/platform/sec"
)

// stubResolver maps fixed tokens to identities.
type stubResolver struct {
	identities map[string]*sec.Identity
	failWith   error
}

func (s *stubResolver) ResolveIdentity(_ context.Context, token string) (*sec.Identity, error) {
	if s.failWith != nil {
		return nil, s.failWith
	}
	identity, ok := s.identities[token]
	if !ok {
		return nil, errors.New("unknown token")
	}
	return identity, nil
}

func newGuardedRouter(resolver middleware.IdentityResolver) http.Handler {
	ok := http.HandlerFunc(func(writer http.ResponseWriter, _ *http.Request) {
		writer.WriteHeader(http.StatusOK)
	})

	router := chi.NewRouter()
	router.Use(middleware.Authenticate(resolver))
	router.Get("/open", ok)
	router.With(middleware.RequireAuth).Get("/me", ok)
	router.With(middleware.RequireRole(sec.RoleSuperuser)).Get("/superuser", ok)
	router.With(middleware.RequireAuth, middleware.RequireOwner("id")).Delete("/users/me/{id}", ok)
	return router
}

func decodeDetail(t *testing.T, recorder *httptest.ResponseRecorder) string {
	t.Helper()
	var body respond.ErrorBody
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&body))
	return body.Detail
}

/*
TestGuards covers the authentication and authorization failure classes.
*/
func TestGuards(t *testing.T) {
	resolver := &stubResolver{identities: map[string]*sec.Identity{
		"member-token": {UserID: 2, Email: "member@madr.local"},
		"root-token":   {UserID: 1, Email: "root@madr.local", IsSuperuser: true},
	}}
	router := newGuardedRouter(resolver)

	tests := []struct {
		name       string
		method     string
		path       string
		header     string
		wantStatus int
		wantDetail string
	}{
		{"anonymous_open", http.MethodGet, "/open", "", http.StatusOK, ""},
		{"anonymous_protected", http.MethodGet, "/me", "", http.StatusUnauthorized, apperr.MsgCouldNotValidate},
		{"malformed_header_open", http.MethodGet, "/open", "Token abc", http.StatusOK, ""},
		{"malformed_header_protected", http.MethodGet, "/me", "Token abc", http.StatusUnauthorized, apperr.MsgCouldNotValidate},
		{"stale_token_open", http.MethodGet, "/open", "Bearer nope", http.StatusOK, ""},
		{"stale_token_on_superuser", http.MethodGet, "/superuser", "Bearer nope", http.StatusUnauthorized, apperr.MsgCouldNotValidate},
		{"stale_token_on_owner", http.MethodDelete, "/users/me/2", "Bearer nope", http.StatusUnauthorized, apperr.MsgCouldNotValidate},
		{"empty_bearer", http.MethodGet, "/me", "Bearer ", http.StatusUnauthorized, apperr.MsgCouldNotValidate},
		{"unknown_token", http.MethodGet, "/me", "Bearer nope", http.StatusUnauthorized, apperr.MsgCouldNotValidate},
		{"member_ok", http.MethodGet, "/me", "Bearer member-token", http.StatusOK, ""},
		{"lowercase_scheme", http.MethodGet, "/me", "bearer member-token", http.StatusOK, ""},
		{"member_on_superuser", http.MethodGet, "/superuser", "Bearer member-token", http.StatusForbidden, apperr.MsgInsufficientPermissions},
		{"anonymous_on_superuser", http.MethodGet, "/superuser", "", http.StatusUnauthorized, apperr.MsgCouldNotValidate},
		{"superuser_ok", http.MethodGet, "/superuser", "Bearer root-token", http.StatusOK, ""},
		{"owner_ok", http.MethodDelete, "/users/me/2", "Bearer member-token", http.StatusOK, ""},
		{"not_owner", http.MethodDelete, "/users/me/3", "Bearer member-token", http.StatusForbidden, apperr.MsgNotEnoughPermissions},
		{"superuser_not_owner", http.MethodDelete, "/users/me/2", "Bearer root-token", http.StatusForbidden, apperr.MsgNotEnoughPermissions},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			request := httptest.NewRequest(tt.method, tt.path, nil)
			if tt.header != "" {
				request.Header.Set("Authorization", tt.header)
			}
			recorder := httptest.NewRecorder()

			router.ServeHTTP(recorder, request)

			assert.Equal(t, tt.wantStatus, recorder.Code)
			if tt.wantStatus == http.StatusUnauthorized {
				assert.Equal(t, "Bearer", recorder.Header().Get("WWW-Authenticate"))
			}
			if tt.wantDetail != "" {
				assert.Equal(t, tt.wantDetail, decodeDetail(t, recorder))
			}
		})
	}
}

/*
TestAuthenticate_ServerFailure keeps resolver outages distinct from bad credentials.
*/
func TestAuthenticate_ServerFailure(t *testing.T) {
	router := newGuardedRouter(&stubResolver{failWith: apperr.Internal(errors.New("db down"))})

	request := httptest.NewRequest(http.MethodGet, "/me", nil)
	request.Header.Set("Authorization", "Bearer anything")
	recorder := httptest.NewRecorder()

	router.ServeHTTP(recorder, request)

	assert.Equal(t, http.StatusInternalServerError, recorder.Code)
}
