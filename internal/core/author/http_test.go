// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package author_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/madr-app/madr/internal/core/author"
	"github.com/madr-app/madr/internal/platform/middleware"
	"github.com/madr-app/madr/internal/platform/sec"
)

type tokenResolver struct{}

func (tokenResolver) ResolveIdentity(_ context.Context, token string) (*sec.Identity, error) {
	if token == "valid" {
		return &sec.Identity{UserID: 1, Email: "reader@madr.local"}, nil
	}
	return nil, errors.New("invalid")
}

func newRouter(service *author.Service) http.Handler {
	router := chi.NewRouter()
	router.Use(middleware.Authenticate(tokenResolver{}))
	router.Route("/author", author.NewHandler(service).RegisterRoutes)
	return router
}

func do(t *testing.T, router http.Handler, method, path, body string, authenticated bool) *httptest.ResponseRecorder {
	t.Helper()
	request := httptest.NewRequest(method, path, strings.NewReader(body))
	request.Header.Set("Content-Type", "application/json")
	if authenticated {
		request.Header.Set("Authorization", "Bearer valid")
	}
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, request)
	return recorder
}

/*
TestAuthorHandler_Flow exercises create, read, list, update and delete over HTTP.
*/
func TestAuthorHandler_Flow(t *testing.T) {
	service, _ := newService()
	router := newRouter(service)

	// 1. Writes need a session
	recorder := do(t, router, http.MethodPost, "/author/", `{"name":"Anyone"}`, false)
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)

	// 2. Create
	recorder = do(t, router, http.MethodPost, "/author/", `{"name":" A   NAmE to correct "}`, true)
	require.Equal(t, http.StatusCreated, recorder.Code)

	var created author.Author
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&created))
	assert.Equal(t, "a name to correct", created.Name)

	// 3. Public read
	recorder = do(t, router, http.MethodGet, "/author/1", "", false)
	assert.Equal(t, http.StatusOK, recorder.Code)

	// 4. List body shape
	recorder = do(t, router, http.MethodGet, "/author/?name=name&limit=5", "", false)
	require.Equal(t, http.StatusOK, recorder.Code)

	var list author.ListResult
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&list))
	assert.Equal(t, 1, list.TotalResults)
	assert.Len(t, list.Authors, 1)

	// 5. Partial update
	recorder = do(t, router, http.MethodPatch, "/author/1", `{"name":"Renamed"}`, true)
	assert.Equal(t, http.StatusOK, recorder.Code)

	// 6. Delete then 404
	recorder = do(t, router, http.MethodDelete, "/author/1", "", true)
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.JSONEq(t, `{"message":"Author deleted from MADR."}`, recorder.Body.String())

	recorder = do(t, router, http.MethodGet, "/author/1", "", false)
	assert.Equal(t, http.StatusNotFound, recorder.Code)
	assert.JSONEq(t, `{"detail":"Author not found in MADR.","code":"NOT_FOUND"}`, recorder.Body.String())
}

/*
TestAuthorHandler_BatchDelete checks the batch endpoint status codes.
*/
func TestAuthorHandler_BatchDelete(t *testing.T) {
	service, repo := newService()
	seedAuthors(t, service, 3)
	router := newRouter(service)

	recorder := do(t, router, http.MethodPost, "/author/delete/batch", `{"ids":[1,2,3,4]}`, true)
	assert.Equal(t, http.StatusNotFound, recorder.Code)
	assert.Equal(t, 3, repo.count())

	recorder = do(t, router, http.MethodPost, "/author/delete/batch", `{"ids":[1,2,3]}`, true)
	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, 0, repo.count())
}

/*
TestAuthorHandler_BadInput rejects malformed ids, bodies and windows.
*/
func TestAuthorHandler_BadInput(t *testing.T) {
	service, _ := newService()
	router := newRouter(service)

	tests := []struct {
		name   string
		method string
		path   string
		body   string
	}{
		{"non_numeric_id", http.MethodGet, "/author/abc", ""},
		{"invalid_json", http.MethodPost, "/author/", `{"name":`},
		{"limit_too_large", http.MethodGet, "/author/?limit=1000", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder := do(t, router, tt.method, tt.path, tt.body, true)
			assert.Equal(t, http.StatusBadRequest, recorder.Code)
		})
	}
}
