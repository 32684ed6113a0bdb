// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package book_test

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

	"github.com/madr-app/madr/internal/core/book"
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

func newRouter(service *book.Service) http.Handler {
	router := chi.NewRouter()
	router.Use(middleware.Authenticate(tokenResolver{}))
	router.Route("/book", book.NewHandler(service).RegisterRoutes)
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
TestBookHandler_Flow exercises create, read, filter, update and delete over HTTP.
*/
func TestBookHandler_Flow(t *testing.T) {
	service, repo := newService()
	router := newRouter(service)

	// 1. Writes need a session
	recorder := do(t, router, http.MethodPost, "/book/", `{"title":"x","year":1900,"author_id":1}`, false)
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)

	// 2. Unknown author persists nothing
	recorder = do(t, router, http.MethodPost, "/book/", `{"title":"orphan","year":1900,"author_id":7}`, true)
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	assert.JSONEq(t, `{"detail":"Author with ID 7 not found.","code":"BAD_REQUEST"}`, recorder.Body.String())
	assert.Equal(t, 0, repo.count())

	// 3. Create
	recorder = do(t, router, http.MethodPost, "/book/", `{"title":"Memórias Póstumas","year":1881,"author_id":1}`, true)
	require.Equal(t, http.StatusCreated, recorder.Code)

	var created book.Book
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&created))
	assert.Equal(t, "memórias póstumas", created.Title)
	assert.Equal(t, "machado de assis", created.AuthorName)

	// 4. Filters: name alias and year
	recorder = do(t, router, http.MethodGet, "/book/?name=MEM&year=1881", "", false)
	require.Equal(t, http.StatusOK, recorder.Code)

	var list book.ListResult
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&list))
	assert.Equal(t, 1, list.TotalResults)

	recorder = do(t, router, http.MethodGet, "/book/?title=mem&year=1999", "", false)
	require.Equal(t, http.StatusOK, recorder.Code)
	list = book.ListResult{}
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&list))
	assert.Equal(t, 0, list.TotalResults)

	// 5. Partial update
	recorder = do(t, router, http.MethodPatch, "/book/1", `{"year":1880}`, true)
	assert.Equal(t, http.StatusOK, recorder.Code)

	// 6. Delete then 404
	recorder = do(t, router, http.MethodDelete, "/book/1", "", true)
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.JSONEq(t, `{"message":"Book deleted from MADR."}`, recorder.Body.String())

	recorder = do(t, router, http.MethodGet, "/book/1", "", false)
	assert.Equal(t, http.StatusNotFound, recorder.Code)
	assert.JSONEq(t, `{"detail":"Book not found in MADR.","code":"NOT_FOUND"}`, recorder.Body.String())
}

/*
TestBookHandler_BadInput rejects malformed query parameters and bodies.
*/
func TestBookHandler_BadInput(t *testing.T) {
	service, _ := newService()
	router := newRouter(service)

	tests := []struct {
		name   string
		method string
		path   string
		body   string
	}{
		{"non_numeric_year", http.MethodGet, "/book/?year=soon", ""},
		{"year_beyond_int32", http.MethodGet, "/book/?year=99999999999", ""},
		{"negative_offset", http.MethodGet, "/book/?offset=-1", ""},
		{"invalid_json", http.MethodPost, "/book/", `{"title":`},
		{"year_out_of_bounds", http.MethodPost, "/book/", `{"title":"t","year":2025,"author_id":1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder := do(t, router, tt.method, tt.path, tt.body, true)
			assert.Equal(t, http.StatusBadRequest, recorder.Code)
		})
	}
}
