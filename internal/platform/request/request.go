// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package requestutil provides utilities for extracting data from HTTP requests.

It abstracts away the underlying router's parameter extraction and common
body decoding patterns, ensuring consistent error handling and type safety.
*/
package requestutil

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/madr-app/madr/internal/platform/apperr"
	"github.com/madr-app/madr/internal/platform/ctxutil"
	"github.com/madr-app/madr/internal/platform/sec"
	"github.com/madr-app/madr/internal/platform/validate"
)

// maxBodyBytes caps JSON and form bodies.
const maxBodyBytes = 1 << 20

/*
DecodeJSON reads the request body and decodes it into the target structure.

Parameters:
  - writer: http.ResponseWriter (used to cap the body size)
  - request: *http.Request
  - target: any (Pointer to the destination struct)

Returns:
  - error: validate.ErrInvalidJSON if decoding fails, otherwise nil
*/
func DecodeJSON(writer http.ResponseWriter, request *http.Request, target any) error {
	request.Body = http.MaxBytesReader(writer, request.Body, maxBodyBytes)
	if err := json.NewDecoder(request.Body).Decode(target); err != nil {
		return validate.ErrInvalidJSON
	}
	return nil
}

/*
Form parses an application/x-www-form-urlencoded (or multipart) body.

Returns:
  - error: validate.ErrInvalidForm if parsing fails, otherwise nil
*/
func Form(writer http.ResponseWriter, request *http.Request) error {
	request.Body = http.MaxBytesReader(writer, request.Body, maxBodyBytes)
	if err := request.ParseForm(); err != nil {
		return validate.ErrInvalidForm
	}
	return nil
}

/*
ID retrieves a named numeric URL parameter from the request.

Returns:
  - int64: the parsed identifier
  - error: a VALIDATION_ERROR naming the parameter when it is not a positive integer
*/
func ID(request *http.Request, name string) (int64, error) {
	raw := chi.URLParam(request, name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, validate.RequiredError(name, "Must be a positive integer")
	}
	return id, nil
}

/*
Param retrieves a named URL parameter from the request.
*/
func Param(request *http.Request, name string) string {
	return chi.URLParam(request, name)
}

/*
OptionalInt parses an optional integer query parameter.

The value must fit a 32-bit INTEGER column. Returns nil when the parameter is absent.
*/
func OptionalInt(request *http.Request, name string) (*int, error) {
	raw := request.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}

	parsed, err := strconv.ParseInt(raw, 10, 32)
	if err != nil {
		if errors.Is(err, strconv.ErrRange) {
			return nil, validate.RequiredError(name, "Out of range")
		}
		return nil, validate.RequiredError(name, "Must be an integer")
	}
	value := int(parsed)
	return &value, nil
}

/*
Identity extracts the resolved caller from the request context.

Returns nil if the request is not authenticated.
*/
func Identity(request *http.Request) *sec.Identity {
	return ctxutil.GetIdentity(request.Context())
}

/*
RequiredIdentity ensures the request is authenticated and returns the caller.

Returns:
  - *sec.Identity: The authenticated caller
  - error: the uniform 401 if the request is anonymous
*/
func RequiredIdentity(request *http.Request) (*sec.Identity, error) {
	identity := ctxutil.GetIdentity(request.Context())
	if identity == nil {
		return nil, apperr.CouldNotValidate()
	}
	return identity, nil
}
