// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package pagination provides shared types and helpers for API list endpoints.
//
// # Overview
//
// Every list endpoint pages with limit/offset query parameters and reports the
// number of rows matching the applied filters, independent of the page window.
package pagination

import (
	"net/http"
	"strconv"

	"github.com/madr-app/madr/internal/platform/apperr"
)

const (
	// DefaultLimit is the number of items per page if not specified.
	DefaultLimit = 20
	// MaxLimit is the upper bound for items per page to prevent system abuse.
	MaxLimit = 100
)

// Params holds the parsed window from a request's query string.
type Params struct {
	Limit  int
	Offset int
}

// Default returns the window used when a request carries no parameters.
func Default() Params {
	return Params{Limit: DefaultLimit}
}

// FromRequest parses "limit" and "offset" query parameters from an HTTP request.
//
// # Validation
//
// Missing values fall back to defaults. Non-numeric, negative, zero limits and
// limits above [MaxLimit] are rejected with a validation error naming the field.
func FromRequest(r *http.Request) (Params, error) {
	params := Default()
	query := r.URL.Query()

	if raw := query.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 1 || limit > MaxLimit {
			return Params{}, apperr.ValidationError("Validation failed", apperr.FieldError{
				Field:   "limit",
				Message: "Must be an integer between 1 and " + strconv.Itoa(MaxLimit),
			})
		}
		params.Limit = limit
	}

	if raw := query.Get("offset"); raw != "" {
		offset, err := strconv.Atoi(raw)
		if err != nil || offset < 0 {
			return Params{}, apperr.ValidationError("Validation failed", apperr.FieldError{
				Field:   "offset",
				Message: "Must be a non-negative integer",
			})
		}
		params.Offset = offset
	}

	return params, nil
}

// Normalize clamps values coming from non-HTTP callers.
func (p Params) Normalize() Params {
	if p.Limit < 1 {
		p.Limit = DefaultLimit
	}
	if p.Limit > MaxLimit {
		p.Limit = MaxLimit
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
	return p
}
