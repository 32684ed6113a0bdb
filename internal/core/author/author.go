// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package author manages the writers catalogued in MADR.
//
// Names are normalized before validation, uniqueness checks and persistence,
// so " Machado  DE Assis" and "machado de assis" are the same author.
// Deleting an author removes its books through the database cascade.
package author

import "time"

// Author represents a writer owning zero or more books.
type Author struct {
	ID        int64      `json:"id"`
	Name      string     `json:"name"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at"`
}

// CreateInput is the body of a create request.
type CreateInput struct {
	Name string `json:"name"`
}

// UpdateInput is the body of a partial update. Nil fields are left untouched.
type UpdateInput struct {
	Name *string `json:"name"`
}

// BatchDeleteInput is the body of a batch delete request.
type BatchDeleteInput struct {
	IDs []int64 `json:"ids"`
}

// Filter holds the parameters for a paginated author search.
type Filter struct {
	Name string // case-insensitive substring of the normalized name
}

// ListResult is the body of a list response.
type ListResult struct {
	Authors      []*Author `json:"authors"`
	TotalResults int       `json:"total_results"`
}

// Global field names for validation
const (
	FieldName = "name"
	FieldIDs  = "ids"
)

// NameMaxLen bounds the normalized name length.
const NameMaxLen = 255

// Client messages
const (
	MsgNotFound       = "Author not found in MADR."
	MsgDeleted        = "Author deleted from MADR."
	MsgBatchDeleted   = "Authors deleted from MADR."
	msgAlreadyPresent = "%s already in MADR."
)
