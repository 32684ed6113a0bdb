// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package book manages the titles catalogued in MADR.
//
// Every book belongs to an existing author. Responses carry the author's name,
// fetched with an explicit join rather than a lazy lookup.
package book

import "time"

// Book is a published title written by one author.
type Book struct {
	ID         int64      `json:"id"`
	Title      string     `json:"title"`
	Year       int        `json:"year"`
	AuthorID   int64      `json:"author_id"`
	AuthorName string     `json:"author"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  *time.Time `json:"updated_at"`
}

// CreateInput is the body of a create request.
type CreateInput struct {
	Title    string `json:"title"`
	Year     int    `json:"year"`
	AuthorID int64  `json:"author_id"`
}

// UpdateInput is the body of a partial update. Nil fields are left untouched.
type UpdateInput struct {
	Title    *string `json:"title"`
	Year     *int    `json:"year"`
	AuthorID *int64  `json:"author_id"`
}

// BatchDeleteInput is the body of a batch delete request.
type BatchDeleteInput struct {
	IDs []int64 `json:"ids"`
}

// Filter holds the parameters for a paginated book search.
type Filter struct {
	Title string // case-insensitive substring of the normalized title
	Year  *int   // exact match
}

// ListResult is the body of a list response.
type ListResult struct {
	Books        []*Book `json:"books"`
	TotalResults int     `json:"total_results"`
}

// Global field names for validation
const (
	FieldTitle    = "title"
	FieldYear     = "year"
	FieldAuthorID = "author_id"
	FieldIDs      = "ids"
)

// Publication year bounds: MinYear <= year < YearLimit.
const (
	MinYear   = 1
	YearLimit = 2025
)

// TitleMaxLen bounds the normalized title length.
const TitleMaxLen = 255

// Client messages
const (
	MsgNotFound        = "Book not found in MADR."
	MsgDeleted         = "Book deleted from MADR."
	MsgBatchDeleted    = "Books deleted from MADR."
	msgAlreadyPresent  = "%s already in MADR."
	msgAuthorNotFound  = "Author with ID %d not found."
	msgYearOutOfBounds = "Must be between 1 and 2024"
)
