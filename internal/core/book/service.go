// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package book

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/madr-app/madr/internal/platform/apperr"
	"github.com/madr-app/madr/internal/platform/dberr"
	"github.com/madr-app/madr/internal/platform/validate"
	"github.com/madr-app/madr/pkg/normalize"
	"github.com/madr-app/madr/pkg/pagination"
	"github.com/madr-app/madr/pkg/slice"
)

// # Service Layer

// Service orchestrates the business logic for books.
type Service struct {
	repo    Repository
	authors AuthorChecker
	logger  *slog.Logger
}

// NewService constructs a new [Service] with its required collaborators.
func NewService(repo Repository, authors AuthorChecker, logger *slog.Logger) *Service {
	return &Service{
		repo:    repo,
		authors: authors,
		logger:  logger,
	}
}

// # Book Operations

/*
ListBooks returns one page of books and the number of books matching the filter.

Parameters:
  - context: context.Context
  - filter: Filter (title substring, exact year)
  - page: pagination.Params

Returns:
  - *ListResult: The page and the filtered total
  - error: Storage or execution errors
*/
func (service *Service) ListBooks(context context.Context, filter Filter, page pagination.Params) (*ListResult, error) {
	filter.Title = normalize.Name(filter.Title)

	books, total, err := service.repo.List(context, filter, page.Normalize())
	if err != nil {
		return nil, err
	}
	return &ListResult{Books: books, TotalResults: total}, nil
}

// GetBook retrieves a single book with its author's name.
func (service *Service) GetBook(context context.Context, id int64) (*Book, error) {
	book, err := service.repo.GetByID(context, id)
	if err != nil {
		return nil, mapNotFound(err)
	}
	return book, nil
}

/*
CreateBook validates and persists a new book.

Description: Normalizes the title, checks the year bounds, rejects titles
already in the catalog and refuses to persist a book whose author does not
exist. A constraint violation raced past the pre-checks maps to the same errors.

Returns:
  - *Book: The stored book including its author name
  - error: VALIDATION_ERROR, CONFLICT or BAD_REQUEST (unknown author)
*/
func (service *Service) CreateBook(context context.Context, input CreateInput) (*Book, error) {
	title := normalize.Name(input.Title)

	validator := &validate.Validator{}
	validateTitle(validator, title)
	validateYear(validator, input.Year)
	validator.Positive(FieldAuthorID, input.AuthorID)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	if err := service.ensureTitleFree(context, title, 0); err != nil {
		return nil, err
	}
	if err := service.ensureAuthor(context, input.AuthorID); err != nil {
		return nil, err
	}

	book := &Book{Title: title, Year: input.Year, AuthorID: input.AuthorID}
	if err := service.repo.Create(context, book); err != nil {
		return nil, mapWriteError(err, book)
	}

	service.logger.Info("book_created",
		slog.Int64("book_id", book.ID),
		slog.Int64("author_id", book.AuthorID),
		slog.String("title", book.Title),
	)
	return book, nil
}

/*
UpdateBook applies the supplied fields to an existing book.

Only non-nil fields of input are validated and written.
*/
func (service *Service) UpdateBook(context context.Context, id int64, input UpdateInput) (*Book, error) {
	book, err := service.GetBook(context, id)
	if err != nil {
		return nil, err
	}

	validator := &validate.Validator{}
	if input.Title != nil {
		book.Title = normalize.Name(*input.Title)
		validateTitle(validator, book.Title)
	}
	if input.Year != nil {
		book.Year = *input.Year
		validateYear(validator, book.Year)
	}
	if input.AuthorID != nil {
		book.AuthorID = *input.AuthorID
		validator.Positive(FieldAuthorID, book.AuthorID)
	}
	if err := validator.Err(); err != nil {
		return nil, err
	}

	if input.Title != nil {
		if err := service.ensureTitleFree(context, book.Title, id); err != nil {
			return nil, err
		}
	}
	if input.AuthorID != nil {
		if err := service.ensureAuthor(context, book.AuthorID); err != nil {
			return nil, err
		}
	}

	if err := service.repo.Update(context, book); err != nil {
		if dberr.IsNotFound(err) {
			return nil, apperr.NotFound(MsgNotFound)
		}
		return nil, mapWriteError(err, book)
	}

	service.logger.Info("book_updated", slog.Int64("book_id", book.ID))
	return book, nil
}

// DeleteBook removes a single book.
func (service *Service) DeleteBook(context context.Context, id int64) error {
	if err := service.repo.Delete(context, id); err != nil {
		return mapNotFound(err)
	}

	service.logger.Warn("book_deleted", slog.Int64("book_id", id))
	return nil
}

// DeleteBooks removes a batch of books all-or-nothing.
func (service *Service) DeleteBooks(context context.Context, ids []int64) error {
	if len(ids) == 0 {
		return validate.RequiredError(FieldIDs, apperr.MsgBatchEmpty)
	}

	validator := &validate.Validator{}
	for _, id := range ids {
		validator.Positive(FieldIDs, id)
	}
	if err := validator.Err(); err != nil {
		return err
	}
	unique := slice.Unique(ids)

	// ── 1. Validate ───────────────────────────────────────────────────────
	existing, err := service.repo.ExistingIDs(context, unique)
	if err != nil {
		return err
	}
	if len(existing) != len(unique) {
		return apperr.NotFound(apperr.MsgBatchIDsNotFound)
	}

	// ── 2. Act ────────────────────────────────────────────────────────────
	if err := service.repo.DeleteMany(context, unique); err != nil {
		if dberr.IsNotFound(err) {
			return apperr.NotFound(apperr.MsgBatchIDsNotFound)
		}
		return err
	}

	service.logger.Warn("books_deleted", slog.Int("count", len(unique)))
	return nil
}

// # Helpers

func (service *Service) ensureTitleFree(context context.Context, title string, selfID int64) error {
	existing, err := service.repo.GetByTitle(context, title)
	if dberr.IsNotFound(err) {
		return nil
	}
	if err != nil {
		return err
	}
	if existing.ID != selfID {
		return apperr.Conflict(fmt.Sprintf(msgAlreadyPresent, title))
	}
	return nil
}

func (service *Service) ensureAuthor(context context.Context, authorID int64) error {
	exists, err := service.authors.Exists(context, authorID)
	if err != nil {
		return err
	}
	if !exists {
		return apperr.BadRequest(fmt.Sprintf(msgAuthorNotFound, authorID))
	}
	return nil
}

func validateTitle(validator *validate.Validator, title string) {
	validator.Required(FieldTitle, title).MaxLen(FieldTitle, title, TitleMaxLen)
}

func validateYear(validator *validate.Validator, year int) {
	validator.Custom(FieldYear, year < MinYear || year >= YearLimit, msgYearOutOfBounds)
}

func mapNotFound(err error) error {
	if dberr.IsNotFound(err) {
		return apperr.NotFound(MsgNotFound)
	}
	return err
}

// mapWriteError translates constraint violations raced past the pre-checks.
func mapWriteError(err error, book *Book) error {
	if _, ok := dberr.Constraint(err, dberr.KindUnique); ok {
		return apperr.Conflict(fmt.Sprintf(msgAlreadyPresent, book.Title))
	}
	if _, ok := dberr.Constraint(err, dberr.KindForeignKey); ok {
		return apperr.BadRequest(fmt.Sprintf(msgAuthorNotFound, book.AuthorID))
	}
	if _, ok := dberr.Constraint(err, dberr.KindCheck); ok {
		return validate.RequiredError(FieldYear, msgYearOutOfBounds)
	}
	return err
}
