// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package author

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

type Service struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

func (service *Service) ListAuthors(context context.Context, filter Filter, page pagination.Params) (*ListResult, error) {
	filter.Name = normalize.Name(filter.Name)

	authors, total, err := service.repo.List(context, filter, page.Normalize())
	if err != nil {
		return nil, err
	}
	return &ListResult{Authors: authors, TotalResults: total}, nil
}

func (service *Service) GetAuthor(context context.Context, id int64) (*Author, error) {
	author, err := service.repo.GetByID(context, id)
	if err != nil {
		return nil, mapNotFound(err)
	}
	return author, nil
}

// Exists reports whether an author with id is stored.
func (service *Service) Exists(context context.Context, id int64) (bool, error) {
	_, err := service.repo.GetByID(context, id)
	if dberr.IsNotFound(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (service *Service) CreateAuthor(context context.Context, input CreateInput) (*Author, error) {
	name, err := validateName(input.Name)
	if err != nil {
		return nil, err
	}

	// Best-effort pre-check; the unique constraint below is authoritative.
	if err := service.ensureNameFree(context, name, 0); err != nil {
		return nil, err
	}

	author := &Author{Name: name}
	if err := service.repo.Create(context, author); err != nil {
		return nil, mapWriteError(err, name)
	}

	service.logger.Info("author_created", slog.Int64("author_id", author.ID), slog.String("name", author.Name))
	return author, nil
}

func (service *Service) UpdateAuthor(context context.Context, id int64, input UpdateInput) (*Author, error) {
	author, err := service.GetAuthor(context, id)
	if err != nil {
		return nil, err
	}

	if input.Name == nil {
		return author, nil
	}

	name, err := validateName(*input.Name)
	if err != nil {
		return nil, err
	}

	if err := service.ensureNameFree(context, name, id); err != nil {
		return nil, err
	}

	author.Name = name
	if err := service.repo.Update(context, author); err != nil {
		if dberr.IsNotFound(err) {
			return nil, apperr.NotFound(MsgNotFound)
		}
		return nil, mapWriteError(err, name)
	}

	service.logger.Info("author_updated", slog.Int64("author_id", author.ID))
	return author, nil
}

func (service *Service) DeleteAuthor(context context.Context, id int64) error {
	if err := service.repo.Delete(context, id); err != nil {
		return mapNotFound(err)
	}

	service.logger.Warn("author_deleted", slog.Int64("author_id", id))
	return nil
}

/*
DeleteAuthors removes a batch of authors all-or-nothing.

Every id is checked before anything is deleted; a single missing id rejects
the whole batch with 404 and leaves the store untouched.
*/
func (service *Service) DeleteAuthors(context context.Context, ids []int64) error {
	unique, err := uniqueIDs(ids)
	if err != nil {
		return err
	}

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

	service.logger.Warn("authors_deleted", slog.Int("count", len(unique)))
	return nil
}

func (service *Service) ensureNameFree(context context.Context, name string, selfID int64) error {
	existing, err := service.repo.GetByName(context, name)
	if dberr.IsNotFound(err) {
		return nil
	}
	if err != nil {
		return err
	}
	if existing.ID != selfID {
		return apperr.Conflict(fmt.Sprintf(msgAlreadyPresent, name))
	}
	return nil
}

func validateName(raw string) (string, error) {
	name := normalize.Name(raw)

	validator := &validate.Validator{}
	validator.Required(FieldName, name).MaxLen(FieldName, name, NameMaxLen)
	if err := validator.Err(); err != nil {
		return "", err
	}
	return name, nil
}

// uniqueIDs validates a batch and drops duplicates, keeping request order.
func uniqueIDs(ids []int64) ([]int64, error) {
	if len(ids) == 0 {
		return nil, validate.RequiredError(FieldIDs, apperr.MsgBatchEmpty)
	}

	validator := &validate.Validator{}
	for _, id := range ids {
		validator.Positive(FieldIDs, id)
	}

	if err := validator.Err(); err != nil {
		return nil, err
	}
	return slice.Unique(ids), nil
}

func mapNotFound(err error) error {
	if dberr.IsNotFound(err) {
		return apperr.NotFound(MsgNotFound)
	}
	return err
}

// mapWriteError turns a unique violation raced past the pre-check into the conflict message.
func mapWriteError(err error, name string) error {
	if _, ok := dberr.Constraint(err, dberr.KindUnique); ok {
		return apperr.Conflict(fmt.Sprintf(msgAlreadyPresent, name))
	}
	return err
}
