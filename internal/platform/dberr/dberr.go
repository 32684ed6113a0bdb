// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package dberr provides a bridge between low-level database errors and
// higher-level application errors.
//
// Services match on [ErrNotFound] and [*ConstraintError] to translate storage
// outcomes into domain messages; anything else surfaces as an internal error.
package dberr

import (
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/madr-app/madr/internal/platform/apperr"
)

// ErrNotFound is returned when a queried row doesn't exist.
var ErrNotFound = errors.New("dberr: row not found")

// ConstraintKind classifies integrity violations reported by PostgreSQL.
type ConstraintKind string

const (
	// KindUnique is a unique_violation (SQLSTATE 23505).
	KindUnique ConstraintKind = "unique"
	// KindForeignKey is a foreign_key_violation (SQLSTATE 23503).
	KindForeignKey ConstraintKind = "foreign_key"
	// KindCheck is a check_violation (SQLSTATE 23514).
	KindCheck ConstraintKind = "check"
)

// ConstraintError reports which named constraint rejected a write.
type ConstraintError struct {
	Kind       ConstraintKind
	Constraint string
	Cause      error
}

func (e *ConstraintError) Error() string {
	return fmt.Sprintf("dberr: %s constraint %q violated", e.Kind, e.Constraint)
}

func (e *ConstraintError) Unwrap() error { return e.Cause }

// Wrap inspects a database error and classifies it.
//
// Returns:
//   - nil when err is nil
//   - [ErrNotFound] for pgx.ErrNoRows
//   - [*ConstraintError] for integrity violations
//   - [apperr.Internal] wrapping the action name otherwise
func Wrap(err error, action string) error {
	if err == nil {
		return nil
	}

	// 1. Not Found mapping
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}

	// 2. Integrity violations keep their constraint name for the service layer
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgerrcode.UniqueViolation:
			return &ConstraintError{Kind: KindUnique, Constraint: pgErr.ConstraintName, Cause: err}
		case pgerrcode.ForeignKeyViolation:
			return &ConstraintError{Kind: KindForeignKey, Constraint: pgErr.ConstraintName, Cause: err}
		case pgerrcode.CheckViolation:
			return &ConstraintError{Kind: KindCheck, Constraint: pgErr.ConstraintName, Cause: err}
		}
	}

	// 3. Unknown query errors become Internal Server Errors
	return apperr.Internal(fmt.Errorf("%s: %w", action, err))
}

// IsNotFound reports whether err is (or wraps) [ErrNotFound].
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// Constraint extracts the violated constraint name of the given kind.
// The boolean is false when err is not such a violation.
func Constraint(err error, kind ConstraintKind) (string, bool) {
	var ce *ConstraintError
	if errors.As(err, &ce) && ce.Kind == kind {
		return ce.Constraint, true
	}
	return "", false
}
