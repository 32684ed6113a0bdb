// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"

	"github.com/madr-app/madr/pkg/pagination"
)

// # User Data Access

// UserRepository defines the data access contract for user accounts.
//
// Lookups return [dberr.ErrNotFound] when no row matches; writes return a
// [*dberr.ConstraintError] naming the violated unique constraint.
type UserRepository interface {

	/*
		FindByID returns the account with the given ID.

		Parameters:
		  - context: context.Context
		  - id: int64

		Returns:
		  - *User: Hydrated entity
		  - error: Database retrieval failures
	*/
	FindByID(context context.Context, id int64) (*User, error)

	/*
		FindByEmail returns the account with the given email.

		Parameters:
		  - context: context.Context
		  - email: string

		Returns:
		  - *User: Hydrated entity
		  - error: Database retrieval failures
	*/
	FindByEmail(context context.Context, email string) (*User, error)

	// FindByUsername returns the account with the given username.
	FindByUsername(context context.Context, username string) (*User, error)

	// FindByGoogleSub returns the account linked to a Google subject.
	FindByGoogleSub(context context.Context, sub string) (*User, error)

	/*
		FindConflicting returns an account other than excludeID whose username
		or email equals the supplied values. Empty values are ignored.

		Parameters:
		  - context: context.Context
		  - username: string
		  - email: string
		  - excludeID: int64 (0 excludes nothing)

		Returns:
		  - *User: The first conflicting account
		  - error: ErrNotFound when the pair is free
	*/
	FindConflicting(context context.Context, username, email string, excludeID int64) (*User, error)

	// List returns one page of accounts ordered by id and the total count.
	List(context context.Context, page pagination.Params) ([]*User, int, error)

	/*
		Create persists a brand-new user account to the storage.

		Parameters:
		  - context: context.Context
		  - user: *User

		Returns:
		  - error: Persistence failures
	*/
	Create(context context.Context, user *User) error

	/*
		Update persists changes to mutable profile and status fields.

		Parameters:
		  - context: context.Context
		  - user: *User

		Returns:
		  - error: Persistence failures
	*/
	Update(context context.Context, user *User) error

	/*
		UpdatePassword replaces only the user's password hash.

		Parameters:
		  - context: context.Context
		  - userID: int64
		  - newHash: string

		Returns:
		  - error: Persistence failures
	*/
	UpdatePassword(context context.Context, userID int64, newHash string) error

	// MarkVerified sets is_verified on the account.
	MarkVerified(context context.Context, userID int64) error

	// Delete removes the account.
	Delete(context context.Context, id int64) error
}
