// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package auth implements the credential store and session issuance.

It defines the User entity shared by every account-facing package, exchanges
credentials (password or external identity) for session tokens, and resolves
bearer tokens back into a caller [sec.Identity].

# Architecture

Session tokens are stateless: the subject is the user's email and nothing is
persisted per login. A token whose subject no longer maps to a stored user is
rejected exactly like a forged one.
*/
package auth

import (
	"time"

	"github.com/madr-app/madr/internal/platform/sec"
)

// # Domain Entities

// User represents a registered account.
type User struct {
	ID           int64      `json:"id"`
	Username     string     `json:"username"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	FirstName    *string    `json:"first_name"`
	LastName     *string    `json:"last_name"`
	IsSuperuser  bool       `json:"is_superuser"`
	IsActive     bool       `json:"is_active"`
	IsVerified   bool       `json:"is_verified"`
	GoogleSub    *string    `json:"google_sub"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    *time.Time `json:"updated_at"`
}

// Identity projects the user onto the request-scoped caller.
func (u *User) Identity() *sec.Identity {
	return &sec.Identity{
		UserID:      u.ID,
		Email:       u.Email,
		Username:    u.Username,
		IsSuperuser: u.IsSuperuser,
	}
}

// AccessToken is the body returned by every token endpoint.
type AccessToken struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

// # Field Identifiers

// Global field names for validation and identity mapping in the authentication domain.
const (
	FieldUsername             = "username"
	FieldEmail                = "email"
	FieldPassword             = "password"
	FieldPasswordConfirmation = "password_confirmation"
	FieldFirstName            = "first_name"
	FieldLastName             = "last_name"
	FieldCode                 = "code"
	FieldState                = "state"
)

// Client messages
const (
	MsgIncorrectCredentials = "Incorrect email or password."
	MsgExternalUnverified   = "The identity provider did not verify this email."
	MsgExternalDisabled     = "Google login is not configured."
	MsgInvalidState         = "Invalid OAuth state."
	MsgExternalMismatch     = "This account is already linked to another Google identity."
)
