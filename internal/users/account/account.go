// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package account handles user registration, self-service profile management,
superuser administration, and the emailed verification and recovery flows.

# Architecture

  - Entities: the [auth.User] record owned by the auth package.
  - Action tokens: signed links verified with [sec.ActionTokenService] and
    made single use by a [TokenLedger].
  - Email: delivered through a [mail.Sender]; failures are logged and never
    fail the request.
*/
package account

import (
	"context"
	"time"

	"github.com/madr-app/madr/internal/users/auth"
)

// # Request Payloads

// SignupInput is the body of a self-service signup.
type SignupInput struct {
	Username  string  `json:"username"`
	Email     string  `json:"email"`
	Password  string  `json:"password"`
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
}

// CreateUserInput is the body of a superuser-created account.
type CreateUserInput struct {
	SignupInput
	IsActive   *bool `json:"is_active"`
	IsVerified bool  `json:"is_verified"`
}

// UpdateInput is a partial update. Nil fields are left untouched.
//
// IsActive and IsVerified are only honoured on superuser routes.
type UpdateInput struct {
	Username   *string `json:"username"`
	Email      *string `json:"email"`
	FirstName  *string `json:"first_name"`
	LastName   *string `json:"last_name"`
	IsActive   *bool   `json:"is_active"`
	IsVerified *bool   `json:"is_verified"`
}

// PasswordChangeInput carries a new password and its confirmation.
type PasswordChangeInput struct {
	Password             string `json:"password"`
	PasswordConfirmation string `json:"password_confirmation"`
}

// RecoverInput is the body of a recovery request.
type RecoverInput struct {
	Email string `json:"email"`
}

// UserListResult is the body of a list response.
type UserListResult struct {
	Users        []*auth.User `json:"users"`
	TotalResults int          `json:"total_results"`
}

// # Contracts

// TokenLedger remembers consumed action tokens until they expire.
type TokenLedger interface {
	// Consume records jti and reports whether this was its first use.
	Consume(ctx context.Context, jti string, ttl time.Duration) (bool, error)

	// Release forgets jti so the token can be used again.
	Release(ctx context.Context, jti string) error
}

// # Constraints

const (
	UsernameMaxLen    = 50
	PasswordMinLen    = 8
	PasswordMaxLen    = 128
	NameMaxLen        = 100
	EmailMaxLen       = 255
	FieldToken        = "token"
	verifyPathPattern = "/users/verify/%s"
	resetPathPattern  = "/users/reset-password/%s"
)

// Client messages
const (
	MsgNotFound          = "User not found."
	MsgDeleted           = "User deleted."
	MsgUsernameExists    = "Username already exists."
	MsgEmailExists       = "Email already exists."
	MsgExternalLinked    = "This external account is already linked."
	MsgPasswordsMismatch = "Passwords dont match."
	MsgPasswordChanged   = "Password has been changed!"
	MsgAlreadyVerified   = "User is already verified."
	MsgNotVerified       = "User has not been verified yet."
	MsgVerified          = "Account verified successfully!"
	MsgCouldNotValidate  = "Could not validate account"
	MsgEmailSent         = "Email sent to %s"
)

// Email templates
const (
	subjectVerify      = "Verify your email"
	subjectReset       = "Reset Password"
	bodyVerifyTemplate = `<h1>Verify your account</h1><p>Click in this <a href="%s">link</a> to verify your account</p>`
	bodyResetTemplate  = `<h1>Reset Password</h1><p>Click in this <a href="%s">link</a> to reset your password</p>`
)
