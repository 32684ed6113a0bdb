// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/madr-app/madr/internal/platform/apperr"
	"github.com/madr-app/madr/internal/platform/database/schema"
	"github.com/madr-app/madr/internal/platform/dberr"
	"github.com/madr-app/madr/internal/platform/mail"
	"github.com/madr-app/madr/internal/platform/sec"
	"github.com/madr-app/madr/internal/platform/validate"
	"github.com/madr-app/madr/internal/users/auth"
	"github.com/madr-app/madr/pkg/pagination"
)

// # Service Layer

// Service orchestrates business logic for user accounts.
//
// It ensures that registration, profile updates and deletions follow the
// uniqueness and self-deletion constraints, and drives the emailed
// verification and recovery flows.
type Service struct {
	userRepository auth.UserRepository
	hasher         *sec.PasswordHasher
	actions        *sec.ActionTokenService
	ledger         TokenLedger
	mailer         mail.Sender
	publicBaseURL  string
	logger         *slog.Logger
}

// NewService constructs a new [Service] with its dependencies.
func NewService(
	userRepo auth.UserRepository,
	hasher *sec.PasswordHasher,
	actions *sec.ActionTokenService,
	ledger TokenLedger,
	mailer mail.Sender,
	publicBaseURL string,
	logger *slog.Logger,
) *Service {
	return &Service{
		userRepository: userRepo,
		hasher:         hasher,
		actions:        actions,
		ledger:         ledger,
		mailer:         mailer,
		publicBaseURL:  strings.TrimRight(publicBaseURL, "/"),
		logger:         logger,
	}
}

// # Registration

/*
Signup registers a regular member account.

Parameters:
  - context: context.Context
  - input: SignupInput

Returns:
  - *auth.User: Created entity
  - err: VALIDATION_ERROR or CONFLICT (username / email)
*/
func (service *Service) Signup(context context.Context, input SignupInput) (*auth.User, error) {
	return service.create(context, input, accountFlags{active: true})
}

// CreateUser registers an account on behalf of a superuser.
func (service *Service) CreateUser(context context.Context, input CreateUserInput) (*auth.User, error) {
	active := true
	if input.IsActive != nil {
		active = *input.IsActive
	}
	return service.create(context, input.SignupInput, accountFlags{active: active, verified: input.IsVerified})
}

// accountFlags are the status columns set at creation.
type accountFlags struct {
	active    bool
	verified  bool
	superuser bool
}

func (service *Service) create(context context.Context, input SignupInput, flags accountFlags) (*auth.User, error) {
	input.Username = strings.TrimSpace(input.Username)
	input.Email = strings.TrimSpace(input.Email)

	// ── 1. Validate ───────────────────────────────────────────────────────
	validator := &validate.Validator{}
	validateUsername(validator, input.Username)
	validateEmail(validator, input.Email)
	validatePassword(validator, input.Password)
	validateNames(validator, input.FirstName, input.LastName)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	if err := service.ensureFree(context, input.Username, input.Email, 0); err != nil {
		return nil, err
	}

	// ── 2. Hash ───────────────────────────────────────────────────────────
	hash, err := service.hasher.Hash(input.Password)
	if err != nil {
		return nil, apperr.Internal(fmt.Errorf("account_service_hash_failed: %w", err))
	}

	// ── 3. Persist ────────────────────────────────────────────────────────
	user := &auth.User{
		Username:     input.Username,
		Email:        input.Email,
		PasswordHash: hash,
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		IsSuperuser:  flags.superuser,
		IsActive:     flags.active,
		IsVerified:   flags.verified,
	}
	if err := service.userRepository.Create(context, user); err != nil {
		return nil, mapWriteError(err)
	}

	service.logger.Info("user_created", slog.Int64("user_id", user.ID), slog.String("username", user.Username))
	return user, nil
}

/*
EnsureSuperuser creates the bootstrap superuser when no account owns its email.

Description: Idempotent; an existing account is left untouched. Empty email or
password disables the bootstrap.

Returns:
  - bool: True when an account was created
  - error: Validation or storage failures
*/
func (service *Service) EnsureSuperuser(context context.Context, username, email, password string) (bool, error) {
	if email == "" || password == "" {
		return false, nil
	}

	_, err := service.userRepository.FindByEmail(context, email)
	if err == nil {
		return false, nil
	}
	if !dberr.IsNotFound(err) {
		return false, err
	}

	input := SignupInput{Username: username, Email: email, Password: password}
	user, err := service.create(context, input, accountFlags{active: true, verified: true, superuser: true})
	if err != nil {
		return false, err
	}

	service.logger.Warn("superuser_bootstrapped", slog.Int64("user_id", user.ID))
	return true, nil
}

// # Profile Management

// GetUser retrieves an account by id.
func (service *Service) GetUser(context context.Context, id int64) (*auth.User, error) {
	user, err := service.userRepository.FindByID(context, id)
	if dberr.IsNotFound(err) {
		return nil, apperr.NotFound(MsgNotFound)
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

// ListUsers returns one page of accounts and the total number of accounts.
func (service *Service) ListUsers(context context.Context, page pagination.Params) (*UserListResult, error) {
	users, total, err := service.userRepository.List(context, page.Normalize())
	if err != nil {
		return nil, err
	}
	return &UserListResult{Users: users, TotalResults: total}, nil
}

/*
UpdateUser applies a partial set of changes to an account.

Description: Fetches the existing state, validates and overrides the supplied
fields, rejects a username or email owned by another account, and persists.

Parameters:
  - context: context.Context
  - id: int64
  - input: UpdateInput

Returns:
  - *auth.User: The updated account
  - error: NOT_FOUND, VALIDATION_ERROR or CONFLICT
*/
func (service *Service) UpdateUser(context context.Context, id int64, input UpdateInput) (*auth.User, error) {
	user, err := service.GetUser(context, id)
	if err != nil {
		return nil, err
	}

	validator := &validate.Validator{}
	var username, email string
	if input.Username != nil {
		username = strings.TrimSpace(*input.Username)
		validateUsername(validator, username)
		user.Username = username
	}
	if input.Email != nil {
		email = strings.TrimSpace(*input.Email)
		validateEmail(validator, email)
		user.Email = email
	}
	validateNames(validator, input.FirstName, input.LastName)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	if err := service.ensureFree(context, username, email, id); err != nil {
		return nil, err
	}

	// Apply delta updates
	if input.FirstName != nil {
		user.FirstName = input.FirstName
	}
	if input.LastName != nil {
		user.LastName = input.LastName
	}
	if input.IsActive != nil {
		user.IsActive = *input.IsActive
	}
	if input.IsVerified != nil {
		user.IsVerified = *input.IsVerified
	}

	if err := service.userRepository.Update(context, user); err != nil {
		if dberr.IsNotFound(err) {
			return nil, apperr.NotFound(MsgNotFound)
		}
		return nil, mapWriteError(err)
	}

	service.logger.Info("user_updated", slog.Int64("user_id", user.ID))
	return user, nil
}

/*
DeleteUser removes an account on behalf of caller.

Description: A superuser may never delete its own account, whichever route
the request came through.

Returns:
  - error: NOT_FOUND, or FORBIDDEN for a superuser deleting itself
*/
func (service *Service) DeleteUser(context context.Context, caller *sec.Identity, id int64) error {
	if _, err := service.GetUser(context, id); err != nil {
		return err
	}

	if caller.IsSuperuser && caller.UserID == id {
		return apperr.Forbidden(apperr.MsgSuperuserSelfDelete)
	}

	if err := service.userRepository.Delete(context, id); err != nil {
		if dberr.IsNotFound(err) {
			return apperr.NotFound(MsgNotFound)
		}
		return err
	}

	service.logger.Warn("user_deleted", slog.Int64("user_id", id), slog.Int64("deleted_by", caller.UserID))
	return nil
}

/*
ChangePassword replaces the password of an authenticated user.

Parameters:
  - context: context.Context
  - userID: int64
  - input: PasswordChangeInput

Returns:
  - error: BAD_REQUEST when the confirmation differs
*/
func (service *Service) ChangePassword(context context.Context, userID int64, input PasswordChangeInput) error {
	if err := checkPasswords(input); err != nil {
		return err
	}
	if err := service.setPassword(context, userID, input.Password); err != nil {
		return err
	}

	service.logger.Info("user_password_changed", slog.Int64("user_id", userID))
	return nil
}

// # Helpers

// ensureFree rejects a username or email owned by an account other than selfID.
func (service *Service) ensureFree(context context.Context, username, email string, selfID int64) error {
	if username == "" && email == "" {
		return nil
	}

	existing, err := service.userRepository.FindConflicting(context, username, email, selfID)
	if dberr.IsNotFound(err) {
		return nil
	}
	if err != nil {
		return err
	}

	if username != "" && existing.Username == username {
		return apperr.Conflict(MsgUsernameExists)
	}
	return apperr.Conflict(MsgEmailExists)
}

func (service *Service) setPassword(context context.Context, userID int64, password string) error {
	hash, err := service.hasher.Hash(password)
	if err != nil {
		return apperr.Internal(fmt.Errorf("account_service_hash_failed: %w", err))
	}

	if err := service.userRepository.UpdatePassword(context, userID, hash); err != nil {
		if dberr.IsNotFound(err) {
			return apperr.NotFound(MsgNotFound)
		}
		return err
	}
	return nil
}

func checkPasswords(input PasswordChangeInput) error {
	validator := &validate.Validator{}
	validatePassword(validator, input.Password)
	if err := validator.Err(); err != nil {
		return err
	}
	if input.Password != input.PasswordConfirmation {
		return apperr.BadRequest(MsgPasswordsMismatch)
	}
	return nil
}

// mapWriteError translates unique violations raced past the pre-checks.
func mapWriteError(err error) error {
	constraint, ok := dberr.Constraint(err, dberr.KindUnique)
	if !ok {
		return err
	}

	switch constraint {
	case schema.UserAccount.UniqueUsername:
		return apperr.Conflict(MsgUsernameExists)
	case schema.UserAccount.UniqueEmail:
		return apperr.Conflict(MsgEmailExists)
	default:
		return apperr.Conflict(MsgExternalLinked)
	}
}

func validateUsername(validator *validate.Validator, username string) {
	validator.Required(auth.FieldUsername, username).
		MaxLen(auth.FieldUsername, username, UsernameMaxLen).
		Username(auth.FieldUsername, username)
}

func validateEmail(validator *validate.Validator, email string) {
	validator.Required(auth.FieldEmail, email).
		MaxLen(auth.FieldEmail, email, EmailMaxLen).
		Email(auth.FieldEmail, email)
}

func validatePassword(validator *validate.Validator, password string) {
	validator.MinLen(auth.FieldPassword, password, PasswordMinLen).
		MaxLen(auth.FieldPassword, password, PasswordMaxLen)
}

func validateNames(validator *validate.Validator, firstName, lastName *string) {
	if firstName != nil {
		validator.MaxLen(auth.FieldFirstName, *firstName, NameMaxLen)
	}
	if lastName != nil {
		validator.MaxLen(auth.FieldLastName, *lastName, NameMaxLen)
	}
}
