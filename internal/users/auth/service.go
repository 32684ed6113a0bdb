// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/rs/xid"

	"github.com/madr-app/madr/internal/platform/apperr"
	"github.com/madr-app/madr/internal/platform/constants"
	"github.com/madr-app/madr/internal/platform/dberr"
	"github.com/madr-app/madr/internal/platform/oauth"
	"github.com/madr-app/madr/internal/platform/sec"
	"github.com/madr-app/madr/pkg/pointer"
)

// # Contracts & Types

// Service implements the credential and session use cases.
//
// # Review Process
//
// This service is critical for security. Any changes to hashing, token
// issuance or identity resolution must be reviewed with the guard tests.
type Service struct {
	userRepository UserRepository
	hasher         *sec.PasswordHasher
	tokens         *sec.TokenService
	logger         *slog.Logger

	// decoyOnce lazily hashes a throwaway password so unknown emails cost
	// the same hashing time as wrong passwords.
	decoyOnce sync.Once
	decoyHash string
}

// NewService constructs a new auth [Service] with necessary dependencies.
func NewService(
	userRepo UserRepository,
	hasher *sec.PasswordHasher,
	tokens *sec.TokenService,
	logger *slog.Logger,
) *Service {
	return &Service{
		userRepository: userRepo,
		hasher:         hasher,
		tokens:         tokens,
		logger:         logger,
	}
}

// # Authentication Flow

/*
Login exchanges an email and password for a session token.

Description: An unknown email and a wrong password produce the same 400 so the
endpoint cannot be used to enumerate accounts. Hashes written with outdated
parameters (or bcrypt) are upgraded after a successful check.

Parameters:
  - context: context.Context
  - email: string
  - password: string

Returns:
  - *AccessToken: The bearer token body
  - err: BAD_REQUEST on bad credentials, INTERNAL_ERROR on a corrupt hash
*/
func (service *Service) Login(context context.Context, email, password string) (*AccessToken, error) {

	// ── 1. Lookup ─────────────────────────────────────────────────────────
	user, err := service.userRepository.FindByEmail(context, email)
	if dberr.IsNotFound(err) {
		_, _ = service.hasher.Verify(password, service.decoy())
		return nil, apperr.BadRequest(MsgIncorrectCredentials)
	}
	if err != nil {
		return nil, err
	}

	// ── 2. Verify ─────────────────────────────────────────────────────────
	ok, err := service.hasher.Verify(password, user.PasswordHash)
	if err != nil {
		service.logger.Error("stored_password_hash_malformed", slog.Int64("user_id", user.ID))
		return nil, apperr.Internal(fmt.Errorf("auth_service_verify_failed: %w", err))
	}
	if !ok {
		return nil, apperr.BadRequest(MsgIncorrectCredentials)
	}

	// ── 3. Upgrade ────────────────────────────────────────────────────────
	if service.hasher.NeedsRehash(user.PasswordHash) {
		service.rehash(context, user.ID, password)
	}

	service.logger.Info("user_logged_in", slog.Int64("user_id", user.ID))
	return service.issue(user)
}

// Refresh issues a fresh token for an already authenticated caller.
func (service *Service) Refresh(context context.Context, identity *sec.Identity) (*AccessToken, error) {
	user, err := service.userRepository.FindByID(context, identity.UserID)
	if dberr.IsNotFound(err) {
		return nil, apperr.CouldNotValidate()
	}
	if err != nil {
		return nil, err
	}
	return service.issue(user)
}

/*
ResolveIdentity maps a bearer token to the stored caller.

Description: Invalid, expired and orphaned tokens all return the uniform 401.
Only storage failures surface as 500.

Parameters:
  - context: context.Context
  - token: string (raw bearer token)

Returns:
  - *sec.Identity: The caller
  - error: UNAUTHORIZED or INTERNAL_ERROR
*/
func (service *Service) ResolveIdentity(context context.Context, token string) (*sec.Identity, error) {
	email, err := service.tokens.Verify(token)
	if err != nil {
		return nil, apperr.CouldNotValidate()
	}

	user, err := service.userRepository.FindByEmail(context, email)
	if dberr.IsNotFound(err) {
		return nil, apperr.CouldNotValidate()
	}
	if err != nil {
		return nil, err
	}
	return user.Identity(), nil
}

// # External Identity

/*
LoginExternal signs in the owner of a provider-verified identity.

Description: Resolution order is the linked provider subject, then an
existing account with the same email (which gets linked and marked verified),
then a brand-new account. A new account gets a username derived from the email
local part, suffixed with an xid on collision, and an unusable random password.

An account already linked to a different subject is never re-linked.

Returns:
  - *AccessToken: The bearer token body
  - err: UNAUTHORIZED when the provider did not verify the email, CONFLICT
    when the email belongs to an account linked to another subject
*/
func (service *Service) LoginExternal(context context.Context, identity *oauth.Identity) (*AccessToken, error) {
	if !identity.EmailVerified {
		return nil, apperr.Unauthorized(MsgExternalUnverified)
	}

	// ── 1. Linked Account ─────────────────────────────────────────────────
	user, err := service.userRepository.FindByGoogleSub(context, identity.Subject)
	if err == nil {
		return service.issue(user)
	}
	if !dberr.IsNotFound(err) {
		return nil, err
	}

	// ── 2. Existing Email ─────────────────────────────────────────────────
	user, err = service.userRepository.FindByEmail(context, identity.Email)
	switch {
	case err == nil:
		if user.GoogleSub != nil && *user.GoogleSub != identity.Subject {
			service.logger.Warn("external_identity_mismatch", slog.Int64("user_id", user.ID))
			return nil, apperr.Conflict(MsgExternalMismatch)
		}
		user.GoogleSub = pointer.To(identity.Subject)
		user.IsVerified = true
		if err := service.userRepository.Update(context, user); err != nil {
			return nil, err
		}
		service.logger.Info("external_identity_linked", slog.Int64("user_id", user.ID))
		return service.issue(user)
	case !dberr.IsNotFound(err):
		return nil, err
	}

	// ── 3. New Account ────────────────────────────────────────────────────
	user, err = service.createExternalUser(context, identity)
	if err != nil {
		return nil, err
	}

	service.logger.Info("external_user_created", slog.Int64("user_id", user.ID))
	return service.issue(user)
}

func (service *Service) createExternalUser(context context.Context, identity *oauth.Identity) (*User, error) {
	username, err := service.freeUsername(context, usernameFromEmail(identity.Email))
	if err != nil {
		return nil, err
	}

	secret, err := sec.GenerateSecureToken(32)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	hash, err := service.hasher.Hash(secret)
	if err != nil {
		return nil, apperr.Internal(fmt.Errorf("auth_service_hash_failed: %w", err))
	}

	user := &User{
		Username:     username,
		Email:        identity.Email,
		PasswordHash: hash,
		FirstName:    pointer.NonZero(identity.GivenName),
		LastName:     pointer.NonZero(identity.FamilyName),
		IsActive:     true,
		IsVerified:   true,
		GoogleSub:    pointer.To(identity.Subject),
	}
	if err := service.userRepository.Create(context, user); err != nil {
		return nil, err
	}
	return user, nil
}

// freeUsername appends an xid suffix when base is taken.
func (service *Service) freeUsername(context context.Context, base string) (string, error) {
	_, err := service.userRepository.FindByUsername(context, base)
	if dberr.IsNotFound(err) {
		return base, nil
	}
	if err != nil {
		return "", err
	}
	return base + "-" + xid.New().String(), nil
}

// # Helpers

func (service *Service) issue(user *User) (*AccessToken, error) {
	token, _, err := service.tokens.Issue(user.Email)
	if err != nil {
		return nil, apperr.Internal(fmt.Errorf("auth_service_token_generation_failed: %w", err))
	}
	return &AccessToken{
		AccessToken: token,
		TokenType:   constants.TokenTypeBearer,
		ExpiresIn:   int(service.tokens.TTL().Seconds()),
	}, nil
}

func (service *Service) rehash(context context.Context, userID int64, password string) {
	hash, err := service.hasher.Hash(password)
	if err == nil {
		err = service.userRepository.UpdatePassword(context, userID, hash)
	}
	if err != nil {
		service.logger.Warn("password_rehash_failed", slog.Int64("user_id", userID), slog.Any("error", err))
		return
	}
	service.logger.Info("password_rehashed", slog.Int64("user_id", userID))
}

func (service *Service) decoy() string {
	service.decoyOnce.Do(func() {
		service.decoyHash, _ = service.hasher.Hash("decoy-password")
	})
	return service.decoyHash
}

// usernameFromEmail keeps the characters of the local part a username may hold.
func usernameFromEmail(email string) string {
	local, _, _ := strings.Cut(email, "@")

	var builder strings.Builder
	for _, r := range strings.ToLower(local) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '.', r == '_', r == '-':
			builder.WriteRune(r)
		}
	}
	if builder.Len() == 0 {
		return "user"
	}
	return builder.String()
}
