// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/madr-app/madr/internal/platform/apperr"
	"github.com/madr-app/madr/internal/platform/constants"
	"github.com/madr-app/madr/internal/platform/dberr"
	"github.com/madr-app/madr/internal/platform/mail"
	"github.com/madr-app/madr/internal/platform/sec"
	"github.com/madr-app/madr/internal/platform/validate"
)

// # Email Verification

// VerificationStatus reports whether the caller's email is verified.
func (service *Service) VerificationStatus(context context.Context, userID int64) (string, error) {
	user, err := service.GetUser(context, userID)
	if err != nil {
		return "", err
	}
	if user.IsVerified {
		return MsgAlreadyVerified, nil
	}
	return MsgNotVerified, nil
}

/*
SendVerification emails the caller a single-use verification link.

Parameters:
  - context: context.Context
  - identity: *sec.Identity (the caller)

Returns:
  - string: Client message naming the recipient
  - error: Token signing failures
*/
func (service *Service) SendVerification(context context.Context, identity *sec.Identity) (string, error) {
	token, err := service.actions.Issue(constants.PurposeVerifyEmail, identity.Email)
	if err != nil {
		return "", apperr.Internal(err)
	}

	link := service.publicBaseURL + fmt.Sprintf(verifyPathPattern, token)
	service.send(context, identity.Email, subjectVerify, fmt.Sprintf(bodyVerifyTemplate, link))

	return fmt.Sprintf(MsgEmailSent, identity.Email), nil
}

/*
VerifyAccount consumes a verification link for the caller.

Description: The token must carry the caller's own email. A token that fails
verification or was already used is rejected with the uniform 401.

Returns:
  - error: UNAUTHORIZED (bad or reused token) or FORBIDDEN (other account)
*/
func (service *Service) VerifyAccount(context context.Context, identity *sec.Identity, token string) error {
	claims, ok := service.actions.Verify(constants.PurposeVerifyEmail, token)
	if !ok {
		return apperr.CouldNotValidate()
	}
	if claims.Email != identity.Email {
		return apperr.Forbidden(MsgCouldNotValidate)
	}

	if err := service.consume(context, claims); err != nil {
		return err
	}

	if err := service.userRepository.MarkVerified(context, identity.UserID); err != nil {
		service.release(context, claims)
		if dberr.IsNotFound(err) {
			return apperr.NotFound(MsgNotFound)
		}
		return err
	}

	service.logger.Info("user_verified", slog.Int64("user_id", identity.UserID))
	return nil
}

// # Password Recovery

/*
RecoverAccess emails a password reset link to the owner of email.

Description: The response is identical whether or not an account exists, so
the endpoint cannot be used to discover registered emails.

Parameters:
  - context: context.Context
  - input: RecoverInput

Returns:
  - string: Client message
  - error: Validation or storage failures
*/
func (service *Service) RecoverAccess(context context.Context, input RecoverInput) (string, error) {
	validator := &validate.Validator{}
	validateEmail(validator, input.Email)
	if err := validator.Err(); err != nil {
		return "", err
	}

	message := fmt.Sprintf(MsgEmailSent, input.Email)

	user, err := service.userRepository.FindByEmail(context, input.Email)
	if dberr.IsNotFound(err) {
		service.logger.Info("recovery_requested_for_unknown_email")
		return message, nil
	}
	if err != nil {
		return "", err
	}

	token, err := service.actions.Issue(constants.PurposeResetPassword, user.Email)
	if err != nil {
		return "", apperr.Internal(err)
	}

	link := service.publicBaseURL + fmt.Sprintf(resetPathPattern, token)
	service.send(context, user.Email, subjectReset, fmt.Sprintf(bodyResetTemplate, link))

	return message, nil
}

/*
ResetPassword consumes a reset link and sets the new password.

Parameters:
  - context: context.Context
  - token: string
  - input: PasswordChangeInput

A failed password write releases the token, so the same link can be retried.

Returns:
  - error: UNAUTHORIZED (bad or reused token) or BAD_REQUEST (mismatch)
*/
func (service *Service) ResetPassword(context context.Context, token string, input PasswordChangeInput) error {
	claims, ok := service.actions.Verify(constants.PurposeResetPassword, token)
	if !ok {
		return apperr.CouldNotValidate()
	}
	if err := checkPasswords(input); err != nil {
		return err
	}

	user, err := service.userRepository.FindByEmail(context, claims.Email)
	if dberr.IsNotFound(err) {
		return apperr.CouldNotValidate()
	}
	if err != nil {
		return err
	}

	// Consumed before the write and released again if the write fails.
	if err := service.consume(context, claims); err != nil {
		return err
	}
	if err := service.setPassword(context, user.ID, input.Password); err != nil {
		service.release(context, claims)
		return err
	}

	service.logger.Info("user_password_reset", slog.Int64("user_id", user.ID))
	return nil
}

// # Helpers

// consume marks the token as used until it expires. A second use is rejected.
func (service *Service) consume(context context.Context, claims *sec.ActionClaims) error {
	ttl := time.Second
	if claims.ExpiresAt != nil {
		ttl = max(time.Until(claims.ExpiresAt.Time), time.Second)
	}

	first, err := service.ledger.Consume(context, claims.ID, ttl)
	if err != nil {
		return apperr.Internal(fmt.Errorf("account_service_consume_token_failed: %w", err))
	}
	if !first {
		return apperr.CouldNotValidate()
	}
	return nil
}

// release returns a consumed token to the ledger after a failed write so the
// emailed link stays usable.
func (service *Service) release(context context.Context, claims *sec.ActionClaims) {
	if err := service.ledger.Release(context, claims.ID); err != nil {
		service.logger.Error("action_token_release_failed", slog.String("jti", claims.ID), slog.Any("error", err))
	}
}

// send delivers an email and only logs a failure.
func (service *Service) send(context context.Context, to, subject, html string) {
	err := service.mailer.Send(context, mail.Message{To: []string{to}, Subject: subject, HTML: html})
	if err != nil {
		service.logger.Error("email_delivery_failed", slog.String("subject", subject), slog.Any("error", err))
	}
}
