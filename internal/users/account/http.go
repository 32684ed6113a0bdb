// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/madr-app/madr/internal/platform/middleware"
	requestutil "github.com/madr-app/madr/internal/platform/request"
	"github.com/madr-app/madr/internal/platform/respond"
	"github.com/madr-app/madr/internal/platform/sec"
	"github.com/madr-app/madr/pkg/pagination"
)

// Handler implements the HTTP layer for user accounts.
type Handler struct {
	accountService *Service
}

// NewHandler constructs a new account [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{accountService: service}
}

// profileInput is the self-service update body. Status flags are not accepted.
type profileInput struct {
	Username  *string `json:"username"`
	Email     *string `json:"email"`
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
}

func (input profileInput) toUpdate() UpdateInput {
	return UpdateInput{
		Username:  input.Username,
		Email:     input.Email,
		FirstName: input.FirstName,
		LastName:  input.LastName,
	}
}

/*
RegisterUserRoutes mounts the member endpoints under /users.

# Endpoints
  - POST   /singup, /signup                : Self-service registration.
  - POST   /recover-access                 : Email a password reset link.
  - POST   /reset-password/{token}         : Consume a reset link.
  - GET    /me, PATCH /me, DELETE /me      : Own account.
  - PATCH  /me/{id}, DELETE /me/{id}       : Own account by explicit id.
  - PATCH  /me/change-password             : New password.
  - GET    /check-verification-status      : Verification state.
  - GET    /verify-account                 : Email a verification link.
  - GET    /verify/{token}                 : Consume a verification link.
*/
func (handler *Handler) RegisterUserRoutes(router chi.Router) {
	router.Post("/singup", handler.signup)
	router.Post("/signup", handler.signup)
	router.Post("/recover-access", handler.recoverAccess)
	router.Post("/reset-password/{token}", handler.resetPassword)

	router.Group(func(authRoute chi.Router) {
		authRoute.Use(middleware.RequireAuth)

		authRoute.Get("/me", handler.getMe)
		authRoute.Patch("/me", handler.updateMe)
		authRoute.Delete("/me", handler.deleteMe)
		authRoute.Patch("/me/change-password", handler.changePassword)

		authRoute.With(middleware.RequireOwner("id")).Patch("/me/{id}", handler.updateMe)
		authRoute.With(middleware.RequireOwner("id")).Delete("/me/{id}", handler.deleteMe)

		authRoute.Get("/check-verification-status", handler.verificationStatus)
		authRoute.Get("/verify-account", handler.sendVerification)
		authRoute.Get("/verify/{token}", handler.verify)
	})
}

// RegisterSuperuserRoutes mounts the administration endpoints under /superuser.
func (handler *Handler) RegisterSuperuserRoutes(router chi.Router) {
	router.Use(middleware.RequireRole(sec.RoleSuperuser))

	router.Post("/", handler.createUser)
	router.Get("/", handler.listUsers)
	router.Get("/{id}", handler.getUser)
	router.Patch("/{id}", handler.updateUser)
	router.Delete("/{id}", handler.deleteUser)
}

// # Registration

/*
POST /users/singup.

Request:
  - Body: SignupInput

Response:
  - 201: User
  - 400: Username already exists. / Email already exists. / validation failure
*/
func (handler *Handler) signup(writer http.ResponseWriter, request *http.Request) {
	var input SignupInput
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.accountService.Signup(request.Context(), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, user)
}

// # Own Account

func (handler *Handler) getMe(writer http.ResponseWriter, request *http.Request) {
	identity, err := requestutil.RequiredIdentity(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.accountService.GetUser(request.Context(), identity.UserID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, user)
}

func (handler *Handler) updateMe(writer http.ResponseWriter, request *http.Request) {
	identity, err := requestutil.RequiredIdentity(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input profileInput
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.accountService.UpdateUser(request.Context(), identity.UserID, input.toUpdate())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, user)
}

func (handler *Handler) deleteMe(writer http.ResponseWriter, request *http.Request) {
	identity, err := requestutil.RequiredIdentity(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.accountService.DeleteUser(request.Context(), identity, identity.UserID); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Message(writer, MsgDeleted)
}

/*
PATCH /users/me/change-password.

Request:
  - Body: {password, password_confirmation}

Response:
  - 200: Password has been changed!
  - 400: Passwords dont match.
*/
func (handler *Handler) changePassword(writer http.ResponseWriter, request *http.Request) {
	identity, err := requestutil.RequiredIdentity(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input PasswordChangeInput
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.accountService.ChangePassword(request.Context(), identity.UserID, input); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Message(writer, MsgPasswordChanged)
}

// # Verification & Recovery

func (handler *Handler) verificationStatus(writer http.ResponseWriter, request *http.Request) {
	identity, err := requestutil.RequiredIdentity(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	message, err := handler.accountService.VerificationStatus(request.Context(), identity.UserID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Message(writer, message)
}

func (handler *Handler) sendVerification(writer http.ResponseWriter, request *http.Request) {
	identity, err := requestutil.RequiredIdentity(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	message, err := handler.accountService.SendVerification(request.Context(), identity)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Message(writer, message)
}

func (handler *Handler) verify(writer http.ResponseWriter, request *http.Request) {
	identity, err := requestutil.RequiredIdentity(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	token := requestutil.Param(request, FieldToken)
	if err := handler.accountService.VerifyAccount(request.Context(), identity, token); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Message(writer, MsgVerified)
}

/*
POST /users/recover-access.

Description: Answers the same message whether or not the email is registered.

Request:
  - Body: {email}

Response:
  - 200: Email sent to <email>
  - 400: Malformed email
*/
func (handler *Handler) recoverAccess(writer http.ResponseWriter, request *http.Request) {
	var input RecoverInput
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	message, err := handler.accountService.RecoverAccess(request.Context(), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Message(writer, message)
}

func (handler *Handler) resetPassword(writer http.ResponseWriter, request *http.Request) {
	var input PasswordChangeInput
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	token := requestutil.Param(request, FieldToken)
	if err := handler.accountService.ResetPassword(request.Context(), token, input); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Message(writer, MsgPasswordChanged)
}

// # Superuser Administration

func (handler *Handler) createUser(writer http.ResponseWriter, request *http.Request) {
	var input CreateUserInput
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.accountService.CreateUser(request.Context(), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, user)
}

func (handler *Handler) listUsers(writer http.ResponseWriter, request *http.Request) {
	page, err := pagination.FromRequest(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	result, err := handler.accountService.ListUsers(request.Context(), page)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, result)
}

func (handler *Handler) getUser(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.ID(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.accountService.GetUser(request.Context(), userID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, user)
}

func (handler *Handler) updateUser(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.ID(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input UpdateInput
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.accountService.UpdateUser(request.Context(), userID, input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, user)
}

func (handler *Handler) deleteUser(writer http.ResponseWriter, request *http.Request) {
	identity, err := requestutil.RequiredIdentity(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	userID, err := requestutil.ID(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.accountService.DeleteUser(request.Context(), identity, userID); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Message(writer, MsgDeleted)
}
