// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"crypto/subtle"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/madr-app/madr/internal/platform/apperr"
	"github.com/madr-app/madr/internal/platform/constants"
	"github.com/madr-app/madr/internal/platform/ctxutil"
	"github.com/madr-app/madr/internal/platform/middleware"
	"github.com/madr-app/madr/internal/platform/oauth"
	requestutil "github.com/madr-app/madr/internal/platform/request"
	"github.com/madr-app/madr/internal/platform/respond"
	"github.com/madr-app/madr/internal/platform/sec"
	"github.com/madr-app/madr/internal/platform/validate"
)

// # Definitions & Constructors

// Handler implements the token endpoints.
type Handler struct {
	authService   *Service
	google        oauth.Provider
	secureCookies bool
}

// NewHandler constructs a new [Handler]. google may be nil when the provider
// is not configured; its routes then answer 404.
func NewHandler(service *Service, google oauth.Provider, secureCookies bool) *Handler {
	return &Handler{authService: service, google: google, secureCookies: secureCookies}
}

// RegisterRoutes mounts the token endpoints.
//
// # Endpoints
//   - POST /token           : Form login, returns a bearer token.
//   - POST /refresh_token   : Fresh token for the current session.
//   - GET  /google          : Redirect to Google's consent page.
//   - GET  /callback/google : Token for the verified Google identity.
func (handler *Handler) RegisterRoutes(router chi.Router) {
	router.Post("/token", handler.login)
	router.Get("/google", handler.googleRedirect)
	router.Get("/callback/google", handler.googleCallback)

	router.With(middleware.RequireAuth).Post("/refresh_token", handler.refresh)
}

/*
POST /auth/token.

Description: OAuth2 password-grant style form login. The username field holds
the account email.

Request:
  - Form: username, password

Response:
  - 200: AccessToken
  - 400: Incorrect email or password / validation failure
*/
func (handler *Handler) login(writer http.ResponseWriter, request *http.Request) {
	if err := requestutil.Form(writer, request); err != nil {
		respond.Error(writer, request, err)
		return
	}

	email := request.PostForm.Get(FieldUsername)
	password := request.PostForm.Get(FieldPassword)

	validator := &validate.Validator{}
	validator.Required(FieldUsername, email).Required(FieldPassword, password)
	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	token, err := handler.authService.Login(request.Context(), email, password)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, token)
}

/*
POST /auth/refresh_token.

Response:
  - 200: AccessToken
  - 401: Could not validate credentials.
*/
func (handler *Handler) refresh(writer http.ResponseWriter, request *http.Request) {
	identity, err := requestutil.RequiredIdentity(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	token, err := handler.authService.Refresh(request.Context(), identity)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, token)
}

// # Google Login

func (handler *Handler) googleRedirect(writer http.ResponseWriter, request *http.Request) {
	if handler.google == nil {
		respond.Error(writer, request, apperr.NotFound(MsgExternalDisabled))
		return
	}

	state, err := sec.GenerateSecureToken(32)
	if err != nil {
		respond.Error(writer, request, apperr.Internal(err))
		return
	}

	http.SetCookie(writer, handler.stateCookie(state, int(constants.OAuthStateTTL.Seconds())))
	http.Redirect(writer, request, handler.google.AuthCodeURL(state), http.StatusFound)
}

/*
GET /auth/callback/google.

Description: Checks the state cookie set by the redirect, exchanges the code
with the provider and signs the verified identity in.

Response:
  - 200: AccessToken
  - 400: Invalid OAuth state / missing code
  - 401: Provider rejected the code or email not verified
*/
func (handler *Handler) googleCallback(writer http.ResponseWriter, request *http.Request) {
	if handler.google == nil {
		respond.Error(writer, request, apperr.NotFound(MsgExternalDisabled))
		return
	}

	// ── 1. State ──────────────────────────────────────────────────────────
	cookie, err := request.Cookie(constants.OAuthStateCookieName)
	state := request.URL.Query().Get(FieldState)
	http.SetCookie(writer, handler.stateCookie("", -1))
	if err != nil || state == "" || subtle.ConstantTimeCompare([]byte(cookie.Value), []byte(state)) != 1 {
		respond.Error(writer, request, apperr.BadRequest(MsgInvalidState))
		return
	}

	code := request.URL.Query().Get(FieldCode)
	if code == "" {
		respond.Error(writer, request, validate.RequiredError(FieldCode, "This field is required"))
		return
	}

	// ── 2. Exchange ───────────────────────────────────────────────────────
	identity, err := handler.google.Exchange(request.Context(), code)
	if err != nil {
		ctxutil.GetLogger(request.Context()).Warn("oauth_exchange_failed", "error", err)
		respond.Error(writer, request, apperr.CouldNotValidate())
		return
	}

	// ── 3. Sign In ────────────────────────────────────────────────────────
	token, err := handler.authService.LoginExternal(request.Context(), identity)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, token)
}

func (handler *Handler) stateCookie(value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     constants.OAuthStateCookieName,
		Value:    value,
		Path:     "/auth",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   handler.secureCookies,
		SameSite: http.SameSiteLaxMode,
	}
}
