// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/madr-app/madr/internal/platform/apperr"
	"github.com/madr-app/madr/internal/platform/constants"
	"github.com/madr-app/madr/internal/platform/ctxutil"
	requestutil "github.com/madr-app/madr/internal/platform/request"
	"github.com/madr-app/madr/internal/platform/respond"
	"github.com/madr-app/madr/internal/platform/sec"
)

// IdentityResolver turns a bearer token into a stored caller.
//
// Implementations return an error for every token that does not map to an
// existing user; only server-side failures should carry a 5xx [apperr.AppError].
type IdentityResolver interface {
	ResolveIdentity(ctx context.Context, token string) (*sec.Identity, error)
}

/*
Authenticate extracts and resolves the bearer token from the Authorization header.

Flow:
 1. No header: request proceeds as anonymous.
 2. Header not of the form 'Bearer <token>': request proceeds as anonymous.
 3. Resolve the token via [IdentityResolver]; a rejected token leaves the
    request anonymous, a resolver outage (5xx) is answered directly.
 4. Inject [*sec.Identity] into the request context for downstream use.

Public routes therefore ignore stale tokens. Routes guarded by [RequireAuth],
[RequireRole] or [RequireOwner] answer the uniform 401 for the same request.
*/
func Authenticate(resolver IdentityResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			authHeader := request.Header.Get(constants.HeaderAuthorization)

			// ── 1. Anonymous Access ───────────────────────────────────────────
			if authHeader == "" {
				next.ServeHTTP(writer, request)
				return
			}

			// ── 2. Format Validation ──────────────────────────────────────────
			scheme, token, found := strings.Cut(authHeader, " ")
			token = strings.TrimSpace(token)
			if !found || !strings.EqualFold(scheme, "bearer") || token == "" {
				next.ServeHTTP(writer, request)
				return
			}

			// ── 3. Token Resolution ───────────────────────────────────────────
			identity, err := resolver.ResolveIdentity(request.Context(), token)
			if err != nil {
				if apperr.HasStatus(err, http.StatusInternalServerError) {
					respond.Error(writer, request, err)
					return
				}
				ctxutil.GetLogger(request.Context()).Debug("bearer_token_rejected", slog.Any("error", err))
				next.ServeHTTP(writer, request)
				return
			}

			// ── 4. Context Injection ──────────────────────────────────────────
			ctx := ctxutil.WithIdentity(request.Context(), identity)
			ctx = ctxutil.WithLogger(ctx, ctxutil.GetLogger(ctx).With(slog.Int64("user_id", identity.UserID)))
			next.ServeHTTP(writer, request.WithContext(ctx))
		})
	}
}

/*
RequireAuth blocks requests that are not authenticated.

Must be registered in the router AFTER [Authenticate].
*/
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		if GetIdentity(request.Context()) == nil {
			unauthorized(writer, request)
			return
		}
		next.ServeHTTP(writer, request)
	})
}

/*
RequireRole blocks requests if the authenticated user doesn't have the required role.

It implies [RequireAuth]: anonymous callers get 401, authenticated callers
lacking the role get 403 "Insufficient permissions.". The two are never conflated.
*/
func RequireRole(role sec.UserRole) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			identity := GetIdentity(request.Context())

			// ── 1. Authentication Check ───────────────────────────────────────
			if identity == nil {
				unauthorized(writer, request)
				return
			}

			// ── 2. Authorization Check ────────────────────────────────────────
			if !identity.Role().AtLeast(role) {
				respond.Error(writer, request, apperr.Forbidden(apperr.MsgInsufficientPermissions))
				return
			}

			next.ServeHTTP(writer, request)
		})
	}
}

/*
RequireOwner blocks requests whose path parameter does not name the caller.

The check compares ids only; being a superuser does not bypass it.
*/
func RequireOwner(param string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			identity := GetIdentity(request.Context())
			if identity == nil {
				unauthorized(writer, request)
				return
			}

			targetID, err := requestutil.ID(request, param)
			if err != nil {
				respond.Error(writer, request, err)
				return
			}

			if targetID != identity.UserID {
				respond.Error(writer, request, apperr.Forbidden(apperr.MsgNotEnoughPermissions))
				return
			}

			next.ServeHTTP(writer, request)
		})
	}
}

// GetIdentity retrieves the resolved caller, or nil if the user is anonymous.
func GetIdentity(ctx context.Context) *sec.Identity {
	return ctxutil.GetIdentity(ctx)
}

// unauthorized writes the uniform authentication failure.
func unauthorized(writer http.ResponseWriter, request *http.Request) {
	writer.Header().Set(constants.HeaderWWWAuthenticate, "Bearer")
	respond.Error(writer, request, apperr.CouldNotValidate())
}
