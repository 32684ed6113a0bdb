// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package constants provides centralized, immutable values for the entire platform.

Categories:

  - Server Timing: Read/Write/Idle timeouts for the HTTP server.
  - Rate Limiting: Burst capacities and IP tracking TTLs.
  - Security: Token issuer, audiences and action purposes.

Using this package keeps magic strings and numbers out of the business logic.
*/
package constants

import "time"

// # Metadata

const (
	AppName    = "madr-api"
	AppVersion = "0.1.0-dev"
)

// # Server Timing

const (
	// DefaultReadTimeout is the maximum duration for reading the entire request.
	DefaultReadTimeout = 5 * time.Second

	// DefaultWriteTimeout is the maximum duration before timing out writes of the response.
	DefaultWriteTimeout = 10 * time.Second

	// DefaultIdleTimeout is the maximum amount of time to wait for the next request.
	DefaultIdleTimeout = 120 * time.Second

	// DefaultReadHeaderTimeout is the amount of time allowed to read request headers.
	DefaultReadHeaderTimeout = 2 * time.Second

	// GlobalRequestTimeout is the deadline for the entire request lifecycle.
	GlobalRequestTimeout = 30 * time.Second

	// ShutdownTimeout is how long we wait for in-flight requests to complete during shutdown.
	ShutdownTimeout = 30 * time.Second

	// ReadinessTimeout bounds each dependency ping in the readiness probe.
	ReadinessTimeout = 2 * time.Second
)

// # Rate Limiting

const (
	// DefaultRateLimitRPS is the requests per second allowed per IP.
	DefaultRateLimitRPS = 100.0

	// DefaultRateLimitBurst is the maximum burst allowed for the rate limiter.
	DefaultRateLimitBurst = 150

	// RateLimitCleanupInterval is how often old IP entries are removed from memory.
	RateLimitCleanupInterval = 1 * time.Minute

	// RateLimitClientTTL is how long a client must be idle before its entry is deleted.
	RateLimitClientTTL = 3 * time.Minute
)

// # Authentication

const (
	// AuthIssuer is the 'iss' claim of every token minted by the API.
	AuthIssuer = "madr-api"

	// AudienceSession is the 'aud' claim of bearer session tokens.
	AudienceSession = "session"

	// AudienceActionPrefix prefixes the 'aud' claim of emailed action tokens.
	AudienceActionPrefix = "action:"

	// ActionTokenSalt is mixed into the HKDF derivation of action token keys.
	ActionTokenSalt = "email-configuration"

	// PurposeVerifyEmail scopes tokens sent by the account verification flow.
	PurposeVerifyEmail = "verify-email"

	// PurposeResetPassword scopes tokens sent by the password recovery flow.
	PurposeResetPassword = "reset-password"

	// TokenTypeBearer is the 'token_type' returned by the login endpoints.
	TokenTypeBearer = "bearer"

	// OAuthStateCookieName holds the anti-forgery state during external login.
	OAuthStateCookieName = "oauth_state"

	// OAuthStateTTL bounds how long an external login round trip may take.
	OAuthStateTTL = 10 * time.Minute
)

// # HTTP Headers

const (
	HeaderXRequestID      = "X-Request-ID"
	HeaderXRealIP         = "X-Real-IP"
	HeaderXForwardedFor   = "X-Forwarded-For"
	HeaderOrigin          = "Origin"
	HeaderAuthorization   = "Authorization"
	HeaderWWWAuthenticate = "WWW-Authenticate"
)

// # JSON Field Identifiers

const (
	FieldDetail  = "detail"
	FieldCode    = "code"
	FieldMessage = "message"
	FieldStatus  = "status"
	FieldApp     = "app"
	FieldVersion = "version"
	FieldChecks  = "checks"
)

// # Redis Prefixes (Cache Taxonomy)

const (
	// RedisPrefixConsumedToken marks action token ids that were already used.
	RedisPrefixConsumedToken = "madr:action:consumed:"
)
