// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package sec provides cryptographic primitives and token management.
//
// # Architecture
//
// This package isolates security-sensitive code (hashing, token signing) from
// the domain logic. Session tokens are HS256 JWTs keyed by the server secret;
// action tokens use keys derived per purpose so the two families never verify
// as each other.
package sec

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/madr-app/madr/internal/platform/constants"
)

// ErrInvalidToken is the only error returned by session token verification.
// Expired, malformed and forged tokens are indistinguishable to callers.
var ErrInvalidToken = errors.New("sec: invalid token")

// TokenService issues and verifies bearer session tokens.
type TokenService struct {
	secret []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenService creates a session token service.
func NewTokenService(secret string, ttl time.Duration) *TokenService {
	return &TokenService{
		secret: []byte(secret),
		issuer: constants.AuthIssuer,
		ttl:    ttl,
		now:    time.Now,
	}
}

// WithClock replaces the time source. It is intended for tests.
func (service *TokenService) WithClock(now func() time.Time) *TokenService {
	service.now = now
	return service
}

// TTL returns the lifetime of issued tokens.
func (service *TokenService) TTL() time.Duration {
	return service.ttl
}

// Issue signs a session token for subject (the user's email).
func (service *TokenService) Issue(subject string) (string, time.Time, error) {
	issuedAt := service.now()
	expiresAt := issuedAt.Add(service.ttl)

	claims := jwt.RegisteredClaims{
		Subject:   subject,
		Issuer:    service.issuer,
		Audience:  jwt.ClaimStrings{constants.AudienceSession},
		IssuedAt:  jwt.NewNumericDate(issuedAt),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(service.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sec: failed to sign token: %w", err)
	}

	return signed, expiresAt, nil
}

// Verify checks signature, algorithm, issuer, audience and expiry and returns the subject.
func (service *TokenService) Verify(tokenString string) (string, error) {
	claims := &jwt.RegisteredClaims{}

	_, err := jwt.ParseWithClaims(tokenString, claims,
		func(*jwt.Token) (any, error) { return service.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(service.issuer),
		jwt.WithAudience(constants.AudienceSession),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(service.now),
	)
	if err != nil || claims.Subject == "" {
		return "", ErrInvalidToken
	}

	return claims.Subject, nil
}
