// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

import (
	"crypto/sha256"
	"fmt"
	"io"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/hkdf"

	"github.com/madr-app/madr/internal/platform/constants"
)

// ActionClaims is the payload of an emailed action token.
type ActionClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// ActionTokenService issues the single-purpose tokens embedded in emailed links.
//
// Each purpose signs with its own HKDF-derived key and audience, so a token
// minted for one flow is rejected by every other flow and by the session verifier.
type ActionTokenService struct {
	secret []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

// NewActionTokenService creates an action token service.
func NewActionTokenService(secret string, ttl time.Duration) *ActionTokenService {
	return &ActionTokenService{
		secret: []byte(secret),
		issuer: constants.AuthIssuer,
		ttl:    ttl,
		now:    time.Now,
	}
}

// WithClock replaces the time source. It is intended for tests.
func (service *ActionTokenService) WithClock(now func() time.Time) *ActionTokenService {
	service.now = now
	return service
}

// TTL returns the lifetime of issued action tokens.
func (service *ActionTokenService) TTL() time.Duration {
	return service.ttl
}

// Issue signs a token carrying email for the given purpose.
func (service *ActionTokenService) Issue(purpose, email string) (string, error) {
	key, err := service.key(purpose)
	if err != nil {
		return "", err
	}

	tokenID, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("sec: failed to generate token id: %w", err)
	}

	issuedAt := service.now()
	claims := ActionClaims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        tokenID.String(),
			Issuer:    service.issuer,
			Audience:  jwt.ClaimStrings{constants.AudienceActionPrefix + purpose},
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(service.ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(key)
	if err != nil {
		return "", fmt.Errorf("sec: failed to sign action token: %w", err)
	}

	return signed, nil
}

// Verify returns the claims of a valid token for purpose.
// Any decoding, signature, audience or expiry problem yields (nil, false).
func (service *ActionTokenService) Verify(purpose, tokenString string) (*ActionClaims, bool) {
	key, err := service.key(purpose)
	if err != nil {
		return nil, false
	}

	claims := &ActionClaims{}
	_, err = jwt.ParseWithClaims(tokenString, claims,
		func(*jwt.Token) (any, error) { return key, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(service.issuer),
		jwt.WithAudience(constants.AudienceActionPrefix+purpose),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(service.now),
	)
	if err != nil || claims.Email == "" || claims.ID == "" {
		return nil, false
	}

	return claims, true
}

// key derives the signing key for a purpose.
func (service *ActionTokenService) key(purpose string) ([]byte, error) {
	reader := hkdf.New(sha256.New, service.secret, []byte(constants.ActionTokenSalt), []byte(purpose))

	key := make([]byte, 32)
	if _, err := io.ReadFull(reader, key); err != nil {
		return nil, fmt.Errorf("sec: failed to derive action key: %w", err)
	}
	return key, nil
}
