// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

import (
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/bcrypt"
)

// ErrMalformedHash signals a stored hash that cannot be parsed.
// It indicates data corruption and must never be treated as a plain mismatch.
var ErrMalformedHash = errors.New("sec: malformed password hash")

const argon2idPrefix = "$argon2id$"

// Upper bounds accepted when decoding a stored hash.
const (
	maxArgon2Memory     = 1024 * 1024 // KiB (1 GiB)
	maxArgon2Iterations = 64
)

// Argon2Params tunes the Argon2id key derivation.
type Argon2Params struct {
	Memory      uint32 // KiB
	Iterations  uint32
	Parallelism uint8
	SaltLength  uint32
	KeyLength   uint32
}

// DefaultArgon2Params follows the RFC 9106 second recommended option.
var DefaultArgon2Params = Argon2Params{
	Memory:      64 * 1024,
	Iterations:  3,
	Parallelism: 2,
	SaltLength:  16,
	KeyLength:   32,
}

// PasswordHasher hashes new passwords with Argon2id and verifies both Argon2id
// and legacy bcrypt hashes.
type PasswordHasher struct {
	params Argon2Params
}

// NewPasswordHasher creates a hasher using [DefaultArgon2Params].
func NewPasswordHasher() *PasswordHasher {
	return &PasswordHasher{params: DefaultArgon2Params}
}

// NewPasswordHasherWithParams creates a hasher with custom cost parameters.
// Tests use it to keep hashing cheap.
func NewPasswordHasherWithParams(params Argon2Params) *PasswordHasher {
	return &PasswordHasher{params: params}
}

/*
Hash derives an Argon2id hash and encodes it in PHC string format:

	$argon2id$v=19$m=65536,t=3,p=2$<salt>$<key>
*/
func (h *PasswordHasher) Hash(plain string) (string, error) {
	salt, err := randomBytes(int(h.params.SaltLength))
	if err != nil {
		return "", fmt.Errorf("sec: failed to generate salt: %w", err)
	}

	key := argon2.IDKey([]byte(plain), salt, h.params.Iterations, h.params.Memory, h.params.Parallelism, h.params.KeyLength)

	return fmt.Sprintf("%sv=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2idPrefix,
		argon2.Version,
		h.params.Memory, h.params.Iterations, h.params.Parallelism,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	), nil
}

/*
Verify compares a plaintext password with a stored hash.

Returns:
  - (true, nil) on match
  - (false, nil) on mismatch
  - (false, ErrMalformedHash) when the stored hash cannot be parsed
*/
func (h *PasswordHasher) Verify(plain, encoded string) (bool, error) {
	switch {
	case strings.HasPrefix(encoded, argon2idPrefix):
		return verifyArgon2id(plain, encoded)
	case isBcrypt(encoded):
		err := bcrypt.CompareHashAndPassword([]byte(encoded), []byte(plain))
		if err == nil {
			return true, nil
		}
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return false, nil
		}
		return false, fmt.Errorf("%w: %v", ErrMalformedHash, err)
	default:
		return false, ErrMalformedHash
	}
}

// NeedsRehash reports whether a stored hash should be upgraded to the current format.
func (h *PasswordHasher) NeedsRehash(encoded string) bool {
	if !strings.HasPrefix(encoded, argon2idPrefix) {
		return true
	}
	params, _, _, err := decodeArgon2id(encoded)
	if err != nil {
		return true
	}
	return params.Memory != h.params.Memory ||
		params.Iterations != h.params.Iterations ||
		params.Parallelism != h.params.Parallelism
}

func verifyArgon2id(plain, encoded string) (bool, error) {
	params, salt, key, err := decodeArgon2id(encoded)
	if err != nil {
		return false, err
	}

	candidate := argon2.IDKey([]byte(plain), salt, params.Iterations, params.Memory, params.Parallelism, uint32(len(key)))
	return subtle.ConstantTimeCompare(candidate, key) == 1, nil
}

func decodeArgon2id(encoded string) (Argon2Params, []byte, []byte, error) {
	var params Argon2Params

	// "", "argon2id", "v=19", "m=..,t=..,p=..", salt, key
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 {
		return params, nil, nil, ErrMalformedHash
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil || version != argon2.Version {
		return params, nil, nil, ErrMalformedHash
	}

	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &params.Memory, &params.Iterations, &params.Parallelism); err != nil {
		return params, nil, nil, ErrMalformedHash
	}

	// argon2.IDKey panics on t=0 or p=0; m is capped so a corrupted row cannot exhaust memory.
	if params.Iterations < 1 || params.Iterations > maxArgon2Iterations ||
		params.Parallelism < 1 ||
		params.Memory < 8*uint32(params.Parallelism) || params.Memory > maxArgon2Memory {
		return params, nil, nil, ErrMalformedHash
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil || len(salt) == 0 {
		return params, nil, nil, ErrMalformedHash
	}

	key, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil || len(key) == 0 {
		return params, nil, nil, ErrMalformedHash
	}

	return params, salt, key, nil
}

func isBcrypt(encoded string) bool {
	return strings.HasPrefix(encoded, "$2a$") ||
		strings.HasPrefix(encoded, "$2b$") ||
		strings.HasPrefix(encoded, "$2y$")
}
