// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/taibuivan/vidtube/internal/platform/apperr"
)

// # Passwords

// ErrPasswordTooLong is returned for passwords bcrypt cannot hash. The limit is
// counted in bytes, so a password within the character limit can still hit it.
var ErrPasswordTooLong = apperr.ValidationError("Validation failed", apperr.FieldError{
	Field:   "password",
	Message: "Password is too long",
})

// HashPassword hashes a plain-text password using bcrypt.
func HashPassword(plainTextPassword string) (string, error) {
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(plainTextPassword), bcrypt.DefaultCost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return "", ErrPasswordTooLong
	}
	if err != nil {
		return "", fmt.Errorf("sec: failed to hash password: %w", err)
	}
	return string(hashedBytes), nil
}

// CheckPasswordHash compares a plain-text password with its bcrypt hash.
func CheckPasswordHash(plainTextPassword, existingHash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(existingHash), []byte(plainTextPassword)) == nil
}

// # Refresh Tokens

// HashToken returns the hex SHA-256 digest stored in place of a refresh token.
func HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// TokenMatches reports whether presented hashes to the stored digest. A nil
// digest means the session was revoked and never matches.
func TokenMatches(storedDigest *string, presented string) bool {
	if storedDigest == nil {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(*storedDigest), []byte(HashToken(presented))) == 1
}
