// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"

	"github.com/taibuivan/vidtube/internal/platform/apperr"
	"github.com/taibuivan/vidtube/internal/platform/sec"
)

// AccessTokenVerifier checks access token signatures. [*sec.TokenService]
// satisfies it.
type AccessTokenVerifier interface {
	VerifyAccessToken(tokenString string) (*sec.AccessClaims, error)
}

// Guard turns an access token into a verified principal. It satisfies
// middleware.PrincipalAuthenticator.
type Guard struct {
	verifier       AccessTokenVerifier
	userRepository UserRepository
}

// NewGuard constructs a [Guard].
func NewGuard(verifier AccessTokenVerifier, userRepo UserRepository) *Guard {
	return &Guard{verifier: verifier, userRepository: userRepo}
}

/*
Authenticate verifies the token and confirms the principal still exists.

Description: Only the access token is consulted; the refresh token plays no
part in authorizing a request.

Parameters:
  - context: context.Context
  - accessToken: string

Returns:
  - *sec.AccessClaims: Verified claims
  - error: apperr.Unauthorized on any failure, Internal on store errors
*/
func (guard *Guard) Authenticate(context context.Context, accessToken string) (*sec.AccessClaims, error) {
	claims, err := guard.verifier.VerifyAccessToken(accessToken)
	if err != nil {
		return nil, apperr.Unauthorized("Invalid access token").WithCause(err)
	}

	if _, err := guard.userRepository.FindByID(context, claims.PrincipalID); err != nil {
		if apperr.HasCode(err, apperr.CodeNotFound) {
			return nil, apperr.Unauthorized("Invalid access token")
		}
		return nil, err
	}

	return claims, nil
}
