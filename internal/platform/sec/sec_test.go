// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec_test

import (
	"crypto/rand"
	"crypto/rsa"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/vidtube/internal/platform/apperr"
	"github.com/taibuivan/vidtube/internal/platform/sec"
)

func newTokenService(t *testing.T) *sec.TokenService {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	return sec.NewTokenServiceFromKeys(key, "refresh-secret", "vidtube.test")
}

var subject = sec.TokenSubject{
	PrincipalID: "0191e8a0-0000-7000-8000-000000000001",
	Username:    "alice",
	Email:       "alice@example.com",
	DisplayName: "Alice",
}

/*
TestAccessToken_RoundTrip verifies that every identity claim survives signing.
*/
func TestAccessToken_RoundTrip(t *testing.T) {
	service := newTokenService(t)

	token, err := service.GenerateAccessToken(subject, time.Minute)
	require.NoError(t, err)

	claims, err := service.VerifyAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, subject.PrincipalID, claims.PrincipalID)
	assert.Equal(t, subject.Username, claims.Username)
	assert.Equal(t, subject.Email, claims.Email)
	assert.Equal(t, subject.DisplayName, claims.DisplayName)
}

/*
TestAccessToken_Expired is rejected.
*/
func TestAccessToken_Expired(t *testing.T) {
	service := newTokenService(t)

	token, err := service.GenerateAccessToken(subject, -time.Minute)
	require.NoError(t, err)

	_, err = service.VerifyAccessToken(token)
	assert.Error(t, err)
}

/*
TestAccessToken_ForeignKey rejects tokens signed by another key pair.
*/
func TestAccessToken_ForeignKey(t *testing.T) {
	token, err := newTokenService(t).GenerateAccessToken(subject, time.Minute)
	require.NoError(t, err)

	_, err = newTokenService(t).VerifyAccessToken(token)
	assert.Error(t, err)
}

/*
TestTokens_NotInterchangeable ensures a refresh token is never accepted as an
access token and vice versa.
*/
func TestTokens_NotInterchangeable(t *testing.T) {
	service := newTokenService(t)

	access, err := service.GenerateAccessToken(subject, time.Minute)
	require.NoError(t, err)
	refresh, _, err := service.GenerateRefreshToken(subject.PrincipalID, time.Hour)
	require.NoError(t, err)

	_, err = service.VerifyAccessToken(refresh)
	assert.Error(t, err)

	_, err = service.VerifyRefreshToken(access)
	assert.Error(t, err)
}

/*
TestRefreshToken_UniquePerIssue verifies the jti makes back-to-back tokens differ.
*/
func TestRefreshToken_UniquePerIssue(t *testing.T) {
	service := newTokenService(t)

	first, expiresAt, err := service.GenerateRefreshToken(subject.PrincipalID, time.Hour)
	require.NoError(t, err)
	second, _, err := service.GenerateRefreshToken(subject.PrincipalID, time.Hour)
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, 5*time.Second)

	claims, err := service.VerifyRefreshToken(first)
	require.NoError(t, err)
	assert.Equal(t, subject.PrincipalID, claims.PrincipalID)
}

/*
TestPasswordHash verifies bcrypt hashing and the byte limit.
*/
func TestPasswordHash(t *testing.T) {
	hash, err := sec.HashPassword("correct horse")
	require.NoError(t, err)

	assert.True(t, sec.CheckPasswordHash("correct horse", hash))
	assert.False(t, sec.CheckPasswordHash("battery staple", hash))

	// 40 characters but 120 bytes.
	_, err = sec.HashPassword(strings.Repeat("日", 40))
	assert.ErrorIs(t, err, sec.ErrPasswordTooLong)
}

/*
TestTokenMatches compares a presented refresh token against its stored digest.
*/
func TestTokenMatches(t *testing.T) {
	digest := sec.HashToken("abc")
	assert.Len(t, digest, 64)

	assert.True(t, sec.TokenMatches(&digest, "abc"))
	assert.False(t, sec.TokenMatches(&digest, "abd"))
	assert.False(t, sec.TokenMatches(nil, "abc"))
}

type ownedThing struct{ owner string }

func (o ownedThing) OwnerID() string { return o.owner }

/*
TestAuthorizeOwner covers allow, deny and anonymous cases.
*/
func TestAuthorizeOwner(t *testing.T) {
	tests := []struct {
		name      string
		principal string
		entity    sec.Owned
		allowed   bool
	}{
		{"owner", "u1", ownedThing{owner: "u1"}, true},
		{"other user", "u2", ownedThing{owner: "u1"}, false},
		{"anonymous", "", ownedThing{owner: ""}, false},
		{"nil entity", "u1", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := sec.AuthorizeOwner(tt.principal, tt.entity)
			if tt.allowed {
				assert.NoError(t, err)
				return
			}
			assert.True(t, apperr.HasCode(err, apperr.CodeForbidden))
		})
	}
}
