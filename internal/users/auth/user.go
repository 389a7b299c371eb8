// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package auth implements principal identity and the session lifecycle.

It defines the User entity and the logic for registration, login, refresh
token rotation, logout and password changes. It also provides the guard that
turns an access token into a verified principal.

# Architecture

A principal holds at most one active refresh token, stored as a SHA-256 digest
on the account row. Rotation is a compare-and-swap on that digest, so a
replayed or concurrently rotated token is always rejected.
*/
package auth

import (
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/taibuivan/vidtube/internal/platform/sec"
)

// # Domain Entities

// User represents a registered member (and channel) of VidTube.
//
// The JSON form is the public projection: it never carries the password
// hash, the refresh token digest or the storage keys.
type User struct {
	ID               string    `json:"id"`
	Username         string    `json:"username"`
	Email            string    `json:"email"`
	FullName         string    `json:"fullName"`
	AvatarURL        string    `json:"avatar"`
	AvatarKey        string    `json:"-"`
	CoverImageURL    string    `json:"coverImage"`
	CoverImageKey    string    `json:"-"`
	PasswordHash     string    `json:"-"`
	RefreshTokenHash *string   `json:"-"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

// Subject returns the identity claims minted into access tokens.
func (user *User) Subject() sec.TokenSubject {
	return sec.TokenSubject{
		PrincipalID: user.ID,
		Username:    user.Username,
		Email:       user.Email,
		DisplayName: user.FullName,
	}
}

// Session is a freshly issued credential pair.
type Session struct {
	AccessToken           string
	RefreshToken          string
	RefreshTokenExpiresAt time.Time
}

// LoginSession is a [Session] plus the principal it belongs to.
type LoginSession struct {
	Session
	User *User
}

var identityFolder = cases.Lower(language.Und)

// NormalizeIdentity folds a username or email to its stored form.
func NormalizeIdentity(value string) string {
	return identityFolder.String(strings.TrimSpace(value))
}
