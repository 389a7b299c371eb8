// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

// # Credential Constraints

const (
	// MinUsernameLength is the shortest accepted username.
	MinUsernameLength = 3

	// MaxUsernameLength keeps channel URLs readable.
	MaxUsernameLength = 30

	// MinPasswordLength is the shortest accepted password.
	MinPasswordLength = 8

	// MaxPasswordLength is bcrypt's input limit.
	MaxPasswordLength = 72
)

// # Field Identifiers

// Field names used in validation errors and request bodies.
const (
	FieldUsername     = "username"
	FieldEmail        = "email"
	FieldFullName     = "fullName"
	FieldPassword     = "password"
	FieldIdentifier   = "identifier"
	FieldAvatar       = "avatar"
	FieldCoverImage   = "coverImage"
	FieldOldPassword  = "oldPassword"
	FieldNewPassword  = "newPassword"
	FieldRefreshToken = "refreshToken"
	FieldAccessToken  = "accessToken"
	FieldUser         = "user"
)
