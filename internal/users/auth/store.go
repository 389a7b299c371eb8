// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"time"
)

// # Principal Data Access

// UserRepository defines the data access contract for principals.
//
// Every mutation is a single-row atomic statement.
type UserRepository interface {

	/*
		FindByID returns the principal with the given ID.

		Parameters:
		  - context: context.Context
		  - id: string

		Returns:
		  - *User: Hydrated entity
		  - error: apperr.NotFound if missing
	*/
	FindByID(context context.Context, id string) (*User, error)

	/*
		FindByIdentifier returns the principal whose username or email equals
		the already normalized identifier.

		Parameters:
		  - context: context.Context
		  - identifier: string

		Returns:
		  - *User: Hydrated entity
		  - error: apperr.NotFound if missing
	*/
	FindByIdentifier(context context.Context, identifier string) (*User, error)

	/*
		ExistsByUsernameOrEmail reports whether either identity is taken.

		Parameters:
		  - context: context.Context
		  - username: string
		  - email: string

		Returns:
		  - bool: True if a principal already holds either value
		  - error: Database retrieval failures
	*/
	ExistsByUsernameOrEmail(context context.Context, username, email string) (bool, error)

	/*
		Create persists a brand-new principal.

		Parameters:
		  - context: context.Context
		  - user: *User

		Returns:
		  - error: apperr.Conflict on a raced unique violation
	*/
	Create(context context.Context, user *User) error

	/*
		UpdatePassword replaces only the principal's password hash.

		Parameters:
		  - context: context.Context
		  - userID: string
		  - newHash: string

		Returns:
		  - error: apperr.NotFound if missing
	*/
	UpdatePassword(context context.Context, userID, newHash string) error

	/*
		SetRefreshTokenHash overwrites the stored refresh token digest.

		Parameters:
		  - context: context.Context
		  - userID: string
		  - tokenHash: string

		Returns:
		  - error: apperr.NotFound if missing
	*/
	SetRefreshTokenHash(context context.Context, userID, tokenHash string) error

	/*
		RotateRefreshTokenHash replaces the digest only if it still equals
		presentedHash.

		Parameters:
		  - context: context.Context
		  - userID: string
		  - presentedHash: string
		  - newHash: string

		Returns:
		  - bool: False if another rotation or a logout won the race
		  - error: Persistence failures
	*/
	RotateRefreshTokenHash(context context.Context, userID, presentedHash, newHash string) (bool, error)

	/*
		ClearRefreshTokenHash revokes the principal's refresh token.

		Parameters:
		  - context: context.Context
		  - userID: string

		Returns:
		  - error: Persistence failures
	*/
	ClearRefreshTokenHash(context context.Context, userID string) error
}

// # Volatile Data Access

// LoginAttemptRepository counts failed logins per identifier.
type LoginAttemptRepository interface {

	/*
		Failures returns the current failure count and the time until it resets.

		Parameters:
		  - context: context.Context
		  - identifier: string

		Returns:
		  - int: Failures inside the current window
		  - time.Duration: Time left in the window
		  - error: Connectivity errors
	*/
	Failures(context context.Context, identifier string) (int, time.Duration, error)

	/*
		RecordFailure increments the counter, opening a window on the first failure.

		Parameters:
		  - context: context.Context
		  - identifier: string
		  - window: time.Duration

		Returns:
		  - error: Connectivity errors
	*/
	RecordFailure(context context.Context, identifier string, window time.Duration) error

	/*
		Reset clears the counter after a successful login.

		Parameters:
		  - context: context.Context
		  - identifier: string

		Returns:
		  - error: Connectivity errors
	*/
	Reset(context context.Context, identifier string) error
}
