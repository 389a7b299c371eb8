// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/vidtube/internal/platform/apperr"
	"github.com/taibuivan/vidtube/internal/platform/database/schema"
	"github.com/taibuivan/vidtube/internal/platform/dberr"
)

// accountConflicts maps unique constraints of users.account to client messages.
var accountConflicts = map[string]string{
	"account_username_key": "Username is already taken",
	"account_email_key":    "Email is already registered",
}

// # User Repository

// PostgresUserRepository implements [UserRepository] using pgx.
type PostgresUserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository creates a new PostgreSQL implementation of the UserRepository.
func NewUserRepository(pool *pgxpool.Pool) *PostgresUserRepository {
	return &PostgresUserRepository{pool: pool}
}

// userColumns is the full projection, credentials included, in [scanUser] order.
func userColumns() string {
	columns := append(schema.UserAccount.PublicColumns(),
		schema.UserAccount.Password,
		schema.UserAccount.RefreshTokenHash,
	)
	return strings.Join(columns, ", ")
}

// scanUser hydrates a User from a row selected with userColumns.
func scanUser(row pgx.Row) (*User, error) {
	user := &User{}
	err := row.Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.FullName,
		&user.AvatarURL,
		&user.AvatarKey,
		&user.CoverImageURL,
		&user.CoverImageKey,
		&user.CreatedAt,
		&user.UpdatedAt,
		&user.PasswordHash,
		&user.RefreshTokenHash,
	)
	if err != nil {
		return nil, err
	}
	return user, nil
}

/*
FindByID retrieves a principal by primary key.

Parameters:
  - context: context.Context
  - id: string (UUIDv7)

Returns:
  - *User: Hydrated account entity
  - error: apperr.NotFound or database errors
*/
func (repository *PostgresUserRepository) FindByID(context context.Context, id string) (*User, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`,
		userColumns(), schema.UserAccount.Table, schema.UserAccount.ID,
	)

	user, err := scanUser(repository.pool.QueryRow(context, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("User")
		}
		return nil, dberr.Wrap(err, "find_user_by_id")
	}

	return user, nil
}

/*
FindByIdentifier resolves a login identifier against username and email.

Description: Both columns are stored lower-cased, so the caller passes the
identifier through [NormalizeIdentity] first.

Parameters:
  - context: context.Context
  - identifier: string

Returns:
  - *User: Hydrated account entity
  - error: apperr.NotFound or database errors
*/
func (repository *PostgresUserRepository) FindByIdentifier(context context.Context, identifier string) (*User, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1 OR %s = $1 LIMIT 1`,
		userColumns(), schema.UserAccount.Table,
		schema.UserAccount.Username, schema.UserAccount.Email,
	)

	user, err := scanUser(repository.pool.QueryRow(context, query, identifier))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("User")
		}
		return nil, dberr.Wrap(err, "find_user_by_identifier")
	}

	return user, nil
}

/*
ExistsByUsernameOrEmail checks both unique identities in one round trip.

Parameters:
  - context: context.Context
  - username: string
  - email: string

Returns:
  - bool: True if either is taken
  - error: Database errors
*/
func (repository *PostgresUserRepository) ExistsByUsernameOrEmail(context context.Context, username, email string) (bool, error) {
	query := fmt.Sprintf(`SELECT EXISTS (SELECT 1 FROM %s WHERE %s = $1 OR %s = $2)`,
		schema.UserAccount.Table, schema.UserAccount.Username, schema.UserAccount.Email,
	)

	var exists bool
	if err := repository.pool.QueryRow(context, query, username, email).Scan(&exists); err != nil {
		return false, dberr.Wrap(err, "exists_user_identity")
	}

	return exists, nil
}

/*
Create persists a new principal into users.account.

Description: Timestamps are initialized here; a unique violation raced past
the service's existence check surfaces as apperr.Conflict.

Parameters:
  - context: context.Context
  - user: *User (Entity to persist)

Returns:
  - error: apperr.Conflict or database errors
*/
func (repository *PostgresUserRepository) Create(context context.Context, user *User) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		schema.UserAccount.Table,
		schema.UserAccount.ID, schema.UserAccount.Username, schema.UserAccount.Email,
		schema.UserAccount.FullName, schema.UserAccount.AvatarURL, schema.UserAccount.AvatarKey,
		schema.UserAccount.CoverImageURL, schema.UserAccount.CoverImageKey,
		schema.UserAccount.Password, schema.UserAccount.CreatedAt, schema.UserAccount.UpdatedAt,
	)

	now := time.Now()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now

	_, err := repository.pool.Exec(context, query,
		user.ID,
		user.Username,
		user.Email,
		user.FullName,
		user.AvatarURL,
		user.AvatarKey,
		user.CoverImageURL,
		user.CoverImageKey,
		user.PasswordHash,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		return dberr.WrapConflict(err, "insert_user", accountConflicts)
	}

	return nil
}

/*
UpdatePassword replaces the password hash of a principal.

Parameters:
  - context: context.Context
  - userID: string
  - newHash: string

Returns:
  - error: apperr.NotFound or database errors
*/
func (repository *PostgresUserRepository) UpdatePassword(context context.Context, userID, newHash string) error {
	query := fmt.Sprintf(`UPDATE %s SET %s = $2, %s = NOW() WHERE %s = $1`,
		schema.UserAccount.Table, schema.UserAccount.Password,
		schema.UserAccount.UpdatedAt, schema.UserAccount.ID,
	)

	tag, err := repository.pool.Exec(context, query, userID, newHash)
	if err != nil {
		return dberr.Wrap(err, "update_user_password")
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("User")
	}

	return nil
}

/*
SetRefreshTokenHash stores the digest of a freshly issued refresh token.

Description: Overwrites any previous value, which revokes the older session.

Parameters:
  - context: context.Context
  - userID: string
  - tokenHash: string

Returns:
  - error: apperr.NotFound or database errors
*/
func (repository *PostgresUserRepository) SetRefreshTokenHash(context context.Context, userID, tokenHash string) error {
	query := fmt.Sprintf(`UPDATE %s SET %s = $2 WHERE %s = $1`,
		schema.UserAccount.Table, schema.UserAccount.RefreshTokenHash, schema.UserAccount.ID,
	)

	tag, err := repository.pool.Exec(context, query, userID, tokenHash)
	if err != nil {
		return dberr.Wrap(err, "set_refresh_token_hash")
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("User")
	}

	return nil
}

/*
RotateRefreshTokenHash swaps the digest only while it still equals presentedHash.

Description: The WHERE clause is the compare step of a compare-and-swap. Of
two concurrent rotations of the same token exactly one affects a row.

Parameters:
  - context: context.Context
  - userID: string
  - presentedHash: string
  - newHash: string

Returns:
  - bool: True if this call performed the rotation
  - error: Database errors
*/
func (repository *PostgresUserRepository) RotateRefreshTokenHash(context context.Context, userID, presentedHash, newHash string) (bool, error) {
	query := fmt.Sprintf(`UPDATE %s SET %s = $3 WHERE %s = $1 AND %s = $2`,
		schema.UserAccount.Table, schema.UserAccount.RefreshTokenHash,
		schema.UserAccount.ID, schema.UserAccount.RefreshTokenHash,
	)

	tag, err := repository.pool.Exec(context, query, userID, presentedHash, newHash)
	if err != nil {
		return false, dberr.Wrap(err, "rotate_refresh_token_hash")
	}

	return tag.RowsAffected() == 1, nil
}

/*
ClearRefreshTokenHash revokes the active session of a principal.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - error: Database errors
*/
func (repository *PostgresUserRepository) ClearRefreshTokenHash(context context.Context, userID string) error {
	query := fmt.Sprintf(`UPDATE %s SET %s = NULL WHERE %s = $1`,
		schema.UserAccount.Table, schema.UserAccount.RefreshTokenHash, schema.UserAccount.ID,
	)

	if _, err := repository.pool.Exec(context, query, userID); err != nil {
		return dberr.Wrap(err, "clear_refresh_token_hash")
	}

	return nil
}
