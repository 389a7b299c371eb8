// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/taibuivan/vidtube/internal/platform/apperr"
	"github.com/taibuivan/vidtube/internal/platform/constants"
	"github.com/taibuivan/vidtube/internal/platform/ctxutil"
	"github.com/taibuivan/vidtube/internal/platform/metrics"
	"github.com/taibuivan/vidtube/internal/platform/sec"
	"github.com/taibuivan/vidtube/internal/platform/storage"
	"github.com/taibuivan/vidtube/pkg/uuid"
)

// # Contracts & Types

// TokenProvider mints and verifies session credentials. [*sec.TokenService]
// satisfies it.
type TokenProvider interface {
	GenerateAccessToken(subject sec.TokenSubject, timeToLive time.Duration) (string, error)
	GenerateRefreshToken(principalID string, timeToLive time.Duration) (string, time.Time, error)
	VerifyRefreshToken(tokenString string) (*sec.RefreshClaims, error)
}

// Config carries the session lifetimes and the login lockout policy.
type Config struct {
	AccessTokenTTL     time.Duration
	RefreshTokenTTL    time.Duration
	LoginMaxAttempts   int
	LoginLockoutWindow time.Duration
}

// Service implements the credential lifecycle use cases.
type Service struct {
	userRepository UserRepository
	loginAttempts  LoginAttemptRepository
	tokenProvider  TokenProvider
	media          storage.Store
	config         Config
}

// NewService constructs a new [Service] with necessary dependencies.
func NewService(
	userRepo UserRepository,
	attemptRepo LoginAttemptRepository,
	tokenProv TokenProvider,
	media storage.Store,
	config Config,
) *Service {
	return &Service{
		userRepository: userRepo,
		loginAttempts:  attemptRepo,
		tokenProvider:  tokenProv,
		media:          media,
		config:         config,
	}
}

var (
	errInvalidCredentials = apperr.Unauthorized("Invalid user credentials")
	errInvalidRefresh     = apperr.Unauthorized("Invalid refresh token")
	errRefreshUsed        = apperr.Unauthorized("Refresh token is expired or used")
)

// # Registration Flow

// RegisterInput holds the data required to enroll a new member.
type RegisterInput struct {
	Username string
	Email    string
	FullName string
	Password string
}

/*
Register validates, uploads the profile media, hashes and persists a new principal.

Description: The avatar is mandatory and the cover image optional. Uploaded
objects are removed again if the account cannot be created.

Parameters:
  - context: context.Context
  - input: RegisterInput
  - avatar: *storage.Upload (required)
  - coverImage: *storage.Upload (may be nil)

Returns:
  - *User: Created entity
  - error: Conflict (identity exists), validation or storage errors
*/
func (service *Service) Register(context context.Context, input RegisterInput, avatar, coverImage *storage.Upload) (user *User, err error) {
	defer func() { metrics.RecordAuthEvent("register", err == nil) }()

	username := NormalizeIdentity(input.Username)
	email := NormalizeIdentity(input.Email)

	if avatar == nil {
		return nil, apperr.ValidationError("Avatar file is required",
			apperr.FieldError{Field: FieldAvatar, Message: "File is required"})
	}

	// Fast path for the common duplicate case; the unique constraints still
	// decide a race between two registrations.
	exists, err := service.userRepository.ExistsByUsernameOrEmail(context, username, email)
	if err != nil {
		return nil, fmt.Errorf("auth_service_register_lookup_failed: %w", err)
	}
	if exists {
		return nil, apperr.Conflict("User with email or username already exists")
	}

	hashedPassword, err := sec.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("auth_service_hash_failed: %w", err)
	}

	avatarObject, err := service.media.Put(context, constants.MediaFolderAvatars, *avatar)
	if err != nil {
		return nil, err
	}
	uploaded := []string{avatarObject.Key}

	var coverObject storage.Object
	if coverImage != nil {
		coverObject, err = service.media.Put(context, constants.MediaFolderCovers, *coverImage)
		if err != nil {
			service.discardMedia(context, uploaded...)
			return nil, err
		}
		uploaded = append(uploaded, coverObject.Key)
	}

	user = &User{
		ID:            uuid.New(),
		Username:      username,
		Email:         email,
		FullName:      input.FullName,
		AvatarURL:     avatarObject.URL,
		AvatarKey:     avatarObject.Key,
		CoverImageURL: coverObject.URL,
		CoverImageKey: coverObject.Key,
		PasswordHash:  hashedPassword,
	}

	if err := service.userRepository.Create(context, user); err != nil {
		service.discardMedia(context, uploaded...)
		return nil, err
	}

	ctxutil.GetLogger(context).InfoContext(context, "user_registered", slog.String("user_id", user.ID))
	return user, nil
}

// # Authentication Flow

// LoginInput defines credentials for an authentication attempt.
type LoginInput struct {
	Identifier string // Username or email
	Password   string
}

/*
Login validates credentials and issues a fresh session.

Description: Repeated failures for one identifier lock it for the configured
window. The lockout store failing open keeps logins available when Redis is
down.

Parameters:
  - context: context.Context
  - input: LoginInput

Returns:
  - *LoginSession: Tokens plus the public projection
  - error: NotFound (unknown principal), Unauthorized (bad password),
    RateLimited (locked out) or internal failures
*/
func (service *Service) Login(context context.Context, input LoginInput) (session *LoginSession, err error) {
	defer func() { metrics.RecordAuthEvent("login", err == nil) }()

	identifier := NormalizeIdentity(input.Identifier)
	logger := ctxutil.GetLogger(context)

	if err := service.checkLockout(context, identifier); err != nil {
		return nil, err
	}

	user, err := service.userRepository.FindByIdentifier(context, identifier)
	if err != nil {
		return nil, err
	}

	if !sec.CheckPasswordHash(input.Password, user.PasswordHash) {
		if service.config.LoginMaxAttempts > 0 {
			if recordErr := service.loginAttempts.RecordFailure(context, identifier, service.config.LoginLockoutWindow); recordErr != nil {
				logger.WarnContext(context, "login_attempt_record_failed", slog.Any("error", recordErr))
			}
		}
		return nil, errInvalidCredentials
	}

	if service.config.LoginMaxAttempts > 0 {
		if resetErr := service.loginAttempts.Reset(context, identifier); resetErr != nil {
			logger.WarnContext(context, "login_attempt_reset_failed", slog.Any("error", resetErr))
		}
	}

	issued, err := service.IssueSession(context, user)
	if err != nil {
		return nil, err
	}

	logger.InfoContext(context, "user_logged_in", slog.String("user_id", user.ID))
	return &LoginSession{Session: *issued, User: user}, nil
}

func (service *Service) checkLockout(context context.Context, identifier string) error {
	if service.config.LoginMaxAttempts <= 0 {
		return nil
	}

	failures, remaining, err := service.loginAttempts.Failures(context, identifier)
	if err != nil {
		ctxutil.GetLogger(context).WarnContext(context, "login_lockout_check_failed", slog.Any("error", err))
		return nil
	}

	if failures >= service.config.LoginMaxAttempts {
		retryAfter := int(math.Ceil(remaining.Seconds()))
		if retryAfter < 1 {
			retryAfter = 1
		}
		return apperr.RateLimited(retryAfter)
	}
	return nil
}

// # Session Management

/*
IssueSession mints an access/refresh pair and records the refresh digest.

Description: Storing the new digest overwrites any previous one, so a
principal holds exactly one active session.

Parameters:
  - context: context.Context
  - user: *User

Returns:
  - *Session: Signed tokens
  - error: Signing or persistence failures
*/
func (service *Service) IssueSession(context context.Context, user *User) (*Session, error) {
	accessToken, err := service.tokenProvider.GenerateAccessToken(user.Subject(), service.config.AccessTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("auth_service_access_token_failed: %w", err)
	}

	refreshToken, expiresAt, err := service.tokenProvider.GenerateRefreshToken(user.ID, service.config.RefreshTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("auth_service_refresh_token_failed: %w", err)
	}

	if err := service.userRepository.SetRefreshTokenHash(context, user.ID, sec.HashToken(refreshToken)); err != nil {
		return nil, fmt.Errorf("auth_service_session_store_failed: %w", err)
	}

	return &Session{
		AccessToken:           accessToken,
		RefreshToken:          refreshToken,
		RefreshTokenExpiresAt: expiresAt,
	}, nil
}

/*
Refresh implements refresh token rotation.

Description: The presented token must verify, belong to an existing principal
and match the stored digest. The swap to the new digest is conditional on the
old one, so of two concurrent refreshes with the same token only one wins.

Parameters:
  - context: context.Context
  - presentedToken: string

Returns:
  - *Session: Rotated credentials
  - error: Unauthorized or storage failures
*/
func (service *Service) Refresh(context context.Context, presentedToken string) (session *Session, err error) {
	defer func() { metrics.RecordAuthEvent("refresh", err == nil) }()

	if presentedToken == "" {
		return nil, apperr.Unauthorized("Unauthorized request")
	}

	claims, err := service.tokenProvider.VerifyRefreshToken(presentedToken)
	if err != nil {
		return nil, errInvalidRefresh
	}

	user, err := service.userRepository.FindByID(context, claims.PrincipalID)
	if err != nil {
		if apperr.HasCode(err, apperr.CodeNotFound) {
			return nil, errInvalidRefresh
		}
		return nil, fmt.Errorf("auth_service_refresh_lookup_failed: %w", err)
	}

	if !sec.TokenMatches(user.RefreshTokenHash, presentedToken) {
		return nil, errRefreshUsed
	}

	accessToken, err := service.tokenProvider.GenerateAccessToken(user.Subject(), service.config.AccessTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("auth_service_refresh_access_token_failed: %w", err)
	}

	refreshToken, expiresAt, err := service.tokenProvider.GenerateRefreshToken(user.ID, service.config.RefreshTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("auth_service_refresh_token_failed: %w", err)
	}

	rotated, err := service.userRepository.RotateRefreshTokenHash(context, user.ID, sec.HashToken(presentedToken), sec.HashToken(refreshToken))
	if err != nil {
		return nil, fmt.Errorf("auth_service_refresh_rotate_failed: %w", err)
	}
	if !rotated {
		return nil, errRefreshUsed
	}

	ctxutil.GetLogger(context).InfoContext(context, "session_refreshed", slog.String("user_id", user.ID))

	return &Session{
		AccessToken:           accessToken,
		RefreshToken:          refreshToken,
		RefreshTokenExpiresAt: expiresAt,
	}, nil
}

/*
Logout revokes the principal's refresh token.

Description: Idempotent. Access tokens already issued stay valid until expiry.

Parameters:
  - context: context.Context
  - principalID: string

Returns:
  - error: Revocation failures
*/
func (service *Service) Logout(context context.Context, principalID string) error {
	if err := service.userRepository.ClearRefreshTokenHash(context, principalID); err != nil {
		return fmt.Errorf("auth_service_logout_failed: %w", err)
	}

	metrics.RecordAuthEvent("logout", true)
	ctxutil.GetLogger(context).InfoContext(context, "user_logged_out", slog.String("user_id", principalID))
	return nil
}

/*
ChangePassword replaces the password after verifying the current one.

Description: The active session is kept; other holders of the old password
are not signed out.

Parameters:
  - context: context.Context
  - principalID: string
  - oldPassword: string
  - newPassword: string

Returns:
  - error: Unauthorized (wrong old password) or storage failures
*/
func (service *Service) ChangePassword(context context.Context, principalID, oldPassword, newPassword string) error {
	user, err := service.userRepository.FindByID(context, principalID)
	if err != nil {
		return err
	}

	if !sec.CheckPasswordHash(oldPassword, user.PasswordHash) {
		return apperr.Unauthorized("Invalid old password")
	}

	hashedPassword, err := sec.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("auth_service_change_password_hash_failed: %w", err)
	}

	if err := service.userRepository.UpdatePassword(context, principalID, hashedPassword); err != nil {
		return fmt.Errorf("auth_service_change_password_update_failed: %w", err)
	}

	ctxutil.GetLogger(context).InfoContext(context, "password_changed", slog.String("user_id", principalID))
	return nil
}

// discardMedia best-effort removes objects uploaded for a failed operation.
func (service *Service) discardMedia(context context.Context, keys ...string) {
	for _, key := range keys {
		if err := service.media.Delete(context, key); err != nil {
			ctxutil.GetLogger(context).WarnContext(context, "media_delete_failed",
				slog.String("key", key), slog.Any("error", err))
		}
	}
}
