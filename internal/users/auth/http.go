// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/vidtube/internal/platform/constants"
	"github.com/taibuivan/vidtube/internal/platform/middleware"
	requestutil "github.com/taibuivan/vidtube/internal/platform/request"
	"github.com/taibuivan/vidtube/internal/platform/respond"
	"github.com/taibuivan/vidtube/internal/platform/validate"
)

// # Definitions & Constructors

// Handler implements the authentication HTTP endpoints.
type Handler struct {
	authService    *Service
	maxUploadBytes int64
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service, maxUploadBytes int64) *Handler {
	return &Handler{authService: service, maxUploadBytes: maxUploadBytes}
}

// Routes returns a [chi.Router] configured with authentication routes.
//
// # Endpoints
//   - POST /register        : Creates an account (multipart).
//   - POST /login           : Issues a session.
//   - POST /refresh-token   : Rotates the session.
//   - POST /logout          : Revokes the session.
//   - POST /change-password : Replaces the password.
//
// The credential endpoints never look at the access token, so an expired or
// revoked one cannot lock a client out of logging in or refreshing. Only the
// session endpoints run authenticate.
func (handler *Handler) Routes(authenticate func(http.Handler) http.Handler) chi.Router {
	router := chi.NewRouter()

	// Public endpoints, throttled per IP
	router.Group(func(r chi.Router) {
		r.Use(middleware.AuthRateLimit())
		r.Post("/register", handler.register)
		r.Post("/login", handler.login)
		r.Post("/refresh-token", handler.refresh)
	})

	// Protected endpoints
	router.Group(func(r chi.Router) {
		r.Use(authenticate)
		r.Use(middleware.RequireAuth)
		r.Post("/logout", handler.logout)
		r.Post("/change-password", handler.changePassword)
	})

	return router
}

// # Request Payloads

type loginRequest struct {
	Identifier string `json:"identifier"`
	Username   string `json:"username"`
	Email      string `json:"email"`
	Password   string `json:"password" validate:"required"`
}

// identifier accepts any of the three spellings clients send.
func (input loginRequest) identifier() string {
	for _, candidate := range []string{input.Identifier, input.Username, input.Email} {
		if candidate != "" {
			return candidate
		}
	}
	return ""
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type changePasswordRequest struct {
	OldPassword string `json:"oldPassword" validate:"required"`
	NewPassword string `json:"newPassword" validate:"required,min=8,max=72"`
}

type sessionResponse struct {
	User         *User  `json:"user,omitempty"`
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

/*
Register creates a new account.

POST /api/v1/auth/register

Request:
  - Body: multipart form (username, email, fullName, password, avatar, coverImage)

Response:
  - 201: User: Public projection
  - 400: Validation failure or missing avatar
  - 409: Username or email already exists
*/
func (handler *Handler) register(writer http.ResponseWriter, request *http.Request) {
	if err := requestutil.ParseMultipart(writer, request, handler.maxUploadBytes); err != nil {
		respond.Error(writer, request, err)
		return
	}

	input := RegisterInput{
		Username: requestutil.FormValue(request, FieldUsername),
		Email:    requestutil.FormValue(request, FieldEmail),
		FullName: requestutil.FormValue(request, FieldFullName),
		Password: request.FormValue(FieldPassword),
	}

	validator := &validate.Validator{}
	validator.Required(FieldUsername, input.Username).
		MinLen(FieldUsername, input.Username, MinUsernameLength).
		MaxLen(FieldUsername, input.Username, MaxUsernameLength).
		Required(FieldEmail, input.Email).
		Email(FieldEmail, input.Email).
		Required(FieldFullName, input.FullName).
		Required(FieldPassword, input.Password).
		MinLen(FieldPassword, input.Password, MinPasswordLength).
		MaxLen(FieldPassword, input.Password, MaxPasswordLength)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	avatar, avatarBody, err := requestutil.FormFile(request, FieldAvatar, true)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	defer avatarBody.Close()

	coverImage, coverBody, err := requestutil.FormFile(request, FieldCoverImage, false)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	if coverBody != nil {
		defer coverBody.Close()
	}

	user, err := handler.authService.Register(request.Context(), input, avatar, coverImage)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, user, "User registered successfully")
}

/*
Login authenticates a principal and establishes a session.

POST /api/v1/auth/login

Request:
  - Body: loginRequest ({identifier|username|email}, password)

Response:
  - 200: sessionResponse, plus session cookies
  - 401: Invalid credentials
  - 404: Unknown principal
  - 429: Locked out after repeated failures
*/
func (handler *Handler) login(writer http.ResponseWriter, request *http.Request) {
	var input loginRequest
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	identifier := input.identifier()
	if identifier == "" {
		respond.Error(writer, request, validate.RequiredError(FieldIdentifier, "Username or email is required"))
		return
	}

	session, err := handler.authService.Login(request.Context(), LoginInput{
		Identifier: identifier,
		Password:   input.Password,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	handler.setSessionCookies(writer, &session.Session)
	respond.OK(writer, sessionResponse{
		User:         session.User,
		AccessToken:  session.AccessToken,
		RefreshToken: session.RefreshToken,
	}, "User logged in successfully")
}

/*
Refresh rotates the session.

POST /api/v1/auth/refresh-token

Description: The refresh token is read from the refreshToken cookie, falling
back to the JSON body.

Response:
  - 200: sessionResponse, plus rotated cookies
  - 401: Missing, invalid, expired or replayed token
*/
func (handler *Handler) refresh(writer http.ResponseWriter, request *http.Request) {
	presented := ""
	if cookie, err := request.Cookie(constants.RefreshTokenCookieName); err == nil {
		presented = cookie.Value
	}

	if presented == "" && request.ContentLength != 0 {
		var input refreshRequest
		if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
			respond.Error(writer, request, err)
			return
		}
		presented = input.RefreshToken
	}

	session, err := handler.authService.Refresh(request.Context(), presented)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	handler.setSessionCookies(writer, session)
	respond.OK(writer, sessionResponse{
		AccessToken:  session.AccessToken,
		RefreshToken: session.RefreshToken,
	}, "Access token refreshed")
}

/*
Logout revokes the session and clears the cookies.

POST /api/v1/auth/logout

Response:
  - 200: Empty data
*/
func (handler *Handler) logout(writer http.ResponseWriter, request *http.Request) {
	principalID, err := requestutil.RequiredPrincipalID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.authService.Logout(request.Context(), principalID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	clearSessionCookies(writer)
	respond.OK(writer, nil, "User logged out")
}

/*
ChangePassword replaces the authenticated principal's password.

POST /api/v1/auth/change-password

Request:
  - Body: changePasswordRequest (oldPassword, newPassword)

Response:
  - 200: Empty data
  - 400: Validation failure
  - 401: Old password incorrect
*/
func (handler *Handler) changePassword(writer http.ResponseWriter, request *http.Request) {
	principalID, err := requestutil.RequiredPrincipalID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input changePasswordRequest
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	err = handler.authService.ChangePassword(request.Context(), principalID, input.OldPassword, input.NewPassword)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, nil, "Password changed successfully")
}

// # Cookies

func (handler *Handler) setSessionCookies(writer http.ResponseWriter, session *Session) {
	http.SetCookie(writer, sessionCookie(constants.AccessTokenCookieName, session.AccessToken,
		time.Now().Add(handler.authService.config.AccessTokenTTL)))
	http.SetCookie(writer, sessionCookie(constants.RefreshTokenCookieName, session.RefreshToken,
		session.RefreshTokenExpiresAt))
}

func clearSessionCookies(writer http.ResponseWriter) {
	for _, name := range []string{constants.AccessTokenCookieName, constants.RefreshTokenCookieName} {
		cookie := sessionCookie(name, "", time.Unix(0, 0))
		cookie.MaxAge = -1
		http.SetCookie(writer, cookie)
	}
}

func sessionCookie(name, value string, expires time.Time) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     constants.SessionCookiePath,
		Expires:  expires,
		Secure:   true,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	}
}
