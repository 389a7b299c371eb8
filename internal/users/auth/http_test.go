// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth_test

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/vidtube/internal/platform/constants"
	"github.com/taibuivan/vidtube/internal/platform/middleware"
	"github.com/taibuivan/vidtube/internal/users/auth"
)

func newRouter(f *fixture) http.Handler {
	router := chi.NewRouter()
	authenticate := middleware.Authenticate(auth.NewGuard(f.tokens, f.users))
	router.Mount("/auth", auth.NewHandler(f.service, 1<<20).Routes(authenticate))
	return router
}

type envelope struct {
	StatusCode int             `json:"statusCode"`
	Data       json.RawMessage `json:"data"`
	Message    string          `json:"message"`
	Success    bool            `json:"success"`
	Errors     []struct {
		Field   string `json:"field"`
		Message string `json:"message"`
	} `json:"errors"`
}

func decode(t *testing.T, recorder *httptest.ResponseRecorder) envelope {
	t.Helper()
	var body envelope
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	return body
}

func cookie(recorder *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range recorder.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func postJSON(router http.Handler, path, body string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	request := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	request.Header.Set("Content-Type", "application/json")
	for _, c := range cookies {
		request.AddCookie(c)
	}
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, request)
	return recorder
}

/*
TestHandler_Register parses the multipart form and requires an avatar.
*/
func TestHandler_Register(t *testing.T) {
	f := newFixture(t)
	router := newRouter(f)

	build := func(withAvatar bool) *http.Request {
		var body bytes.Buffer
		form := multipart.NewWriter(&body)
		_ = form.WriteField("username", "Alice")
		_ = form.WriteField("email", "alice@example.com")
		_ = form.WriteField("fullName", "Alice A.")
		_ = form.WriteField("password", "password1")
		if withAvatar {
			part, _ := form.CreateFormFile("avatar", "me.png")
			_, _ = part.Write([]byte("png-bytes"))
		}
		_ = form.Close()

		request := httptest.NewRequest(http.MethodPost, "/auth/register", &body)
		request.Header.Set("Content-Type", form.FormDataContentType())
		return request
	}

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, build(false))
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	require.NotEmpty(t, decode(t, recorder).Errors)
	assert.Equal(t, "avatar", decode(t, recorder).Errors[0].Field)

	recorder = httptest.NewRecorder()
	router.ServeHTTP(recorder, build(true))
	require.Equal(t, http.StatusCreated, recorder.Code)

	body := decode(t, recorder)
	assert.True(t, body.Success)
	assert.Contains(t, string(body.Data), `"username":"alice"`)
	assert.NotContains(t, string(body.Data), "password")
	assert.NotContains(t, string(body.Data), "refreshToken")

	recorder = httptest.NewRecorder()
	router.ServeHTTP(recorder, build(true))
	assert.Equal(t, http.StatusConflict, recorder.Code)
}

/*
TestHandler_Register_Validation reports every invalid field.
*/
func TestHandler_Register_Validation(t *testing.T) {
	router := newRouter(newFixture(t))

	var body bytes.Buffer
	form := multipart.NewWriter(&body)
	_ = form.WriteField("username", "a")
	_ = form.WriteField("email", "not-an-email")
	_ = form.WriteField("password", "short")
	_ = form.Close()

	request := httptest.NewRequest(http.MethodPost, "/auth/register", &body)
	request.Header.Set("Content-Type", form.FormDataContentType())
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, request)

	require.Equal(t, http.StatusBadRequest, recorder.Code)
	fields := map[string]bool{}
	for _, fieldErr := range decode(t, recorder).Errors {
		fields[fieldErr.Field] = true
	}
	assert.True(t, fields["username"])
	assert.True(t, fields["email"])
	assert.True(t, fields["fullName"])
	assert.True(t, fields["password"])
}

/*
TestHandler_SessionLifecycle walks login, refresh, logout through HTTP.
*/
func TestHandler_SessionLifecycle(t *testing.T) {
	f := newFixture(t)
	register(t, f, "alice", "alice@example.com", "password1")
	router := newRouter(f)

	// Login with the email spelling of the identifier.
	recorder := postJSON(router, "/auth/login", `{"email":"alice@example.com","password":"password1"}`)
	require.Equal(t, http.StatusOK, recorder.Code)

	accessCookie := cookie(recorder, constants.AccessTokenCookieName)
	refreshCookie := cookie(recorder, constants.RefreshTokenCookieName)
	require.NotNil(t, accessCookie)
	require.NotNil(t, refreshCookie)
	assert.True(t, refreshCookie.HttpOnly)
	assert.True(t, refreshCookie.Secure)
	assert.Equal(t, http.SameSiteStrictMode, refreshCookie.SameSite)
	assert.Equal(t, "/", refreshCookie.Path)

	var login struct {
		AccessToken  string `json:"accessToken"`
		RefreshToken string `json:"refreshToken"`
		User         struct {
			Username string `json:"username"`
		} `json:"user"`
	}
	require.NoError(t, json.Unmarshal(decode(t, recorder).Data, &login))
	assert.Equal(t, "alice", login.User.Username)
	assert.Equal(t, refreshCookie.Value, login.RefreshToken)

	// Refresh through the body.
	recorder = postJSON(router, "/auth/refresh-token", `{"refreshToken":"`+login.RefreshToken+`"}`)
	require.Equal(t, http.StatusOK, recorder.Code)
	rotatedCookie := cookie(recorder, constants.RefreshTokenCookieName)
	require.NotNil(t, rotatedCookie)

	// Replaying the first token fails.
	recorder = postJSON(router, "/auth/refresh-token", "", refreshCookie)
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)

	// Refresh through the cookie.
	recorder = postJSON(router, "/auth/refresh-token", "", rotatedCookie)
	require.Equal(t, http.StatusOK, recorder.Code)
	latestAccess := cookie(recorder, constants.AccessTokenCookieName)
	latestRefresh := cookie(recorder, constants.RefreshTokenCookieName)

	// Logout needs a principal.
	recorder = postJSON(router, "/auth/logout", "")
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)

	recorder = postJSON(router, "/auth/logout", "", latestAccess)
	require.Equal(t, http.StatusOK, recorder.Code)
	cleared := cookie(recorder, constants.RefreshTokenCookieName)
	require.NotNil(t, cleared)
	assert.Empty(t, cleared.Value)
	assert.Negative(t, cleared.MaxAge)

	recorder = postJSON(router, "/auth/refresh-token", "", latestRefresh)
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
}

/*
TestHandler_StaleAccessToken lets a client holding an expired or forged access
token log in and refresh again, while session endpoints still reject it.
*/
func TestHandler_StaleAccessToken(t *testing.T) {
	f := newFixture(t)
	register(t, f, "alice", "alice@example.com", "password1")
	router := newRouter(f)

	withStaleBearer := func(path, body string) *httptest.ResponseRecorder {
		request := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
		request.Header.Set("Content-Type", "application/json")
		request.Header.Set(constants.HeaderAuthorization, "Bearer expired-token")
		request.AddCookie(&http.Cookie{Name: constants.AccessTokenCookieName, Value: "expired-token"})
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, request)
		return recorder
	}

	recorder := withStaleBearer("/auth/login", `{"username":"alice","password":"password1"}`)
	require.Equal(t, http.StatusOK, recorder.Code)

	var login struct {
		RefreshToken string `json:"refreshToken"`
	}
	require.NoError(t, json.Unmarshal(decode(t, recorder).Data, &login))

	recorder = withStaleBearer("/auth/refresh-token", `{"refreshToken":"`+login.RefreshToken+`"}`)
	assert.Equal(t, http.StatusOK, recorder.Code)

	recorder = withStaleBearer("/auth/login", `{}`)
	assert.Equal(t, http.StatusBadRequest, recorder.Code)

	recorder = withStaleBearer("/auth/logout", "")
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
}

/*
TestHandler_Refresh_ChunkedBody reads the body even without a Content-Length.
*/
func TestHandler_Refresh_ChunkedBody(t *testing.T) {
	f := newFixture(t)
	register(t, f, "alice", "alice@example.com", "password1")
	router := newRouter(f)

	recorder := postJSON(router, "/auth/login", `{"username":"alice","password":"password1"}`)
	require.Equal(t, http.StatusOK, recorder.Code)
	var login struct {
		RefreshToken string `json:"refreshToken"`
	}
	require.NoError(t, json.Unmarshal(decode(t, recorder).Data, &login))

	request := httptest.NewRequest(http.MethodPost, "/auth/refresh-token", strings.NewReader(`{"refreshToken":"`+login.RefreshToken+`"}`))
	request.Header.Set("Content-Type", "application/json")
	request.ContentLength = -1
	recorder = httptest.NewRecorder()
	router.ServeHTTP(recorder, request)

	assert.Equal(t, http.StatusOK, recorder.Code)
}

/*
TestHandler_Login_Errors maps service failures onto status codes.
*/
func TestHandler_Login_Errors(t *testing.T) {
	f := newFixture(t)
	register(t, f, "alice", "alice@example.com", "password1")
	router := newRouter(f)

	tests := []struct {
		name   string
		body   string
		status int
	}{
		{"malformed json", `{`, http.StatusBadRequest},
		{"no identifier", `{"password":"password1"}`, http.StatusBadRequest},
		{"no password", `{"username":"alice"}`, http.StatusBadRequest},
		{"unknown user", `{"username":"bob","password":"password1"}`, http.StatusNotFound},
		{"wrong password", `{"identifier":"alice","password":"password2"}`, http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder := postJSON(router, "/auth/login", tt.body)
			assert.Equal(t, tt.status, recorder.Code)
			assert.False(t, decode(t, recorder).Success)
		})
	}
}

/*
TestHandler_ChangePassword requires authentication and validates the body.
*/
func TestHandler_ChangePassword(t *testing.T) {
	f := newFixture(t)
	register(t, f, "alice", "alice@example.com", "password1")
	router := newRouter(f)

	recorder := postJSON(router, "/auth/login", `{"username":"alice","password":"password1"}`)
	require.Equal(t, http.StatusOK, recorder.Code)
	access := cookie(recorder, constants.AccessTokenCookieName)

	recorder = postJSON(router, "/auth/change-password", `{"oldPassword":"password1","newPassword":"x"}`, access)
	assert.Equal(t, http.StatusBadRequest, recorder.Code)

	recorder = postJSON(router, "/auth/change-password", `{"oldPassword":"nope","newPassword":"password2"}`, access)
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)

	recorder = postJSON(router, "/auth/change-password", `{"oldPassword":"password1","newPassword":"password2"}`, access)
	assert.Equal(t, http.StatusOK, recorder.Code)

	recorder = postJSON(router, "/auth/login", `{"username":"alice","password":"password2"}`)
	assert.Equal(t, http.StatusOK, recorder.Code)
}
