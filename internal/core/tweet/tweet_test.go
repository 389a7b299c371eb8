// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package tweet_test

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/vidtube/internal/core/tweet"
	"github.com/taibuivan/vidtube/internal/core/view"
	"github.com/taibuivan/vidtube/internal/platform/apperr"
	"github.com/taibuivan/vidtube/internal/platform/ctxutil"
	"github.com/taibuivan/vidtube/internal/platform/sec"
	"github.com/taibuivan/vidtube/pkg/pagination"
	"github.com/taibuivan/vidtube/pkg/uuid"
)

const (
	authorID   = "0191e8a0-0000-7000-8000-0000000000d1"
	strangerID = "0191e8a0-0000-7000-8000-0000000000d2"
)

type memoryTweets struct {
	users  map[string]bool
	tweets map[string]*tweet.Tweet
	likes  map[string]map[string]bool
}

func newMemoryTweets() *memoryTweets {
	return &memoryTweets{
		users:  map[string]bool{authorID: true, strangerID: true},
		tweets: map[string]*tweet.Tweet{},
		likes:  map[string]map[string]bool{},
	}
}

func (m *memoryTweets) AuthorExists(_ context.Context, userID string) (bool, error) {
	return m.users[userID], nil
}

func (m *memoryTweets) ListByOwner(_ context.Context, ownerID, viewerID string, params pagination.Params) ([]tweet.Summary, int, error) {
	var items []tweet.Summary
	for _, stored := range m.tweets {
		if stored.Owner != ownerID {
			continue
		}
		items = append(items, tweet.Summary{
			ID: stored.ID, Content: stored.Content, CreatedAt: stored.CreatedAt, UpdatedAt: stored.UpdatedAt,
			LikesCount: len(m.likes[stored.ID]), IsLiked: m.likes[stored.ID][viewerID],
			Owner: view.Owner{ID: stored.Owner},
		})
	}
	sort.Slice(items, func(i, j int) bool { return items[i].CreatedAt.After(items[j].CreatedAt) })

	total := len(items)
	start := min(params.Offset(), total)
	end := min(start+params.Limit, total)
	return items[start:end], total, nil
}

func (m *memoryTweets) FindByID(_ context.Context, id string) (*tweet.Tweet, error) {
	stored, ok := m.tweets[id]
	if !ok {
		return nil, apperr.NotFound("Tweet")
	}
	clone := *stored
	return &clone, nil
}

func (m *memoryTweets) Create(_ context.Context, created *tweet.Tweet) error {
	clone := *created
	m.tweets[created.ID] = &clone
	return nil
}

func (m *memoryTweets) UpdateContent(_ context.Context, id, content string) (*tweet.Tweet, error) {
	m.tweets[id].Content = content
	clone := *m.tweets[id]
	return &clone, nil
}

func (m *memoryTweets) Delete(_ context.Context, id string) error {
	if _, ok := m.tweets[id]; !ok {
		return apperr.NotFound("Tweet")
	}
	delete(m.tweets, id)
	delete(m.likes, id)
	return nil
}

func newService() (*tweet.Service, *memoryTweets) {
	repo := newMemoryTweets()
	return tweet.NewService(repo), repo
}

/*
TestCreateTweet trims content and rejects empty or oversized posts.
*/
func TestCreateTweet(t *testing.T) {
	service, repo := newService()

	created, err := service.CreateTweet(context.Background(), authorID, "  hello world ")
	require.NoError(t, err)
	assert.Equal(t, "hello world", created.Content)
	assert.Equal(t, authorID, created.OwnerID())
	assert.True(t, uuid.Valid(created.ID))

	for _, content := range []string{"", "   ", strings.Repeat("y", tweet.MaxContentLength+1)} {
		_, err := service.CreateTweet(context.Background(), authorID, content)
		assert.True(t, apperr.HasCode(err, apperr.CodeInvalidArgument))
	}
	assert.Len(t, repo.tweets, 1)
}

/*
TestTweetEvents_UseRequestLogger checks lifecycle events are written through
the logger attached to the request, so they carry its request_id.
*/
func TestTweetEvents_UseRequestLogger(t *testing.T) {
	service, _ := newService()

	var buffer bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buffer, nil)).With(slog.String("request_id", "req-42"))
	ctx := ctxutil.WithLogger(context.Background(), logger)

	created, err := service.CreateTweet(ctx, authorID, "hello")
	require.NoError(t, err)
	require.NoError(t, service.DeleteTweet(ctx, authorID, created.ID))

	lines := strings.Split(strings.TrimSpace(buffer.String()), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], `"msg":"tweet_created"`)
	assert.Contains(t, lines[1], `"msg":"tweet_deleted"`)
	for _, line := range lines {
		assert.Contains(t, line, `"request_id":"req-42"`)
	}
}

/*
TestUserTweets paginates a channel's tweets and reports the viewer's likes.
*/
func TestUserTweets(t *testing.T) {
	service, repo := newService()
	for _, content := range []string{"one", "two", "three"} {
		_, err := service.CreateTweet(context.Background(), authorID, content)
		require.NoError(t, err)
	}
	for id := range repo.tweets {
		repo.likes[id] = map[string]bool{strangerID: true}
	}

	page, err := service.UserTweets(context.Background(), authorID, strangerID, pagination.Params{Page: 1, Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, 3, page.Total)
	require.Len(t, page.Items, 2)
	assert.True(t, page.Items[0].IsLiked)
	assert.Equal(t, 1, page.Items[0].LikesCount)

	page, err = service.UserTweets(context.Background(), strangerID, "", pagination.Params{Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.NotNil(t, page.Items)
	assert.Empty(t, page.Items)

	_, err = service.UserTweets(context.Background(), uuid.New(), "", pagination.Params{Page: 1, Limit: 10})
	assert.True(t, apperr.HasCode(err, apperr.CodeNotFound))
}

/*
TestUpdateAndDelete_RequireAuthor gates mutations on ownership.
*/
func TestUpdateAndDelete_RequireAuthor(t *testing.T) {
	service, repo := newService()
	created, err := service.CreateTweet(context.Background(), authorID, "draft")
	require.NoError(t, err)
	repo.likes[created.ID] = map[string]bool{strangerID: true}

	_, err = service.UpdateTweet(context.Background(), strangerID, created.ID, "hijack")
	assert.True(t, apperr.HasCode(err, apperr.CodeForbidden))
	assert.True(t, apperr.HasCode(service.DeleteTweet(context.Background(), strangerID, created.ID), apperr.CodeForbidden))

	_, err = service.UpdateTweet(context.Background(), authorID, created.ID, "")
	assert.True(t, apperr.HasCode(err, apperr.CodeInvalidArgument))

	updated, err := service.UpdateTweet(context.Background(), authorID, created.ID, "final")
	require.NoError(t, err)
	assert.Equal(t, "final", updated.Content)

	require.NoError(t, service.DeleteTweet(context.Background(), authorID, created.ID))
	assert.Empty(t, repo.tweets)
	assert.Empty(t, repo.likes)

	assert.True(t, apperr.HasCode(service.DeleteTweet(context.Background(), authorID, created.ID), apperr.CodeNotFound))
}

/*
TestHandler_Routes exercises the tweet endpoints over HTTP.
*/
func TestHandler_Routes(t *testing.T) {
	service, repo := newService()

	router := chi.NewRouter()
	router.Mount("/tweets", tweet.NewHandler(service).Routes())

	serve := func(method, path, principal, body string) *httptest.ResponseRecorder {
		request := httptest.NewRequest(method, path, strings.NewReader(body))
		request.Header.Set("Content-Type", "application/json")
		if principal != "" {
			request = request.WithContext(ctxutil.WithPrincipal(request.Context(), &sec.AccessClaims{PrincipalID: principal}))
		}
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, request)
		return recorder
	}

	assert.Equal(t, http.StatusUnauthorized, serve(http.MethodPost, "/tweets", "", `{"content":"hi"}`).Code)
	require.Equal(t, http.StatusCreated, serve(http.MethodPost, "/tweets", authorID, `{"content":"hi"}`).Code)

	recorder := serve(http.MethodGet, "/tweets/user/"+authorID, "", "")
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), `"content":"hi"`)
	assert.Equal(t, http.StatusBadRequest, serve(http.MethodGet, "/tweets/user/not-a-uuid", "", "").Code)

	var tweetID string
	for id := range repo.tweets {
		tweetID = id
	}
	assert.Equal(t, http.StatusForbidden, serve(http.MethodPatch, "/tweets/"+tweetID, strangerID, `{"content":"x"}`).Code)
	assert.Equal(t, http.StatusOK, serve(http.MethodPatch, "/tweets/"+tweetID, authorID, `{"content":"edited"}`).Code)
	assert.Equal(t, http.StatusOK, serve(http.MethodDelete, "/tweets/"+tweetID, authorID, "").Code)
}
