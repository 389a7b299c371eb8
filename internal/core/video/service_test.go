// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package video_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/vidtube/internal/core/video"
	"github.com/taibuivan/vidtube/internal/core/view"
	"github.com/taibuivan/vidtube/internal/platform/apperr"
	"github.com/taibuivan/vidtube/internal/platform/ctxutil"
	"github.com/taibuivan/vidtube/internal/platform/storage"
	"github.com/taibuivan/vidtube/pkg/pagination"
	"github.com/taibuivan/vidtube/pkg/query"
	"github.com/taibuivan/vidtube/pkg/uuid"
)

const (
	ownerID    = "0191e8a0-0000-7000-8000-00000000000a"
	strangerID = "0191e8a0-0000-7000-8000-00000000000b"
)

// memoryVideos is an in-memory [video.VideoRepository].
type memoryVideos struct {
	mu         sync.Mutex
	videos     map[string]*video.Video
	history    map[string][]string
	lastFilter video.Filter
	createErr  error
}

func newMemoryVideos() *memoryVideos {
	return &memoryVideos{videos: map[string]*video.Video{}, history: map[string][]string{}}
}

func (m *memoryVideos) FindByID(_ context.Context, id string) (*video.Video, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored, ok := m.videos[id]
	if !ok {
		return nil, apperr.NotFound("Video")
	}
	clone := *stored
	return &clone, nil
}

func (m *memoryVideos) List(_ context.Context, filter video.Filter, _ pagination.Params) ([]video.Summary, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastFilter = filter

	var items []video.Summary
	for _, stored := range m.videos {
		if stored.IsPublished {
			items = append(items, video.Summary{VideoCard: view.VideoCard{ID: stored.ID, Title: stored.Title}})
		}
	}
	return items, len(items), nil
}

func (m *memoryVideos) Detail(_ context.Context, id, _ string) (*video.Detail, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored, ok := m.videos[id]
	if !ok {
		return nil, apperr.NotFound("Video")
	}
	return &video.Detail{
		ID:          stored.ID,
		Title:       stored.Title,
		Views:       stored.Views,
		IsPublished: stored.IsPublished,
		Owner:       video.Channel{Owner: view.Owner{ID: stored.Owner}},
	}, nil
}

func (m *memoryVideos) RecordView(_ context.Context, id, viewerID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.videos[id].Views++

	var history []string
	for _, seen := range m.history[viewerID] {
		if seen != id {
			history = append(history, seen)
		}
	}
	m.history[viewerID] = append(history, id)
	return nil
}

func (m *memoryVideos) Create(_ context.Context, created *video.Video) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	clone := *created
	m.videos[created.ID] = &clone
	return nil
}

func (m *memoryVideos) Update(_ context.Context, id string, changes video.Changes) (*video.Video, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored := m.videos[id]
	stored.Title, stored.Description = changes.Title, changes.Description
	if changes.Thumbnail != nil {
		stored.ThumbnailURL, stored.ThumbnailKey = changes.Thumbnail.URL, changes.Thumbnail.Key
	}
	clone := *stored
	return &clone, nil
}

func (m *memoryVideos) TogglePublish(_ context.Context, id string) (*video.Video, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored := m.videos[id]
	stored.IsPublished = !stored.IsPublished
	clone := *stored
	return &clone, nil
}

func (m *memoryVideos) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.videos[id]; !ok {
		return apperr.NotFound("Video")
	}
	delete(m.videos, id)
	return nil
}

type fixture struct {
	service *video.Service
	repo    *memoryVideos
	media   *storage.MemoryStore
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	repo := newMemoryVideos()
	media := storage.NewMemoryStore("https://cdn.example.com")
	return &fixture{service: video.NewService(repo, media), repo: repo, media: media}
}

func upload(name string) storage.Upload {
	return storage.Upload{Body: strings.NewReader("bytes of " + name), Size: 8, Filename: name}
}

// publish creates a video owned by ownerID with the given visibility.
func (f *fixture) publish(t *testing.T, published bool) *video.Video {
	t.Helper()
	created, err := f.service.Publish(context.Background(), ownerID,
		video.Draft{Title: "Intro", Description: "First upload", Duration: 12.5},
		upload("intro.mp4"), upload("intro.png"))
	require.NoError(t, err)

	if published {
		created, err = f.service.TogglePublish(context.Background(), ownerID, created.ID)
		require.NoError(t, err)
	}
	return created
}

/*
TestPublish stores both media objects and starts unpublished.
*/
func TestPublish(t *testing.T) {
	f := newFixture(t)

	created := f.publish(t, false)

	assert.False(t, created.IsPublished)
	assert.Equal(t, ownerID, created.OwnerID())
	assert.Equal(t, 2, f.media.Len())
	assert.True(t, strings.HasPrefix(created.VideoFileURL, "https://cdn.example.com/videos/"))
	assert.True(t, uuid.Valid(created.ID))
}

/*
TestPublish_Failures checks no media is left behind.
*/
func TestPublish_Failures(t *testing.T) {
	t.Run("validation", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.service.Publish(context.Background(), ownerID,
			video.Draft{Title: "", Description: "d", Duration: -1}, upload("a.mp4"), upload("a.png"))

		appErr := apperr.As(err)
		require.NotNil(t, appErr)
		assert.Len(t, appErr.Details, 2)
		assert.Zero(t, f.media.Len())
	})

	t.Run("persistence", func(t *testing.T) {
		f := newFixture(t)
		f.repo.createErr = errors.New("insert failed")
		_, err := f.service.Publish(context.Background(), ownerID,
			video.Draft{Title: "t", Description: "d"}, upload("a.mp4"), upload("a.png"))

		require.Error(t, err)
		assert.Zero(t, f.media.Len())
	})
}

/*
TestListVideos_Sorting validates the sort whitelist.
*/
func TestListVideos_Sorting(t *testing.T) {
	f := newFixture(t)
	f.publish(t, true)
	f.publish(t, false)

	tests := []struct {
		name     string
		input    video.ListInput
		wantSort query.Sort
		wantErr  bool
	}{
		{"default", video.ListInput{}, video.DefaultSort, false},
		{"views asc", video.ListInput{SortBy: "views", SortType: "asc"}, query.Sort{Column: "v.views", Direction: query.Asc}, false},
		{"unknown column", video.ListInput{SortBy: "passwordhash", SortType: "asc"}, query.Sort{}, true},
		{"bad user id", video.ListInput{UserID: "nope"}, query.Sort{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.input.Params = pagination.Params{Page: 1, Limit: 10}
			page, err := f.service.ListVideos(context.Background(), tt.input)
			if tt.wantErr {
				assert.True(t, apperr.HasCode(err, apperr.CodeInvalidArgument))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantSort, f.repo.lastFilter.Sort)
			assert.Equal(t, 1, page.Total)
		})
	}
}

/*
TestGetVideo_Visibility hides unpublished videos from everyone but the owner.
*/
func TestGetVideo_Visibility(t *testing.T) {
	f := newFixture(t)
	hidden := f.publish(t, false)

	_, err := f.service.GetVideo(context.Background(), hidden.ID, strangerID)
	assert.True(t, apperr.HasCode(err, apperr.CodeNotFound))

	_, err = f.service.GetVideo(context.Background(), hidden.ID, "")
	assert.True(t, apperr.HasCode(err, apperr.CodeNotFound))

	detail, err := f.service.GetVideo(context.Background(), hidden.ID, ownerID)
	require.NoError(t, err)
	assert.Equal(t, hidden.ID, detail.ID)
}

/*
TestGetVideo_RecordsViews counts authenticated views only and keeps history
ordered without duplicates.
*/
func TestGetVideo_RecordsViews(t *testing.T) {
	f := newFixture(t)
	first := f.publish(t, true)
	second := f.publish(t, true)

	_, err := f.service.GetVideo(context.Background(), first.ID, "")
	require.NoError(t, err)
	assert.Zero(t, f.repo.videos[first.ID].Views)

	for _, id := range []string{first.ID, second.ID, first.ID} {
		detail, err := f.service.GetVideo(context.Background(), id, strangerID)
		require.NoError(t, err)
		assert.Equal(t, f.repo.videos[id].Views, detail.Views)
	}

	assert.Equal(t, int64(2), f.repo.videos[first.ID].Views)
	assert.Equal(t, []string{second.ID, first.ID}, f.repo.history[strangerID])
}

/*
TestMutations_RequireOwner denies every mutation to non-owners.
*/
func TestMutations_RequireOwner(t *testing.T) {
	f := newFixture(t)
	created := f.publish(t, false)
	before := f.media.Len()

	thumbnail := upload("new.png")
	_, err := f.service.UpdateVideo(context.Background(), strangerID, created.ID,
		video.UpdateInput{Title: "x", Description: "y"}, &thumbnail)
	assert.True(t, apperr.HasCode(err, apperr.CodeForbidden))

	_, err = f.service.TogglePublish(context.Background(), strangerID, created.ID)
	assert.True(t, apperr.HasCode(err, apperr.CodeForbidden))

	err = f.service.DeleteVideo(context.Background(), strangerID, created.ID)
	assert.True(t, apperr.HasCode(err, apperr.CodeForbidden))

	assert.Equal(t, before, f.media.Len())
	assert.False(t, f.repo.videos[created.ID].IsPublished)
}

/*
TestUpdateVideo_ReplacesThumbnail retires the previous object.
*/
func TestUpdateVideo_ReplacesThumbnail(t *testing.T) {
	f := newFixture(t)
	created := f.publish(t, false)

	thumbnail := upload("new.png")
	updated, err := f.service.UpdateVideo(context.Background(), ownerID, created.ID,
		video.UpdateInput{Title: "Renamed", Description: "Edited"}, &thumbnail)
	require.NoError(t, err)

	assert.Equal(t, "Renamed", updated.Title)
	assert.NotEqual(t, created.ThumbnailKey, updated.ThumbnailKey)
	_, stillThere := f.media.Get(created.ThumbnailKey)
	assert.False(t, stillThere)
	assert.Equal(t, 2, f.media.Len())
}

/*
TestDeleteVideo removes the row and then the media.
*/
func TestDeleteVideo(t *testing.T) {
	f := newFixture(t)
	created := f.publish(t, true)

	require.NoError(t, f.service.DeleteVideo(context.Background(), ownerID, created.ID))
	assert.Zero(t, f.media.Len())

	err := f.service.DeleteVideo(context.Background(), ownerID, created.ID)
	assert.True(t, apperr.HasCode(err, apperr.CodeNotFound))
}

/*
TestVideoEvents_UseRequestLogger checks publish and delete events go through
the request-scoped logger.
*/
func TestVideoEvents_UseRequestLogger(t *testing.T) {
	f := newFixture(t)

	var buffer bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buffer, nil)).With(slog.String("request_id", "req-7"))
	ctx := ctxutil.WithLogger(context.Background(), logger)

	created, err := f.service.Publish(ctx, ownerID,
		video.Draft{Title: "Intro", Description: "First upload", Duration: 12.5},
		upload("intro.mp4"), upload("intro.png"))
	require.NoError(t, err)
	require.NoError(t, f.service.DeleteVideo(ctx, ownerID, created.ID))

	output := buffer.String()
	assert.Contains(t, output, `"msg":"video_published"`)
	assert.Contains(t, output, `"msg":"video_deleted"`)
	assert.Equal(t, strings.Count(output, "\n"), strings.Count(output, `"request_id":"req-7"`))
}
