// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package video

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/taibuivan/vidtube/internal/platform/apperr"
	"github.com/taibuivan/vidtube/internal/platform/constants"
	"github.com/taibuivan/vidtube/internal/platform/ctxutil"
	"github.com/taibuivan/vidtube/internal/platform/sec"
	"github.com/taibuivan/vidtube/internal/platform/storage"
	"github.com/taibuivan/vidtube/internal/platform/validate"
	"github.com/taibuivan/vidtube/pkg/pagination"
	"github.com/taibuivan/vidtube/pkg/query"
	"github.com/taibuivan/vidtube/pkg/uuid"
)

// # Service Layer

// Service orchestrates the video catalogue.
type Service struct {
	videoRepo VideoRepository
	media     storage.Store
}

// NewService constructs a new [Service] with its dependencies.
func NewService(videoRepo VideoRepository, media storage.Store) *Service {
	return &Service{
		videoRepo: videoRepo,
		media:     media,
	}
}

// # Discovery

// ListInput carries the raw listing parameters of a request.
type ListInput struct {
	Query    string
	UserID   string
	SortBy   string
	SortType string
	Params   pagination.Params
}

/*
ListVideos returns one page of published videos.

Description: Ordering defaults to newest first. A sortBy/sortType pair outside
the whitelist is rejected rather than silently ignored.

Parameters:
  - context: context.Context
  - input: ListInput

Returns:
  - pagination.Page[Summary]
  - error: apperr.InvalidArgument for a bad userId or sort
*/
func (service *Service) ListVideos(context context.Context, input ListInput) (pagination.Page[Summary], error) {
	validator := &validate.Validator{}
	if input.UserID != "" {
		validator.UUID(FieldUserID, input.UserID)
	}
	if err := validator.Err(); err != nil {
		return pagination.Page[Summary]{}, err
	}

	sort, ok := query.ResolveSort(input.SortBy, input.SortType, SortColumns, DefaultSort)
	if !ok {
		return pagination.Page[Summary]{}, apperr.InvalidArgument("Unsupported sortBy or sortType")
	}

	filter := Filter{Query: input.Query, UserID: input.UserID, Sort: sort}
	items, total, err := service.videoRepo.List(context, filter, input.Params)
	if err != nil {
		return pagination.Page[Summary]{}, fmt.Errorf("video_service_list_failed: %w", err)
	}
	return pagination.NewPage(items, input.Params, total), nil
}

/*
GetVideo builds the watch page.

Description: An unpublished video exists only for its owner. For
authenticated viewers the view is counted and the history updated before the
page is returned.

Parameters:
  - context: context.Context
  - id: string
  - viewerID: string ("" for anonymous)

Returns:
  - *Detail
  - error: apperr.NotFound if missing or hidden
*/
func (service *Service) GetVideo(context context.Context, id, viewerID string) (*Detail, error) {
	detail, err := service.videoRepo.Detail(context, id, viewerID)
	if err != nil {
		return nil, err
	}

	if !detail.IsPublished && detail.OwnerID() != viewerID {
		return nil, apperr.NotFound("Video")
	}

	if viewerID != "" {
		if err := service.videoRepo.RecordView(context, id, viewerID); err != nil {
			return nil, fmt.Errorf("video_service_record_view_failed: %w", err)
		}
		detail.Views++
	}

	return detail, nil
}

// # Catalogue Management

/*
Publish uploads the media and creates an unpublished video.

Parameters:
  - context: context.Context
  - ownerID: string
  - draft: Draft
  - videoFile: storage.Upload
  - thumbnail: storage.Upload

Returns:
  - *Video: The created entity
  - error: Validation, storage or persistence failures
*/
func (service *Service) Publish(context context.Context, ownerID string, draft Draft, videoFile, thumbnail storage.Upload) (*Video, error) {
	validator := &validate.Validator{}
	validator.Required(FieldTitle, draft.Title).
		MaxLen(FieldTitle, draft.Title, MaxTitleLength).
		Required(FieldDescription, draft.Description).
		Custom(FieldDuration, draft.Duration < 0, "Duration must not be negative")
	if err := validator.Err(); err != nil {
		return nil, err
	}

	videoObject, err := service.media.Put(context, constants.MediaFolderVideos, videoFile)
	if err != nil {
		return nil, err
	}

	thumbnailObject, err := service.media.Put(context, constants.MediaFolderThumbnails, thumbnail)
	if err != nil {
		service.deleteMedia(context, videoObject.Key)
		return nil, err
	}

	now := time.Now().UTC()
	video := &Video{
		ID:           uuid.New(),
		Owner:        ownerID,
		Title:        draft.Title,
		Description:  draft.Description,
		VideoFileURL: videoObject.URL,
		VideoFileKey: videoObject.Key,
		ThumbnailURL: thumbnailObject.URL,
		ThumbnailKey: thumbnailObject.Key,
		Duration:     draft.Duration,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := service.videoRepo.Create(context, video); err != nil {
		service.deleteMedia(context, videoObject.Key, thumbnailObject.Key)
		return nil, fmt.Errorf("video_service_publish_failed: %w", err)
	}

	ctxutil.GetLogger(context).InfoContext(context, "video_published", slog.String("video_id", video.ID), slog.String("owner_id", ownerID))
	return video, nil
}

// UpdateInput defines the editable video details.
type UpdateInput struct {
	Title       string
	Description string
}

/*
UpdateVideo edits the details and optionally replaces the thumbnail.

Parameters:
  - context: context.Context
  - principalID: string
  - id: string
  - input: UpdateInput
  - thumbnail: *storage.Upload (nil keeps the current one)

Returns:
  - *Video: The updated entity
  - error: apperr.Forbidden for non-owners, validation or persistence failures
*/
func (service *Service) UpdateVideo(context context.Context, principalID, id string, input UpdateInput, thumbnail *storage.Upload) (*Video, error) {
	validator := &validate.Validator{}
	validator.Required(FieldTitle, input.Title).
		MaxLen(FieldTitle, input.Title, MaxTitleLength).
		Required(FieldDescription, input.Description)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	current, err := service.authorize(context, principalID, id)
	if err != nil {
		return nil, err
	}

	changes := Changes{Title: input.Title, Description: input.Description}
	if thumbnail != nil {
		object, err := service.media.Put(context, constants.MediaFolderThumbnails, *thumbnail)
		if err != nil {
			return nil, err
		}
		changes.Thumbnail = &object
	}

	updated, err := service.videoRepo.Update(context, id, changes)
	if err != nil {
		if changes.Thumbnail != nil {
			service.deleteMedia(context, changes.Thumbnail.Key)
		}
		return nil, fmt.Errorf("video_service_update_failed: %w", err)
	}

	if changes.Thumbnail != nil {
		service.deleteMedia(context, current.ThumbnailKey)
	}

	ctxutil.GetLogger(context).InfoContext(context, "video_updated", slog.String("video_id", id))
	return updated, nil
}

/*
TogglePublish flips the visibility of a video.

Parameters:
  - context: context.Context
  - principalID: string
  - id: string

Returns:
  - *Video: The updated entity
  - error: apperr.Forbidden for non-owners
*/
func (service *Service) TogglePublish(context context.Context, principalID, id string) (*Video, error) {
	if _, err := service.authorize(context, principalID, id); err != nil {
		return nil, err
	}

	updated, err := service.videoRepo.TogglePublish(context, id)
	if err != nil {
		return nil, fmt.Errorf("video_service_toggle_publish_failed: %w", err)
	}

	ctxutil.GetLogger(context).InfoContext(context, "video_visibility_changed", slog.String("video_id", id), slog.Bool("published", updated.IsPublished))
	return updated, nil
}

/*
DeleteVideo removes a video, its edges and finally its media objects.

Description: Media deletion runs after the transaction commits. A failure there
is logged and does not fail the call because the video is already gone.

Parameters:
  - context: context.Context
  - principalID: string
  - id: string

Returns:
  - error: apperr.Forbidden for non-owners, apperr.NotFound
*/
func (service *Service) DeleteVideo(context context.Context, principalID, id string) error {
	current, err := service.authorize(context, principalID, id)
	if err != nil {
		return err
	}

	if err := service.videoRepo.Delete(context, id); err != nil {
		return fmt.Errorf("video_service_delete_failed: %w", err)
	}

	service.deleteMedia(context, current.VideoFileKey, current.ThumbnailKey)
	ctxutil.GetLogger(context).InfoContext(context, "video_deleted", slog.String("video_id", id), slog.String("owner_id", principalID))
	return nil
}

// # Helpers

// authorize loads the video and checks ownership before any mutation.
func (service *Service) authorize(context context.Context, principalID, id string) (*Video, error) {
	current, err := service.videoRepo.FindByID(context, id)
	if err != nil {
		return nil, err
	}
	if err := sec.AuthorizeOwner(principalID, current); err != nil {
		return nil, err
	}
	return current, nil
}

func (service *Service) deleteMedia(context context.Context, keys ...string) {
	for _, key := range keys {
		if key == "" {
			continue
		}
		if err := service.media.Delete(context, key); err != nil {
			ctxutil.GetLogger(context).WarnContext(context, "media_delete_failed", slog.String("key", key), slog.Any("error", err))
		}
	}
}
