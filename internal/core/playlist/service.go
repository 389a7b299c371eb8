// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package playlist

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/taibuivan/vidtube/internal/platform/apperr"
	"github.com/taibuivan/vidtube/internal/platform/ctxutil"
	"github.com/taibuivan/vidtube/internal/platform/sec"
	"github.com/taibuivan/vidtube/internal/platform/validate"
	"github.com/taibuivan/vidtube/pkg/pagination"
	"github.com/taibuivan/vidtube/pkg/uuid"
)

// Service orchestrates playlist curation.
type Service struct {
	playlistRepo PlaylistRepository
}

// NewService constructs a new playlist [Service].
func NewService(playlistRepo PlaylistRepository) *Service {
	return &Service{playlistRepo: playlistRepo}
}

// # Queries

// GetPlaylist renders one playlist. Playlists themselves are public.
func (service *Service) GetPlaylist(context context.Context, id string) (*Detail, error) {
	detail, err := service.playlistRepo.Detail(context, id)
	if err != nil {
		return nil, fmt.Errorf("playlist_service_detail_failed: %w", err)
	}
	return detail, nil
}

// UserPlaylists lists a channel's playlists with their totals.
func (service *Service) UserPlaylists(context context.Context, userID string, params pagination.Params) (pagination.Page[Summary], error) {
	exists, err := service.playlistRepo.OwnerExists(context, userID)
	if err != nil {
		return pagination.Page[Summary]{}, fmt.Errorf("playlist_service_owner_lookup_failed: %w", err)
	}
	if !exists {
		return pagination.Page[Summary]{}, apperr.NotFound("User")
	}

	items, total, err := service.playlistRepo.ListByOwner(context, userID, params)
	if err != nil {
		return pagination.Page[Summary]{}, fmt.Errorf("playlist_service_list_failed: %w", err)
	}
	return pagination.NewPage(items, params, total), nil
}

// # Commands

// CreatePlaylist stores an empty playlist owned by ownerID.
func (service *Service) CreatePlaylist(context context.Context, ownerID string, draft Draft) (*Playlist, error) {
	draft = normalize(draft)
	if err := validateDraft(draft); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	playlist := &Playlist{
		ID:          uuid.New(),
		Owner:       ownerID,
		Name:        draft.Name,
		Description: draft.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := service.playlistRepo.Create(context, playlist); err != nil {
		return nil, fmt.Errorf("playlist_service_create_failed: %w", err)
	}

	ctxutil.GetLogger(context).InfoContext(context, "playlist_created", slog.String("playlist_id", playlist.ID), slog.String("owner_id", ownerID))
	return playlist, nil
}

// UpdatePlaylist rewrites the header of a playlist owned by the caller.
func (service *Service) UpdatePlaylist(context context.Context, principalID, id string, draft Draft) (*Playlist, error) {
	draft = normalize(draft)
	if err := validateDraft(draft); err != nil {
		return nil, err
	}

	if err := service.authorize(context, principalID, id); err != nil {
		return nil, err
	}

	updated, err := service.playlistRepo.Update(context, id, draft)
	if err != nil {
		return nil, fmt.Errorf("playlist_service_update_failed: %w", err)
	}
	return updated, nil
}

// DeletePlaylist removes a playlist owned by the caller.
func (service *Service) DeletePlaylist(context context.Context, principalID, id string) error {
	if err := service.authorize(context, principalID, id); err != nil {
		return err
	}

	if err := service.playlistRepo.Delete(context, id); err != nil {
		return fmt.Errorf("playlist_service_delete_failed: %w", err)
	}

	ctxutil.GetLogger(context).InfoContext(context, "playlist_deleted", slog.String("playlist_id", id))
	return nil
}

/*
AddVideo appends a video to a playlist owned by the caller.

Description: The caller may add any published video and their own drafts.
Drafts stay hidden from the rendered playlist until published.

Parameters:
  - context: context.Context
  - principalID: string
  - playlistID: string
  - videoID: string

Returns:
  - *Playlist: The touched header
  - error: Forbidden for non-owners, NotFound for invisible videos
*/
func (service *Service) AddVideo(context context.Context, principalID, playlistID, videoID string) (*Playlist, error) {
	if err := service.authorize(context, principalID, playlistID); err != nil {
		return nil, err
	}

	visible, err := service.playlistRepo.VideoVisible(context, videoID, principalID)
	if err != nil {
		return nil, fmt.Errorf("playlist_service_video_lookup_failed: %w", err)
	}
	if !visible {
		return nil, apperr.NotFound("Video")
	}

	updated, err := service.playlistRepo.AddVideo(context, playlistID, videoID)
	if err != nil {
		return nil, fmt.Errorf("playlist_service_add_video_failed: %w", err)
	}
	return updated, nil
}

// RemoveVideo drops a video from a playlist owned by the caller.
func (service *Service) RemoveVideo(context context.Context, principalID, playlistID, videoID string) (*Playlist, error) {
	if err := service.authorize(context, principalID, playlistID); err != nil {
		return nil, err
	}

	updated, err := service.playlistRepo.RemoveVideo(context, playlistID, videoID)
	if err != nil {
		return nil, fmt.Errorf("playlist_service_remove_video_failed: %w", err)
	}
	return updated, nil
}

// # Helpers

func (service *Service) authorize(context context.Context, principalID, id string) error {
	current, err := service.playlistRepo.FindByID(context, id)
	if err != nil {
		return err
	}
	return sec.AuthorizeOwner(principalID, current)
}

func normalize(draft Draft) Draft {
	return Draft{Name: strings.TrimSpace(draft.Name), Description: strings.TrimSpace(draft.Description)}
}

func validateDraft(draft Draft) error {
	validator := &validate.Validator{}
	return validator.
		Required(FieldName, draft.Name).
		MaxLen(FieldName, draft.Name, MaxNameLength).
		Required(FieldDescription, draft.Description).
		MaxLen(FieldDescription, draft.Description, MaxDescriptionLength).
		Err()
}
