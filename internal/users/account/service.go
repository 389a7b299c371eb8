// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/taibuivan/vidtube/internal/platform/constants"
	"github.com/taibuivan/vidtube/internal/platform/ctxutil"
	"github.com/taibuivan/vidtube/internal/platform/storage"
	"github.com/taibuivan/vidtube/internal/users/auth"
)

// # Service Layer

// Service orchestrates profile reads and updates.
type Service struct {
	accountRepository AccountRepository
	media             storage.Store
}

// NewService constructs a new [Service] with its dependencies.
func NewService(accountRepo AccountRepository, media storage.Store) *Service {
	return &Service{
		accountRepository: accountRepo,
		media:             media,
	}
}

// # Profile Management

/*
CurrentUser retrieves the public projection of the caller.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - *auth.User: The hydrated user profile
  - error: Not found or execution failures
*/
func (service *Service) CurrentUser(context context.Context, userID string) (*auth.User, error) {
	return service.accountRepository.FindByID(context, userID)
}

// UpdateAccountInput defines the mutable account details.
type UpdateAccountInput struct {
	FullName string
	Email    string
}

/*
UpdateAccount replaces the full name and email.

Parameters:
  - context: context.Context
  - userID: string
  - input: UpdateAccountInput

Returns:
  - *auth.User: The updated user profile
  - error: Conflict if the email belongs to another account
*/
func (service *Service) UpdateAccount(context context.Context, userID string, input UpdateAccountInput) (*auth.User, error) {
	user, err := service.accountRepository.UpdateDetails(context, userID, input.FullName, auth.NormalizeIdentity(input.Email))
	if err != nil {
		return nil, err
	}

	ctxutil.GetLogger(context).InfoContext(context, "user_account_updated", slog.String("user_id", userID))
	return user, nil
}

/*
UpdateAvatar uploads a new avatar and retires the old object.

Parameters:
  - context: context.Context
  - userID: string
  - upload: storage.Upload

Returns:
  - *auth.User: The updated user profile
  - error: Storage or persistence failures
*/
func (service *Service) UpdateAvatar(context context.Context, userID string, upload storage.Upload) (*auth.User, error) {
	return service.replaceMedia(context, userID, SlotAvatar, constants.MediaFolderAvatars, upload)
}

/*
UpdateCoverImage uploads a new cover image and retires the old object.

Parameters:
  - context: context.Context
  - userID: string
  - upload: storage.Upload

Returns:
  - *auth.User: The updated user profile
  - error: Storage or persistence failures
*/
func (service *Service) UpdateCoverImage(context context.Context, userID string, upload storage.Upload) (*auth.User, error) {
	return service.replaceMedia(context, userID, SlotCoverImage, constants.MediaFolderCovers, upload)
}

func (service *Service) replaceMedia(context context.Context, userID string, slot MediaSlot, folder string, upload storage.Upload) (*auth.User, error) {
	object, err := service.media.Put(context, folder, upload)
	if err != nil {
		return nil, err
	}

	previousKey, err := service.accountRepository.ReplaceMedia(context, userID, slot, object)
	if err != nil {
		service.deleteMedia(context, object.Key)
		return nil, fmt.Errorf("account_service_replace_media_failed: %w", err)
	}

	// The row already points at the new object; a leftover old object is only logged.
	if previousKey != "" {
		service.deleteMedia(context, previousKey)
	}

	ctxutil.GetLogger(context).InfoContext(context, "user_media_replaced", slog.String("user_id", userID), slog.String("folder", folder))
	return service.accountRepository.FindByID(context, userID)
}

func (service *Service) deleteMedia(context context.Context, key string) {
	if err := service.media.Delete(context, key); err != nil {
		ctxutil.GetLogger(context).WarnContext(context, "media_delete_failed", slog.String("key", key), slog.Any("error", err))
	}
}

// # Channel Views

/*
ChannelProfile retrieves the public channel view of a username.

Parameters:
  - context: context.Context
  - username: string
  - viewerID: string ("" for anonymous)

Returns:
  - *ChannelProfile: Aggregated profile
  - error: NotFound if the channel does not exist
*/
func (service *Service) ChannelProfile(context context.Context, username, viewerID string) (*ChannelProfile, error) {
	return service.accountRepository.ChannelProfile(context, auth.NormalizeIdentity(username), viewerID)
}

/*
WatchHistory lists the caller's watched videos, most recent first.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - []HistoryEntry: Watched videos
  - error: Retrieval failures
*/
func (service *Service) WatchHistory(context context.Context, userID string) ([]HistoryEntry, error) {
	entries, err := service.accountRepository.WatchHistory(context, userID)
	if err != nil {
		return nil, fmt.Errorf("account_service_watch_history_failed: %w", err)
	}
	return entries, nil
}
