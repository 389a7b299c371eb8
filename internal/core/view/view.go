// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package view holds the SQL fragments shared by every derived read view.

Stores compose them into a [query.Builder]:

	builder := query.Select(view.OwnerColumns("o")...).
		Column(view.LikesCount(schema.LikeTargetVideo, "v.id")+" AS likescount").
		Column(view.IsLiked(schema.LikeTargetVideo, "v.id")+" AS isliked", view.Viewer(principalID)).
		From("core.video v").
		Join(view.JoinOwner("o", "v.ownerid"))

Fragments that bind the viewer use a "?" placeholder. An anonymous viewer binds
NULL, which makes every personalized flag false.
*/
package view

import (
	"fmt"
	"time"

	"github.com/taibuivan/vidtube/internal/platform/database/schema"
)

// Owner is the public projection of the principal attached to content.
type Owner struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	FullName string `json:"fullName"`
	Avatar   string `json:"avatar"`
}

// OwnerColumns lists the projection columns of the account aliased alias.
func OwnerColumns(alias string) []string {
	return []string{
		alias + "." + schema.UserAccount.ID,
		alias + "." + schema.UserAccount.Username,
		alias + "." + schema.UserAccount.FullName,
		alias + "." + schema.UserAccount.AvatarURL,
	}
}

// Targets returns scan destinations in [OwnerColumns] order.
func (owner *Owner) Targets() []any {
	return []any{&owner.ID, &owner.Username, &owner.FullName, &owner.Avatar}
}

// JoinOwner attaches the account aliased alias whose id equals ownerColumn.
func JoinOwner(alias, ownerColumn string) string {
	return fmt.Sprintf("JOIN %s %s ON %s.%s = %s",
		schema.UserAccount.Table, alias, alias, schema.UserAccount.ID, ownerColumn)
}

// Viewer is the argument bound to personalized flags.
func Viewer(principalID string) any {
	if principalID == "" {
		return nil
	}
	return principalID
}

// # Counts

// LikesCount counts likes of kind on the entity in targetColumn.
// kind must be one of the schema.LikeTarget constants.
func LikesCount(kind, targetColumn string) string {
	return fmt.Sprintf("(SELECT COUNT(*) FROM %s lc WHERE lc.%s = '%s' AND lc.%s = %s)",
		schema.SocialLike.Table, schema.SocialLike.TargetKind, kind, schema.SocialLike.TargetID, targetColumn)
}

// SubscribersCount counts subscribers of the channel in channelColumn.
func SubscribersCount(channelColumn string) string {
	return fmt.Sprintf("(SELECT COUNT(*) FROM %s sc WHERE sc.%s = %s)",
		schema.SocialSubscription.Table, schema.SocialSubscription.ChannelID, channelColumn)
}

// SubscribedToCount counts channels the principal in subscriberColumn follows.
func SubscribedToCount(subscriberColumn string) string {
	return fmt.Sprintf("(SELECT COUNT(*) FROM %s st WHERE st.%s = %s)",
		schema.SocialSubscription.Table, schema.SocialSubscription.SubscriberID, subscriberColumn)
}

// # Personalized Flags

// IsLiked reports whether the viewer (one "?" argument) liked the entity.
func IsLiked(kind, targetColumn string) string {
	return fmt.Sprintf("EXISTS (SELECT 1 FROM %s il WHERE il.%s = '%s' AND il.%s = %s AND il.%s = ?)",
		schema.SocialLike.Table, schema.SocialLike.TargetKind, kind,
		schema.SocialLike.TargetID, targetColumn, schema.SocialLike.LikedBy)
}

// IsSubscribed reports whether the viewer (one "?" argument) subscribes to
// the channel in channelColumn.
func IsSubscribed(channelColumn string) string {
	return fmt.Sprintf("EXISTS (SELECT 1 FROM %s iss WHERE iss.%s = %s AND iss.%s = ?)",
		schema.SocialSubscription.Table, schema.SocialSubscription.ChannelID, channelColumn,
		schema.SocialSubscription.SubscriberID)
}

// SubscribedBack reports whether the channel in channelColumn subscribes to
// the principal in subscriberColumn.
func SubscribedBack(channelColumn, subscriberColumn string) string {
	return fmt.Sprintf("EXISTS (SELECT 1 FROM %s sbk WHERE sbk.%s = %s AND sbk.%s = %s)",
		schema.SocialSubscription.Table, schema.SocialSubscription.SubscriberID, channelColumn,
		schema.SocialSubscription.ChannelID, subscriberColumn)
}

// # Video Card

// VideoCard is the compact video projection used by listings.
type VideoCard struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	VideoFile   string    `json:"videoFile"`
	Thumbnail   string    `json:"thumbnail"`
	Duration    float64   `json:"duration"`
	Views       int64     `json:"views"`
	CreatedAt   time.Time `json:"createdAt"`
	Owner       Owner     `json:"owner"`
}

// VideoCardColumns lists the card columns of video alias followed by the
// owner projection of ownerAlias.
func VideoCardColumns(alias, ownerAlias string) []string {
	video := schema.CoreVideo
	columns := []string{
		alias + "." + video.ID,
		alias + "." + video.Title,
		alias + "." + video.Description,
		alias + "." + video.VideoFileURL,
		alias + "." + video.ThumbnailURL,
		alias + "." + video.Duration,
		alias + "." + video.Views,
		alias + "." + video.CreatedAt,
	}
	return append(columns, OwnerColumns(ownerAlias)...)
}

// Targets returns scan destinations in [VideoCardColumns] order.
func (card *VideoCard) Targets() []any {
	return append([]any{
		&card.ID, &card.Title, &card.Description, &card.VideoFile,
		&card.Thumbnail, &card.Duration, &card.Views, &card.CreatedAt,
	}, card.Owner.Targets()...)
}
