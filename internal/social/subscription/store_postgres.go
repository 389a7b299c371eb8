// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package subscription

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/vidtube/internal/core/view"
	"github.com/taibuivan/vidtube/internal/platform/database/schema"
	"github.com/taibuivan/vidtube/internal/platform/dberr"
	"github.com/taibuivan/vidtube/internal/platform/postgres"
	"github.com/taibuivan/vidtube/pkg/pagination"
	"github.com/taibuivan/vidtube/pkg/query"
)

// PostgresSubscriptionRepository implements [SubscriptionRepository] using pgx.
type PostgresSubscriptionRepository struct {
	pool *pgxpool.Pool
}

// NewSubscriptionRepository creates a new Postgres implementation of the SubscriptionRepository.
func NewSubscriptionRepository(pool *pgxpool.Pool) *PostgresSubscriptionRepository {
	return &PostgresSubscriptionRepository{pool: pool}
}

// latestVideo renders the newest published video of channelColumn as a JSON
// object, or NULL when the channel has none.
func latestVideo(channelColumn string) string {
	video := schema.CoreVideo
	return fmt.Sprintf(`(SELECT json_build_object(
			'id', lv.%s, 'title', lv.%s, 'description', lv.%s, 'videoFile', lv.%s,
			'thumbnail', lv.%s, 'duration', lv.%s, 'views', lv.%s, 'createdAt', lv.%s)
		FROM %s lv
		WHERE lv.%s = %s AND lv.%s
		ORDER BY lv.%s DESC
		LIMIT 1)`,
		video.ID, video.Title, video.Description, video.VideoFileURL,
		video.ThumbnailURL, video.Duration, video.Views, video.CreatedAt,
		video.Table,
		video.OwnerID, channelColumn, video.IsPublished,
		video.CreatedAt,
	)
}

/*
Subscribers lists subscribers with their own subscriber count and whether the
channel subscribes back.

Parameters:
  - context: context.Context
  - channelID: string
  - params: pagination.Params

Returns:
  - []Subscriber
  - int: Total
  - error: Database failure
*/
func (repository *PostgresSubscriptionRepository) Subscribers(context context.Context, channelID string, params pagination.Params) ([]Subscriber, int, error) {
	subscription := schema.SocialSubscription

	builder := query.Select(view.OwnerColumns("a")...).
		Column(view.SubscribersCount("a."+schema.UserAccount.ID)).
		Column(view.SubscribedBack("s."+subscription.ChannelID, "s."+subscription.SubscriberID)).
		Column("s."+subscription.CreatedAt).
		From(subscription.Table+" s").
		Join(view.JoinOwner("a", "s."+subscription.SubscriberID)).
		Where("s."+subscription.ChannelID+" = ?", channelID).
		OrderBy("s."+subscription.CreatedAt, query.Desc).
		WithTotal().
		Paginate(params.Limit, params.Offset())

	sql, args := builder.Build()

	rows, err := repository.pool.Query(context, sql, args...)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "channel_subscribers")
	}
	defer rows.Close()

	var (
		items []Subscriber
		total int
	)
	for rows.Next() {
		var item Subscriber
		targets := append(item.Owner.Targets(), &item.SubscribersCount, &item.SubscribedBack, &item.SubscribedAt, &total)
		if err := rows.Scan(targets...); err != nil {
			return nil, 0, dberr.Wrap(err, "scan_subscriber")
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, dberr.Wrap(err, "channel_subscribers")
	}

	total, err = postgres.PageTotal(context, repository.pool, builder, len(items), total)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "channel_subscribers_count")
	}
	return items, total, nil
}

/*
SubscribedChannels lists followed channels with their newest published video.

Parameters:
  - context: context.Context
  - subscriberID: string
  - params: pagination.Params

Returns:
  - []SubscribedChannel
  - int: Total
  - error: Database failure
*/
func (repository *PostgresSubscriptionRepository) SubscribedChannels(context context.Context, subscriberID string, params pagination.Params) ([]SubscribedChannel, int, error) {
	subscription := schema.SocialSubscription

	builder := query.Select(view.OwnerColumns("c")...).
		Column(view.SubscribersCount("c."+schema.UserAccount.ID)).
		Column(latestVideo("c."+schema.UserAccount.ID)).
		Column("s."+subscription.CreatedAt).
		From(subscription.Table+" s").
		Join(view.JoinOwner("c", "s."+subscription.ChannelID)).
		Where("s."+subscription.SubscriberID+" = ?", subscriberID).
		OrderBy("s."+subscription.CreatedAt, query.Desc).
		WithTotal().
		Paginate(params.Limit, params.Offset())

	sql, args := builder.Build()

	rows, err := repository.pool.Query(context, sql, args...)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "subscribed_channels")
	}
	defer rows.Close()

	var (
		items []SubscribedChannel
		total int
	)
	for rows.Next() {
		var item SubscribedChannel
		targets := append(item.Owner.Targets(), &item.SubscribersCount, &item.LatestVideo, &item.SubscribedAt, &total)
		if err := rows.Scan(targets...); err != nil {
			return nil, 0, dberr.Wrap(err, "scan_subscribed_channel")
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, dberr.Wrap(err, "subscribed_channels")
	}

	total, err = postgres.PageTotal(context, repository.pool, builder, len(items), total)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "subscribed_channels_count")
	}
	return items, total, nil
}
