// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/sony/gobreaker/v2"

	"github.com/taibuivan/vidtube/internal/platform/apperr"
	"github.com/taibuivan/vidtube/internal/platform/metrics"
)

// Circuit breaker tuning for the object store.
const (
	breakerName             = "s3-media"
	breakerFailureThreshold = 5
	breakerOpenTimeout      = 30 * time.Second
	breakerInterval         = time.Minute
	breakerHalfOpenRequests = 1
	uploadPartSize          = 5 * 1024 * 1024
)

// S3Config selects the bucket and credentials of the media store.
type S3Config struct {
	Bucket          string
	Region          string
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	PublicBaseURL   string
}

type objectUploader interface {
	Upload(ctx context.Context, input *s3.PutObjectInput, opts ...func(*manager.Uploader)) (*manager.UploadOutput, error)
}

type objectDeleter interface {
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// S3Store stores media in an S3-compatible bucket.
//
// Calls go through a circuit breaker: after consecutive failures the store
// fails fast with 503 instead of holding requests open on a dead endpoint.
type S3Store struct {
	uploader objectUploader
	deleter  objectDeleter
	bucket   string
	baseURL  string
	breaker  *gobreaker.CircuitBreaker[struct{}]
}

// NewS3Store configures an uploader for the bucket described by cfg.
func NewS3Store(ctx context.Context, cfg S3Config, logger *slog.Logger) (*S3Store, error) {
	if strings.TrimSpace(cfg.Bucket) == "" {
		return nil, errors.New("storage: bucket is required")
	}

	loadOptions := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}

	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		loadOptions = append(loadOptions, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOptions...)
	if err != nil {
		return nil, fmt.Errorf("storage: load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(options *s3.Options) {
		if cfg.Endpoint != "" {
			options.BaseEndpoint = aws.String(cfg.Endpoint)
			options.UsePathStyle = true
		}
	})

	uploader := manager.NewUploader(client, func(u *manager.Uploader) {
		u.PartSize = uploadPartSize
		u.LeavePartsOnError = false
	})

	return newS3Store(uploader, client, cfg.Bucket, cfg.PublicBaseURL, logger), nil
}

func newS3Store(uploader objectUploader, deleter objectDeleter, bucket, baseURL string, logger *slog.Logger) *S3Store {
	settings := gobreaker.Settings{
		Name:        breakerName,
		MaxRequests: breakerHalfOpenRequests,
		Interval:    breakerInterval,
		Timeout:     breakerOpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= breakerFailureThreshold
		},
		// A client that gave up is not a storage failure.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			metrics.StorageCircuitState.Set(float64(to))
			logger.Warn("storage_circuit_state_changed",
				slog.String("breaker", name),
				slog.String("from", from.String()),
				slog.String("to", to.String()),
			)
		},
	}

	return &S3Store{
		uploader: uploader,
		deleter:  deleter,
		bucket:   bucket,
		baseURL:  strings.TrimSuffix(baseURL, "/"),
		breaker:  gobreaker.NewCircuitBreaker[struct{}](settings),
	}
}

// Put uploads the file under folder and returns its key and public URL.
func (store *S3Store) Put(ctx context.Context, folder string, upload Upload) (Object, error) {
	key := ObjectKey(folder, upload.Filename)

	input := &s3.PutObjectInput{
		Bucket: aws.String(store.bucket),
		Key:    aws.String(key),
		Body:   upload.Body,
	}
	if upload.ContentType != "" {
		input.ContentType = aws.String(upload.ContentType)
	}

	err := store.call(ctx, "put", func() error {
		_, err := store.uploader.Upload(ctx, input)
		return err
	})
	if err != nil {
		return Object{}, err
	}

	return Object{Key: key, URL: publicURL(store.baseURL, key)}, nil
}

// Delete removes the object. Deleting a missing key succeeds.
func (store *S3Store) Delete(ctx context.Context, key string) error {
	if key == "" {
		return nil
	}

	return store.call(ctx, "delete", func() error {
		_, err := store.deleter.DeleteObject(ctx, &s3.DeleteObjectInput{
			Bucket: aws.String(store.bucket),
			Key:    aws.String(key),
		})
		return err
	})
}

// call runs fn through the breaker and records its latency.
func (store *S3Store) call(ctx context.Context, operation string, fn func() error) error {
	start := time.Now()

	_, err := store.breaker.Execute(func() (struct{}, error) {
		return struct{}{}, fn()
	})
	metrics.RecordStorageOperation(operation, err, time.Since(start))

	switch {
	case err == nil:
		return nil
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		return apperr.ServiceUnavailable("Media storage is temporarily unavailable").WithCause(err)
	case ctx.Err() != nil:
		return fmt.Errorf("storage_%s_canceled: %w", operation, ctx.Err())
	default:
		return apperr.Internal(fmt.Errorf("storage_%s_failed: %w", operation, err))
	}
}
