// Package backup uploads point-in-time snapshots of the watch list to
// S3-compatible object storage.
package backup

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/dmitrijs2005/watchkeeper/internal/models"
	sc "github.com/dmitrijs2005/watchkeeper/internal/server/config"
	"github.com/google/uuid"
)

// Snapshotter stores a copy of the full list.
type Snapshotter interface {
	Snapshot(ctx context.Context, items []models.WatchListItem) (string, error)
}

// putObjectAPI is the part of *s3.Client the uploader needs.
type putObjectAPI interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) putObjectAPI {
		return s3.NewFromConfig(cfg, optFns...)
	}
)

// Document is the JSON body of a snapshot object.
type Document struct {
	TakenAt time.Time              `json:"taken_at"`
	Count   int                    `json:"count"`
	Items   []models.WatchListItem `json:"items"`
}

// S3Snapshotter writes snapshots to snapshots/YYYY/MM/DD/<uuid>.json.
type S3Snapshotter struct {
	client putObjectAPI
	bucket string
	now    func() time.Time
	newID  func() string
}

// NewS3Snapshotter builds an uploader from the server's S3 settings.
// Static credentials are used when an access key is configured, the
// default AWS chain otherwise.
func NewS3Snapshotter(ctx context.Context, cfg *sc.Config) (*S3Snapshotter, error) {
	opts := []func(*config.LoadOptions) error{config.WithRegion(cfg.S3Region)}
	if cfg.S3AccessKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.S3AccessKey, cfg.S3SecretKey, "")))
	}

	awsCfg, err := loadDefaultAWSConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("aws config: %w", err)
	}

	client := newS3ClientFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.S3BaseEndpoint != "" {
			o.BaseEndpoint = aws.String(cfg.S3BaseEndpoint)
			o.UsePathStyle = true
		}
	})

	return &S3Snapshotter{
		client: client,
		bucket: cfg.S3Bucket,
		now:    time.Now,
		newID:  uuid.NewString,
	}, nil
}

// SnapshotKey returns the object key of a snapshot taken at t.
func SnapshotKey(t time.Time, id string) string {
	t = t.UTC()
	return fmt.Sprintf("snapshots/%04d/%02d/%02d/%s.json", t.Year(), t.Month(), t.Day(), id)
}

// Snapshot uploads items and returns the object key.
func (s *S3Snapshotter) Snapshot(ctx context.Context, items []models.WatchListItem) (string, error) {
	now := s.now()
	if items == nil {
		items = []models.WatchListItem{}
	}

	body, err := json.Marshal(Document{TakenAt: now.UTC(), Count: len(items), Items: items})
	if err != nil {
		return "", fmt.Errorf("marshal snapshot: %w", err)
	}

	key := SnapshotKey(now, s.newID())
	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return "", fmt.Errorf("put snapshot %s: %w", key, err)
	}

	return key, nil
}
