// Package publish uploads exported artifacts (CSV, PNG, JSON) to S3 and
// returns their public URLs.
package publish

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

// DefaultRegion is used when none is configured.
const DefaultRegion = "us-east-1"

// Content types by artifact extension.
var contentTypes = map[string]string{
	".csv":  "text/csv",
	".png":  "image/png",
	".json": "application/json",
	".txt":  "text/plain; charset=utf-8",
}

// ObjectPutter is the part of the S3 client the uploader needs.
type ObjectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Uploader writes artifacts under a key prefix in one bucket.
type Uploader struct {
	client ObjectPutter
	bucket string
	region string
	prefix string
	logger *slog.Logger
	now    func() time.Time
	newID  func() string
}

// Option configures an Uploader.
type Option func(*Uploader)

// WithPrefix sets the key prefix ("plots" gives plots/<id>-<unix>.png).
func WithPrefix(prefix string) Option {
	return func(u *Uploader) {
		u.prefix = strings.Trim(prefix, "/")
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(u *Uploader) {
		if logger != nil {
			u.logger = logger
		}
	}
}

// NewUploader wraps an existing S3 client.
func NewUploader(client ObjectPutter, bucket, region string, opts ...Option) (*Uploader, error) {
	if client == nil {
		return nil, errors.New("publish: nil S3 client")
	}
	if bucket == "" {
		return nil, errors.New("publish: bucket is required")
	}
	if region == "" {
		region = DefaultRegion
	}
	u := &Uploader{
		client: client,
		bucket: bucket,
		region: region,
		logger: slog.Default(),
		now:    time.Now,
		newID:  func() string { return uuid.New().String() },
	}
	for _, opt := range opts {
		opt(u)
	}
	return u, nil
}

// New loads the default AWS configuration for region and builds an
// Uploader around a real S3 client.
func New(ctx context.Context, bucket, region string, opts ...Option) (*Uploader, error) {
	if region == "" {
		region = DefaultRegion
	}
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return NewUploader(s3.NewFromConfig(cfg), bucket, region, opts...)
}

// Upload stores data under a fresh key with the given extension and
// returns the object URL.
func (u *Uploader) Upload(ctx context.Context, data []byte, ext string) (string, error) {
	if len(data) == 0 {
		return "", errors.New("publish: nothing to upload")
	}
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	ext = strings.ToLower(ext)
	contentType, ok := contentTypes[ext]
	if !ok {
		contentType = "application/octet-stream"
	}

	key := fmt.Sprintf("%s-%d%s", u.newID(), u.now().Unix(), ext)
	if u.prefix != "" {
		key = path.Join(u.prefix, key)
	}

	_, err := u.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(u.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to S3: %w", err)
	}

	url := u.URL(key)
	u.logger.Info("uploaded artifact",
		slog.String("bucket", u.bucket),
		slog.String("key", key),
		slog.Int("bytes", len(data)))
	return url, nil
}

// URL returns the virtual-hosted URL of key.
func (u *Uploader) URL(key string) string {
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", u.bucket, u.region, key)
}
