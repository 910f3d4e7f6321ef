// Package media stores uploaded images in S3 and hands out presigned
// upload URLs so clients push image bytes directly to the bucket.
package media

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/vartahub/newsdesk/internal/apperr"
)

const presignTTL = 15 * time.Minute

type Store struct {
	client  *s3.Client
	presign *s3.PresignClient
	bucket  string
	region  string
	logger  *slog.Logger
	now     func() time.Time
}

func NewStore(ctx context.Context, bucket, region string, logger *slog.Logger) (*Store, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config: %w", err)
	}
	client := s3.NewFromConfig(cfg)
	return &Store{
		client:  client,
		presign: s3.NewPresignClient(client),
		bucket:  bucket,
		region:  region,
		logger:  logger,
		now:     time.Now,
	}, nil
}

// ObjectKey builds the storage key for an upload: the original name gets
// a millisecond timestamp suffix so re-uploads never collide.
func (s *Store) ObjectKey(prefix, filename string) string {
	ext := strings.TrimPrefix(filepath.Ext(filename), ".")
	if ext == "" {
		ext = "jpg"
	}
	name := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	return fmt.Sprintf("%s/%s_%d.%s", prefix, name, s.now().UnixMilli(), ext)
}

// Upload streams the file body into the bucket and returns its key.
func (s *Store) Upload(ctx context.Context, prefix, filename string, body io.Reader, contentType string) (string, error) {
	key := s.ObjectKey(prefix, filename)
	if contentType == "" {
		contentType = guessContentType(filename)
	}

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		s.logger.Error("object upload failed", "key", key, "error", err)
		return "", apperr.NewUpstreamWrap("failed to upload object", err)
	}
	return key, nil
}

// PresignedUpload is one direct-upload grant.
type PresignedUpload struct {
	UploadURL string `json:"upload_url"`
	Key       string `json:"key"`
}

// PresignUploads allocates keys and presigned PUT URLs for the given
// filenames.
func (s *Store) PresignUploads(ctx context.Context, prefix string, filenames []string) ([]PresignedUpload, error) {
	uploads := make([]PresignedUpload, 0, len(filenames))
	for _, filename := range filenames {
		key := s.ObjectKey(prefix, filename)
		req, err := s.presign.PresignPutObject(ctx, &s3.PutObjectInput{
			Bucket: aws.String(s.bucket),
			Key:    aws.String(key),
		}, s3.WithPresignExpires(presignTTL))
		if err != nil {
			s.logger.Error("presign failed", "key", key, "error", err)
			return nil, apperr.NewUpstreamWrap("failed to presign upload", err)
		}
		uploads = append(uploads, PresignedUpload{UploadURL: req.URL, Key: key})
	}
	return uploads, nil
}

// ObjectURL is the public URL of a stored object. Empty keys yield an
// empty URL.
func (s *Store) ObjectURL(key string) string {
	return ObjectURL(s.bucket, s.region, key)
}

func ObjectURL(bucket, region, key string) string {
	if key == "" {
		return ""
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", bucket, region, key)
}

// ImageRef pairs a stored key with its public URL.
type ImageRef struct {
	URL string `json:"url"`
	Key string `json:"key"`
}

func (s *Store) ImageRefs(keys []string) []ImageRef {
	refs := make([]ImageRef, 0, len(keys))
	for _, key := range keys {
		refs = append(refs, ImageRef{URL: s.ObjectURL(key), Key: key})
	}
	return refs
}

func guessContentType(filename string) string {
	if ct := mime.TypeByExtension(filepath.Ext(filename)); ct != "" {
		return ct
	}
	return "application/octet-stream"
}
