package storage

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// ObjectStorer is the subset of the minio client the store relies on.
type ObjectStorer interface {
	BucketExists(ctx context.Context, bucketName string) (bool, error)
	MakeBucket(ctx context.Context, bucketName string, opts minio.MakeBucketOptions) error
	FPutObject(
		ctx context.Context, bucketName, objectName, filePath string, opts minio.PutObjectOptions,
	) (minio.UploadInfo, error)
}

// S3Store publishes generated map artifacts to an S3-compatible bucket.
type S3Store struct {
	client ObjectStorer
	log    *slog.Logger
}

// NewS3Store connects to an S3-compatible endpoint with static credentials.
func NewS3Store(endpoint, accessKey, secretKey string, useSSL bool, log *slog.Logger) (*S3Store, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create S3 client: %w", err)
	}

	log.Info("Connected to S3 endpoint.", "endpoint", endpoint)

	return &S3Store{client: client, log: log}, nil
}

// NewS3StoreWithClient creates an S3Store with a custom client.
// This is primarily used for testing with fake clients.
func NewS3StoreWithClient(client ObjectStorer, log *slog.Logger) *S3Store {
	return &S3Store{client: client, log: log}
}

// EnsureBucket creates the bucket when it does not exist yet.
func (s *S3Store) EnsureBucket(ctx context.Context, bucket string) error {
	exists, err := s.client.BucketExists(ctx, bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket existence: %w", err)
	}

	if !exists {
		if err = s.client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
			return fmt.Errorf("failed to create bucket: %w", err)
		}
		s.log.InfoContext(ctx, "Bucket was created.", "bucket", bucket)
	}

	return nil
}

// UploadFile uploads the artifact at path into the bucket under its base
// name, with a content type derived from the file extension.
func (s *S3Store) UploadFile(ctx context.Context, bucket, path string) error {
	object := filepath.Base(path)

	info, err := s.client.FPutObject(ctx, bucket, object, path, minio.PutObjectOptions{
		ContentType: contentTypeFor(path),
	})
	if err != nil {
		return fmt.Errorf("failed to upload %s: %w", object, err)
	}

	s.log.InfoContext(ctx, "Artifact was uploaded.",
		"bucket", bucket, "object", object, "size", info.Size)

	return nil
}

func contentTypeFor(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".html":
		return "text/html"
	case ".geojson", ".json":
		return "application/geo+json"
	default:
		return "application/octet-stream"
	}
}
