// Package store uploads layer archives to durable object storage.
package store

import (
	"context"
	"fmt"
	"os"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/aws-samples/aws-lambda-layer-deployment-template/internal/ctxlog"
)

// ObjectStore persists a local file under a bucket/key. Implementations do
// not retry; the invocation's wall-clock budget is the only timeout.
type ObjectStore interface {
	Upload(ctx context.Context, bucket, key, path string) error
}

// S3Store is the ObjectStore backed by Amazon S3.
type S3Store struct {
	uploader *manager.Uploader
}

// NewS3Store builds an S3Store from the ambient AWS configuration (the
// Lambda execution role).
func NewS3Store(ctx context.Context) (*S3Store, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
	}
	client := s3.NewFromConfig(cfg)
	return &S3Store{uploader: manager.NewUploader(client)}, nil
}

// Upload streams the file at path to s3://bucket/key, overwriting any
// existing object under that key.
func (s *S3Store) Upload(ctx context.Context, bucket, key, path string) error {
	logger := ctxlog.FromContext(ctx)

	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open archive %s: %w", path, err)
	}
	defer file.Close()

	logger.Info("Uploading archive to S3.", "bucket", bucket, "key", key)

	_, err = s.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket: &bucket,
		Key:    &key,
		Body:   file,
	})
	if err != nil {
		return fmt.Errorf("failed to upload s3://%s/%s: %w", bucket, key, err)
	}

	logger.Info("Archive uploaded.", "bucket", bucket, "key", key)
	return nil
}
