// Package storage uploads dataset archives to MinIO object storage.
package storage

import (
	"context"
	"fmt"
	"io"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"

	"github.com/ressKim-io/BullyGuard/internal/infrastructure/config"
)

const zipContentType = "application/zip"

type objectStore interface {
	BucketExists(ctx context.Context, bucketName string) (bool, error)
	MakeBucket(ctx context.Context, bucketName string, opts minio.MakeBucketOptions) error
	PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
}

// Uploader puts objects into a single bucket
type Uploader struct {
	client objectStore
	bucket string
	logger *zap.Logger
}

// NewMinIOUploader creates a MinIO client for cfg
func NewMinIOUploader(cfg *config.MinIOConfig, logger *zap.Logger) (*Uploader, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}
	return newUploader(client, cfg.Bucket, logger), nil
}

func newUploader(client objectStore, bucket string, logger *zap.Logger) *Uploader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Uploader{client: client, bucket: bucket, logger: logger}
}

// EnsureBucket creates the bucket if it does not exist
func (u *Uploader) EnsureBucket(ctx context.Context) error {
	exists, err := u.client.BucketExists(ctx, u.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket %s: %w", u.bucket, err)
	}
	if exists {
		return nil
	}

	u.logger.Info("Creating bucket", zap.String("bucket", u.bucket))
	if err := u.client.MakeBucket(ctx, u.bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("failed to create bucket %s: %w", u.bucket, err)
	}
	return nil
}

// UploadArchive stores a zip archive of the given size under objectName
func (u *Uploader) UploadArchive(ctx context.Context, objectName string, r io.Reader, size int64) error {
	if err := u.EnsureBucket(ctx); err != nil {
		return err
	}

	info, err := u.client.PutObject(ctx, u.bucket, objectName, r, size, minio.PutObjectOptions{
		ContentType: zipContentType,
	})
	if err != nil {
		return fmt.Errorf("failed to upload %s: %w", objectName, err)
	}

	u.logger.Info("Archive uploaded",
		zap.String("bucket", info.Bucket),
		zap.String("object", info.Key),
		zap.Int64("size", info.Size),
	)
	return nil
}
