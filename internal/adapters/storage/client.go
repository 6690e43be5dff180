package storage

import (
	"context"
	"fmt"
	"net/url"
	"path"
	"strings"
	"time"

	"vitrine_backend/platform/apperr"
	"vitrine_backend/platform/slug"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

const (
	// PresignedURLTTL is the default expiration time for presigned URLs (15 minutes).
	PresignedURLTTL = 15 * time.Minute

	msgStorageDisabled = "file uploads are not configured"
)

// MinIOService implements StorageService using MinIO.
type MinIOService struct {
	client      *minio.Client
	maxFileSize int64
}

// NewMinIOService creates a new MinIO storage service.
func NewMinIOService(cfg Config) (*MinIOService, error) {
	if !cfg.IsMinIOEnabled() {
		return nil, fmt.Errorf("MinIO is not configured")
	}

	client, err := minio.New(cfg.GetMinIOEndpoint(), &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.GetMinIOAccessKey(), cfg.GetMinIOSecretKey(), ""),
		Secure: cfg.GetMinIOUseSSL(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create MinIO client: %w", err)
	}

	return &MinIOService{
		client:      client,
		maxFileSize: cfg.GetMinIOMaxFileSize(),
	}, nil
}

// EnsureBucketExists creates the bucket if it doesn't exist.
func (s *MinIOService) EnsureBucketExists(ctx context.Context, bucket string) error {
	exists, err := s.client.BucketExists(ctx, bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket existence: %w", err)
	}

	if !exists {
		if err := s.client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
			return fmt.Errorf("failed to create bucket %s: %w", bucket, err)
		}
	}
	return nil
}

// GenerateUploadURL creates a presigned URL for uploading an image.
func (s *MinIOService) GenerateUploadURL(ctx context.Context, bucket, folder, fileName, contentType string, sizeBytes int64) (*PresignedURL, error) {
	if err := ValidateImage(contentType, sizeBytes, s.maxFileSize); err != nil {
		return nil, err
	}

	fileKey := ObjectKey(folder, fileName)
	expiresAt := time.Now().Add(PresignedURLTTL)
	presignedURL, err := s.client.PresignedPutObject(ctx, bucket, fileKey, PresignedURLTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to generate presigned upload URL: %w", err)
	}

	return &PresignedURL{URL: presignedURL.String(), FileKey: fileKey, ExpiresAt: expiresAt}, nil
}

// GenerateDownloadURL creates a presigned URL for downloading a file.
func (s *MinIOService) GenerateDownloadURL(ctx context.Context, bucket, fileKey string) (*PresignedURL, error) {
	expiresAt := time.Now().Add(PresignedURLTTL)
	presignedURL, err := s.client.PresignedGetObject(ctx, bucket, fileKey, PresignedURLTTL, url.Values{})
	if err != nil {
		return nil, fmt.Errorf("failed to generate presigned download URL: %w", err)
	}

	return &PresignedURL{URL: presignedURL.String(), FileKey: fileKey, ExpiresAt: expiresAt}, nil
}

// DeleteObject removes an object from storage.
func (s *MinIOService) DeleteObject(ctx context.Context, bucket, fileKey string) error {
	if err := s.client.RemoveObject(ctx, bucket, fileKey, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("failed to delete object %s: %w", fileKey, err)
	}
	return nil
}

// ObjectKey builds a unique key "folder/<slugged-name>_<8 hex>.<ext>".
func ObjectKey(folder, fileName string) string {
	ext := strings.ToLower(path.Ext(fileName))
	base := slug.Make(strings.TrimSuffix(path.Base(fileName), path.Ext(fileName)))
	if base == "" {
		base = "file"
	}
	return path.Join(folder, fmt.Sprintf("%s_%s%s", base, uuid.New().String()[:8], ext))
}

// Disabled is used when MinIO is not configured. Uploads fail with a clear
// error; deletes are no-ops so removing content never depends on storage.
type Disabled struct{}

func (Disabled) GenerateUploadURL(ctx context.Context, bucket, folder, fileName, contentType string, sizeBytes int64) (*PresignedURL, error) {
	return nil, apperr.New(apperr.KindBadRequest, msgStorageDisabled)
}

func (Disabled) GenerateDownloadURL(ctx context.Context, bucket, fileKey string) (*PresignedURL, error) {
	return nil, apperr.New(apperr.KindBadRequest, msgStorageDisabled)
}

func (Disabled) DeleteObject(ctx context.Context, bucket, fileKey string) error { return nil }

func (Disabled) EnsureBucketExists(ctx context.Context, bucket string) error { return nil }

var (
	_ StorageService = (*MinIOService)(nil)
	_ StorageService = Disabled{}
)
