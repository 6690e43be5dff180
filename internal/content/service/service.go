// Package service implements the dashboard-managed site content: partners,
// FAQ entries and customer cases, with their images kept in object storage.
package service

import (
	"context"
	"fmt"
	"strings"

	"vitrine_backend/internal/adapters/storage"
	"vitrine_backend/internal/content/repository"
	"vitrine_backend/internal/content/transport"
	"vitrine_backend/platform/apperr"
	"vitrine_backend/platform/logger"
	"vitrine_backend/platform/validator"

	"github.com/google/uuid"
)

// Buckets names the object storage buckets used for content images.
type Buckets struct {
	PartnerLogos string
	CaseImages   string
}

// Service provides business logic for site content.
type Service struct {
	repo    repository.Repository
	storage storage.StorageService
	buckets Buckets
	val     *validator.Validator
	log     *logger.Logger
}

// New creates a new content service.
func New(repo repository.Repository, storageSvc storage.StorageService, buckets Buckets, val *validator.Validator, log *logger.Logger) *Service {
	return &Service{repo: repo, storage: storageSvc, buckets: buckets, val: val, log: log}
}

func presign(ctx context.Context, s *Service, bucket, folder string, req transport.PresignRequest) (transport.PresignResponse, error) {
	if err := s.val.Check(req); err != nil {
		return transport.PresignResponse{}, err
	}
	url, err := s.storage.GenerateUploadURL(ctx, bucket, folder, req.FileName, req.ContentType, req.SizeBytes)
	if err != nil {
		return transport.PresignResponse{}, err
	}
	return transport.PresignResponse{UploadURL: url.URL, FileKey: url.FileKey, ExpiresAt: url.ExpiresAt}, nil
}

// checkKey accepts only keys issued for folder, so one record cannot point at another's upload.
func checkKey(key *string, folder string) error {
	if key == nil {
		return nil
	}
	if !strings.HasPrefix(*key, folder+"/") || strings.Contains(*key, "..") {
		return apperr.Field("fileKey", "does not belong to this record")
	}
	return nil
}

// removeObject deletes a replaced image. Failures leave an orphan object and are only logged.
func (s *Service) removeObject(ctx context.Context, bucket string, key *string) {
	if key == nil || *key == "" {
		return
	}
	if err := s.storage.DeleteObject(ctx, bucket, *key); err != nil {
		s.log.WithContext(ctx).Warn("failed to delete stored image", "bucket", bucket, "key", *key, "error", err)
	}
}

func (s *Service) downloadURL(ctx context.Context, bucket string, key *string) *string {
	if key == nil || *key == "" {
		return nil
	}
	url, err := s.storage.GenerateDownloadURL(ctx, bucket, *key)
	if err != nil {
		s.log.WithContext(ctx).Debug("image url unavailable", "bucket", bucket, "key", *key, "error", err)
		return nil
	}
	return &url.URL
}

func partnerFolder(id uuid.UUID) string {
	return fmt.Sprintf("partners/%s", id)
}

func caseFolder(id uuid.UUID) string {
	return fmt.Sprintf("cases/%s", id)
}
