package service

import (
	"context"

	"vitrine_backend/internal/content/repository"
	"vitrine_backend/internal/content/transport"
	"vitrine_backend/platform/apperr"
	"vitrine_backend/platform/sanitize"
	"vitrine_backend/platform/slug"

	"github.com/google/uuid"
)

func (s *Service) ListCases(ctx context.Context, includeDrafts bool) (transport.CaseListResponse, error) {
	cases, err := s.repo.ListCases(ctx, !includeDrafts)
	if err != nil {
		return transport.CaseListResponse{}, err
	}
	items := make([]transport.CaseResponse, 0, len(cases))
	for _, c := range cases {
		items = append(items, s.toCaseResponse(ctx, c))
	}
	return transport.CaseListResponse{Items: items, Total: len(items)}, nil
}

// GetCaseBySlug returns a case page. Drafts are reported as missing to visitors.
func (s *Service) GetCaseBySlug(ctx context.Context, caseSlug string, includeDrafts bool) (transport.CaseResponse, error) {
	c, err := s.repo.GetCaseBySlug(ctx, caseSlug)
	if err != nil {
		return transport.CaseResponse{}, err
	}
	if !c.IsPublished && !includeDrafts {
		return transport.CaseResponse{}, apperr.NotFound("customer case not found")
	}
	return s.toCaseResponse(ctx, c), nil
}

func (s *Service) GetCase(ctx context.Context, id uuid.UUID) (transport.CaseResponse, error) {
	c, err := s.repo.GetCase(ctx, id)
	if err != nil {
		return transport.CaseResponse{}, err
	}
	return s.toCaseResponse(ctx, c), nil
}

func (s *Service) CreateCase(ctx context.Context, req transport.CaseRequest) (transport.CaseResponse, error) {
	row, err := s.caseRow(uuid.New(), req)
	if err != nil {
		return transport.CaseResponse{}, err
	}
	c, err := s.repo.CreateCase(ctx, row)
	if err != nil {
		return transport.CaseResponse{}, err
	}
	s.log.WithContext(ctx).Info("customer case created", "id", c.ID, "slug", c.Slug)
	return s.toCaseResponse(ctx, c), nil
}

func (s *Service) UpdateCase(ctx context.Context, id uuid.UUID, req transport.CaseRequest) (transport.CaseResponse, error) {
	row, err := s.caseRow(id, req)
	if err != nil {
		return transport.CaseResponse{}, err
	}
	c, err := s.repo.UpdateCase(ctx, row)
	if err != nil {
		return transport.CaseResponse{}, err
	}
	s.log.WithContext(ctx).Info("customer case updated", "id", c.ID, "slug", c.Slug)
	return s.toCaseResponse(ctx, c), nil
}

func (s *Service) DeleteCase(ctx context.Context, id uuid.UUID) error {
	c, err := s.repo.DeleteCase(ctx, id)
	if err != nil {
		return err
	}
	s.removeObject(ctx, s.buckets.CaseImages, c.ImageKey)
	s.log.WithContext(ctx).Info("customer case deleted", "id", id)
	return nil
}

func (s *Service) PresignCaseImage(ctx context.Context, id uuid.UUID, req transport.PresignRequest) (transport.PresignResponse, error) {
	if _, err := s.repo.GetCase(ctx, id); err != nil {
		return transport.PresignResponse{}, err
	}
	return presign(ctx, s, s.buckets.CaseImages, caseFolder(id), req)
}

func (s *Service) SetCaseImage(ctx context.Context, id uuid.UUID, req transport.SetImageRequest) (transport.CaseResponse, error) {
	if err := s.val.Check(req); err != nil {
		return transport.CaseResponse{}, err
	}
	if err := checkKey(req.FileKey, caseFolder(id)); err != nil {
		return transport.CaseResponse{}, err
	}
	previous, err := s.repo.SetCaseImage(ctx, id, req.FileKey)
	if err != nil {
		return transport.CaseResponse{}, err
	}
	if previous != nil && (req.FileKey == nil || *previous != *req.FileKey) {
		s.removeObject(ctx, s.buckets.CaseImages, previous)
	}
	return s.GetCase(ctx, id)
}

func (s *Service) caseRow(id uuid.UUID, req transport.CaseRequest) (repository.CustomerCase, error) {
	if err := s.val.Check(req); err != nil {
		return repository.CustomerCase{}, err
	}
	title := sanitize.Line(req.Title)
	caseSlug := req.Slug
	if caseSlug == "" {
		caseSlug = slug.Make(title)
	}
	if caseSlug == "" {
		return repository.CustomerCase{}, apperr.Field("slug", "cannot be derived from the title")
	}
	return repository.CustomerCase{
		ID:          id,
		Title:       title,
		Slug:        caseSlug,
		ClientName:  sanitize.Line(req.ClientName),
		Summary:     sanitize.Text(req.Summary),
		Body:        sanitize.Text(req.Body),
		IsPublished: req.IsPublished,
		SortOrder:   req.Order,
	}, nil
}

func (s *Service) toCaseResponse(ctx context.Context, c repository.CustomerCase) transport.CaseResponse {
	return transport.CaseResponse{
		ID:          c.ID,
		Title:       c.Title,
		Slug:        c.Slug,
		ClientName:  c.ClientName,
		Summary:     c.Summary,
		Body:        c.Body,
		ImageKey:    c.ImageKey,
		ImageURL:    s.downloadURL(ctx, s.buckets.CaseImages, c.ImageKey),
		IsPublished: c.IsPublished,
		Order:       c.SortOrder,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}
