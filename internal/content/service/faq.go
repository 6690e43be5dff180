package service

import (
	"context"

	"vitrine_backend/internal/content/repository"
	"vitrine_backend/internal/content/transport"
	"vitrine_backend/platform/sanitize"

	"github.com/google/uuid"
)

// ListFAQ returns FAQ entries ordered by category. Visitors only see published ones.
func (s *Service) ListFAQ(ctx context.Context, includeDrafts bool) (transport.FAQListResponse, error) {
	entries, err := s.repo.ListFAQ(ctx, !includeDrafts)
	if err != nil {
		return transport.FAQListResponse{}, err
	}
	items := make([]transport.FAQResponse, 0, len(entries))
	for _, e := range entries {
		items = append(items, toFAQResponse(e))
	}
	return transport.FAQListResponse{Items: items, Total: len(items)}, nil
}

func (s *Service) GetFAQ(ctx context.Context, id uuid.UUID) (transport.FAQResponse, error) {
	e, err := s.repo.GetFAQ(ctx, id)
	if err != nil {
		return transport.FAQResponse{}, err
	}
	return toFAQResponse(e), nil
}

func (s *Service) CreateFAQ(ctx context.Context, req transport.FAQRequest) (transport.FAQResponse, error) {
	if err := s.val.Check(req); err != nil {
		return transport.FAQResponse{}, err
	}
	e, err := s.repo.CreateFAQ(ctx, faqRow(uuid.New(), req))
	if err != nil {
		return transport.FAQResponse{}, err
	}
	s.log.WithContext(ctx).Info("faq entry created", "id", e.ID)
	return toFAQResponse(e), nil
}

func (s *Service) UpdateFAQ(ctx context.Context, id uuid.UUID, req transport.FAQRequest) (transport.FAQResponse, error) {
	if err := s.val.Check(req); err != nil {
		return transport.FAQResponse{}, err
	}
	e, err := s.repo.UpdateFAQ(ctx, faqRow(id, req))
	if err != nil {
		return transport.FAQResponse{}, err
	}
	s.log.WithContext(ctx).Info("faq entry updated", "id", e.ID)
	return toFAQResponse(e), nil
}

func (s *Service) DeleteFAQ(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.DeleteFAQ(ctx, id); err != nil {
		return err
	}
	s.log.WithContext(ctx).Info("faq entry deleted", "id", id)
	return nil
}

func faqRow(id uuid.UUID, req transport.FAQRequest) repository.FAQEntry {
	published := true
	if req.IsPublished != nil {
		published = *req.IsPublished
	}
	return repository.FAQEntry{
		ID:          id,
		Question:    sanitize.Line(req.Question),
		Answer:      sanitize.Text(req.Answer),
		Category:    sanitize.Line(req.Category),
		IsPublished: published,
		SortOrder:   req.Order,
	}
}

func toFAQResponse(e repository.FAQEntry) transport.FAQResponse {
	return transport.FAQResponse{
		ID:          e.ID,
		Question:    e.Question,
		Answer:      e.Answer,
		Category:    e.Category,
		IsPublished: e.IsPublished,
		Order:       e.SortOrder,
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
}
