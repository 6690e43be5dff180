package service

import (
	"context"

	"vitrine_backend/internal/content/repository"
	"vitrine_backend/internal/content/transport"
	"vitrine_backend/platform/sanitize"

	"github.com/google/uuid"
)

// ListPartners returns all partners in display order.
func (s *Service) ListPartners(ctx context.Context) (transport.PartnerListResponse, error) {
	partners, err := s.repo.ListPartners(ctx)
	if err != nil {
		return transport.PartnerListResponse{}, err
	}
	items := make([]transport.PartnerResponse, 0, len(partners))
	for _, p := range partners {
		items = append(items, s.toPartnerResponse(ctx, p))
	}
	return transport.PartnerListResponse{Items: items, Total: len(items)}, nil
}

func (s *Service) GetPartner(ctx context.Context, id uuid.UUID) (transport.PartnerResponse, error) {
	p, err := s.repo.GetPartner(ctx, id)
	if err != nil {
		return transport.PartnerResponse{}, err
	}
	return s.toPartnerResponse(ctx, p), nil
}

func (s *Service) CreatePartner(ctx context.Context, req transport.PartnerRequest) (transport.PartnerResponse, error) {
	if err := s.val.Check(req); err != nil {
		return transport.PartnerResponse{}, err
	}
	p, err := s.repo.CreatePartner(ctx, partnerRow(uuid.New(), req))
	if err != nil {
		return transport.PartnerResponse{}, err
	}
	s.log.WithContext(ctx).Info("partner created", "id", p.ID, "name", p.Name)
	return s.toPartnerResponse(ctx, p), nil
}

func (s *Service) UpdatePartner(ctx context.Context, id uuid.UUID, req transport.PartnerRequest) (transport.PartnerResponse, error) {
	if err := s.val.Check(req); err != nil {
		return transport.PartnerResponse{}, err
	}
	p, err := s.repo.UpdatePartner(ctx, partnerRow(id, req))
	if err != nil {
		return transport.PartnerResponse{}, err
	}
	s.log.WithContext(ctx).Info("partner updated", "id", p.ID)
	return s.toPartnerResponse(ctx, p), nil
}

// DeletePartner removes the partner and then its logo object.
func (s *Service) DeletePartner(ctx context.Context, id uuid.UUID) error {
	p, err := s.repo.DeletePartner(ctx, id)
	if err != nil {
		return err
	}
	s.removeObject(ctx, s.buckets.PartnerLogos, p.LogoKey)
	s.log.WithContext(ctx).Info("partner deleted", "id", id)
	return nil
}

// PresignPartnerLogo issues an upload URL for a new logo of an existing partner.
func (s *Service) PresignPartnerLogo(ctx context.Context, id uuid.UUID, req transport.PresignRequest) (transport.PresignResponse, error) {
	if _, err := s.repo.GetPartner(ctx, id); err != nil {
		return transport.PresignResponse{}, err
	}
	return presign(ctx, s, s.buckets.PartnerLogos, partnerFolder(id), req)
}

// SetPartnerLogo records an uploaded logo, or clears it, and deletes the previous object.
func (s *Service) SetPartnerLogo(ctx context.Context, id uuid.UUID, req transport.SetImageRequest) (transport.PartnerResponse, error) {
	if err := s.val.Check(req); err != nil {
		return transport.PartnerResponse{}, err
	}
	if err := checkKey(req.FileKey, partnerFolder(id)); err != nil {
		return transport.PartnerResponse{}, err
	}
	previous, err := s.repo.SetPartnerLogo(ctx, id, req.FileKey)
	if err != nil {
		return transport.PartnerResponse{}, err
	}
	if previous != nil && (req.FileKey == nil || *previous != *req.FileKey) {
		s.removeObject(ctx, s.buckets.PartnerLogos, previous)
	}
	return s.GetPartner(ctx, id)
}

func partnerRow(id uuid.UUID, req transport.PartnerRequest) repository.Partner {
	return repository.Partner{
		ID:          id,
		Name:        sanitize.Line(req.Name),
		WebsiteURL:  req.WebsiteURL,
		Description: sanitize.Text(req.Description),
		SortOrder:   req.Order,
	}
}

func (s *Service) toPartnerResponse(ctx context.Context, p repository.Partner) transport.PartnerResponse {
	return transport.PartnerResponse{
		ID:          p.ID,
		Name:        p.Name,
		WebsiteURL:  p.WebsiteURL,
		Description: p.Description,
		LogoKey:     p.LogoKey,
		LogoURL:     s.downloadURL(ctx, s.buckets.PartnerLogos, p.LogoKey),
		Order:       p.SortOrder,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}
