package service

import (
	"context"
	"fmt"
	"strings"

	"vitrine_backend/internal/offers/repository"
	"vitrine_backend/internal/offers/transport"
	"vitrine_backend/platform/apperr"
	"vitrine_backend/platform/sanitize"

	"github.com/google/uuid"
)

const offerNotFoundMsg = "service offer not found"

// ListOffers returns every offer with relations ordered by display order.
func (s *Service) ListOffers(ctx context.Context) (transport.OfferListResponse, error) {
	return cached(ctx, s, cacheKeyOffers, func() (transport.OfferListResponse, error) {
		offers, err := s.repo.ListOffers(ctx)
		if err != nil {
			return transport.OfferListResponse{}, err
		}
		items := make([]transport.OfferResponse, 0, len(offers))
		for _, o := range offers {
			items = append(items, toOfferResponse(o))
		}
		return transport.OfferListResponse{Items: items, Total: len(items)}, nil
	})
}

// GetOfferBySlug returns the public detail of one offer.
func (s *Service) GetOfferBySlug(ctx context.Context, slug string) (transport.OfferResponse, error) {
	return cached(ctx, s, cacheKeyOffer+slug, func() (transport.OfferResponse, error) {
		offer, err := s.repo.GetOfferBySlug(ctx, slug)
		if err != nil {
			return transport.OfferResponse{}, err
		}
		return toOfferResponse(offer), nil
	})
}

// GetOffer returns one offer by id.
func (s *Service) GetOffer(ctx context.Context, id uuid.UUID) (transport.OfferResponse, error) {
	offer, err := s.repo.GetOfferByID(ctx, id)
	if err != nil {
		return transport.OfferResponse{}, err
	}
	return toOfferResponse(offer), nil
}

// CreateOffer validates and stores a new offer with all its relations in one transaction.
func (s *Service) CreateOffer(ctx context.Context, req transport.OfferRequest) (transport.OfferResponse, error) {
	offer, err := s.writeOffer(ctx, uuid.New(), req, true)
	if err != nil {
		return transport.OfferResponse{}, err
	}
	s.log.Info("service offer created", "id", offer.ID, "slug", offer.Slug, "featured", offer.IsFeatured)
	return toOfferResponse(offer), nil
}

// UpdateOffer replaces an offer and all its relations in one transaction.
func (s *Service) UpdateOffer(ctx context.Context, id uuid.UUID, req transport.OfferRequest) (transport.OfferResponse, error) {
	offer, err := s.writeOffer(ctx, id, req, false)
	if err != nil {
		return transport.OfferResponse{}, err
	}
	s.log.Info("service offer updated", "id", offer.ID, "slug", offer.Slug, "featured", offer.IsFeatured)
	return toOfferResponse(offer), nil
}

// DeleteOffer removes an offer and its owned rows. Quote requests keep their
// rows and lose the offer reference.
func (s *Service) DeleteOffer(ctx context.Context, id uuid.UUID) error {
	err := s.repo.WithTx(ctx, func(tx repository.Tx) error {
		deleted, err := tx.DeleteOffer(ctx, id)
		if err != nil {
			return err
		}
		if !deleted {
			return apperr.NotFound(offerNotFoundMsg)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.invalidateCatalog(ctx)
	s.log.Info("service offer deleted", "id", id)
	return nil
}

// writeOffer is the aggregate write shared by create and update. Validation
// runs before the transaction opens so a rejected request touches nothing.
func (s *Service) writeOffer(ctx context.Context, id uuid.UUID, req transport.OfferRequest, create bool) (repository.Offer, error) {
	if err := s.val.Check(req); err != nil {
		return repository.Offer{}, err
	}

	row := offerRow(id, req)
	optionIDs := dedupeIDs(req.OfferOptionIDs)
	features, steps, useCases := ownedRows(req)

	var saved repository.Offer
	err := s.repo.WithTx(ctx, func(tx repository.Tx) error {
		if !create {
			exists, err := tx.OfferExists(ctx, id)
			if err != nil {
				return err
			}
			if !exists {
				return apperr.NotFound(offerNotFoundMsg)
			}
		}

		missing, err := tx.MissingOptionIDs(ctx, optionIDs)
		if err != nil {
			return err
		}
		if len(missing) > 0 {
			return apperr.Field("offerOptionIds", unknownOptionsMessage(missing))
		}

		if row.IsFeatured {
			if err := tx.UnfeatureOthers(ctx, id); err != nil {
				return err
			}
		}
		if err := tx.UpsertOffer(ctx, row); err != nil {
			return err
		}
		if err := tx.ReplaceOptionLinks(ctx, id, optionIDs); err != nil {
			return err
		}
		if err := tx.ReplaceFeatures(ctx, id, features); err != nil {
			return err
		}
		if err := tx.ReplaceSteps(ctx, id, steps); err != nil {
			return err
		}
		if err := tx.ReplaceUseCases(ctx, id, useCases); err != nil {
			return err
		}

		saved, err = tx.GetOffer(ctx, id)
		return err
	})
	if err != nil {
		return repository.Offer{}, err
	}

	s.invalidateCatalog(ctx)
	return saved, nil
}

func offerRow(id uuid.UUID, req transport.OfferRequest) repository.Offer {
	return repository.Offer{
		ID:               id,
		Title:            sanitize.Line(req.Title),
		Slug:             req.Slug,
		Subtitle:         sanitize.Line(req.Subtitle),
		ShortDescription: sanitize.Text(req.ShortDescription),
		Description:      sanitize.Text(req.Description),
		PriceLabel:       sanitize.Line(req.PriceLabel),
		DurationLabel:    sanitize.Line(req.DurationLabel),
		EngagementLabel:  sanitize.Line(req.EngagementLabel),
		DurationDays:     req.DurationDays,
		CTALabel:         sanitize.Line(req.CTALabel),
		CTALink:          strings.TrimSpace(req.CTALink),
		IsFeatured:       req.IsFeatured,
		SortOrder:        req.Order,
	}
}

// ownedRows converts the request collections, defaulting order to the array index.
func ownedRows(req transport.OfferRequest) ([]repository.Feature, []repository.Step, []repository.UseCase) {
	features := make([]repository.Feature, 0, len(req.Features))
	for i, f := range req.Features {
		features = append(features, repository.Feature{
			ID:        uuid.New(),
			Label:     sanitize.Line(f.Label),
			Icon:      f.Icon,
			SortOrder: orderOrIndex(f.Order, i),
		})
	}

	steps := make([]repository.Step, 0, len(req.Steps))
	for i, st := range req.Steps {
		steps = append(steps, repository.Step{
			ID:          uuid.New(),
			Title:       sanitize.Line(st.Title),
			Description: sanitize.Text(st.Description),
			SortOrder:   orderOrIndex(st.Order, i),
		})
	}

	useCases := make([]repository.UseCase, 0, len(req.UseCases))
	for i, u := range req.UseCases {
		useCases = append(useCases, repository.UseCase{
			ID:          uuid.New(),
			Title:       sanitize.Line(u.Title),
			Description: sanitize.Text(u.Description),
			SortOrder:   orderOrIndex(u.Order, i),
		})
	}

	return features, steps, useCases
}

func orderOrIndex(order *int, index int) int {
	if order != nil {
		return *order
	}
	return index
}

func dedupeIDs(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func unknownOptionsMessage(ids []uuid.UUID) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = id.String()
	}
	return fmt.Sprintf("unknown option ids: %s", strings.Join(parts, ", "))
}
