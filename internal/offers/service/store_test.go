package service

import (
	"context"
	"errors"
	"sort"
	"time"

	"vitrine_backend/internal/offers/repository"
	"vitrine_backend/platform/apperr"

	"github.com/google/uuid"
)

var errInjected = errors.New("injected failure")

// memState is the committed content of memStore.
type memState struct {
	offers   map[uuid.UUID]repository.Offer
	features map[uuid.UUID][]repository.Feature
	steps    map[uuid.UUID][]repository.Step
	useCases map[uuid.UUID][]repository.UseCase
	links    map[uuid.UUID][]uuid.UUID
	options  map[uuid.UUID]repository.Option
}

func newMemState() *memState {
	return &memState{
		offers:   map[uuid.UUID]repository.Offer{},
		features: map[uuid.UUID][]repository.Feature{},
		steps:    map[uuid.UUID][]repository.Step{},
		useCases: map[uuid.UUID][]repository.UseCase{},
		links:    map[uuid.UUID][]uuid.UUID{},
		options:  map[uuid.UUID]repository.Option{},
	}
}

func (s *memState) clone() *memState {
	c := newMemState()
	for k, v := range s.offers {
		c.offers[k] = v
	}
	for k, v := range s.features {
		c.features[k] = append([]repository.Feature(nil), v...)
	}
	for k, v := range s.steps {
		c.steps[k] = append([]repository.Step(nil), v...)
	}
	for k, v := range s.useCases {
		c.useCases[k] = append([]repository.UseCase(nil), v...)
	}
	for k, v := range s.links {
		c.links[k] = append([]uuid.UUID(nil), v...)
	}
	for k, v := range s.options {
		c.options[k] = v
	}
	return c
}

// memStore is a transactional in-memory Repository. A transaction works on a
// copy of the state that replaces the committed one only when fn succeeds.
type memStore struct {
	state   *memState
	failOn  string
	txCount int
}

func newMemStore() *memStore {
	return &memStore{state: newMemState()}
}

var _ repository.Repository = (*memStore)(nil)

func (m *memStore) WithTx(ctx context.Context, fn func(tx repository.Tx) error) error {
	m.txCount++
	work := m.state.clone()
	if err := fn(&memTx{state: work, failOn: m.failOn}); err != nil {
		return err
	}
	m.state = work
	return nil
}

func (m *memStore) ListOffers(ctx context.Context) ([]repository.Offer, error) {
	out := make([]repository.Offer, 0, len(m.state.offers))
	for id := range m.state.offers {
		out = append(out, m.state.load(id))
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].SortOrder != out[j].SortOrder {
			return out[i].SortOrder < out[j].SortOrder
		}
		return out[i].Title < out[j].Title
	})
	return out, nil
}

func (m *memStore) GetOfferByID(ctx context.Context, id uuid.UUID) (repository.Offer, error) {
	if _, ok := m.state.offers[id]; !ok {
		return repository.Offer{}, apperr.NotFound(offerNotFoundMsg)
	}
	return m.state.load(id), nil
}

func (m *memStore) GetOfferBySlug(ctx context.Context, slug string) (repository.Offer, error) {
	for id, o := range m.state.offers {
		if o.Slug == slug {
			return m.state.load(id), nil
		}
	}
	return repository.Offer{}, apperr.NotFound(offerNotFoundMsg)
}

func (m *memStore) ListOptions(ctx context.Context) ([]repository.Option, error) {
	out := make([]repository.Option, 0, len(m.state.options))
	for _, o := range m.state.options {
		out = append(out, o)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SortOrder < out[j].SortOrder })
	return out, nil
}

func (m *memStore) GetOption(ctx context.Context, id uuid.UUID) (repository.Option, error) {
	o, ok := m.state.options[id]
	if !ok {
		return repository.Option{}, apperr.NotFound("offer option not found")
	}
	return o, nil
}

func (m *memStore) CreateOption(ctx context.Context, opt repository.Option) (repository.Option, error) {
	for _, o := range m.state.options {
		if o.Slug == opt.Slug {
			return repository.Option{}, apperr.Field("slug", "is already used by another option")
		}
	}
	opt.CreatedAt, opt.UpdatedAt = time.Now(), time.Now()
	m.state.options[opt.ID] = opt
	return opt, nil
}

func (m *memStore) UpdateOption(ctx context.Context, opt repository.Option) (repository.Option, error) {
	if _, ok := m.state.options[opt.ID]; !ok {
		return repository.Option{}, apperr.NotFound("offer option not found")
	}
	opt.UpdatedAt = time.Now()
	m.state.options[opt.ID] = opt
	return opt, nil
}

func (m *memStore) DeleteOption(ctx context.Context, id uuid.UUID) error {
	if _, ok := m.state.options[id]; !ok {
		return apperr.NotFound("offer option not found")
	}
	delete(m.state.options, id)
	for offerID, ids := range m.state.links {
		kept := ids[:0]
		for _, linked := range ids {
			if linked != id {
				kept = append(kept, linked)
			}
		}
		m.state.links[offerID] = kept
	}
	return nil
}

func (m *memStore) featuredIDs() []uuid.UUID {
	var ids []uuid.UUID
	for id, o := range m.state.offers {
		if o.IsFeatured {
			ids = append(ids, id)
		}
	}
	return ids
}

func (s *memState) load(id uuid.UUID) repository.Offer {
	o := s.offers[id]
	o.Features = append([]repository.Feature{}, s.features[id]...)
	sort.SliceStable(o.Features, func(i, j int) bool { return o.Features[i].SortOrder < o.Features[j].SortOrder })
	o.Steps = append([]repository.Step{}, s.steps[id]...)
	sort.SliceStable(o.Steps, func(i, j int) bool { return o.Steps[i].SortOrder < o.Steps[j].SortOrder })
	o.UseCases = append([]repository.UseCase{}, s.useCases[id]...)
	sort.SliceStable(o.UseCases, func(i, j int) bool { return o.UseCases[i].SortOrder < o.UseCases[j].SortOrder })
	o.OptionIDs = append([]uuid.UUID{}, s.links[id]...)
	return o
}

type memTx struct {
	state  *memState
	failOn string
}

func (t *memTx) fail(step string) error {
	if t.failOn == step {
		return errInjected
	}
	return nil
}

func (t *memTx) OfferExists(ctx context.Context, id uuid.UUID) (bool, error) {
	_, ok := t.state.offers[id]
	return ok, t.fail("OfferExists")
}

func (t *memTx) MissingOptionIDs(ctx context.Context, ids []uuid.UUID) ([]uuid.UUID, error) {
	var missing []uuid.UUID
	for _, id := range ids {
		if _, ok := t.state.options[id]; !ok {
			missing = append(missing, id)
		}
	}
	return missing, t.fail("MissingOptionIDs")
}

func (t *memTx) UnfeatureOthers(ctx context.Context, keepID uuid.UUID) error {
	for id, o := range t.state.offers {
		if id != keepID && o.IsFeatured {
			o.IsFeatured = false
			t.state.offers[id] = o
		}
	}
	return t.fail("UnfeatureOthers")
}

func (t *memTx) UpsertOffer(ctx context.Context, offer repository.Offer) error {
	for id, o := range t.state.offers {
		if id != offer.ID && o.Slug == offer.Slug {
			return apperr.Field("slug", "is already used by another offer")
		}
	}
	now := time.Now()
	if existing, ok := t.state.offers[offer.ID]; ok {
		offer.CreatedAt = existing.CreatedAt
	} else {
		offer.CreatedAt = now
	}
	offer.UpdatedAt = now
	t.state.offers[offer.ID] = offer
	return t.fail("UpsertOffer")
}

func (t *memTx) ReplaceOptionLinks(ctx context.Context, offerID uuid.UUID, optionIDs []uuid.UUID) error {
	t.state.links[offerID] = append([]uuid.UUID(nil), optionIDs...)
	return t.fail("ReplaceOptionLinks")
}

func (t *memTx) ReplaceFeatures(ctx context.Context, offerID uuid.UUID, features []repository.Feature) error {
	t.state.features[offerID] = append([]repository.Feature(nil), features...)
	return t.fail("ReplaceFeatures")
}

func (t *memTx) ReplaceSteps(ctx context.Context, offerID uuid.UUID, steps []repository.Step) error {
	t.state.steps[offerID] = append([]repository.Step(nil), steps...)
	return t.fail("ReplaceSteps")
}

func (t *memTx) ReplaceUseCases(ctx context.Context, offerID uuid.UUID, useCases []repository.UseCase) error {
	t.state.useCases[offerID] = append([]repository.UseCase(nil), useCases...)
	return t.fail("ReplaceUseCases")
}

func (t *memTx) DeleteOffer(ctx context.Context, id uuid.UUID) (bool, error) {
	_, ok := t.state.offers[id]
	delete(t.state.features, id)
	delete(t.state.steps, id)
	delete(t.state.useCases, id)
	delete(t.state.links, id)
	delete(t.state.offers, id)
	return ok, t.fail("DeleteOffer")
}

func (t *memTx) GetOffer(ctx context.Context, id uuid.UUID) (repository.Offer, error) {
	if _, ok := t.state.offers[id]; !ok {
		return repository.Offer{}, apperr.NotFound(offerNotFoundMsg)
	}
	return t.state.load(id), t.fail("GetOffer")
}
