package pricing

import (
	"sort"

	"github.com/google/uuid"
)

// Selection is a visitor's in-progress configuration. Included options are
// derived from the offer and never need to be listed in SelectedOptionIDs.
// The zero value is an empty selection ready to use.
type Selection struct {
	ServiceOfferID    *uuid.UUID
	SelectedOptionIDs map[uuid.UUID]struct{}
	Quantities        map[uuid.UUID]int
}

// NewSelection builds a selection from submitted ids and quantities.
func NewSelection(offerID *uuid.UUID, optionIDs []uuid.UUID, quantities map[uuid.UUID]int) Selection {
	sel := Selection{
		ServiceOfferID:    offerID,
		SelectedOptionIDs: make(map[uuid.UUID]struct{}, len(optionIDs)),
		Quantities:        make(map[uuid.UUID]int, len(quantities)),
	}
	for _, id := range optionIDs {
		sel.SelectedOptionIDs[id] = struct{}{}
	}
	for id, qty := range quantities {
		sel.Quantities[id] = qty
	}
	return sel
}

func (s Selection) has(id uuid.UUID) bool {
	_, ok := s.SelectedOptionIDs[id]
	return ok
}

func (s *Selection) init() {
	if s.SelectedOptionIDs == nil {
		s.SelectedOptionIDs = make(map[uuid.UUID]struct{})
	}
	if s.Quantities == nil {
		s.Quantities = make(map[uuid.UUID]int)
	}
}

// Seed binds the selection to offer and raises every included option to a quantity of at least 1.
func (s *Selection) Seed(offer *Offer) {
	s.init()
	if offer == nil {
		s.ServiceOfferID = nil
		return
	}
	id := offer.ID
	s.ServiceOfferID = &id
	for _, optID := range offer.IncludedOptionIDs {
		s.Quantities[optID] = includedQuantity(s.Quantities, optID)
	}
}

// IsSelected reports whether id is part of the effective selection.
func (s Selection) IsSelected(offer *Offer, id uuid.UUID) bool {
	return offer.Includes(id) || s.has(id)
}

// Quantity returns the quantity Synthesize will use for id, or 0 when id is not selected.
func (s Selection) Quantity(offer *Offer, id uuid.UUID) int {
	switch {
	case offer.Includes(id):
		return includedQuantity(s.Quantities, id)
	case s.has(id):
		return extraQuantity(s.Quantities, id)
	default:
		return nonNegative(s.Quantities[id])
	}
}

// Toggle adds or removes an extra option. Included options cannot be removed.
func (s *Selection) Toggle(offer *Offer, id uuid.UUID) {
	if offer.Includes(id) {
		return
	}
	s.init()
	if s.has(id) {
		delete(s.SelectedOptionIDs, id)
		delete(s.Quantities, id)
		return
	}
	s.SelectedOptionIDs[id] = struct{}{}
	if s.Quantities[id] < 1 {
		s.Quantities[id] = 1
	}
}

// SetQuantity stores qty for id. Included options floor at 1 and extras at 0;
// a positive quantity on an unselected option selects it.
func (s *Selection) SetQuantity(offer *Offer, id uuid.UUID, qty int) {
	s.init()
	if offer.Includes(id) {
		if qty < 1 {
			qty = 1
		}
		s.Quantities[id] = qty
		return
	}
	qty = nonNegative(qty)
	s.Quantities[id] = qty
	if qty > 0 {
		s.SelectedOptionIDs[id] = struct{}{}
	}
}

// SwitchOffer moves the selection from one offer to another. Options bundled
// by from but not by to stay selected as extras with their quantity; the
// included set is re-seeded from to.
func (s *Selection) SwitchOffer(from, to *Offer) {
	s.init()
	if from != nil {
		for _, id := range from.IncludedOptionIDs {
			if to.Includes(id) {
				continue
			}
			s.SelectedOptionIDs[id] = struct{}{}
			s.Quantities[id] = includedQuantity(s.Quantities, id)
		}
	}
	s.Seed(to)
}

// OptionIDs returns the selected ids merged with the offer's included ids, sorted for storage.
func (s Selection) OptionIDs(offer *Offer) []uuid.UUID {
	set := make(map[uuid.UUID]struct{}, len(s.SelectedOptionIDs))
	for id := range s.SelectedOptionIDs {
		set[id] = struct{}{}
	}
	if offer != nil {
		for _, id := range offer.IncludedOptionIDs {
			set[id] = struct{}{}
		}
	}
	ids := make([]uuid.UUID, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i].String() < ids[j].String() })
	return ids
}
