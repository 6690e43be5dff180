package pricing

import (
	"testing"

	"github.com/google/uuid"
)

func TestSelection_SeedRaisesIncludedQuantities(t *testing.T) {
	a, b := uuid.New(), uuid.New()
	offer := &Offer{ID: uuid.New(), IncludedOptionIDs: []uuid.UUID{a, b}}
	sel := NewSelection(nil, nil, map[uuid.UUID]int{a: 0, b: 4})

	sel.Seed(offer)

	if sel.ServiceOfferID == nil || *sel.ServiceOfferID != offer.ID {
		t.Fatal("expected selection bound to offer")
	}
	if sel.Quantities[a] != 1 || sel.Quantities[b] != 4 {
		t.Fatalf("expected quantities 1 and 4, got %d and %d", sel.Quantities[a], sel.Quantities[b])
	}
}

func TestSelection_ToggleNeverRemovesIncluded(t *testing.T) {
	included, extra := uuid.New(), uuid.New()
	offer := &Offer{ID: uuid.New(), IncludedOptionIDs: []uuid.UUID{included}}
	var sel Selection
	sel.Seed(offer)

	sel.Toggle(offer, included)
	if !sel.IsSelected(offer, included) {
		t.Fatal("included option must stay selected")
	}

	sel.Toggle(offer, extra)
	if !sel.IsSelected(offer, extra) || sel.Quantity(offer, extra) != 1 {
		t.Fatal("expected extra selected with quantity 1")
	}
	sel.Toggle(offer, extra)
	if sel.IsSelected(offer, extra) {
		t.Fatal("expected extra removed")
	}
}

func TestSelection_SetQuantityFloors(t *testing.T) {
	included, extra := uuid.New(), uuid.New()
	offer := &Offer{ID: uuid.New(), IncludedOptionIDs: []uuid.UUID{included}}
	var sel Selection

	sel.SetQuantity(offer, included, 0)
	if sel.Quantity(offer, included) != 1 {
		t.Fatalf("expected included floor 1, got %d", sel.Quantity(offer, included))
	}

	sel.SetQuantity(offer, extra, -2)
	if sel.Quantity(offer, extra) != 0 || sel.IsSelected(offer, extra) {
		t.Fatal("expected extra clamped to 0 and not selected")
	}
	sel.SetQuantity(offer, extra, 3)
	if sel.Quantity(offer, extra) != 3 || !sel.IsSelected(offer, extra) {
		t.Fatal("expected positive quantity to select the extra")
	}
}

func TestSelection_SwitchOfferKeepsFormerInclusionsAsExtras(t *testing.T) {
	shared, onlyA, onlyB, extra := uuid.New(), uuid.New(), uuid.New(), uuid.New()
	offerA := &Offer{ID: uuid.New(), IncludedOptionIDs: []uuid.UUID{shared, onlyA}}
	offerB := &Offer{ID: uuid.New(), IncludedOptionIDs: []uuid.UUID{shared, onlyB}}
	catalog := []Option{
		fixedOption("shared", 1000, 1),
		fixedOption("only A", 2000, 1),
		fixedOption("only B", 3000, 1),
		fixedOption("extra", 4000, 1),
	}
	catalog[0].ID, catalog[1].ID, catalog[2].ID, catalog[3].ID = shared, onlyA, onlyB, extra

	var sel Selection
	sel.Seed(offerA)
	sel.SetQuantity(offerA, onlyA, 3)
	sel.Toggle(offerA, extra)

	sel.SwitchOffer(offerA, offerB)

	if *sel.ServiceOfferID != offerB.ID {
		t.Fatal("expected selection bound to offer B")
	}
	result := Synthesize(offerB, catalog, sel)

	if len(result.IncludedOptionIDs) != 2 || result.IncludedOptionIDs[0] != shared || result.IncludedOptionIDs[1] != onlyB {
		t.Fatalf("expected B's inclusions, got %v", result.IncludedOptionIDs)
	}
	extras := map[uuid.UUID]bool{}
	for _, id := range result.ExtraOptionIDs {
		extras[id] = true
	}
	if !extras[onlyA] || !extras[extra] || len(extras) != 2 {
		t.Fatalf("expected only-A and extra as extras, got %v", result.ExtraOptionIDs)
	}
	if sel.Quantity(offerB, onlyA) != 3 {
		t.Fatalf("expected quantity of former inclusion kept, got %d", sel.Quantity(offerB, onlyA))
	}

	sel.Toggle(offerB, onlyA)
	if sel.IsSelected(offerB, onlyA) {
		t.Fatal("former inclusion must be removable after the switch")
	}
}

func TestSelection_SwitchToNoOffer(t *testing.T) {
	included := uuid.New()
	offer := &Offer{ID: uuid.New(), IncludedOptionIDs: []uuid.UUID{included}}
	var sel Selection
	sel.Seed(offer)

	sel.SwitchOffer(offer, nil)

	if sel.ServiceOfferID != nil {
		t.Fatal("expected no offer")
	}
	if !sel.IsSelected(nil, included) {
		t.Fatal("expected former inclusion kept as extra")
	}
}

func TestSelection_OptionIDsMergesIncluded(t *testing.T) {
	included, extra := uuid.New(), uuid.New()
	offer := &Offer{ID: uuid.New(), IncludedOptionIDs: []uuid.UUID{included}}
	sel := NewSelection(&offer.ID, []uuid.UUID{extra, included}, nil)

	ids := sel.OptionIDs(offer)
	if len(ids) != 2 {
		t.Fatalf("expected 2 ids, got %v", ids)
	}
}
