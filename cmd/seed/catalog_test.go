package main

import (
	"strings"
	"testing"

	"vitrine_backend/platform/validator"

	"github.com/google/uuid"
)

func TestEmbeddedCatalogIsValid(t *testing.T) {
	catalog, err := loadCatalog("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(catalog.Options) == 0 || len(catalog.Offers) == 0 {
		t.Fatalf("expected options and offers, got %d/%d", len(catalog.Options), len(catalog.Offers))
	}

	val := validator.New()
	ids := map[string]uuid.UUID{}
	for i, o := range catalog.Options {
		if err := val.Check(o.request(i)); err != nil {
			t.Fatalf("option %s: %v", o.Slug, err)
		}
		ids[o.Slug] = uuid.New()
	}

	featured := 0
	for i, o := range catalog.Offers {
		req, err := o.request(i, ids)
		if err != nil {
			t.Fatalf("offer %s: %v", o.Slug, err)
		}
		if err := val.Check(req); err != nil {
			t.Fatalf("offer %s: %v", o.Slug, err)
		}
		if req.IsFeatured {
			featured++
		}
	}
	if featured > 1 {
		t.Fatalf("expected at most one featured offer, got %d", featured)
	}
}

func TestOfferRequestRejectsUnknownOption(t *testing.T) {
	offer := seedOffer{Slug: "lancement", Options: []string{"missing"}}
	_, err := offer.request(0, map[string]uuid.UUID{})
	if err == nil || !strings.Contains(err.Error(), "missing") {
		t.Fatalf("expected unknown option error, got %v", err)
	}
}
