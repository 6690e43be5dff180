// Package pricing computes the quote synthesis (totals and duration) for an
// offer, the option catalog and a visitor selection. It is pure: the public
// wizard preview, the admin quote editor, the admin detail view and the
// submission re-check all call the same functions.
package pricing

import "github.com/google/uuid"

// PricingType is the billing shape of an option.
type PricingType string

const (
	PricingFixed     PricingType = "FIXED"
	PricingFrom      PricingType = "FROM"
	PricingPerUnit   PricingType = "PER_UNIT"
	PricingQuoteOnly PricingType = "QUOTE_ONLY"
)

// Valid reports whether t is one of the known pricing types.
func (t PricingType) Valid() bool {
	switch t {
	case PricingFixed, PricingFrom, PricingPerUnit, PricingQuoteOnly:
		return true
	}
	return false
}

// Cadence tells whether an option is billed once or every month.
// CadenceUnset falls back to reading the unit label.
type Cadence string

const (
	CadenceUnset   Cadence = ""
	CadenceOneTime Cadence = "ONE_TIME"
	CadenceMonthly Cadence = "MONTHLY"
)

// Option is the slice of an offer option the synthesizer reads.
// Only the price field matching PricingType is meaningful.
type Option struct {
	ID             uuid.UUID
	Title          string
	PricingType    PricingType
	PriceCents     *int64
	PriceFromCents *int64
	UnitLabel      *string
	UnitPriceCents *int64
	DurationDays   int
	BillingCadence Cadence
}

// Offer is the slice of a service offer the synthesizer reads.
type Offer struct {
	ID                uuid.UUID
	Title             string
	DurationDays      int
	IncludedOptionIDs []uuid.UUID
}

// Includes reports whether id is bundled into the offer. A nil offer includes nothing.
func (o *Offer) Includes(id uuid.UUID) bool {
	if o == nil {
		return false
	}
	for _, included := range o.IncludedOptionIDs {
		if included == id {
			return true
		}
	}
	return false
}

// Line is one priced option of a synthesis.
type Line struct {
	OptionID     uuid.UUID   `json:"optionId"`
	Title        string      `json:"title"`
	PricingType  PricingType `json:"pricingType"`
	Quantity     int         `json:"quantity"`
	Included     bool        `json:"included"`
	AmountCents  int64       `json:"amountCents"`
	Cadence      Cadence     `json:"cadence,omitempty"`
	ToBeDefined  bool        `json:"toBeDefined"`
	PriceLabel   string      `json:"priceLabel"`
	DurationDays int         `json:"durationDays"`
}

// Synthesis is the computed estimate for a selection.
type Synthesis struct {
	IncludedOptionIDs []uuid.UUID `json:"includedOptionIds"`
	ExtraOptionIDs    []uuid.UUID `json:"extraOptionIds"`
	OneTimeTotalCents int64       `json:"oneTimeTotalCents"`
	MonthlyTotalCents int64       `json:"monthlyTotalCents"`
	TotalDurationDays int         `json:"totalDurationDays"`
	OneTimeTotalLabel string      `json:"oneTimeTotalLabel"`
	MonthlyTotalLabel string      `json:"monthlyTotalLabel,omitempty"`
	// Estimate is set when a FROM, QUOTE_ONLY or undefined price makes the totals indicative.
	Estimate bool   `json:"estimate"`
	Lines    []Line `json:"lines"`
}
