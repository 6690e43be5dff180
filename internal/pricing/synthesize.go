package pricing

import (
	"math"
	"strings"

	"github.com/google/uuid"
)

var monthlyTokens = []string{"mois", "month"}

// Synthesize computes the estimate for sel against offer and catalog.
// It never fails: unknown ids are skipped and negative quantities, prices
// or durations are clamped to zero. offer may be nil.
func Synthesize(offer *Offer, catalog []Option, sel Selection) Synthesis {
	byID := make(map[uuid.UUID]Option, len(catalog))
	for _, opt := range catalog {
		if _, dup := byID[opt.ID]; !dup {
			byID[opt.ID] = opt
		}
	}

	out := Synthesis{
		IncludedOptionIDs: []uuid.UUID{},
		ExtraOptionIDs:    []uuid.UUID{},
		Lines:             []Line{},
	}
	if offer != nil {
		out.TotalDurationDays = nonNegative(offer.DurationDays)
	}

	seen := make(map[uuid.UUID]bool)
	if offer != nil {
		for _, id := range offer.IncludedOptionIDs {
			if seen[id] {
				continue
			}
			seen[id] = true
			out.IncludedOptionIDs = append(out.IncludedOptionIDs, id)

			opt, ok := byID[id]
			if !ok {
				continue
			}
			out.addLine(opt, includedQuantity(sel.Quantities, id), true)
		}
	}

	// Extras follow catalog order so the output is stable across map iteration.
	for _, opt := range catalog {
		if seen[opt.ID] || !sel.has(opt.ID) {
			continue
		}
		seen[opt.ID] = true
		out.ExtraOptionIDs = append(out.ExtraOptionIDs, opt.ID)
		out.addLine(opt, extraQuantity(sel.Quantities, opt.ID), false)
	}

	out.OneTimeTotalLabel = FormatCents(out.OneTimeTotalCents)
	if out.MonthlyTotalCents > 0 {
		out.MonthlyTotalLabel = FormatMonthly(out.MonthlyTotalCents)
	}
	return out
}

func (s *Synthesis) addLine(opt Option, qty int, included bool) {
	unit, defined := unitPrice(opt)
	line := Line{
		OptionID:     opt.ID,
		Title:        opt.Title,
		PricingType:  opt.PricingType,
		Quantity:     qty,
		Included:     included,
		ToBeDefined:  !defined,
		PriceLabel:   FormatPrice(opt),
		DurationDays: saturatingDays(nonNegative(opt.DurationDays), qty),
	}

	s.TotalDurationDays = clampDays(int64(s.TotalDurationDays) + int64(line.DurationDays))

	switch opt.PricingType {
	case PricingFixed, PricingFrom, PricingPerUnit:
		line.AmountCents = saturatingMul(unit, int64(qty))
		if IsRecurring(opt) {
			line.Cadence = CadenceMonthly
			s.MonthlyTotalCents = saturatingAdd(s.MonthlyTotalCents, line.AmountCents)
		} else {
			line.Cadence = CadenceOneTime
			s.OneTimeTotalCents = saturatingAdd(s.OneTimeTotalCents, line.AmountCents)
		}
		if opt.PricingType == PricingFrom || !defined {
			s.Estimate = true
		}
	default:
		// QUOTE_ONLY and unknown types price nothing and belong to neither total.
		s.Estimate = true
	}

	s.Lines = append(s.Lines, line)
}

// unitPrice returns the per-unit amount for the option's pricing type and
// whether the matching price field was set.
func unitPrice(opt Option) (int64, bool) {
	var p *int64
	switch opt.PricingType {
	case PricingFixed:
		p = opt.PriceCents
	case PricingFrom:
		p = opt.PriceFromCents
	case PricingPerUnit:
		p = opt.UnitPriceCents
	case PricingQuoteOnly:
		return 0, true
	}
	if p == nil {
		return 0, false
	}
	if *p < 0 {
		return 0, true
	}
	return *p, true
}

// IsRecurring reports whether the option bills monthly. An explicit cadence
// wins; otherwise a unit label mentioning "mois" or "month" marks it monthly.
func IsRecurring(opt Option) bool {
	switch opt.BillingCadence {
	case CadenceMonthly:
		return true
	case CadenceOneTime:
		return false
	}
	if opt.UnitLabel == nil {
		return false
	}
	label := strings.ToLower(*opt.UnitLabel)
	for _, token := range monthlyTokens {
		if strings.Contains(label, token) {
			return true
		}
	}
	return false
}

func includedQuantity(quantities map[uuid.UUID]int, id uuid.UUID) int {
	qty, ok := quantities[id]
	if !ok || qty < 1 {
		return 1
	}
	return qty
}

func extraQuantity(quantities map[uuid.UUID]int, id uuid.UUID) int {
	qty, ok := quantities[id]
	if !ok {
		return 1
	}
	return nonNegative(qty)
}

// saturatingMul and saturatingAdd take non-negative operands and cap at
// math.MaxInt64.
func saturatingMul(a, b int64) int64 {
	if a == 0 || b == 0 {
		return 0
	}
	if a > math.MaxInt64/b {
		return math.MaxInt64
	}
	return a * b
}

func saturatingAdd(a, b int64) int64 {
	if a > math.MaxInt64-b {
		return math.MaxInt64
	}
	return a + b
}

func saturatingDays(days, qty int) int {
	return clampDays(saturatingMul(int64(days), int64(qty)))
}

func clampDays(v int64) int {
	if v > math.MaxInt32 {
		return math.MaxInt32
	}
	return int(v)
}

func nonNegative(v int) int {
	if v < 0 {
		return 0
	}
	return v
}
