package pricing

import (
	"strconv"
	"strings"
)

const (
	labelQuoteOnly   = "Sur devis"
	labelToBeDefined = "À définir"
	labelFromPrefix  = "À partir de "
	labelDefaultUnit = "unité"
	labelPerMonth    = " / mois"
)

// FormatCents renders an amount in euros: 5000 -> "50 €", 5050 -> "50,50 €".
func FormatCents(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	euros := strconv.FormatInt(cents/100, 10)
	rest := cents % 100
	if rest == 0 {
		return sign + euros + " €"
	}
	frac := strconv.FormatInt(rest, 10)
	if rest < 10 {
		frac = "0" + frac
	}
	return sign + euros + "," + frac + " €"
}

// FormatMonthly renders a recurring total: 2900 -> "29 € / mois".
func FormatMonthly(cents int64) string {
	return FormatCents(cents) + labelPerMonth
}

// FormatPrice renders the catalog price of an option by pricing type.
func FormatPrice(opt Option) string {
	switch opt.PricingType {
	case PricingQuoteOnly:
		return labelQuoteOnly
	case PricingFixed:
		if opt.PriceCents == nil {
			return labelToBeDefined
		}
		return FormatCents(*opt.PriceCents)
	case PricingFrom:
		if opt.PriceFromCents == nil {
			return labelToBeDefined
		}
		return labelFromPrefix + FormatCents(*opt.PriceFromCents)
	case PricingPerUnit:
		if opt.UnitPriceCents == nil {
			return labelToBeDefined
		}
		return FormatCents(*opt.UnitPriceCents) + " / " + unitLabel(opt)
	default:
		return labelToBeDefined
	}
}

func unitLabel(opt Option) string {
	if opt.UnitLabel == nil {
		return labelDefaultUnit
	}
	if label := strings.TrimSpace(*opt.UnitLabel); label != "" {
		return label
	}
	return labelDefaultUnit
}
