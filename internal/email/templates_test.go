package email

import (
	"strings"
	"testing"
)

func sampleQuote() QuoteSummary {
	return QuoteSummary{
		QuoteID:      "7d3c",
		CustomerName: "Léa <script>Martin</script>",
		Email:        "lea@example.com",
		OfferTitle:   "Site vitrine",
		Lines: []Line{
			{Title: "Hébergement", Quantity: 1, Included: true, PriceLabel: "0 €"},
			{Title: "Page supplémentaire", Quantity: 3, PriceLabel: "75 €"},
		},
		OneTimeTotal: "1 575 €",
		MonthlyTotal: "15 €",
		DurationDays: 21,
		AdminURL:     "https://admin.example.com/quotes/7d3c",
	}
}

func TestRenderQuoteNotification(t *testing.T) {
	html, err := renderQuoteNotification(sampleQuote())
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	for _, want := range []string{"Site vitrine", "Page supplémentaire × 3", "1 575 €", "21 jours", "(inclus)", "https://admin.example.com/quotes/7d3c"} {
		if !strings.Contains(html, want) {
			t.Errorf("expected %q in notification", want)
		}
	}
	if strings.Contains(html, "<script>") {
		t.Fatal("expected customer input to be escaped")
	}
}

func TestRenderQuoteAcknowledgement_OmitsEmptySections(t *testing.T) {
	q := sampleQuote()
	q.MonthlyTotal = ""
	q.RendezvousAt = ""

	html, err := renderQuoteAcknowledgement(q)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if strings.Contains(html, "Mensuel") {
		t.Error("expected no monthly row without a monthly total")
	}
	if strings.Contains(html, "rendez-vous du") {
		t.Error("expected no rendez-vous paragraph without a rendez-vous")
	}
	if strings.Contains(html, "tableau de bord") {
		t.Error("expected no dashboard link in the visitor email")
	}
}

func TestRenderRendezvousConfirmation(t *testing.T) {
	html, err := renderRendezvousConfirmation(RendezvousSummary{CustomerName: "Léa", Topic: "Refonte", ScheduledAt: "lundi 2 mars 2026 à 10:00"})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	for _, want := range []string{"Léa", "Refonte", "lundi 2 mars 2026 à 10:00"} {
		if !strings.Contains(html, want) {
			t.Errorf("expected %q in confirmation", want)
		}
	}
}

func TestRenderRendezvousReminder(t *testing.T) {
	html, err := renderRendezvousReminder(RendezvousSummary{CustomerName: "Léa", ScheduledAt: "mardi 3 mars 2026 à 14:30"})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(html, "mardi 3 mars 2026 à 14:30") {
		t.Fatal("expected the slot in the reminder")
	}
	if strings.Contains(html, "au sujet de") {
		t.Fatal("expected no topic sentence without a topic")
	}
}
