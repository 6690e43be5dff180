// Package email renders and delivers the transactional emails of the site:
// quote notifications for the owner, quote acknowledgements and rendez-vous
// confirmations for visitors.
package email

import "context"

// Line is one priced line of a quote summary.
type Line struct {
	Title      string `json:"title"`
	Quantity   int    `json:"quantity"`
	Included   bool   `json:"included"`
	PriceLabel string `json:"priceLabel"`
}

// QuoteSummary carries everything the quote emails display. It travels as a
// task payload, so every field is plain data.
type QuoteSummary struct {
	QuoteID      string `json:"quoteId"`
	CustomerName string `json:"customerName"`
	Email        string `json:"email"`
	Phone        string `json:"phone,omitempty"`
	Company      string `json:"company,omitempty"`
	OfferTitle   string `json:"offerTitle,omitempty"`
	Message      string `json:"message,omitempty"`
	Lines        []Line `json:"lines"`
	OneTimeTotal string `json:"oneTimeTotal"`
	MonthlyTotal string `json:"monthlyTotal,omitempty"`
	DurationDays int    `json:"durationDays"`
	RendezvousAt string `json:"rendezvousAt,omitempty"`
	AdminURL     string `json:"adminUrl,omitempty"`
}

type RendezvousSummary struct {
	CustomerName string `json:"customerName"`
	Topic        string `json:"topic,omitempty"`
	ScheduledAt  string `json:"scheduledAt"`
}

type Sender interface {
	SendQuoteNotification(ctx context.Context, toEmail string, quote QuoteSummary) error
	SendQuoteAcknowledgement(ctx context.Context, toEmail string, quote QuoteSummary) error
	SendRendezvousConfirmation(ctx context.Context, toEmail string, rv RendezvousSummary) error
	SendRendezvousReminder(ctx context.Context, toEmail string, rv RendezvousSummary) error
}

// NoopSender is used when SMTP is not configured.
type NoopSender struct{}

func (NoopSender) SendQuoteNotification(ctx context.Context, toEmail string, quote QuoteSummary) error {
	return nil
}

func (NoopSender) SendQuoteAcknowledgement(ctx context.Context, toEmail string, quote QuoteSummary) error {
	return nil
}

func (NoopSender) SendRendezvousConfirmation(ctx context.Context, toEmail string, rv RendezvousSummary) error {
	return nil
}

func (NoopSender) SendRendezvousReminder(ctx context.Context, toEmail string, rv RendezvousSummary) error {
	return nil
}

var (
	_ Sender = NoopSender{}
	_ Sender = (*SMTPSender)(nil)
)
