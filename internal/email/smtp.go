package email

import (
	"context"
	"fmt"
	"net"
	"time"

	"vitrine_backend/platform/config"

	gomail "github.com/wneessen/go-mail"
)

// SMTPSender implements the Sender interface using a direct SMTP connection via go-mail.
type SMTPSender struct {
	host      string
	port      int
	username  string
	password  string
	fromName  string
	fromEmail string
}

// NewSMTPSender creates a new SMTPSender from the email configuration.
func NewSMTPSender(cfg config.EmailConfig) *SMTPSender {
	return &SMTPSender{
		host:      cfg.GetSMTPHost(),
		port:      cfg.GetSMTPPort(),
		username:  cfg.GetSMTPUsername(),
		password:  cfg.GetSMTPPassword(),
		fromName:  cfg.GetEmailFromName(),
		fromEmail: cfg.GetEmailFromAddress(),
	}
}

// NewSender returns an SMTPSender when email is enabled and a NoopSender otherwise.
func NewSender(cfg config.EmailConfig) Sender {
	if !cfg.GetEmailEnabled() {
		return NoopSender{}
	}
	return NewSMTPSender(cfg)
}

func (s *SMTPSender) send(ctx context.Context, toEmail, subject, htmlContent string) error {
	msg := gomail.NewMsg()
	if err := msg.FromFormat(s.fromName, s.fromEmail); err != nil {
		return fmt.Errorf("smtp from: %w", err)
	}
	if err := msg.To(toEmail); err != nil {
		return fmt.Errorf("smtp to: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(gomail.TypeTextHTML, htmlContent)

	opts := []gomail.Option{
		gomail.WithPort(s.port),
		gomail.WithTLSPortPolicy(gomail.TLSOpportunistic),
		gomail.WithTimeout(15 * time.Second),
		gomail.WithDialContextFunc(func(dctx context.Context, _ string, addr string) (net.Conn, error) {
			return (&net.Dialer{}).DialContext(dctx, "tcp4", addr)
		}),
	}
	if s.username != "" {
		opts = append(opts,
			gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
			gomail.WithUsername(s.username),
			gomail.WithPassword(s.password),
		)
	}

	client, err := gomail.NewClient(s.host, opts...)
	if err != nil {
		return fmt.Errorf("smtp client: %w", err)
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}

	return nil
}

func (s *SMTPSender) SendQuoteNotification(ctx context.Context, toEmail string, quote QuoteSummary) error {
	content, err := renderQuoteNotification(quote)
	if err != nil {
		return err
	}
	return s.send(ctx, toEmail, fmt.Sprintf(subjectQuoteNotificationFmt, quote.CustomerName), content)
}

func (s *SMTPSender) SendQuoteAcknowledgement(ctx context.Context, toEmail string, quote QuoteSummary) error {
	content, err := renderQuoteAcknowledgement(quote)
	if err != nil {
		return err
	}
	return s.send(ctx, toEmail, subjectQuoteAcknowledgement, content)
}

func (s *SMTPSender) SendRendezvousConfirmation(ctx context.Context, toEmail string, rv RendezvousSummary) error {
	content, err := renderRendezvousConfirmation(rv)
	if err != nil {
		return err
	}
	return s.send(ctx, toEmail, subjectRendezvousConfirmation, content)
}

func (s *SMTPSender) SendRendezvousReminder(ctx context.Context, toEmail string, rv RendezvousSummary) error {
	content, err := renderRendezvousReminder(rv)
	if err != nil {
		return err
	}
	return s.send(ctx, toEmail, subjectRendezvousReminder, content)
}
