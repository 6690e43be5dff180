package email

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
)

//go:embed templates/*.html
var templateFS embed.FS

type baseEmailData struct {
	Title      string
	Heading    string
	Subheading string
	CTALabel   string
	CTAURL     string
}

type quoteEmailData struct {
	baseEmailData
	Quote QuoteSummary
}

type rendezvousEmailData struct {
	baseEmailData
	Rendezvous RendezvousSummary
}

func renderEmailTemplate(name string, data any) (string, error) {
	templates := []string{"templates/base.html", "templates/" + name}
	tmpl, err := template.New("base.html").ParseFS(templateFS, templates...)
	if err != nil {
		return "", fmt.Errorf("parse email template %s: %w", name, err)
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "email", data); err != nil {
		return "", fmt.Errorf("execute email template %s: %w", name, err)
	}
	return buf.String(), nil
}

func renderQuoteNotification(q QuoteSummary) (string, error) {
	return renderEmailTemplate("quote_notification.html", quoteEmailData{
		baseEmailData: baseEmailData{
			Title:    "Nouvelle demande de devis",
			Heading:  "Nouvelle demande de devis",
			CTALabel: "Ouvrir dans le tableau de bord",
			CTAURL:   q.AdminURL,
		},
		Quote: q,
	})
}

func renderQuoteAcknowledgement(q QuoteSummary) (string, error) {
	return renderEmailTemplate("quote_acknowledgement.html", quoteEmailData{
		baseEmailData: baseEmailData{
			Title:      "Demande de devis reçue",
			Heading:    "Merci pour votre demande",
			Subheading: "Nous revenons vers vous sous 48 heures ouvrées.",
		},
		Quote: q,
	})
}

func renderRendezvousConfirmation(rv RendezvousSummary) (string, error) {
	return renderEmailTemplate("rendezvous_confirmation.html", rendezvousEmailData{
		baseEmailData: baseEmailData{
			Title:   "Rendez-vous enregistré",
			Heading: "Votre rendez-vous est enregistré",
		},
		Rendezvous: rv,
	})
}

func renderRendezvousReminder(rv RendezvousSummary) (string, error) {
	return renderEmailTemplate("rendezvous_reminder.html", rendezvousEmailData{
		baseEmailData: baseEmailData{
			Title:   "Rappel de rendez-vous",
			Heading: "Votre rendez-vous approche",
		},
		Rendezvous: rv,
	})
}
