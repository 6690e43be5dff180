package email

const (
	subjectQuoteNotificationFmt   = "Nouvelle demande de devis de %s"
	subjectQuoteAcknowledgement   = "Nous avons bien reçu votre demande de devis"
	subjectRendezvousConfirmation = "Votre rendez-vous est enregistré"
	subjectRendezvousReminder     = "Rappel : votre rendez-vous approche"
)
