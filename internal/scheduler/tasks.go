package scheduler

import (
	"encoding/json"

	"vitrine_backend/internal/email"

	"github.com/hibiken/asynq"
)

const TaskSendEmail = "email.send"

const TaskRendezvousReminder = "rendezvous.reminder"

// Email kinds carried by SendEmailPayload.
const (
	KindQuoteNotification      = "quote_notification"
	KindQuoteAcknowledgement   = "quote_acknowledgement"
	KindRendezvousConfirmation = "rendezvous_confirmation"
)

// SendEmailPayload is one email to deliver. Exactly one of Quote and
// Rendezvous is set, matching Kind.
type SendEmailPayload struct {
	Kind       string                   `json:"kind"`
	To         string                   `json:"to"`
	Quote      *email.QuoteSummary      `json:"quote,omitempty"`
	Rendezvous *email.RendezvousSummary `json:"rendezvous,omitempty"`
}

type RendezvousReminderPayload struct {
	RendezvousID string `json:"rendezvousId"`
}

func NewSendEmailTask(payload SendEmailPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskSendEmail, data), nil
}

func ParseSendEmailPayload(task *asynq.Task) (SendEmailPayload, error) {
	var payload SendEmailPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return SendEmailPayload{}, err
	}
	return payload, nil
}

func NewRendezvousReminderTask(payload RendezvousReminderPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskRendezvousReminder, data), nil
}

func ParseRendezvousReminderPayload(task *asynq.Task) (RendezvousReminderPayload, error) {
	var payload RendezvousReminderPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return RendezvousReminderPayload{}, err
	}
	return payload, nil
}
