package notification

import (
	"intavia-backend/lib/smtp"
	"intavia-backend/models"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

type SendResult struct {
	Success   bool
	MessageID string
	Err       error
}

// Provider formats and sends lifecycle emails. It is stateless per call;
// idempotency gates (like the interview reminder) belong to the caller.
type Provider interface {
	Send(kind models.NotificationKind, recipient string, data TemplateData) SendResult
}

var Instance Provider

func NewHandler(fromEmail string) {
	Instance = &impl{
		fromEmail: fromEmail,
		mailer:    smtp.Instance,
	}
}

type impl struct {
	fromEmail string
	mailer    smtp.Provider
}

// Send never panics and never blocks the caller's primary operation:
// failures come back in the result.
func (i impl) Send(kind models.NotificationKind, recipient string, data TemplateData) SendResult {
	logger := log.
		WithField("notification_kind", kind).
		WithField("recipient", recipient)
	subject, body, err := renderKind(kind, data)
	if err != nil {
		logger.WithError(err).Error("notification render failed")
		return SendResult{Err: err}
	}
	err = i.mailer.SendEMail(i.fromEmail, recipient, subject, body)
	if err != nil {
		logger.WithError(err).Error("notification send failed")
		return SendResult{Err: err}
	}
	return SendResult{
		Success:   true,
		MessageID: uuid.NewString(),
	}
}
