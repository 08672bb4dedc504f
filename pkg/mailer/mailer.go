package mailer

import (
	"context"
	"log"

	"github.com/arefin88/vidora/backend/internal/notify"
)

// LogSender is the stand-in for the external email delivery collaborator.
// Actual template rendering and SMTP/provider delivery live outside this
// service; deployments point the engine at the real collaborator instead.
type LogSender struct{}

// NewLogSender creates a LogSender.
func NewLogSender() *LogSender {
	return &LogSender{}
}

// Send logs the would-be email.
func (s *LogSender) Send(ctx context.Context, event notify.Event) error {
	log.Printf("email queued for user %d: type=%s title=%q", event.RecipientID, event.Type, event.Title)
	return nil
}
