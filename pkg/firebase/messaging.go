package firebase

import (
	"context"
	"fmt"

	"firebase.google.com/go/v4/messaging"
	"github.com/arefin88/vidora/backend/internal/notify"
)

// PushSender delivers push notifications through Firebase Cloud Messaging.
// Each user's devices subscribe to a per-user topic, so the engine never
// tracks device tokens.
type PushSender struct {
	client *messaging.Client
}

// NewPushSender wraps a Firebase messaging client.
func NewPushSender(client *messaging.Client) *PushSender {
	return &PushSender{client: client}
}

// Send publishes the event to the recipient's device topic. Callers treat this
// as fire-and-forget.
func (s *PushSender) Send(ctx context.Context, event notify.Event) error {
	msg := &messaging.Message{
		Topic: fmt.Sprintf("user-%d", event.RecipientID),
		Notification: &messaging.Notification{
			Title:    event.Title,
			Body:     event.Message,
			ImageURL: event.ThumbnailRef,
		},
		Data: map[string]string{
			"type":       string(event.Type),
			"action_ref": event.ActionRef,
		},
	}
	_, err := s.client.Send(ctx, msg)
	return err
}
