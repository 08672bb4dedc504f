package notify

import (
	"context"
	"log"
	"sync"

	"github.com/arefin88/vidora/backend/internal/models"
	"github.com/arefin88/vidora/backend/internal/repositories"
	"github.com/arefin88/vidora/backend/pkg/errno"
)

// EmailSender is the external email delivery collaborator. Delivery is
// fire-and-forget; failures are logged and never reach the producer.
type EmailSender interface {
	Send(ctx context.Context, event Event) error
}

// PushSender is the external mobile/web push collaborator (FCM). Same
// fire-and-forget contract as EmailSender.
type PushSender interface {
	Send(ctx context.Context, event Event) error
}

// Service is the ingestion and filter stage: it consults the recipient's
// preference matrix, persists the in-app notification, and hands it to the
// dispatcher, activating the email/push collaborators on the side.
type Service struct {
	notifications repositories.NotificationRepository
	preferences   repositories.PreferenceRepository
	dispatcher    *Dispatcher
	email         EmailSender
	push          PushSender

	// Striped per-recipient locks order append+dispatch pairs so a single
	// recipient's pushes arrive in append order. Different recipients
	// almost never contend.
	recipientLocks [64]sync.Mutex
}

// NewService wires the ingestion stage.
func NewService(
	notifications repositories.NotificationRepository,
	preferences repositories.PreferenceRepository,
	dispatcher *Dispatcher,
	email EmailSender,
	push PushSender,
) *Service {
	return &Service{
		notifications: notifications,
		preferences:   preferences,
		dispatcher:    dispatcher,
		email:         email,
		push:          push,
	}
}

func (s *Service) lockFor(recipientID uint) *sync.Mutex {
	return &s.recipientLocks[recipientID%uint(len(s.recipientLocks))]
}

// Ingest filters one activity event against the recipient's preferences and
// activates the enabled channels. Self-notifications are dropped silently.
// Store outages surface as Unavailable so the producer may retry; email/push
// failures are absorbed.
func (s *Service) Ingest(ctx context.Context, event Event) (*Outcome, error) {
	if !event.Type.Valid() {
		return nil, errno.ErrInvalidArgument.Wrap("unknown notification type " + string(event.Type))
	}
	if event.SenderID != nil && *event.SenderID == event.RecipientID {
		return &Outcome{Dropped: true}, nil
	}

	prefs, err := s.preferences.Get(ctx, event.RecipientID)
	if err != nil {
		return nil, errno.ErrUnavailable.Wrap("preference store: " + err.Error())
	}

	outcome := &Outcome{}

	if prefs.Enabled(models.ChannelInApp, event.Type) {
		notification := &models.Notification{
			RecipientID:  event.RecipientID,
			SenderID:     event.SenderID,
			Type:         event.Type,
			Title:        event.Title,
			Message:      event.Message,
			ThumbnailRef: event.ThumbnailRef,
			ActionRef:    event.ActionRef,
		}

		lock := s.lockFor(event.RecipientID)
		lock.Lock()
		err := s.notifications.Append(notification)
		if err != nil {
			lock.Unlock()
			return nil, errno.ErrUnavailable.Wrap("notification store: " + err.Error())
		}
		s.dispatcher.Dispatch(notification)
		lock.Unlock()

		outcome.Stored = notification
	}

	if s.email != nil && prefs.Enabled(models.ChannelEmail, event.Type) {
		outcome.Email = true
		go func() {
			if err := s.email.Send(context.Background(), event); err != nil {
				log.Printf("email delivery failed for user %d: %v", event.RecipientID, err)
			}
		}()
	}

	if s.push != nil && prefs.Enabled(models.ChannelPush, event.Type) {
		outcome.Push = true
		go func() {
			if err := s.push.Send(context.Background(), event); err != nil {
				log.Printf("push delivery failed for user %d: %v", event.RecipientID, err)
			}
		}()
	}

	if outcome.Stored == nil && !outcome.Email && !outcome.Push {
		outcome.Dropped = true
	}
	return outcome, nil
}
