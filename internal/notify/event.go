package notify

import "github.com/arefin88/vidora/backend/internal/models"

// Event is a raw activity signal from a producer (upload, comment, like,
// subscription, milestone, ...). Title and Message arrive pre-rendered; the
// engine treats them, and the two refs, as opaque.
type Event struct {
	RecipientID  uint                    `json:"recipient_id" validate:"required"`
	SenderID     *uint                   `json:"sender_id,omitempty"`
	Type         models.NotificationType `json:"type" validate:"required"`
	Title        string                  `json:"title" validate:"required"`
	Message      string                  `json:"message"`
	ThumbnailRef string                  `json:"thumbnail_ref,omitempty"`
	ActionRef    string                  `json:"action_ref,omitempty"`
}

// Outcome reports what ingestion did with an event. Producers get no delivery
// detail beyond this.
type Outcome struct {
	// Stored is the persisted in-app notification, nil when the in-app
	// channel was muted.
	Stored *models.Notification `json:"stored,omitempty"`
	// Email and Push report whether those channels were activated; actual
	// delivery is fire-and-forget.
	Email bool `json:"email"`
	Push  bool `json:"push"`
	// Dropped is true when no channel was active or the event was a
	// self-notification. Expected steady-state for muted types, not an error.
	Dropped bool `json:"dropped"`
}
