package models

import "time"

// NotificationType identifies the activity category that produced a notification.
// The set is closed; unknown values are rejected at the ingestion and preference
// boundaries rather than defaulted.
type NotificationType string

const (
	TypeNewVideo      NotificationType = "new_video"
	TypeCommentReply  NotificationType = "comment_reply"
	TypeVideoComment  NotificationType = "video_comment"
	TypeVideoLike     NotificationType = "video_like"
	TypeCommentLike   NotificationType = "comment_like"
	TypeNewSubscriber NotificationType = "new_subscriber"
	TypePlaylistAdd   NotificationType = "playlist_add"
	TypeMention       NotificationType = "mention"
	TypeMilestone     NotificationType = "milestone"
	TypeLiveStream    NotificationType = "live_stream"
)

// NotificationTypes lists every valid type in a stable order.
var NotificationTypes = []NotificationType{
	TypeNewVideo,
	TypeCommentReply,
	TypeVideoComment,
	TypeVideoLike,
	TypeCommentLike,
	TypeNewSubscriber,
	TypePlaylistAdd,
	TypeMention,
	TypeMilestone,
	TypeLiveStream,
}

// Valid reports whether t is a member of the closed type enumeration.
func (t NotificationType) Valid() bool {
	for _, known := range NotificationTypes {
		if t == known {
			return true
		}
	}
	return false
}

// Notification represents a single in-app notification for one recipient (PostgreSQL).
// SenderID is nil for system-generated notifications such as milestones. Only Read and
// Clicked mutate after creation; Clicked implies Read.
type Notification struct {
	ID           uint             `json:"id" gorm:"primaryKey"`
	RecipientID  uint             `json:"recipient_id" gorm:"index;not null"`
	SenderID     *uint            `json:"sender_id,omitempty"`
	Type         NotificationType `json:"type" gorm:"size:30;not null"`
	Title        string           `json:"title"`
	Message      string           `json:"message"`
	ThumbnailRef string           `json:"thumbnail_ref,omitempty"`
	ActionRef    string           `json:"action_ref,omitempty"`
	Read         bool             `json:"read" gorm:"default:false;index"`
	Clicked      bool             `json:"clicked" gorm:"default:false"`
	CreatedAt    time.Time        `json:"created_at" gorm:"index"`
}
