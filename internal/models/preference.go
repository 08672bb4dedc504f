package models

import "time"

// Delivery channels. Not to be confused with a creator's video channel.
const (
	ChannelEmail = "email"
	ChannelPush  = "push"
	ChannelInApp = "in_app"
)

// Channels lists the delivery channels in a stable order.
var Channels = []string{ChannelEmail, ChannelPush, ChannelInApp}

// ValidChannel reports whether name is a known delivery channel.
func ValidChannel(name string) bool {
	return name == ChannelEmail || name == ChannelPush || name == ChannelInApp
}

// NotificationPreferences is the per-user delivery matrix (MongoDB, one document per
// user). Each bucket maps notification type to an enabled flag. Buckets are filled
// with all-true defaults on first read, so lookups never hit a missing key.
type NotificationPreferences struct {
	UserID    uint            `json:"user_id" bson:"_id"`
	Email     map[string]bool `json:"email" bson:"email"`
	Push      map[string]bool `json:"push" bson:"push"`
	InApp     map[string]bool `json:"in_app" bson:"in_app"`
	UpdatedAt time.Time       `json:"updated_at" bson:"updated_at"`
}

// DefaultNotificationPreferences returns the all-enabled matrix for a user.
func DefaultNotificationPreferences(userID uint) *NotificationPreferences {
	return &NotificationPreferences{
		UserID:    userID,
		Email:     defaultBucket(),
		Push:      defaultBucket(),
		InApp:     defaultBucket(),
		UpdatedAt: time.Now(),
	}
}

func defaultBucket() map[string]bool {
	bucket := make(map[string]bool, len(NotificationTypes))
	for _, t := range NotificationTypes {
		bucket[string(t)] = true
	}
	return bucket
}

// Bucket returns the map for the given channel, or nil for an unknown channel.
func (p *NotificationPreferences) Bucket(channel string) map[string]bool {
	switch channel {
	case ChannelEmail:
		return p.Email
	case ChannelPush:
		return p.Push
	case ChannelInApp:
		return p.InApp
	default:
		return nil
	}
}

// Enabled reports whether the given channel is enabled for the given type.
// Missing entries count as enabled, matching the all-true default.
func (p *NotificationPreferences) Enabled(channel string, t NotificationType) bool {
	bucket := p.Bucket(channel)
	if bucket == nil {
		return false
	}
	enabled, ok := bucket[string(t)]
	if !ok {
		return true
	}
	return enabled
}

// FillDefaults adds an all-true entry for any type missing from any bucket and
// reports whether anything was added.
func (p *NotificationPreferences) FillDefaults() bool {
	changed := false
	for _, bucket := range []*map[string]bool{&p.Email, &p.Push, &p.InApp} {
		if *bucket == nil {
			*bucket = make(map[string]bool, len(NotificationTypes))
		}
		for _, t := range NotificationTypes {
			if _, ok := (*bucket)[string(t)]; !ok {
				(*bucket)[string(t)] = true
				changed = true
			}
		}
	}
	return changed
}
