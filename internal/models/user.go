package models

import (
	"github.com/golang-jwt/jwt/v4"
	"gorm.io/gorm"
)

type User struct {
	gorm.Model  `json:"-"`
	ID          uint   `json:"id" gorm:"primaryKey"`
	DisplayName string `json:"display_name"`
	Email       string `json:"email" gorm:"uniqueIndex"`
	AvatarURL   string `json:"avatar_url,omitempty"`
	FirebaseUID string `json:"firebase_uid,omitempty" gorm:"uniqueIndex"` // Link to Firebase User UID
}

// UserCompact is the projection embedded in enriched notification payloads.
type UserCompact struct {
	ID          uint   `json:"id"`
	DisplayName string `json:"display_name"`
	AvatarURL   string `json:"avatar_url,omitempty"`
}

// ToCompact returns the compact projection of the user.
func (u *User) ToCompact() UserCompact {
	return UserCompact{
		ID:          u.ID,
		DisplayName: u.DisplayName,
		AvatarURL:   u.AvatarURL,
	}
}

// ServiceClaims are the claims carried by service-to-service tokens used by
// activity producers calling the internal event endpoint.
type ServiceClaims struct {
	Service string `json:"service"`
	jwt.RegisteredClaims
}
