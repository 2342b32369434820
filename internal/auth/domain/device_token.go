package domain

import "time"

// DeviceToken represents one logged-in device or app install. It is the
// credential a session authenticates with, distinct from the push-service
// registration token that may later be attached to it.
type DeviceToken struct {
	ID         string    `json:"id" gorm:"primaryKey"`
	UserID     string    `json:"user_id" gorm:"index;not null"`
	PushToken  *string   `json:"push_token,omitempty" gorm:"uniqueIndex"` // FCM registration token; rides bus events, never API responses
	IsMobile   *bool     `json:"is_mobile"`
	Browser    *string   `json:"browser"` // set for web clients, nil for native apps
	OS         string    `json:"os"`
	AppVersion string    `json:"app_version"`
	Model      string    `json:"model"`
	ExpiresAt  time.Time `json:"expires_at"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
