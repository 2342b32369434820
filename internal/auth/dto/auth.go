package dto

import (
	authdomain "habitlink-backend/internal/auth/domain"
)

type SignupRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Locale   string `json:"locale"`
	Device   Device `json:"device"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
	Device   Device `json:"device"`
}

// Device describes the client opening the session; it becomes the device
// token row.
type Device struct {
	OS         string  `json:"os"`
	AppVersion string  `json:"app_version"`
	Model      string  `json:"model"`
	IsMobile   *bool   `json:"is_mobile"`
	Browser    *string `json:"browser"`
}

type RegisterPushTokenRequest struct {
	PushToken string `json:"push_token" binding:"required"`
}

type NotificationPrefsRequest struct {
	NotificationsEnabled        *bool `json:"notifications_enabled"`
	NotifyPrivateMessages       *bool `json:"notify_private_messages"`
	NotifyLikes                 *bool `json:"notify_likes"`
	NotifyReplies               *bool `json:"notify_replies"`
	NotifyChallengeJoins        *bool `json:"notify_challenge_joins"`
	NotifyChallengeDuplications *bool `json:"notify_challenge_duplications"`
	NotifyReminders             *bool `json:"notify_reminders"`
}

type TokenResponse struct {
	AccessToken   string           `json:"access_token"`
	DeviceTokenID string           `json:"device_token_id"`
	User          *authdomain.User `json:"user"`
}
