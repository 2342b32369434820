package domain

import "time"

type User struct {
	ID       string `json:"id" gorm:"primaryKey"`
	Username string `json:"username" gorm:"uniqueIndex;not null"`
	Email    string `json:"email" gorm:"uniqueIndex;not null"`
	Password string `json:"-"` // Never return password in JSON
	Locale   string `json:"locale"`

	// NotificationsEnabled is the master switch; the per-category flags
	// below only matter while it is on.
	NotificationsEnabled        bool `json:"notifications_enabled"`
	NotifyPrivateMessages       bool `json:"notify_private_messages"`
	NotifyLikes                 bool `json:"notify_likes"`
	NotifyReplies               bool `json:"notify_replies"`
	NotifyChallengeJoins        bool `json:"notify_challenge_joins"`
	NotifyChallengeDuplications bool `json:"notify_challenge_duplications"`
	NotifyReminders             bool `json:"notify_reminders"`

	IsDeleted bool      `json:"-" gorm:"index"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
