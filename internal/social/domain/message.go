package domain

import "time"

// Message is either a private message between two users or a public
// message posted on a challenge feed. Replies reference their parent.
type Message struct {
	ID          string    `json:"id" gorm:"primaryKey"`
	SenderID    string    `json:"sender_id" gorm:"index;not null"`
	RecipientID string    `json:"recipient_id" gorm:"index"` // empty for public messages
	ChallengeID *string   `json:"challenge_id,omitempty" gorm:"index"`
	ParentID    *string   `json:"parent_id,omitempty" gorm:"index"`
	Body        string    `json:"body" gorm:"not null"`
	Public      bool      `json:"public"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Like records one user liking one public message, at most once.
type Like struct {
	ID        string    `json:"id" gorm:"primaryKey"`
	MessageID string    `json:"message_id" gorm:"uniqueIndex:idx_like_message_user;not null"`
	UserID    string    `json:"user_id" gorm:"uniqueIndex:idx_like_message_user;not null"`
	CreatedAt time.Time `json:"created_at"`
}
