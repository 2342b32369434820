package domain

import "time"

// Challenge is a shared habit challenge users can join or duplicate into
// their own copy.
type Challenge struct {
	ID           string    `json:"id" gorm:"primaryKey"`
	OwnerID      string    `json:"owner_id" gorm:"index;not null"`
	Name         string    `json:"name" gorm:"not null"`
	Description  string    `json:"description"`
	DuplicatedOf *string   `json:"duplicated_of,omitempty" gorm:"index"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type ChallengeMember struct {
	ID          string    `json:"id" gorm:"primaryKey"`
	ChallengeID string    `json:"challenge_id" gorm:"uniqueIndex:idx_member_challenge_user;not null"`
	UserID      string    `json:"user_id" gorm:"uniqueIndex:idx_member_challenge_user;not null"`
	CreatedAt   time.Time `json:"created_at"`
}
