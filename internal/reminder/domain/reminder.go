package domain

import "time"

// Reminder is a recurring habit nudge. NextDueAt advances by the interval
// every time the reminder fires.
type Reminder struct {
	ID              string    `json:"id" gorm:"primaryKey"`
	UserID          string    `json:"user_id" gorm:"index;not null"`
	HabitName       string    `json:"habit_name" gorm:"not null"`
	Message         string    `json:"message"`
	NextDueAt       time.Time `json:"next_due_at" gorm:"index"`
	IntervalMinutes int       `json:"interval_minutes" gorm:"not null"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}
