package repository

import (
	"time"

	reminderdomain "habitlink-backend/internal/reminder/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ReminderRepository defines the persistence operations for reminders
type ReminderRepository interface {
	Create(reminder *reminderdomain.Reminder) error
	FindDue(now time.Time) ([]reminderdomain.Reminder, error)
	Reschedule(reminder *reminderdomain.Reminder, now time.Time) error
	Delete(id, userID string) error
}

// reminderRepository implements ReminderRepository interface
type reminderRepository struct {
	db *gorm.DB
}

// NewReminderRepository creates a new instance of reminderRepository
func NewReminderRepository(db *gorm.DB) ReminderRepository {
	return &reminderRepository{
		db: db,
	}
}

func (r *reminderRepository) Create(reminder *reminderdomain.Reminder) error {
	reminder.ID = uuid.New().String()
	reminder.CreatedAt = time.Now()
	reminder.UpdatedAt = time.Now()
	return r.db.Create(reminder).Error
}

func (r *reminderRepository) FindDue(now time.Time) ([]reminderdomain.Reminder, error) {
	var reminders []reminderdomain.Reminder
	err := r.db.Where("next_due_at <= ?", now).Find(&reminders).Error
	if err != nil {
		return nil, err
	}
	return reminders, nil
}

// Reschedule advances the reminder past now by whole intervals, so a
// reminder missed during downtime fires once rather than once per missed
// interval.
func (r *reminderRepository) Reschedule(reminder *reminderdomain.Reminder, now time.Time) error {
	reminder.NextDueAt = nextDue(reminder.NextDueAt, reminder.IntervalMinutes, now)
	reminder.UpdatedAt = time.Now()
	return r.db.Save(reminder).Error
}

func nextDue(current time.Time, intervalMinutes int, now time.Time) time.Time {
	interval := time.Duration(intervalMinutes) * time.Minute
	// The handler binds min=1, but a bad row must not spin this loop
	// forever.
	if interval <= 0 {
		interval = time.Minute
	}
	next := current
	for !next.After(now) {
		next = next.Add(interval)
	}
	return next
}

func (r *reminderRepository) Delete(id, userID string) error {
	return r.db.Where("id = ? AND user_id = ?", id, userID).Delete(&reminderdomain.Reminder{}).Error
}
