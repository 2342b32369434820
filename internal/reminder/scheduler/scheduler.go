package scheduler

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"habitlink-backend/internal/notification"
	"habitlink-backend/internal/reminder/repository"
)

// EventPublisher is the bus side the scheduler emits reminder events on.
type EventPublisher interface {
	Publish(ctx context.Context, channel string, payload any) error
}

// ReminderScheduler periodically finds due habit reminders and publishes
// them as synthetic notification events; the relay delivers them like any
// other event, so reminders reach live sessions first and push second.
type ReminderScheduler struct {
	reminderRepo repository.ReminderRepository
	bus          EventPublisher
	interval     time.Duration
	stopChan     chan struct{}
}

// NewReminderScheduler creates a new scheduler
func NewReminderScheduler(reminderRepo repository.ReminderRepository, bus EventPublisher, interval time.Duration) *ReminderScheduler {
	return &ReminderScheduler{
		reminderRepo: reminderRepo,
		bus:          bus,
		interval:     interval,
		stopChan:     make(chan struct{}),
	}
}

// Start begins the scheduler loop
func (s *ReminderScheduler) Start() {
	if s.bus == nil {
		log.Println("[Reminder] Event bus not available, scheduler disabled")
		return
	}

	log.Printf("[Reminder] Starting reminder scheduler (interval: %s)", s.interval)

	go func() {
		// Run immediately on start
		s.publishDueReminders()

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				s.publishDueReminders()
			case <-s.stopChan:
				log.Println("[Reminder] Scheduler stopped")
				return
			}
		}
	}()
}

// Stop gracefully stops the scheduler
func (s *ReminderScheduler) Stop() {
	close(s.stopChan)
}

func (s *ReminderScheduler) publishDueReminders() {
	now := time.Now()

	reminders, err := s.reminderRepo.FindDue(now)
	if err != nil {
		log.Printf("[Reminder] Error finding due reminders: %v", err)
		return
	}
	if len(reminders) == 0 {
		return
	}

	log.Printf("[Reminder] Publishing %d due reminders", len(reminders))

	ctx := context.Background()
	for i := range reminders {
		reminder := &reminders[i]

		body := reminder.Message
		if body == "" {
			body = fmt.Sprintf("Time to work on %s", reminder.HabitName)
		}

		data, err := json.Marshal(reminder)
		if err != nil {
			log.Printf("[Reminder] Failed to marshal reminder %s: %v", reminder.ID, err)
			continue
		}

		ev := notification.NotificationEvent{
			Recipient: reminder.UserID,
			Data:      data,
			Title:     reminder.HabitName,
			Body:      body,
			URL:       "/reminders/" + reminder.ID,
		}
		if err := s.bus.Publish(ctx, notification.ChannelHabitReminder, ev); err != nil {
			log.Printf("[Reminder] Failed to publish reminder %s: %v", reminder.ID, err)
			continue
		}

		// Reschedule only after a successful publish so a bus outage
		// retries on the next tick.
		if err := s.reminderRepo.Reschedule(reminder, now); err != nil {
			log.Printf("[Reminder] Failed to reschedule reminder %s: %v", reminder.ID, err)
		}
	}
}
