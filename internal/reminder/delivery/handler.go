package delivery

import (
	"net/http"
	"time"

	reminderdomain "habitlink-backend/internal/reminder/domain"
	"habitlink-backend/internal/reminder/repository"

	"github.com/gin-gonic/gin"
)

type CreateReminderRequest struct {
	HabitName       string `json:"habit_name" binding:"required"`
	Message         string `json:"message"`
	FirstDueAt      string `json:"first_due_at" binding:"required"` // RFC 3339
	IntervalMinutes int    `json:"interval_minutes" binding:"required,min=1"`
}

type ReminderHandler struct {
	reminderRepo repository.ReminderRepository
}

func NewReminderHandler(reminderRepo repository.ReminderRepository) *ReminderHandler {
	return &ReminderHandler{reminderRepo: reminderRepo}
}

func (h *ReminderHandler) Create(c *gin.Context) {
	var req CreateReminderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	firstDueAt, err := time.Parse(time.RFC3339, req.FirstDueAt)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "first_due_at must be RFC 3339"})
		return
	}

	reminder := &reminderdomain.Reminder{
		UserID:          c.GetString("userID"),
		HabitName:       req.HabitName,
		Message:         req.Message,
		NextDueAt:       firstDueAt,
		IntervalMinutes: req.IntervalMinutes,
	}
	if err := h.reminderRepo.Create(reminder); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, reminder)
}

func (h *ReminderHandler) Delete(c *gin.Context) {
	if err := h.reminderRepo.Delete(c.Param("id"), c.GetString("userID")); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "reminder deleted"})
}
