package repository

import (
	"errors"
	"time"

	socialdomain "habitlink-backend/internal/social/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// MessageRepository defines the persistence operations for messages
type MessageRepository interface {
	Create(message *socialdomain.Message) error
	FindByID(id string) (*socialdomain.Message, error)
	Update(message *socialdomain.Message) error
	SaveLike(like *socialdomain.Like) error
}

// messageRepository implements MessageRepository interface
type messageRepository struct {
	db *gorm.DB
}

// NewMessageRepository creates a new instance of messageRepository
func NewMessageRepository(db *gorm.DB) MessageRepository {
	return &messageRepository{
		db: db,
	}
}

func (r *messageRepository) Create(message *socialdomain.Message) error {
	message.ID = uuid.New().String()
	message.CreatedAt = time.Now()
	message.UpdatedAt = time.Now()
	return r.db.Create(message).Error
}

func (r *messageRepository) FindByID(id string) (*socialdomain.Message, error) {
	var message socialdomain.Message
	err := r.db.Where("id = ?", id).First(&message).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &message, nil
}

func (r *messageRepository) Update(message *socialdomain.Message) error {
	message.UpdatedAt = time.Now()
	return r.db.Save(message).Error
}

// SaveLike records a like, ignoring duplicates from double taps.
func (r *messageRepository) SaveLike(like *socialdomain.Like) error {
	like.ID = uuid.New().String()
	like.CreatedAt = time.Now()
	return r.db.Clauses(clause.OnConflict{DoNothing: true}).Create(like).Error
}
