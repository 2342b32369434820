package repository

import (
	"errors"
	"time"

	socialdomain "habitlink-backend/internal/social/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ChallengeRepository defines the persistence operations for challenges
type ChallengeRepository interface {
	Create(challenge *socialdomain.Challenge) error
	FindByID(id string) (*socialdomain.Challenge, error)
	AddMember(member *socialdomain.ChallengeMember) error
}

// challengeRepository implements ChallengeRepository interface
type challengeRepository struct {
	db *gorm.DB
}

// NewChallengeRepository creates a new instance of challengeRepository
func NewChallengeRepository(db *gorm.DB) ChallengeRepository {
	return &challengeRepository{
		db: db,
	}
}

func (r *challengeRepository) Create(challenge *socialdomain.Challenge) error {
	challenge.ID = uuid.New().String()
	challenge.CreatedAt = time.Now()
	challenge.UpdatedAt = time.Now()
	return r.db.Create(challenge).Error
}

func (r *challengeRepository) FindByID(id string) (*socialdomain.Challenge, error) {
	var challenge socialdomain.Challenge
	err := r.db.Where("id = ?", id).First(&challenge).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &challenge, nil
}

// AddMember records a membership, ignoring duplicate joins.
func (r *challengeRepository) AddMember(member *socialdomain.ChallengeMember) error {
	member.ID = uuid.New().String()
	member.CreatedAt = time.Now()
	return r.db.Clauses(clause.OnConflict{DoNothing: true}).Create(member).Error
}
