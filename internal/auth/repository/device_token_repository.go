package repository

import (
	"errors"
	"time"

	authdomain "habitlink-backend/internal/auth/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DeviceTokenRepository defines the persistence operations for device tokens
type DeviceTokenRepository interface {
	Create(token *authdomain.DeviceToken) error
	FindByID(id string) (*authdomain.DeviceToken, error)
	FindByUserID(userID string) ([]authdomain.DeviceToken, error)
	SavePushToken(tokenID, pushToken string) error
	ClearPushToken(tokenID string) error
	ExtendExpiry(tokenID string, until time.Time) error
	Delete(tokenID string) error
	DeleteByUserID(userID string) error
}

// deviceTokenRepository implements DeviceTokenRepository interface
type deviceTokenRepository struct {
	db *gorm.DB
}

// NewDeviceTokenRepository creates a new instance of deviceTokenRepository
func NewDeviceTokenRepository(db *gorm.DB) DeviceTokenRepository {
	return &deviceTokenRepository{
		db: db,
	}
}

// Create inserts a new device token for the user. Expired tokens of the same
// user are swept in the same transaction to keep the table from bloating;
// this allows multi-device login, each device keeps its own token.
func (r *deviceTokenRepository) Create(token *authdomain.DeviceToken) error {
	token.ID = uuid.New().String()
	token.CreatedAt = time.Now()
	token.UpdatedAt = time.Now()

	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ? AND expires_at < ?", token.UserID, time.Now()).
			Delete(&authdomain.DeviceToken{}).Error; err != nil {
			return err
		}
		return tx.Create(token).Error
	})
}

func (r *deviceTokenRepository) FindByID(id string) (*authdomain.DeviceToken, error) {
	var token authdomain.DeviceToken
	err := r.db.Where("id = ?", id).First(&token).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &token, nil
}

func (r *deviceTokenRepository) FindByUserID(userID string) ([]authdomain.DeviceToken, error) {
	var tokens []authdomain.DeviceToken
	err := r.db.Where("user_id = ? AND expires_at > ?", userID, time.Now()).Find(&tokens).Error
	if err != nil {
		return nil, err
	}
	return tokens, nil
}

// SavePushToken attaches an FCM registration token to an existing device
// token. The same push token may move between devices (app reinstall), so
// it is first detached from any other row holding it.
func (r *deviceTokenRepository) SavePushToken(tokenID, pushToken string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&authdomain.DeviceToken{}).
			Where("push_token = ?", pushToken).
			Update("push_token", nil).Error; err != nil {
			return err
		}
		return tx.Model(&authdomain.DeviceToken{}).
			Where("id = ?", tokenID).
			Updates(map[string]interface{}{"push_token": pushToken, "updated_at": time.Now()}).Error
	})
}

func (r *deviceTokenRepository) ClearPushToken(tokenID string) error {
	return r.db.Model(&authdomain.DeviceToken{}).
		Where("id = ?", tokenID).
		Updates(map[string]interface{}{"push_token": nil, "updated_at": time.Now()}).Error
}

func (r *deviceTokenRepository) ExtendExpiry(tokenID string, until time.Time) error {
	return r.db.Model(&authdomain.DeviceToken{}).
		Where("id = ?", tokenID).
		Updates(map[string]interface{}{"expires_at": until, "updated_at": time.Now()}).Error
}

func (r *deviceTokenRepository) Delete(tokenID string) error {
	return r.db.Where("id = ?", tokenID).Delete(&authdomain.DeviceToken{}).Error
}

func (r *deviceTokenRepository) DeleteByUserID(userID string) error {
	return r.db.Where("user_id = ?", userID).Delete(&authdomain.DeviceToken{}).Error
}
