package usecase

import (
	"context"
	"errors"
	"log"
	"time"

	authdomain "habitlink-backend/internal/auth/domain"
	authdto "habitlink-backend/internal/auth/dto"
	"habitlink-backend/internal/auth/repository"
	"habitlink-backend/internal/notification"
	"habitlink-backend/pkg/config"

	"github.com/golang-jwt/jwt/v5"
)

// authUsecase implements AuthUsecase interface
type authUsecase struct {
	userRepo  repository.UserRepository
	tokenRepo repository.DeviceTokenRepository
	bus       EventPublisher // nil when the event bus is not configured
	config    *config.Config
}

// NewAuthUsecase creates a new instance of authUsecase
func NewAuthUsecase(userRepo repository.UserRepository, tokenRepo repository.DeviceTokenRepository, bus EventPublisher, cfg *config.Config) AuthUsecase {
	return &authUsecase{
		userRepo:  userRepo,
		tokenRepo: tokenRepo,
		bus:       bus,
		config:    cfg,
	}
}

func (u *authUsecase) Signup(ctx context.Context, req *authdto.SignupRequest) (*authdto.TokenResponse, error) {
	existing, err := u.userRepo.FindByEmail(req.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, errors.New("email already registered")
	}

	hashedPassword, err := repository.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	locale := req.Locale
	if locale == "" {
		locale = "en"
	}

	user := &authdomain.User{
		Username: req.Username,
		Email:    req.Email,
		Password: hashedPassword,
		Locale:   locale,
		// Notifications default on; users opt out per category.
		NotificationsEnabled:        true,
		NotifyPrivateMessages:       true,
		NotifyLikes:                 true,
		NotifyReplies:               true,
		NotifyChallengeJoins:        true,
		NotifyChallengeDuplications: true,
		NotifyReminders:             true,
	}

	if err := u.userRepo.Create(user); err != nil {
		return nil, err
	}

	return u.openSession(ctx, user, &req.Device)
}

func (u *authUsecase) Login(ctx context.Context, req *authdto.LoginRequest) (*authdto.TokenResponse, error) {
	user, err := u.userRepo.FindByEmail(req.Email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, errors.New("invalid email or password")
	}

	if !repository.CheckPasswordHash(req.Password, user.Password) {
		return nil, errors.New("invalid email or password")
	}

	return u.openSession(ctx, user, &req.Device)
}

// openSession creates a device token row for the client and issues an
// access token bound to it. The token-updated event is published after the
// row is committed.
func (u *authUsecase) openSession(ctx context.Context, user *authdomain.User, device *authdto.Device) (*authdto.TokenResponse, error) {
	token := &authdomain.DeviceToken{
		UserID:     user.ID,
		OS:         device.OS,
		AppVersion: device.AppVersion,
		Model:      device.Model,
		IsMobile:   device.IsMobile,
		Browser:    device.Browser,
		ExpiresAt:  time.Now().Add(u.config.DeviceTokenExpiry),
	}
	if err := u.tokenRepo.Create(token); err != nil {
		return nil, err
	}

	accessToken, err := u.generateAccessToken(user, token.ID)
	if err != nil {
		return nil, err
	}

	u.publish(ctx, notification.ChannelTokenUpdated, notification.TokenUpdatedEvent{
		User:  *user,
		Token: *token,
	})

	return &authdto.TokenResponse{
		AccessToken:   accessToken,
		DeviceTokenID: token.ID,
		User:          user,
	}, nil
}

func (u *authUsecase) Refresh(ctx context.Context, userID, deviceID string) (*authdto.TokenResponse, error) {
	user, err := u.userRepo.FindByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, errors.New("user not found")
	}

	token, err := u.tokenRepo.FindByID(deviceID)
	if err != nil {
		return nil, err
	}
	if token == nil || token.UserID != userID {
		return nil, errors.New("device token not found")
	}
	if token.ExpiresAt.Before(time.Now()) {
		return nil, errors.New("device token expired")
	}

	until := time.Now().Add(u.config.DeviceTokenExpiry)
	if err := u.tokenRepo.ExtendExpiry(token.ID, until); err != nil {
		return nil, err
	}
	token.ExpiresAt = until

	accessToken, err := u.generateAccessToken(user, token.ID)
	if err != nil {
		return nil, err
	}

	u.publish(ctx, notification.ChannelTokenUpdated, notification.TokenUpdatedEvent{
		User:  *user,
		Token: *token,
	})

	return &authdto.TokenResponse{
		AccessToken:   accessToken,
		DeviceTokenID: token.ID,
		User:          user,
	}, nil
}

func (u *authUsecase) Logout(ctx context.Context, userID, deviceID string) error {
	if err := u.tokenRepo.Delete(deviceID); err != nil {
		return err
	}

	u.publish(ctx, notification.ChannelTokenRemoved, notification.TokenRemovedEvent{
		UserID:  userID,
		TokenID: deviceID,
	})
	return nil
}

func (u *authUsecase) RegisterPushToken(ctx context.Context, userID, deviceID string, req *authdto.RegisterPushTokenRequest) error {
	token, err := u.tokenRepo.FindByID(deviceID)
	if err != nil {
		return err
	}
	if token == nil || token.UserID != userID {
		return errors.New("device token not found")
	}

	if err := u.tokenRepo.SavePushToken(token.ID, req.PushToken); err != nil {
		return err
	}
	token.PushToken = &req.PushToken

	user, err := u.userRepo.FindByID(userID)
	if err != nil {
		return err
	}
	if user == nil {
		return errors.New("user not found")
	}

	u.publish(ctx, notification.ChannelTokenUpdated, notification.TokenUpdatedEvent{
		User:  *user,
		Token: *token,
	})
	return nil
}

func (u *authUsecase) UpdateNotificationPrefs(ctx context.Context, userID string, req *authdto.NotificationPrefsRequest) (*authdomain.User, error) {
	user, err := u.userRepo.FindByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, errors.New("user not found")
	}

	applyPref := func(dst *bool, src *bool) {
		if src != nil {
			*dst = *src
		}
	}
	applyPref(&user.NotificationsEnabled, req.NotificationsEnabled)
	applyPref(&user.NotifyPrivateMessages, req.NotifyPrivateMessages)
	applyPref(&user.NotifyLikes, req.NotifyLikes)
	applyPref(&user.NotifyReplies, req.NotifyReplies)
	applyPref(&user.NotifyChallengeJoins, req.NotifyChallengeJoins)
	applyPref(&user.NotifyChallengeDuplications, req.NotifyChallengeDuplications)
	applyPref(&user.NotifyReminders, req.NotifyReminders)

	if err := u.userRepo.Update(user); err != nil {
		return nil, err
	}

	u.publish(ctx, notification.ChannelUserUpdated, notification.UserUpdatedEvent{User: *user})
	return user, nil
}

func (u *authUsecase) DeleteAccount(ctx context.Context, userID string) error {
	// Snapshot the tokens first; every one gets its own removal event so
	// the relay closes any session still riding on it.
	tokens, err := u.tokenRepo.FindByUserID(userID)
	if err != nil {
		return err
	}

	if err := u.userRepo.MarkDeleted(userID); err != nil {
		return err
	}
	if err := u.tokenRepo.DeleteByUserID(userID); err != nil {
		return err
	}

	for _, token := range tokens {
		u.publish(ctx, notification.ChannelTokenRemoved, notification.TokenRemovedEvent{
			UserID:  userID,
			TokenID: token.ID,
		})
	}
	u.publish(ctx, notification.ChannelUserMarkedDeleted, notification.UserRemovedEvent{UserID: userID})
	return nil
}

func (u *authUsecase) generateAccessToken(user *authdomain.User, deviceID string) (string, error) {
	claims := jwt.MapClaims{
		"user_id":   user.ID,
		"device_id": deviceID,
		"exp":       time.Now().Add(u.config.JWTAccessExpiry).Unix(),
		"iat":       time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(u.config.JWTSecret))
}

// ValidateToken parses an access token and returns its user and device
// token id.
func (u *authUsecase) ValidateToken(tokenString string) (*authdomain.User, string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		return []byte(u.config.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return nil, "", errors.New("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, "", errors.New("invalid token claims")
	}

	userID, ok := claims["user_id"].(string)
	if !ok {
		return nil, "", errors.New("invalid token claims")
	}
	deviceID, _ := claims["device_id"].(string)

	user, err := u.userRepo.FindByID(userID)
	if err != nil {
		return nil, "", err
	}
	if user == nil {
		return nil, "", errors.New("user not found")
	}

	return user, deviceID, nil
}

// publish emits a bus event after the surrounding transaction committed.
// Failures are logged only; live delivery is best effort.
func (u *authUsecase) publish(ctx context.Context, channel string, payload any) {
	if u.bus == nil {
		return
	}
	if err := u.bus.Publish(ctx, channel, payload); err != nil {
		log.Printf("[Auth] Failed to publish %s event: %v", channel, err)
	}
}
