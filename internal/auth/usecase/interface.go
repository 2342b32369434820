package usecase

import (
	"context"

	authdomain "habitlink-backend/internal/auth/domain"
	authdto "habitlink-backend/internal/auth/dto"
)

// EventPublisher is the post-commit publication side of the bus; nil-safe
// callers must check before publishing when the bus is not configured.
type EventPublisher interface {
	Publish(ctx context.Context, channel string, payload any) error
}

// AuthUsecase defines account and device-token lifecycle operations
type AuthUsecase interface {
	Signup(ctx context.Context, req *authdto.SignupRequest) (*authdto.TokenResponse, error)
	Login(ctx context.Context, req *authdto.LoginRequest) (*authdto.TokenResponse, error)
	Refresh(ctx context.Context, userID, deviceID string) (*authdto.TokenResponse, error)
	Logout(ctx context.Context, userID, deviceID string) error
	ValidateToken(tokenString string) (*authdomain.User, string, error)
	RegisterPushToken(ctx context.Context, userID, deviceID string, req *authdto.RegisterPushTokenRequest) error
	UpdateNotificationPrefs(ctx context.Context, userID string, req *authdto.NotificationPrefsRequest) (*authdomain.User, error)
	DeleteAccount(ctx context.Context, userID string) error
}
