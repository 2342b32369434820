package repository

import (
	authdomain "habitlink-backend/internal/auth/domain"
)

// StoreGateway bundles the read-only lookups the notification relay performs
// on a cache miss, plus the one write it needs to discard dead push tokens.
type StoreGateway struct {
	users  UserRepository
	tokens DeviceTokenRepository
}

func NewStoreGateway(users UserRepository, tokens DeviceTokenRepository) *StoreGateway {
	return &StoreGateway{users: users, tokens: tokens}
}

func (g *StoreGateway) GetUserByID(id string) (*authdomain.User, error) {
	return g.users.FindByID(id)
}

func (g *StoreGateway) GetDeviceTokensByUser(userID string) ([]authdomain.DeviceToken, error) {
	return g.tokens.FindByUserID(userID)
}

func (g *StoreGateway) ClearPushToken(tokenID string) error {
	return g.tokens.ClearPushToken(tokenID)
}
