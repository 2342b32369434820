package api

import (
	authUsecase "habitlink-backend/internal/auth/usecase"
	"habitlink-backend/internal/notification"
	reminderRepo "habitlink-backend/internal/reminder/repository"
	socialUsecasePkg "habitlink-backend/internal/social/usecase"
	"habitlink-backend/internal/ws"
	"habitlink-backend/pkg/config"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	authUsecase   authUsecase.AuthUsecase
	socialUsecase socialUsecasePkg.SocialUsecase
	reminderRepo  reminderRepo.ReminderRepository
	registry      *notification.Registry
	cache         *notification.Cache
	wsHandler     *ws.Handler
	config        *config.Config
}

func NewHandler(authUc authUsecase.AuthUsecase, socialUc socialUsecasePkg.SocialUsecase, reminders reminderRepo.ReminderRepository, registry *notification.Registry, cache *notification.Cache, cfg *config.Config) *Handler {
	return &Handler{
		authUsecase:   authUc,
		socialUsecase: socialUc,
		reminderRepo:  reminders,
		registry:      registry,
		cache:         cache,
		wsHandler:     ws.NewHandler(registry),
		config:        cfg,
	}
}

// Start sets up routes and starts the HTTP server
func (h *Handler) Start(addr string) error {
	r := gin.Default()
	SetupRoutes(r, h)
	return r.Run(addr)
}
