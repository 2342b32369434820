package api

import (
	"net/http"

	authDelivery "habitlink-backend/internal/auth/delivery"
	reminderDelivery "habitlink-backend/internal/reminder/delivery"
	socialDelivery "habitlink-backend/internal/social/delivery"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(r *gin.Engine, h *Handler) {
	authHandler := authDelivery.NewAuthHandler(h.authUsecase)
	socialHandler := socialDelivery.NewSocialHandler(h.socialUsecase)
	reminderHandler := reminderDelivery.NewReminderHandler(h.reminderRepo)
	authRequired := authDelivery.AuthMiddleware(h.authUsecase)

	api := r.Group("/api")
	{
		// Health check (no auth required)
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{
				"status":       "ok",
				"sessions":     h.registry.Count(),
				"cached_users": h.cache.Len(),
			})
		})

		// Live notification stream
		api.GET("/ws", authRequired, h.wsHandler.Serve)

		// Auth routes
		auth := api.Group("/auth")
		{
			auth.POST("/signup", authHandler.Signup)
			auth.POST("/login", authHandler.Login)
			auth.POST("/refresh", authRequired, authHandler.Refresh)
			auth.POST("/logout", authRequired, authHandler.Logout)
			auth.GET("/me", authRequired, authHandler.Me)
			auth.DELETE("/me", authRequired, authHandler.DeleteAccount)
		}

		// Device / notification settings (protected)
		devices := api.Group("/devices")
		devices.Use(authRequired)
		{
			devices.POST("/push-token", authHandler.RegisterPushToken)
		}
		api.PATCH("/notification-prefs", authRequired, authHandler.UpdateNotificationPrefs)

		// Messaging routes (protected)
		messages := api.Group("/messages")
		messages.Use(authRequired)
		{
			messages.POST("", socialHandler.SendMessage)
			messages.PATCH("/:id", socialHandler.UpdateMessage)
			messages.POST("/public", socialHandler.PostMessage)
			messages.POST("/:id/like", socialHandler.LikeMessage)
			messages.POST("/:id/reply", socialHandler.ReplyToMessage)
		}

		// Challenge routes (protected)
		challenges := api.Group("/challenges")
		challenges.Use(authRequired)
		{
			challenges.POST("", socialHandler.CreateChallenge)
			challenges.POST("/:id/join", socialHandler.JoinChallenge)
			challenges.POST("/:id/duplicate", socialHandler.DuplicateChallenge)
		}

		// Reminder routes (protected)
		reminders := api.Group("/reminders")
		reminders.Use(authRequired)
		{
			reminders.POST("", reminderHandler.Create)
			reminders.DELETE("/:id", reminderHandler.Delete)
		}
	}
}
