package main

import (
	"context"
	"log"

	api "habitlink-backend/cmd/api"
	authdomain "habitlink-backend/internal/auth/domain"
	authRepo "habitlink-backend/internal/auth/repository"
	authUsecase "habitlink-backend/internal/auth/usecase"
	"habitlink-backend/internal/notification"
	reminderdomain "habitlink-backend/internal/reminder/domain"
	reminderRepo "habitlink-backend/internal/reminder/repository"
	reminderScheduler "habitlink-backend/internal/reminder/scheduler"
	socialdomain "habitlink-backend/internal/social/domain"
	socialRepo "habitlink-backend/internal/social/repository"
	socialUsecase "habitlink-backend/internal/social/usecase"
	"habitlink-backend/pkg/bus"
	"habitlink-backend/pkg/config"
	"habitlink-backend/pkg/database"
	"habitlink-backend/pkg/fcm"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database
	db, err := database.NewPostgresConnection(cfg)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	// Auto-migrate database schemas
	if err := db.AutoMigrate(&authdomain.User{}, &authdomain.DeviceToken{}, &socialdomain.Message{}, &socialdomain.Like{}, &socialdomain.Challenge{}, &socialdomain.ChallengeMember{}, &reminderdomain.Reminder{}); err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	// Initialize repositories (dependency injection)
	userRepository := authRepo.NewUserRepository(db)
	tokenRepository := authRepo.NewDeviceTokenRepository(db)
	messageRepository := socialRepo.NewMessageRepository(db)
	challengeRepository := socialRepo.NewChallengeRepository(db)
	reminderRepository := reminderRepo.NewReminderRepository(db)
	storeGateway := authRepo.NewStoreGateway(userRepository, tokenRepository)

	// Process-local relay state: session registry and user/device cache.
	// Shared, lock-protected, injected; cross-process coherence comes from
	// the bus.
	registry := notification.NewRegistry()
	cache := notification.NewCache()

	ctx := context.Background()

	// Initialize event bus publisher.
	// Only available when the project ID is configured.
	var publisher *bus.Publisher
	if cfg.GoogleProjectID != "" {
		publisher, err = bus.NewPublisher(ctx, cfg.GoogleProjectID, cfg.GoogleCredentials)
		if err != nil {
			log.Printf("[ERROR] Failed to initialize event bus publisher: %v", err)
		}
	} else {
		log.Printf("[WARN] GOOGLE_PROJECT_ID not configured, event bus disabled")
	}

	// Initialize FCM Client (optional, the relay works without push)
	var fcmClient *fcm.Client
	if cfg.FirebaseCredentials != "" {
		fcmClient, err = fcm.NewClient(cfg.FirebaseCredentials)
		if err != nil {
			log.Printf("[WARN] Failed to initialize FCM client (push notifications disabled): %v", err)
		}
	} else {
		log.Printf("[WARN] No Firebase credentials configured, FCM disabled")
	}

	// Notification dispatcher and bus listener
	var pushSender notification.PushSender
	if fcmClient != nil {
		pushSender = fcmClient
	}
	dispatcher := notification.NewDispatcher(cache, registry, storeGateway, pushSender, storeGateway)

	if cfg.GoogleProjectID != "" {
		listener, err := notification.NewListener(ctx, cfg.GoogleProjectID, cfg.GoogleCredentials, cache, dispatcher, registry)
		if err != nil {
			log.Printf("[ERROR] Failed to initialize bus listener: %v", err)
		} else {
			go listener.Start(ctx)
		}
	}

	// Initialize use cases (dependency injection)
	var eventPublisher authUsecase.EventPublisher
	var socialPublisher socialUsecase.EventPublisher
	var reminderPublisher reminderScheduler.EventPublisher
	if publisher != nil {
		eventPublisher = publisher
		socialPublisher = publisher
		reminderPublisher = publisher
	}
	authUsecaseInstance := authUsecase.NewAuthUsecase(userRepository, tokenRepository, eventPublisher, cfg)
	socialUsecaseInstance := socialUsecase.NewSocialUsecase(messageRepository, challengeRepository, userRepository, socialPublisher)

	// Reminder scheduler publishes synthetic notification events
	scheduler := reminderScheduler.NewReminderScheduler(reminderRepository, reminderPublisher, cfg.ReminderInterval)
	scheduler.Start()

	// Initialize HTTP handler
	handler := api.NewHandler(authUsecaseInstance, socialUsecaseInstance, reminderRepository, registry, cache, cfg)

	// Start server
	log.Printf("Server starting on port %s", cfg.Port)
	if err := handler.Start(":" + cfg.Port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
