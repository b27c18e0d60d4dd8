package main

import (
	"log"

	api "postroom-backend/cmd/api"
	authdomain "postroom-backend/internal/auth/domain"
	authRepo "postroom-backend/internal/auth/repository"
	authUsecase "postroom-backend/internal/auth/usecase"
	forwardingdomain "postroom-backend/internal/forwarding/domain"
	forwardingRepo "postroom-backend/internal/forwarding/repository"
	forwardingUsecase "postroom-backend/internal/forwarding/usecase"
	"postroom-backend/pkg/config"
	"postroom-backend/pkg/database"
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
	if err := db.AutoMigrate(
		&authdomain.User{},
		&authdomain.RefreshToken{},
		&forwardingdomain.ForwardingRequest{},
		&forwardingdomain.RequestLock{},
	); err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	// Initialize repositories (dependency injection)
	userRepo := authRepo.NewUserRepository(db)
	requestRepo := forwardingRepo.NewRequestRepository(db)
	lockRepo := forwardingRepo.NewLockRepository(db)

	// Initialize use cases
	authUsecaseInstance := authUsecase.NewAuthUsecase(userRepo, cfg)
	forwardingUsecaseInstance := forwardingUsecase.NewForwardingUsecase(requestRepo, lockRepo)

	// Initialize HTTP handler
	handler := api.NewHandler(authUsecaseInstance, forwardingUsecaseInstance, cfg)

	// Start server
	log.Printf("Server starting on port %s", cfg.Port)
	if err := handler.Start(":" + cfg.Port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
