package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/calorievision/backend/config"
	"github.com/calorievision/backend/internal/database"
	"github.com/calorievision/backend/internal/server"
	"github.com/calorievision/backend/internal/service"
)

func main() {
	// Initialize configuration
	cfg := config.Load()

	// Connect storage when configured; the service degrades to
	// storage-unavailable errors otherwise, and /test reports the state.
	var store database.DocumentStore
	var diagnostics database.Diagnostics
	if cfg.HasDatabase() {
		name := cfg.DatabaseName
		if name == "" {
			name = "calorie_vision"
		}
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		mongoStore, err := database.Connect(ctx, cfg.DatabaseURL, name)
		cancel()
		if err != nil {
			log.Printf("Warning: database unavailable: %v", err)
		} else {
			store = mongoStore
			diagnostics = mongoStore
		}
	} else {
		log.Println("Warning: DATABASE_URL not set, running without storage")
	}

	// Construct services
	authService := service.NewAuthService(store, service.NewBcryptHasher())
	mealService := service.NewMealService(store, service.NewVisionService(cfg))

	// Create and start server
	srv := server.New(cfg, diagnostics, authService, mealService)

	// Channel to listen for errors coming from the server
	errChan := make(chan error, 1)

	go func() {
		log.Printf("Starting server on port %s...", cfg.ServerPort)
		errChan <- srv.Start()
	}()

	// Channel to listen for an interrupt or terminate signal from the OS
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	// Block until we receive a signal or error
	select {
	case err := <-errChan:
		if err != nil {
			log.Fatalf("Server error: %v", err)
		}
	case sig := <-quit:
		log.Printf("Received signal: %v", sig)
	}

	// Gracefully shutdown the server
	log.Println("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server shutdown error: %v", err)
	}
	log.Println("Server stopped")
}
