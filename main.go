package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"foodshare/internal/app"
	"foodshare/internal/config"
	"foodshare/pkg/logger"
)

func main() {
	// --- Configuration ---
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// --- Initialize Application ---
	ctx := context.Background()
	application, err := app.NewApp(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}

	// --- Start HTTP Server ---
	logger.Info("starting server", "port", cfg.AppPort, "database", cfg.DatabaseDriver,
		"storage", cfg.StorageDriver, "notify", cfg.NotifyTransport, "mail", cfg.Mail.Driver)

	// Graceful shutdown handling
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := application.Fiber.Listen(cfg.AppPort); err != nil {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	<-quit
	logger.Info("shutting down server")

	if err := application.Fiber.Shutdown(); err != nil {
		logger.Error("error during Fiber shutdown", "error", err)
	}

	// Pending notifications are drained before the database is closed
	if err := application.Close(); err != nil {
		logger.Error("error releasing resources", "error", err)
	}

	logger.Info("server gracefully stopped")
}
