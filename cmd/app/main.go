package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"SafeDrive/internal/config"
	"SafeDrive/pkg/log"

	"github.com/joho/godotenv"
)

func main() {
	logger := log.NewLogger()
	if err := godotenv.Load(); err != nil {
		logger.Warnf("No .env file loaded, using process environment: %v", err)
	}

	cfg := config.Load()
	validation := cfg.Validate()
	for _, warning := range validation.Warnings {
		logger.Warn(warning)
	}
	if !validation.Valid {
		for _, e := range validation.Errors {
			logger.Error(e)
		}
		logger.Fatal("Invalid configuration")
	}

	fiberApp := config.NewFiber(logger)
	validator := config.NewValidator()

	server, err := config.NewServer(
		config.WithFiber(fiberApp),
		config.WithLogger(logger),
		config.WithConfig(cfg),
		config.WithValidator(validator),
		config.WithDatabase(),
		config.WithRedisServer(),
		config.WithS3Client(),
		config.WithFaceDetector(),
		config.WithGeminiClient(),
		config.WithEmotionClient(),
		config.WithChatClient(),
		config.WithGeocoder(),
		config.WithMiddleware(),
		config.WithUtils(),
	)
	if err != nil {
		logger.Fatal(err)
	}

	server.RegisterHandler()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := server.Run(); err != nil {
			logger.Fatalf("Error starting server: %v", err)
		}
	}()

	logger.Infof("%s %s started", config.AppName, config.AppVersion)

	<-sigChan
	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Errorf("Graceful shutdown failed: %v", err)
	}
}
