package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"kwbrowse/internal"
	"kwbrowse/internal/config"
	"kwbrowse/internal/container"

	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	appConfig, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	logger := internal.NewLogger(internal.ParseLogLevel(appConfig.Log.Level))

	c, err := container.New(appConfig, logger)
	if err != nil {
		log.Fatalf("Failed to build container: %v", err)
	}

	app, err := c.UIApp()
	if err != nil {
		log.Fatalf("Failed to create UI app: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	c.Warm(ctx)
	if err := app.Start(ctx, ":"+appConfig.Server.Port); err != nil {
		logger.Error("UI server stopped: %v", err)
	}
	_ = c.Shutdown(context.Background())
}
