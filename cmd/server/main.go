package main

import (
	"context"
	"log"
	"log/slog"
	"os"

	"github.com/labstack/echo/v4"
	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"

	"github.com/tripverse/backend/internal/email"
	"github.com/tripverse/backend/internal/router"
	"github.com/tripverse/backend/pkg/config"
	"github.com/tripverse/backend/validators"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database connections
	db, err := config.InitDB(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize databases: %v", err)
	}
	defer db.CloseDB()

	// Email provider for magic-link delivery
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	var provider email.Provider
	switch cfg.EmailProvider {
	case "brevo":
		provider = email.NewBrevoProvider(cfg.BrevoAPIKey, cfg.EmailFromAddr, cfg.EmailFromName, logger)
	case "gmail":
		svc, err := gmail.NewService(context.Background(),
			option.WithCredentialsFile(os.Getenv("GMAIL_CREDENTIALS_PATH")),
			option.WithScopes(gmail.GmailSendScope))
		if err != nil {
			log.Fatalf("Failed to initialize Gmail service: %v", err)
		}
		provider = email.NewGmailProvider(svc, logger)
	default:
		provider = email.NewMockProvider(logger)
	}
	mailer := email.New(provider, logger, cfg.BaseURL)

	// Create Echo instance
	e := echo.New()

	// Setup global middleware
	router.SetupMiddleware(e)

	// Setup routes and dependencies
	router.SetupRoutes(e, cfg, db.Postgres, db.Mongo, mailer)

	// Validator
	e.Validator = validators.NewValidator()

	// Start server
	e.Logger.Fatal(e.Start(":" + cfg.Port))
}
