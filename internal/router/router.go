package router

import (
	"context"
	"log"
	"log/slog"
	"os"

	"github.com/labstack/echo/v4"
	eMiddleware "github.com/labstack/echo/v4/middleware"
	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"

	"github.com/tripverse/backend/internal/email"
	"github.com/tripverse/backend/internal/faq"
	"github.com/tripverse/backend/internal/handlers"
	"github.com/tripverse/backend/internal/middleware"
	"github.com/tripverse/backend/internal/models"
	"github.com/tripverse/backend/internal/notify"
	"github.com/tripverse/backend/internal/realtime"
	"github.com/tripverse/backend/internal/repositories"
	"github.com/tripverse/backend/internal/upload"
	"github.com/tripverse/backend/pkg/config"
)

// SetupMiddleware configures global Echo middleware
func SetupMiddleware(e *echo.Echo) {
	e.Use(eMiddleware.Recover())
	e.Use(eMiddleware.CORS())
	e.Use(eMiddleware.Logger())
	log.Println("Global middleware configured.")
}

// SetupRoutes configures all application routes and injects dependencies
func SetupRoutes(e *echo.Echo, cfg *config.Config, pgdb *gorm.DB, mgClient *mongo.Client, mailer *email.Sender) {
	// AutoMigrate PostgreSQL models
	err := pgdb.AutoMigrate(
		&models.User{},
		&models.Profile{},
		&models.Follow{},
		&models.Comment{},
		&models.Like{},
		&models.Bookmark{},
		&models.Notification{},
	)
	if err != nil {
		log.Fatalf("Failed to auto migrate models: %v", err)
	}
	log.Println("PostgreSQL auto-migrations completed for all models.")

	mongoDB := mgClient.Database("tripverse")
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	// Health check - always accessible
	e.GET("/health", handlers.HealthCheck)

	// --- Initialize Repositories ---
	userRepo := repositories.NewPostgresUserRepository(pgdb)
	profileRepo := repositories.NewPostgresProfileRepository(pgdb)
	followRepo := repositories.NewPostgresFollowRepository(pgdb)
	commentRepo := repositories.NewPostgresCommentRepository(pgdb)
	likeRepo := repositories.NewPostgresLikeRepository(pgdb)
	bookmarkRepo := repositories.NewPostgresBookmarkRepository(pgdb)
	notificationRepo := repositories.NewPostgresNotificationRepository(pgdb)
	postRepo := repositories.NewMongoPostRepository(mongoDB)
	chatRepo := repositories.NewMongoChatRepository(mongoDB)
	statsRepo := repositories.NewStatsRepository(pgdb, postRepo, chatRepo)

	if err := chatRepo.EnsureIndexes(context.Background()); err != nil {
		log.Fatalf("Failed to create chat indexes: %v", err)
	}

	notifier := notify.New(notificationRepo, profileRepo)

	// --- Realtime gateway ---
	hub := realtime.NewHub()
	gateway := realtime.NewGateway(hub, chatRepo, cfg.JWTSecret, logger)
	e.GET("/ws", gateway.ServeWS)
	log.Println("Realtime gateway configured.")

	// --- Unprotected routes for authentication ---
	authGroup := e.Group("/api/v1/auth")
	authHandler := handlers.NewAuthHandler(userRepo, mailer, cfg.JWTSecret)
	authHandler.RegisterAuthRoutes(authGroup)
	log.Println("Auth routes configured.")

	// --- Protected routes (require JWT authentication) ---
	api := e.Group("/api/v1")
	api.Use(middleware.JWTAuthMiddleware(cfg.JWTSecret))

	// User profile routes
	userHandler := handlers.NewUserHandler(userRepo, profileRepo)
	userHandler.RegisterProfileRoutes(api)
	api.GET("/users/search", userHandler.SearchUsers)
	log.Println("User profile routes configured.")

	// Post routes
	postHandler := handlers.NewPostHandler(postRepo, notifier)
	postHandler.RegisterPostRoutes(api)

	// Feed routes
	feedHandler := handlers.NewFeedHandler(postRepo, profileRepo, followRepo, likeRepo, bookmarkRepo)
	feedHandler.RegisterFeedRoutes(api)

	// Follow routes
	followHandler := handlers.NewFollowHandler(followRepo, userRepo, notifier)
	followHandler.RegisterFollowRoutes(api)

	// Comment routes
	commentHandler := handlers.NewCommentHandler(commentRepo, postRepo, notifier)
	commentHandler.RegisterCommentRoutes(api)

	// Like routes
	likeHandler := handlers.NewLikeHandler(likeRepo, postRepo, notifier)
	likeHandler.RegisterLikeRoutes(api)

	// Bookmark routes
	bookmarkHandler := handlers.NewBookmarkHandler(bookmarkRepo, postRepo)
	bookmarkHandler.RegisterBookmarkRoutes(api)
	log.Println("Content routes configured.")

	// Chat routes
	chatHandler := handlers.NewChatHandler(chatRepo, userRepo, profileRepo)
	chatHandler.RegisterChatRoutes(api)
	log.Println("Chat routes configured.")

	// Notification routes
	notificationHandler := handlers.NewNotificationHandler(notificationRepo, profileRepo)
	notificationHandler.RegisterNotificationRoutes(api)

	// Upload routes
	uploader := upload.NewCloudinaryUploader(cfg.CloudinaryCloudName, cfg.CloudinaryPreset, logger)
	uploadHandler := handlers.NewUploadHandler(uploader)
	uploadHandler.RegisterUploadRoutes(api)

	// FAQ routes
	faqHandler := handlers.NewFAQHandler(faq.NewBot(nil))
	faqHandler.RegisterFAQRoutes(api)

	// Admin routes
	adminGroup := api.Group("/admin")
	adminGroup.Use(middleware.AdminOnly())
	adminHandler := handlers.NewAdminHandler(statsRepo)
	adminHandler.RegisterAdminRoutes(adminGroup)
	log.Println("Admin routes configured.")

	log.Println("All routes configured.")
}
