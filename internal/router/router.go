package router

import (
	"fmt"
	"log"
	"net/http"

	"firebase.google.com/go/v4/auth"
	"github.com/kollect-app/kollect/backend/internal/handlers"
	"github.com/kollect-app/kollect/backend/internal/middleware"
	"github.com/kollect-app/kollect/backend/internal/models"
	"github.com/kollect-app/kollect/backend/internal/repositories"
	"github.com/kollect-app/kollect/backend/internal/services"
	"github.com/kollect-app/kollect/backend/pkg/config"
	"github.com/labstack/echo/v4"
	eMiddleware "github.com/labstack/echo/v4/middleware"
)

// SetupMiddleware configures global Echo middleware and the envelope-shaped
// error handler
func SetupMiddleware(e *echo.Echo) {
	e.Use(eMiddleware.Recover())
	e.Use(eMiddleware.CORS())
	e.HTTPErrorHandler = errorHandler
	log.Println("Global middleware configured.")
}

// errorHandler shapes every error as {success: false, message}
func errorHandler(err error, c echo.Context) {
	code := http.StatusInternalServerError
	message := err.Error()
	if he, ok := err.(*echo.HTTPError); ok {
		code = he.Code
		message = fmt.Sprintf("%v", he.Message)
	}

	if !c.Response().Committed {
		if jsonErr := c.JSON(code, echo.Map{"success": false, "message": message}); jsonErr != nil {
			log.Printf("Failed to write error response: %v", jsonErr)
		}
	}
}

// SetupRoutes configures all application routes and injects dependencies.
// firebaseAuthClient may be nil when Firebase login is not configured.
func SetupRoutes(e *echo.Echo, db *config.DB, firebaseAuthClient *auth.Client, cfg *config.Config) {
	// AutoMigrate the PostgreSQL-backed models
	if err := db.Postgres.AutoMigrate(&models.Message{}); err != nil {
		log.Fatalf("Failed to auto migrate models: %v", err)
	}
	log.Println("PostgreSQL auto-migrations completed.")

	// Health check - always accessible
	e.GET("/health", handlers.HealthCheck)

	// --- Initialize repositories ---
	mongoDB := db.Mongo.Database(cfg.MongoDatabase)
	userRepo := repositories.NewMongoUserRepository(mongoDB)
	postRepo := repositories.NewMongoPostRepository(mongoDB)
	notificationRepo := repositories.NewMongoNotificationRepository(mongoDB)
	campaignRepo := repositories.NewMongoCampaignRepository(mongoDB)
	workRepo := repositories.NewMongoWorkRepository(mongoDB)
	messageRepo := repositories.NewPostgresMessageRepository(db.Postgres)

	notifier := services.NewNotifier(notificationRepo)

	// --- Unprotected routes for authentication ---
	authGroup := e.Group("/api/v1/auth")
	authHandler := handlers.NewAuthHandler(userRepo, firebaseAuthClient, cfg.JWTSecret)
	authHandler.RegisterAuthRoutes(authGroup)
	log.Println("Auth routes configured.")

	// --- Protected routes (require JWT authentication) ---
	api := e.Group("/api/v1")
	api.Use(middleware.JWTAuthMiddleware(cfg.JWTSecret))
	log.Println("JWT authentication middleware applied to /api/v1 group.")

	userHandler := handlers.NewUserHandler(userRepo, postRepo)
	userHandler.RegisterProfileRoutes(api)

	postHandler := handlers.NewPostHandler(postRepo, userRepo)
	postHandler.RegisterPostRoutes(api)

	reactionHandler := handlers.NewReactionHandler(postRepo, notifier)
	reactionHandler.RegisterReactionRoutes(api)

	commentHandler := handlers.NewCommentHandler(postRepo, notifier)
	commentHandler.RegisterCommentRoutes(api)

	followHandler := handlers.NewFollowHandler(userRepo, notifier)
	followHandler.RegisterFollowRoutes(api)

	feedHandler := handlers.NewFeedHandler(postRepo, userRepo)
	feedHandler.RegisterFeedRoutes(api)

	notificationHandler := handlers.NewNotificationHandler(notificationRepo, userRepo)
	notificationHandler.RegisterNotificationRoutes(api)

	campaignHandler := handlers.NewCampaignHandler(campaignRepo, workRepo, userRepo, notifier)
	campaignHandler.RegisterCampaignRoutes(api)

	workHandler := handlers.NewWorkHandler(workRepo, notifier)
	workHandler.RegisterWorkRoutes(api)

	messageHandler := handlers.NewMessageHandler(messageRepo, userRepo)
	messageHandler.RegisterMessageRoutes(api)

	log.Println("All routes configured.")
}
