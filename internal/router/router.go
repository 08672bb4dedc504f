package router

import (
	"log"

	"github.com/arefin88/vidora/backend/internal/handlers"
	"github.com/arefin88/vidora/backend/internal/middleware"
	"github.com/arefin88/vidora/backend/internal/models"
	"github.com/arefin88/vidora/backend/internal/notify"
	"github.com/arefin88/vidora/backend/internal/repositories"
	"github.com/arefin88/vidora/backend/pkg/firebase"
	"github.com/arefin88/vidora/backend/pkg/mailer"
	"github.com/labstack/echo/v4"
	eMiddleware "github.com/labstack/echo/v4/middleware"
	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"
)

// SetupMiddleware configures global Echo middleware
func SetupMiddleware(e *echo.Echo) {
	e.Use(eMiddleware.Recover())
	e.Use(eMiddleware.Logger())
	e.Use(eMiddleware.CORS())
	e.Use(eMiddleware.GzipWithConfig(eMiddleware.GzipConfig{
		// Compression must not wrap the hijacked websocket upgrade.
		Skipper: func(c echo.Context) bool {
			return c.Request().Header.Get(echo.HeaderUpgrade) == "websocket"
		},
	}))
	e.Use(eMiddleware.RateLimiter(eMiddleware.NewRateLimiterMemoryStore(20)))
	log.Println("Global middleware configured.")
}

// SetupRoutes configures all application routes and injects dependencies
func SetupRoutes(e *echo.Echo, pgdb *gorm.DB, mgClient *mongo.Client, firebaseApp *firebase.App) {
	// AutoMigrate PostgreSQL models
	err := pgdb.AutoMigrate(
		&models.User{},
		&models.Notification{},
	)
	if err != nil {
		log.Fatalf("Failed to auto migrate models: %v", err)
	}
	log.Println("PostgreSQL auto-migrations completed for all models.")

	// Health check - always accessible
	e.GET("/health", handlers.HealthCheck)

	// --- Initialize Repositories ---
	userRepo := repositories.NewPostgresUserRepository(pgdb)
	notificationRepo := repositories.NewPostgresNotificationRepository(pgdb)
	preferenceRepo := repositories.NewMongoPreferenceRepository(mgClient.Database("vidora"))

	// --- Notification engine ---
	registry := notify.NewRegistry()
	dispatcher := notify.NewDispatcher(registry)
	service := notify.NewService(
		notificationRepo,
		preferenceRepo,
		dispatcher,
		mailer.NewLogSender(),
		firebase.NewPushSender(firebaseApp.MessagingClient),
	)
	log.Println("Notification engine wired.")

	// --- Client API (requires Firebase authentication) ---
	api := e.Group("/api/v1")
	api.Use(middleware.FirebaseAuthMiddleware(firebaseApp.AuthClient, userRepo))
	log.Println("Firebase authentication middleware applied to /api/v1 group.")

	userHandler := handlers.NewUserHandler(userRepo)
	userHandler.RegisterUserRoutes(api)

	notificationHandler := handlers.NewNotificationHandler(notificationRepo, userRepo)
	notificationHandler.RegisterNotificationRoutes(api)
	log.Println("Notification routes configured.")

	preferenceHandler := handlers.NewPreferenceHandler(preferenceRepo)
	preferenceHandler.RegisterPreferenceRoutes(api)
	log.Println("Preference routes configured.")

	// --- Producer API (requires service JWT) ---
	internalGroup := e.Group("/internal")
	internalGroup.Use(middleware.ServiceAuthMiddleware())
	eventHandler := handlers.NewEventHandler(service)
	eventHandler.RegisterEventRoutes(internalGroup)
	log.Println("Internal event routes configured.")

	// --- Real-time channel (authenticates in-band) ---
	realtimeHandler := handlers.NewRealtimeHandler(
		registry,
		handlers.NewFirebaseTokenVerifier(firebaseApp.AuthClient),
		userRepo,
	)
	realtimeHandler.RegisterRealtimeRoutes(e)
	log.Println("Realtime channel configured.")

	log.Println("All routes configured.")
}
