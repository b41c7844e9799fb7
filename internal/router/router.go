package router

import (
	"log"
	"net/http"

	"github.com/labstack/echo/v4"
	eMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/yewo0on/HobbyFind/internal/handlers"
	"github.com/yewo0on/HobbyFind/internal/middleware"
	"github.com/yewo0on/HobbyFind/internal/models"
	"github.com/yewo0on/HobbyFind/internal/repositories"
	"gorm.io/gorm"
)

// SetupMiddleware configures global Echo middleware
func SetupMiddleware(e *echo.Echo) {
	e.Use(eMiddleware.Recover())
	e.Use(eMiddleware.CORS())
	e.HTTPErrorHandler = HTTPErrorHandler
	log.Println("Global middleware configured.")
}

// HTTPErrorHandler renders every error as {"error": message}, the wire shape
// the bookmark client parses. Non-HTTPError values stay generic so internal
// detail never reaches the caller.
func HTTPErrorHandler(err error, c echo.Context) {
	code := http.StatusInternalServerError
	message := "Internal server error"

	if he, ok := err.(*echo.HTTPError); ok {
		code = he.Code
		if msg, ok := he.Message.(string); ok {
			message = msg
		}
	}

	if c.Response().Committed {
		return
	}
	if c.Request().Method == http.MethodHead {
		_ = c.NoContent(code)
		return
	}
	if jsonErr := c.JSON(code, echo.Map{"error": message}); jsonErr != nil {
		log.Printf("Failed to write error response: %v", jsonErr)
	}
}

// SetupRoutes configures all application routes and injects dependencies
func SetupRoutes(e *echo.Echo, pgdb *gorm.DB, provider handlers.CredentialProvider, jwtSecret string) {
	// AutoMigrate PostgreSQL models
	err := pgdb.AutoMigrate(
		&models.User{},
		&models.Bookmark{},
	)
	if err != nil {
		log.Fatalf("Failed to auto migrate models: %v", err)
	}
	log.Println("PostgreSQL auto-migrations completed for all models.")

	// Health check - always accessible
	e.GET("/health", handlers.HealthCheck)

	// --- Initialize Repositories ---
	userRepo := repositories.NewPostgresUserRepository(pgdb)
	bookmarkRepo := repositories.NewPostgresBookmarkRepository(pgdb)

	// --- Public catalog routes ---
	hobbyHandler := handlers.NewHobbyHandler()
	hobbyHandler.RegisterHobbyRoutes(e)
	log.Println("Hobby catalog routes configured.")

	// --- Unprotected routes for authentication ---
	authGroup := e.Group("/api/v1/auth")
	authHandler := handlers.NewAuthHandler(userRepo, provider, jwtSecret)
	authHandler.RegisterAuthRoutes(authGroup)
	log.Println("Auth routes configured.")

	// --- Protected routes (require JWT authentication) ---
	api := e.Group("/api/v1")
	api.Use(middleware.JWTAuthMiddleware(jwtSecret))
	log.Println("JWT authentication middleware applied to /api/v1 group.")

	// Bookmark routes
	bookmarkHandler := handlers.NewBookmarkHandler(bookmarkRepo)
	bookmarkHandler.RegisterBookmarkRoutes(api)
	log.Println("Bookmark routes configured.")

	// My-page summary routes
	meHandler := handlers.NewMeHandler(bookmarkRepo)
	meHandler.RegisterMeRoutes(api)
	log.Println("Summary routes configured.")

	log.Println("All routes configured.")
}
