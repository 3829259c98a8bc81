package router

import (
	"net/http"

	"notiq/internal/config"
	"notiq/internal/domain/notification"
	"notiq/internal/domain/user"
	"notiq/internal/middleware"

	"github.com/gin-gonic/gin"
)

// New creates and configures the Gin router with all middleware and routes.
func New(
	cfg *config.Config,
	notificationHandler *notification.Handler,
	userHandler *user.Handler,
) *gin.Engine {
	// Set Gin mode
	gin.SetMode(cfg.Server.Mode)

	r := gin.New()

	// Global middleware stack (order matters)
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.CORS(
		cfg.CORS.AllowedOrigins,
		cfg.CORS.AllowedMethods,
		cfg.CORS.AllowedHeaders,
	))

	// Per-IP request limiter
	requestLimiter := middleware.NewRequestLimiter(
		cfg.RateLimit.RequestsPerSecond,
		cfg.RateLimit.Burst,
	)
	r.Use(requestLimiter.Middleware())

	r.Use(gin.Logger())

	// Public routes
	r.GET("/health", healthCheck)

	users := r.Group("/users")
	{
		userHandler.RegisterRoutes(users)
	}

	// Bearer token required for the dispatch surface
	notifications := r.Group("/notifications")
	notifications.Use(middleware.Auth(cfg.Auth.JWTSecret))
	{
		notificationHandler.RegisterRoutes(notifications)
	}

	return r
}

// healthCheck handles GET /health
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": "notiq",
	})
}
