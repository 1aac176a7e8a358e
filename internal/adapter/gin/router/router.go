package router

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"library-desk/internal/adapter/gin/handler"
	"library-desk/internal/adapter/gin/middleware"
	"library-desk/pkg/logger"
	"library-desk/pkg/metrics"
)

// SetupRouter configures and returns a Gin router with all routes and middleware.
// rateLimiter may be nil.
func SetupRouter(h *handler.Handler, rateLimiter *middleware.RateLimiter, log *zap.Logger) *gin.Engine {
	router := gin.New()

	// Global middleware
	router.Use(middleware.Recovery(log))
	router.Use(logger.RequestID())
	router.Use(logger.AccessLog(log))
	router.Use(metrics.Middleware())

	router.GET("/health", h.Health)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// API v1 routes
	v1 := router.Group("/v1")
	v1.Use(rateLimiter.Middleware())
	{
		books := v1.Group("/books")
		{
			books.GET("", h.ListBooks)
			books.POST("", h.CreateBook)
			books.GET("/categories", h.Categories)
			books.GET("/:id", h.GetBook)
		}

		users := v1.Group("/users")
		{
			users.GET("", h.ListUsers)
			users.POST("", h.CreateUser)
			users.GET("/roles", h.Roles)
			users.GET("/borrowers", h.Borrowers)
			users.GET("/:id", h.GetUser)
		}

		v1.GET("/search", h.Search)
		v1.GET("/activity", h.Activity)
		v1.GET("/dashboard", h.Dashboard)
	}

	return router
}
