package httptransport

import (
	"log/slog"

	"github.com/ErlanBelekov/taskboard/internal/transport/http/handler"
	"github.com/ErlanBelekov/taskboard/internal/transport/http/middleware"
	"github.com/gin-gonic/gin"

	sloggin "github.com/samber/slog-gin"
)

// NewRouter wires the public API. There is no auth middleware: every task
// handler and /auth/me authenticate the request themselves before touching
// storage. authLimiter throttles the credential endpoints per client IP and
// may be nil.
func NewRouter(logger *slog.Logger, authLimiter *middleware.RateLimiter, authHandler *handler.AuthHandler, taskHandler *handler.TaskHandler) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Security())
	r.Use(sloggin.New(logger))
	r.Use(middleware.Metrics())

	authRoutes := r.Group("/auth")
	authRoutes.POST("/register", authLimiter.Middleware(), authHandler.Register)
	authRoutes.POST("/login", authLimiter.Middleware(), authHandler.Login)
	authRoutes.POST("/logout", authHandler.Logout)
	authRoutes.GET("/me", authHandler.Me)

	tasks := r.Group("/tasks")
	tasks.GET("", taskHandler.List)
	tasks.POST("", taskHandler.Create)
	tasks.GET("/:id", taskHandler.GetByID)
	tasks.PUT("/:id", taskHandler.Update)
	tasks.DELETE("/:id", taskHandler.Delete)

	return r
}
