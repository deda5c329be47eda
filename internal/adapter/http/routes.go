package http

import (
	"time"

	"casetasks/internal/adapter/http/handlers"
	"casetasks/internal/adapter/http/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(
	r *gin.Engine,
	healthHandler *handlers.HealthHandler,
	taskHandler *handlers.TaskHandler,
	defaultLocation *time.Location,
) {
	api := r.Group("/api")
	api.Use(middleware.LanguageMiddleware())
	{
		api.GET("/health", healthHandler.CheckHealth)
		api.GET("/health/report", healthHandler.CheckHealthReport)
	}

	tasks := api.Group("/tasks")
	tasks.Use(middleware.ActorMiddleware(defaultLocation))
	{
		tasks.POST("", taskHandler.CreateTask)
		tasks.GET("/:id", taskHandler.GetTask)
		tasks.PATCH("/:id", taskHandler.UpdateTask)
		tasks.GET("/:id/actions", taskHandler.GetActionFlags)
		tasks.POST("/:id/close", taskHandler.CloseTask)
		tasks.POST("/:id/reopen", taskHandler.ReopenTask)
		tasks.POST("/:id/complete", taskHandler.CompleteTask)
		tasks.POST("/:id/incomplete", taskHandler.RevokeCompletion)
	}
}
