package routes

import (
	"log/slog"
	"net/http"

	"github.com/FANGxPC/C2C-Hackathon-sub000/internal/auth"
	"github.com/FANGxPC/C2C-Hackathon-sub000/internal/handlers"
	"github.com/FANGxPC/C2C-Hackathon-sub000/internal/middleware"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(h *handlers.Handler, tokens *auth.TokenManager, log *slog.Logger) *gin.Engine {
	ginRouter := gin.New()
	ginRouter.Use(gin.Recovery(), middleware.RequestLogger(log), middleware.CORS())

	ginRouter.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "Progress tracker API is running",
		})
	})

	// Public routes (no authentication required)
	api := ginRouter.Group("/api")
	{
		api.POST("/register", h.Register)
		api.POST("/login", h.Login)
	}

	// Protected routes (authentication required)
	protectedRoutes := api.Group("")
	protectedRoutes.Use(middleware.JWTAuth(tokens))
	{
		protectedRoutes.GET("/me", h.Me)
		protectedRoutes.GET("/dashboard", h.Dashboard)
		protectedRoutes.GET("/ws", h.WebSocket)

		tracker := protectedRoutes.Group("/tracker")
		tracker.GET("/tasks", h.ListTasks)
		tracker.GET("/tasks/:id", h.GetTask)
		tracker.POST("/tasks", h.CreateTask)
		tracker.PUT("/tasks/:id", h.UpdateTask)
		tracker.PATCH("/tasks/:id/toggle", h.ToggleTask)
		tracker.DELETE("/tasks/:id", h.DeleteTask)

		tracker.GET("/weekly", h.Weekly)
		tracker.GET("/daily", h.Daily)
		tracker.GET("/calendar", h.Calendar)
		tracker.GET("/streak", h.Streak)
	}

	return ginRouter
}
