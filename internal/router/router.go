// Package router wires handlers and middleware into the gin engine.
package router

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/yukikurage/task-tracker-api/internal/handlers"
	"github.com/yukikurage/task-tracker-api/internal/middleware"
	"github.com/yukikurage/task-tracker-api/internal/services"
)

// Services groups what the routes need.
type Services struct {
	Auth     *services.AuthService
	Tasks    *services.TaskService
	Comments *services.CommentService
	Tokens   middleware.TokenVerifier
	Store    handlers.Pinger
}

// New builds the engine. Mode is left to the caller via gin.SetMode.
func New(svc Services, log logrus.FieldLogger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(log))

	authHandler := handlers.NewAuthHandler(svc.Auth, log)
	taskHandler := handlers.NewTaskHandler(svc.Tasks, log)
	commentHandler := handlers.NewCommentHandler(svc.Comments, log)
	healthHandler := handlers.NewHealthHandler(svc.Store, log)

	r.GET("/health", healthHandler.Health)

	// Auth routes (public)
	auth := r.Group("/auth")
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
		auth.POST("/logout", authHandler.Logout)
	}

	requireAuth := middleware.RequireAuth(svc.Tokens, log)

	tasks := r.Group("/tasks")
	tasks.Use(requireAuth)
	{
		tasks.GET("", taskHandler.ListTasks)
		tasks.POST("", taskHandler.CreateTask)
		tasks.GET("/:id", taskHandler.GetTask)
		tasks.PUT("/:id", taskHandler.UpdateTask)
		tasks.DELETE("/:id", taskHandler.DeleteTask)
	}

	comments := r.Group("/comments")
	comments.Use(requireAuth)
	{
		comments.GET("", commentHandler.ListComments)
		comments.POST("", commentHandler.CreateComment)
		comments.GET("/:id", commentHandler.GetComment)
		comments.PUT("/:id", commentHandler.UpdateComment)
		comments.DELETE("/:id", commentHandler.DeleteComment)
	}

	return r
}
