package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/yukikurage/simple-task-app/internal/middleware"
	"github.com/yukikurage/simple-task-app/internal/web"
)

// Handlers groups everything SetupRoutes mounts.
type Handlers struct {
	Web    *WebHandler
	Auth   *AuthHandler
	Tasks  *TaskHandler
	Health *HealthHandler
}

// SetupRoutes mounts the pages, the JSON API and the health endpoints.
func SetupRoutes(r *gin.Engine, h Handlers) {
	r.GET("/health", h.Health.Health)
	r.GET("/ready", h.Health.Ready)

	r.SetHTMLTemplate(web.Templates())
	h.Web.Register(r)
	r.HandleMethodNotAllowed = true
	r.NoMethod(h.Web.NoMethod)

	api := r.Group("/api")
	api.Use(middleware.RequireAuth())
	{
		api.GET("/auth/me", h.Auth.GetCurrentUser)
		api.GET("/tasks", h.Tasks.ListTasks)
		api.POST("/tasks", h.Tasks.CreateTask)
	}
}
