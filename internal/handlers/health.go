package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/yukikurage/simple-task-app/internal/database"
	apierrors "github.com/yukikurage/simple-task-app/internal/errors"
	"gorm.io/gorm"
)

// HealthHandler reports liveness and readiness.
type HealthHandler struct {
	db    *gorm.DB
	redis *redis.Client
}

// NewHealthHandler creates a HealthHandler. redisClient is nil unless the
// Redis session store is in use.
func NewHealthHandler(db *gorm.DB, redisClient *redis.Client) *HealthHandler {
	return &HealthHandler{db: db, redis: redisClient}
}

// Health answers as long as the process is serving.
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"message": "Task list app is running",
	})
}

// Ready checks the database and, when configured, the Redis session backend.
func (h *HealthHandler) Ready(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	status := http.StatusOK
	body := gin.H{"status": "ready", "database": "up"}

	if err := database.Ping(ctx, h.db); err != nil {
		status = http.StatusServiceUnavailable
		body["status"] = "not ready"
		body["database"] = "down"
	}

	if h.redis != nil {
		if err := h.redis.Ping(ctx).Err(); err != nil {
			status = http.StatusServiceUnavailable
			body["status"] = "not ready"
			body["redis"] = "down"
		} else {
			body["redis"] = "up"
		}
	}

	if status != http.StatusOK {
		body["code"] = apierrors.ErrCodeServiceUnavailable
	}
	c.JSON(status, body)
}
