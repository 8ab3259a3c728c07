package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/yukikurage/simple-task-app/internal/constants"
	apierrors "github.com/yukikurage/simple-task-app/internal/errors"
	"github.com/yukikurage/simple-task-app/internal/session"
)

// RequireAuth checks if the user is authenticated via session
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := session.FromContext(c).UserID()
		if !ok {
			apierrors.Unauthorized(c, "")
			return
		}

		// Store user ID in context for easy access in handlers
		c.Set(constants.ContextKeyUserID, userID)
		c.Next()
	}
}

// GetUserID retrieves the current user ID from context
func GetUserID(c *gin.Context) (uint64, bool) {
	userID, exists := c.Get(constants.ContextKeyUserID)
	if !exists {
		return 0, false
	}

	v, ok := userID.(uint64)
	return v, ok
}
