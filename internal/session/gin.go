package session

import (
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/yukikurage/simple-task-app/internal/constants"
)

// FromContext reads the session stored by the gin-contrib/sessions middleware.
func FromContext(c *gin.Context) Session {
	stored := sessions.Default(c).Get(constants.ContextKeyUserID)

	switch v := stored.(type) {
	case uint64:
		return Authenticated(v)
	case uint:
		return Authenticated(uint64(v))
	case int:
		if v < 0 {
			return Anonymous()
		}
		return Authenticated(uint64(v))
	case int64:
		if v < 0 {
			return Anonymous()
		}
		return Authenticated(uint64(v))
	default:
		return Anonymous()
	}
}

// Save writes s back through the gin-contrib/sessions middleware.
func Save(c *gin.Context, s Session) error {
	store := sessions.Default(c)
	if userID, ok := s.UserID(); ok {
		store.Set(constants.ContextKeyUserID, userID)
	} else {
		store.Clear()
	}
	return store.Save()
}
