package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sangkips/po-composer/internal/application/service"
	"github.com/sangkips/po-composer/internal/presentation/http/dto/response"
)

// Context keys set by SessionMiddleware
const (
	SessionKey   = "session"
	SessionIDKey = "session_id"
)

// SessionMiddleware resolves the bearer session token to its live session.
// A valid token whose session is no longer in memory gets it re-created.
func SessionMiddleware(sessions *service.SessionManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := BearerToken(c)
		if !ok {
			response.Unauthorized(c, "Authorization header is required")
			c.Abort()
			return
		}

		sessionID, err := sessions.ValidateToken(token)
		if err != nil {
			response.Error(c, err)
			c.Abort()
			return
		}

		session, err := sessions.Get(c.Request.Context(), sessionID)
		if err != nil {
			response.Error(c, err)
			c.Abort()
			return
		}

		c.Set(SessionKey, session)
		c.Set(SessionIDKey, sessionID)

		c.Next()
	}
}

// BearerToken extracts the token from an "Authorization: Bearer <token>" header
func BearerToken(c *gin.Context) (string, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return "", false
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

// GetSessionID extracts the session ID from the Gin context
func GetSessionID(c *gin.Context) uuid.UUID {
	val, exists := c.Get(SessionIDKey)
	if !exists {
		return uuid.Nil
	}
	id, ok := val.(uuid.UUID)
	if !ok {
		return uuid.Nil
	}
	return id
}

// GetSession extracts the session from the Gin context
func GetSession(c *gin.Context) *service.Session {
	val, exists := c.Get(SessionKey)
	if !exists {
		return nil
	}
	session, _ := val.(*service.Session)
	return session
}
