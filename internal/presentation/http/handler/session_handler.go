package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sangkips/po-composer/internal/application/service"
	"github.com/sangkips/po-composer/internal/presentation/http/dto/response"
	"github.com/sangkips/po-composer/internal/presentation/http/middleware"
)

// SessionHandler opens draft sessions
type SessionHandler struct {
	sessions *service.SessionManager
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(sessions *service.SessionManager) *SessionHandler {
	return &SessionHandler{sessions: sessions}
}

// Open starts a session. A request carrying a valid session token restarts
// that session, like a page reload: the saved draft is offered for restore.
func (h *SessionHandler) Open(c *gin.Context) {
	var existing *uuid.UUID
	if token, ok := middleware.BearerToken(c); ok {
		if id, err := h.sessions.ValidateToken(token); err == nil {
			existing = &id
		}
	}

	session, token, err := h.sessions.Open(c.Request.Context(), existing)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Session opened", response.SessionResponse{
		Token:         token,
		DraftResponse: response.NewDraftResponse(session.View()),
	})
}
