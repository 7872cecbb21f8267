package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/po-composer/internal/application/service"
	"github.com/sangkips/po-composer/internal/presentation/http/dto/response"
	"github.com/sangkips/po-composer/internal/presentation/http/middleware"
	"github.com/sangkips/po-composer/pkg/apperror"
)

// currentSession returns the request's session, answering 401 when the
// route was mounted without SessionMiddleware.
func currentSession(c *gin.Context) (*service.Session, bool) {
	session := middleware.GetSession(c)
	if session == nil {
		response.Error(c, apperror.ErrSessionNotFound)
		return nil, false
	}
	return session, true
}

// itemIndex parses the zero-based :index path parameter
func itemIndex(c *gin.Context) (int, bool) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		response.BadRequest(c, "Invalid line item index")
		return 0, false
	}
	return index, true
}
