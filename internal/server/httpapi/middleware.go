package httpapi

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/dmitrijs2005/taskkeeper/internal/common"
)

// contextUserKey is the gin context key carrying the authenticated user id.
const contextUserKey = "auth.userID"

// authRequired extracts the Bearer token, verifies it, and stores the bound
// user id on the request context. The services never see raw tokens.
func (s *Server) authRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"message": "missing token",
			})
			return
		}

		claims, err := s.users.VerifyToken(token)
		if err != nil {
			s.respondError(c, err)
			c.Abort()
			return
		}

		c.Set(contextUserKey, claims.UserID)
		c.Next()
	}
}

// userID returns the authenticated user id placed by authRequired.
func userID(c *gin.Context) string {
	return c.GetString(contextUserKey)
}

// respondError maps the sentinel error taxonomy to HTTP statuses. Internal
// faults are logged with detail and answered with a generic message.
func (s *Server) respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	message := err.Error()

	switch {
	case errors.Is(err, common.ErrValidation):
		status = http.StatusBadRequest
	case errors.Is(err, common.ErrInvalidCredentials),
		errors.Is(err, common.ErrInvalidToken),
		errors.Is(err, common.ErrTokenExpired):
		status = http.StatusUnauthorized
	case errors.Is(err, common.ErrForbidden):
		status = http.StatusForbidden
	case errors.Is(err, common.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, common.ErrEmailTaken):
		status = http.StatusConflict
	default:
		s.logger.Error(c.Request.Context(), "internal error", "error", err.Error())
		message = common.ErrInternal.Error()
	}

	c.JSON(status, gin.H{"success": false, "message": message})
}
