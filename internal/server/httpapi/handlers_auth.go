package httpapi

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dmitrijs2005/taskkeeper/internal/common"
)

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Server) handleRegister(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, fmt.Errorf("%w: invalid JSON body", common.ErrValidation))
		return
	}

	user, err := s.users.Register(c.Request.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		s.respondError(c, err)
		return
	}

	s.logger.Info(c.Request.Context(), "user registered", "user_id", user.ID)

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "user registered",
		"user":    user,
	})
}

func (s *Server) handleLogin(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, fmt.Errorf("%w: invalid JSON body", common.ErrValidation))
		return
	}

	result, err := s.users.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		s.respondError(c, err)
		return
	}

	s.logger.Info(c.Request.Context(), "user logged in", "user_id", result.User.ID)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "login successful",
		"token":   result.Token,
		"user":    result.User,
	})
}

// handleMe answers with the claims of the verified token; a cheap way for
// clients to check a stored session.
func (s *Server) handleMe(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"userId":  userID(c),
	})
}
