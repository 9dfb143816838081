package httpapi

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dmitrijs2005/taskkeeper/internal/common"
	"github.com/dmitrijs2005/taskkeeper/internal/server/services"
)

type taskRequest struct {
	Title       string  `json:"title"`
	Description *string `json:"description"`
	DueDate     *string `json:"dueDate"`
	Completed   *bool   `json:"completed"`
	Priority    *string `json:"priority"`
}

func (r taskRequest) toInput() services.TaskInput {
	return services.TaskInput{
		Title:       r.Title,
		Description: r.Description,
		DueDate:     r.DueDate,
		Completed:   r.Completed,
		Priority:    r.Priority,
	}
}

// taskPatchRequest keeps dueDate as raw JSON so an explicit null (clear) can
// be told apart from the field being absent (preserve).
type taskPatchRequest struct {
	Title       *string         `json:"title"`
	Description *string         `json:"description"`
	DueDate     json.RawMessage `json:"dueDate"`
	Completed   *bool           `json:"completed"`
	Priority    *string         `json:"priority"`
}

func (r taskPatchRequest) toPatch() (services.TaskPatch, error) {
	patch := services.TaskPatch{
		Title:       r.Title,
		Description: r.Description,
		Completed:   r.Completed,
		Priority:    r.Priority,
	}

	if len(r.DueDate) > 0 {
		patch.DueDateSet = true
		if string(r.DueDate) != "null" {
			var due string
			if err := json.Unmarshal(r.DueDate, &due); err != nil {
				return patch, fmt.Errorf("%w: dueDate must be a string or null", common.ErrValidation)
			}
			patch.DueDate = &due
		}
	}

	return patch, nil
}

func (s *Server) handleCreateTask(c *gin.Context) {
	var req taskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, fmt.Errorf("%w: invalid JSON body", common.ErrValidation))
		return
	}

	task, err := s.tasks.Create(c.Request.Context(), userID(c), req.toInput())
	if err != nil {
		s.respondError(c, err)
		return
	}

	s.logger.Info(c.Request.Context(), "task created", "task_id", task.ID, "user_id", task.UserID)

	c.JSON(http.StatusCreated, task)
}

func (s *Server) handleListTasks(c *gin.Context) {
	query := services.ListQuery{
		Completed: c.Query("completed"),
		Priority:  c.Query("priority"),
		Title:     c.Query("title"),
		DueFrom:   c.Query("dueFrom"),
		DueTo:     c.Query("dueTo"),
	}

	result, err := s.tasks.List(c.Request.Context(), userID(c), query)
	if err != nil {
		s.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (s *Server) handleGetTask(c *gin.Context) {
	task, err := s.tasks.GetByID(c.Request.Context(), userID(c), c.Param("id"))
	if err != nil {
		s.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, task)
}

func (s *Server) handleReplaceTask(c *gin.Context) {
	var req taskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, fmt.Errorf("%w: invalid JSON body", common.ErrValidation))
		return
	}

	task, err := s.tasks.Replace(c.Request.Context(), userID(c), c.Param("id"), req.toInput())
	if err != nil {
		s.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, task)
}

func (s *Server) handlePatchTask(c *gin.Context) {
	var req taskPatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, fmt.Errorf("%w: invalid JSON body", common.ErrValidation))
		return
	}

	patch, err := req.toPatch()
	if err != nil {
		s.respondError(c, err)
		return
	}

	task, err := s.tasks.UpdatePartial(c.Request.Context(), userID(c), c.Param("id"), patch)
	if err != nil {
		s.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, task)
}

func (s *Server) handleDeleteTask(c *gin.Context) {
	if err := s.tasks.Remove(c.Request.Context(), userID(c), c.Param("id")); err != nil {
		s.respondError(c, err)
		return
	}

	s.logger.Info(c.Request.Context(), "task removed", "task_id", c.Param("id"), "user_id", userID(c))

	c.JSON(http.StatusOK, gin.H{"success": true})
}
