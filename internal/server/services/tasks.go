package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/taskkeeper/internal/common"
	"github.com/dmitrijs2005/taskkeeper/internal/server/models"
	"github.com/dmitrijs2005/taskkeeper/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/taskkeeper/internal/server/repositories/tasks"
	"github.com/google/uuid"
)

// TaskInput carries caller-supplied fields for create and replace. Pointer
// fields are nil when the caller omitted them.
type TaskInput struct {
	Title       string
	Description *string
	DueDate     *string
	Completed   *bool
	Priority    *string
}

// TaskPatch carries fields for a partial update. DueDateSet distinguishes an
// explicit null (clear the due date) from the field being absent (preserve).
type TaskPatch struct {
	Title       *string
	Description *string
	DueDate     *string
	DueDateSet  bool
	Completed   *bool
	Priority    *string
}

// ListQuery carries raw list filter inputs as received from the caller.
// Completed is applied only when it is exactly "true" or "false".
type ListQuery struct {
	Completed string
	Priority  string
	Title     string
	DueFrom   string
	DueTo     string
}

// TaskService orchestrates ownership-scoped CRUD over task records. Every
// operation takes the acting user id; tokens are never parsed here.
type TaskService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

// NewTaskService wires a TaskService.
func NewTaskService(db *sql.DB, m repomanager.RepositoryManager) *TaskService {
	return &TaskService{db: db, repomanager: m}
}

// dueDateLayouts are the accepted shapes of a date-like input.
var dueDateLayouts = []string{time.RFC3339, "2006-01-02"}

// parseDueDate converts a date-like input to a timestamp. An empty string
// means no date and yields nil without error.
func parseDueDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	for _, layout := range dueDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return &t, nil
		}
	}
	return nil, fmt.Errorf("%w: invalid date %q", common.ErrValidation, s)
}

func parsePriority(s *string) (models.Priority, error) {
	if s == nil {
		return models.PriorityMedium, nil
	}
	p := models.Priority(*s)
	if !p.Valid() {
		return "", fmt.Errorf("%w: invalid priority %q", common.ErrValidation, *s)
	}
	return p, nil
}

// Create persists a new task owned by userID. The owner cannot be overridden
// by input; omitted fields take their documented defaults.
func (s *TaskService) Create(ctx context.Context, userID string, input TaskInput) (*models.Task, error) {
	if input.Title == "" {
		return nil, fmt.Errorf("%w: title is required", common.ErrValidation)
	}

	priority, err := parsePriority(input.Priority)
	if err != nil {
		return nil, err
	}

	task := &models.Task{
		ID:       uuid.NewString(),
		UserID:   userID,
		Title:    input.Title,
		Priority: priority,
	}
	if input.Description != nil {
		task.Description = *input.Description
	}
	if input.Completed != nil {
		task.Completed = *input.Completed
	}
	if input.DueDate != nil {
		due, err := parseDueDate(*input.DueDate)
		if err != nil {
			return nil, err
		}
		task.DueDate = due
	}

	repo := s.repomanager.Tasks(s.db)

	task, err = repo.Create(ctx, task)
	if err != nil {
		return nil, common.ErrInternal
	}

	return task, nil
}

// List returns the caller's tasks matching query, newest first. An empty
// result is a valid outcome, not an error.
func (s *TaskService) List(ctx context.Context, userID string, query ListQuery) ([]*models.Task, error) {
	var filter tasks.Filter

	switch query.Completed {
	case "true":
		v := true
		filter.Completed = &v
	case "false":
		v := false
		filter.Completed = &v
	}

	if query.Priority != "" {
		filter.Priority = models.Priority(query.Priority)
	}
	filter.Title = query.Title

	if query.DueFrom != "" {
		from, err := parseDueDate(query.DueFrom)
		if err != nil {
			return nil, err
		}
		filter.DueFrom = from
	}
	if query.DueTo != "" {
		to, err := parseDueDate(query.DueTo)
		if err != nil {
			return nil, err
		}
		filter.DueTo = to
	}

	repo := s.repomanager.Tasks(s.db)

	result, err := repo.List(ctx, userID, filter)
	if err != nil {
		return nil, common.ErrInternal
	}

	return result, nil
}

// ownedTask applies the existence/ownership gate shared by all single-task
// operations: absent record wins over ownership, so a missing task is always
// reported as not-found, never forbidden.
func (s *TaskService) ownedTask(ctx context.Context, repo tasks.Repository, userID, taskID string) (*models.Task, error) {
	task, err := repo.GetByID(ctx, taskID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrNotFound
		}
		return nil, common.ErrInternal
	}
	if task.UserID != userID {
		return nil, common.ErrForbidden
	}
	return task, nil
}

// GetByID returns the task when it exists and belongs to userID.
func (s *TaskService) GetByID(ctx context.Context, userID, taskID string) (*models.Task, error) {
	return s.ownedTask(ctx, s.repomanager.Tasks(s.db), userID, taskID)
}

// Replace overwrites all mutable fields of a task. Title, completed, and
// priority must be supplied; description defaults to empty and the due date
// is recomputed from input (null when omitted).
func (s *TaskService) Replace(ctx context.Context, userID, taskID string, input TaskInput) (*models.Task, error) {
	if input.Title == "" {
		return nil, fmt.Errorf("%w: title is required", common.ErrValidation)
	}
	if input.Completed == nil {
		return nil, fmt.Errorf("%w: completed is required", common.ErrValidation)
	}
	if input.Priority == nil {
		return nil, fmt.Errorf("%w: priority is required", common.ErrValidation)
	}
	priority, err := parsePriority(input.Priority)
	if err != nil {
		return nil, err
	}

	var due *time.Time
	if input.DueDate != nil {
		if due, err = parseDueDate(*input.DueDate); err != nil {
			return nil, err
		}
	}

	repo := s.repomanager.Tasks(s.db)

	task, err := s.ownedTask(ctx, repo, userID, taskID)
	if err != nil {
		return nil, err
	}

	task.Title = input.Title
	task.Description = ""
	if input.Description != nil {
		task.Description = *input.Description
	}
	task.DueDate = due
	task.Completed = *input.Completed
	task.Priority = priority

	task, err = repo.Update(ctx, task)
	if err != nil {
		return nil, common.ErrInternal
	}

	return task, nil
}

// UpdatePartial merges the supplied fields into the stored task. Fields
// absent from patch keep their stored values; an explicit null due date
// clears it.
func (s *TaskService) UpdatePartial(ctx context.Context, userID, taskID string, patch TaskPatch) (*models.Task, error) {
	repo := s.repomanager.Tasks(s.db)

	task, err := s.ownedTask(ctx, repo, userID, taskID)
	if err != nil {
		return nil, err
	}

	if patch.Title != nil {
		if *patch.Title == "" {
			return nil, fmt.Errorf("%w: title must not be empty", common.ErrValidation)
		}
		task.Title = *patch.Title
	}
	if patch.Description != nil {
		task.Description = *patch.Description
	}
	if patch.Completed != nil {
		task.Completed = *patch.Completed
	}
	if patch.Priority != nil {
		priority, err := parsePriority(patch.Priority)
		if err != nil {
			return nil, err
		}
		task.Priority = priority
	}
	if patch.DueDateSet {
		task.DueDate = nil
		if patch.DueDate != nil {
			due, err := parseDueDate(*patch.DueDate)
			if err != nil {
				return nil, err
			}
			task.DueDate = due
		}
	}

	task, err = repo.Update(ctx, task)
	if err != nil {
		return nil, common.ErrInternal
	}

	return task, nil
}

// Remove deletes a task once the ownership gate passes.
func (s *TaskService) Remove(ctx context.Context, userID, taskID string) error {
	repo := s.repomanager.Tasks(s.db)

	if _, err := s.ownedTask(ctx, repo, userID, taskID); err != nil {
		return err
	}

	if err := repo.Delete(ctx, taskID); err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return common.ErrNotFound
		}
		return common.ErrInternal
	}

	return nil
}
