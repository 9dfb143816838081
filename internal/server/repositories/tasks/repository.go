package tasks

import (
	"context"
	"time"

	"github.com/dmitrijs2005/taskkeeper/internal/server/models"
)

// Filter is the indexed predicate applied to a task list query. Zero values
// mean "no constraint"; DueFrom/DueTo are inclusive bounds.
type Filter struct {
	Completed *bool
	Priority  models.Priority
	Title     string // case-insensitive substring
	DueFrom   *time.Time
	DueTo     *time.Time
}

// Repository is the credential-store contract for task records.
type Repository interface {
	Create(ctx context.Context, task *models.Task) (*models.Task, error)
	GetByID(ctx context.Context, id string) (*models.Task, error)
	Update(ctx context.Context, task *models.Task) (*models.Task, error)
	Delete(ctx context.Context, id string) error
	// List returns the owner's tasks matching filter, newest first.
	List(ctx context.Context, userID string, filter Filter) ([]*models.Task, error)
}
