// Package tasks provides the PostgreSQL-backed repository for task records
// and the filtered list query.
package tasks

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/taskkeeper/internal/common"
	"github.com/dmitrijs2005/taskkeeper/internal/dbx"
	"github.com/dmitrijs2005/taskkeeper/internal/server/models"
)

// PostgresRepository implements task storage over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts a new task. CreatedAt/UpdatedAt are set by the database.
func (r *PostgresRepository) Create(ctx context.Context, task *models.Task) (*models.Task, error) {
	query :=
		`INSERT INTO tasks (id, user_id, title, description, due_date, completed, priority)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING created_at, updated_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		task.ID, task.UserID, task.Title, task.Description, task.DueDate,
		task.Completed, task.Priority).Scan(&task.CreatedAt, &task.UpdatedAt)

	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return task, nil
}

// GetByID looks up a task by primary key.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Task, error) {
	query :=
		`SELECT id, user_id, title, description, due_date, completed, priority, created_at, updated_at
		 FROM tasks
		 WHERE id = $1
		 `

	task := &models.Task{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&task.ID, &task.UserID, &task.Title, &task.Description, &task.DueDate,
		&task.Completed, &task.Priority, &task.CreatedAt, &task.UpdatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return task, nil
}

// Update overwrites the mutable fields of a task. The owner column is never
// touched.
func (r *PostgresRepository) Update(ctx context.Context, task *models.Task) (*models.Task, error) {
	query :=
		`UPDATE tasks
		 SET title = $1, description = $2, due_date = $3, completed = $4, priority = $5, updated_at = now()
		 WHERE id = $6
		 RETURNING updated_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		task.Title, task.Description, task.DueDate, task.Completed, task.Priority,
		task.ID).Scan(&task.UpdatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return task, nil
}

// Delete removes a task by primary key.
func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrNotFound
	}

	return nil
}

// List returns the tasks owned by userID matching filter, newest first.
// The owner constraint is unconditional; filters only narrow within it.
func (r *PostgresRepository) List(ctx context.Context, userID string, filter Filter) ([]*models.Task, error) {
	var b strings.Builder
	b.WriteString(
		`SELECT id, user_id, title, description, due_date, completed, priority, created_at, updated_at
		 FROM tasks
		 WHERE user_id = $1`)

	args := []any{userID}

	if filter.Completed != nil {
		args = append(args, *filter.Completed)
		fmt.Fprintf(&b, " AND completed = $%d", len(args))
	}
	if filter.Priority != "" {
		args = append(args, filter.Priority)
		fmt.Fprintf(&b, " AND priority = $%d", len(args))
	}
	if filter.Title != "" {
		args = append(args, filter.Title)
		fmt.Fprintf(&b, " AND title ILIKE '%%' || $%d || '%%'", len(args))
	}
	if filter.DueFrom != nil {
		args = append(args, *filter.DueFrom)
		fmt.Fprintf(&b, " AND due_date >= $%d", len(args))
	}
	if filter.DueTo != nil {
		args = append(args, *filter.DueTo)
		fmt.Fprintf(&b, " AND due_date <= $%d", len(args))
	}

	b.WriteString(" ORDER BY created_at DESC")

	rows, err := r.db.QueryContext(ctx, b.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := []*models.Task{}
	for rows.Next() {
		var task models.Task
		if err := rows.Scan(
			&task.ID, &task.UserID, &task.Title, &task.Description, &task.DueDate,
			&task.Completed, &task.Priority, &task.CreatedAt, &task.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, &task)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}
