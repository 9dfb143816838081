package tasks

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/taskkeeper/internal/common"
	"github.com/dmitrijs2005/taskkeeper/internal/server/models"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

var taskColumns = []string{"id", "user_id", "title", "description", "due_date", "completed", "priority", "created_at", "updated_at"}

func taskRow(id, userID, title string) *sqlmock.Rows {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	return sqlmock.NewRows(taskColumns).
		AddRow(id, userID, title, "", nil, false, "medium", now, now)
}

func TestCreateTask(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now)
	mock.ExpectQuery(`(?s)^INSERT\s+INTO\s+tasks\b.*RETURNING\s+created_at,\s*updated_at\s*$`).
		WithArgs("t-1", "u-1", "Buy milk", "", nil, false, models.PriorityMedium).
		WillReturnRows(rows)

	task := &models.Task{ID: "t-1", UserID: "u-1", Title: "Buy milk", Priority: models.PriorityMedium}
	got, err := repo.Create(context.Background(), task)
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if !got.CreatedAt.Equal(now) {
		t.Fatalf("created_at not scanned: %v", got.CreatedAt)
	}
}

func TestGetTaskByID(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`(?s)^SELECT\s+.*\s+FROM\s+tasks\s+WHERE\s+id\s*=\s*\$1\s*$`).
		WithArgs("t-1").
		WillReturnRows(taskRow("t-1", "u-1", "Buy milk"))

	got, err := repo.GetByID(context.Background(), "t-1")
	if err != nil {
		t.Fatalf("GetByID error: %v", err)
	}
	if got.ID != "t-1" || got.UserID != "u-1" {
		t.Fatalf("unexpected task: %+v", got)
	}
}

func TestGetTaskByID_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`(?s)^SELECT\s+.*\s+FROM\s+tasks\s+WHERE\s+id\s*=\s*\$1\s*$`).
		WithArgs("ghost").
		WillReturnError(sql.ErrNoRows)

	if _, err := repo.GetByID(context.Background(), "ghost"); !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestUpdateTask_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`(?s)^UPDATE\s+tasks\b.*RETURNING\s+updated_at\s*$`).
		WillReturnError(sql.ErrNoRows)

	task := &models.Task{ID: "ghost", Title: "x", Priority: models.PriorityMedium}
	if _, err := repo.Update(context.Background(), task); !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDeleteTask(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`(?s)^DELETE\s+FROM\s+tasks\s+WHERE\s+id\s*=\s*\$1\s*$`).
		WithArgs("t-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.Delete(context.Background(), "t-1"); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
}

func TestDeleteTask_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`(?s)^DELETE\s+FROM\s+tasks\s+WHERE\s+id\s*=\s*\$1\s*$`).
		WithArgs("ghost").
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := repo.Delete(context.Background(), "ghost"); !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestListTasks_OwnerScopeOnly(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^SELECT\s+.*\s+FROM\s+tasks\s+WHERE\s+user_id\s*=\s*\$1\s+ORDER\s+BY\s+created_at\s+DESC$`
	mock.ExpectQuery(q).
		WithArgs("u-1").
		WillReturnRows(taskRow("t-1", "u-1", "Buy milk"))

	result, err := repo.List(context.Background(), "u-1", Filter{})
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if len(result) != 1 || result[0].ID != "t-1" {
		t.Fatalf("unexpected result: %+v", result)
	}
}

func TestListTasks_AllFilters(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	completed := true
	from := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 7, 31, 0, 0, 0, 0, time.UTC)

	q := `(?s)^SELECT\s+.*\s+FROM\s+tasks\s+WHERE\s+user_id\s*=\s*\$1` +
		`\s+AND\s+completed\s*=\s*\$2` +
		`\s+AND\s+priority\s*=\s*\$3` +
		`\s+AND\s+title\s+ILIKE\s+'%'\s*\|\|\s*\$4\s*\|\|\s*'%'` +
		`\s+AND\s+due_date\s*>=\s*\$5` +
		`\s+AND\s+due_date\s*<=\s*\$6` +
		`\s+ORDER\s+BY\s+created_at\s+DESC$`

	mock.ExpectQuery(q).
		WithArgs("u-1", completed, models.PriorityHigh, "milk", from, to).
		WillReturnRows(sqlmock.NewRows(taskColumns))

	filter := Filter{
		Completed: &completed,
		Priority:  models.PriorityHigh,
		Title:     "milk",
		DueFrom:   &from,
		DueTo:     &to,
	}

	result, err := repo.List(context.Background(), "u-1", filter)
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if len(result) != 0 {
		t.Fatalf("expected empty result, got %+v", result)
	}
}
