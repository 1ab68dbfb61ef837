package tasks

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/Leonardo-Reis-al74689/Exercise-Intern-Bosch/apperror"
)

// Status filter values accepted by List.
const (
	StatusAll       = "all"
	StatusCompleted = "completed"
	StatusPending   = "pending"
)

// maxPerPage caps the page size of task listings.
const maxPerPage = 100

// DB is the subset of pgxpool.Pool the task service needs. Declared as an
// interface so tests can substitute a mock pool.
type DB interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Begin(ctx context.Context) (pgx.Tx, error)
}

// TaskService provides task CRUD scoped to the owning user. Every read and
// mutation verifies ownership before touching the row.
type TaskService struct {
	db DB
}

// NewTaskService creates a TaskService.
func NewTaskService(db DB) *TaskService {
	return &TaskService{db: db}
}

// List returns one page of the user's tasks, newest first, optionally
// filtered by completion status. Page numbers start at 1 and perPage is
// capped at maxPerPage.
func (s *TaskService) List(ctx context.Context, userID, page, perPage int, status string) (*TaskListResponse, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 20
	}
	if perPage > maxPerPage {
		perPage = maxPerPage
	}

	where := "user_id = $1"
	args := []any{userID}
	switch status {
	case StatusCompleted:
		where += " AND completed = TRUE"
	case StatusPending:
		where += " AND completed = FALSE"
	case StatusAll, "":
	default:
		return nil, apperror.NewValidationError(
			fmt.Sprintf("invalid status filter '%s': must be one of all, completed, pending", status), nil)
	}

	var total int
	countQuery := fmt.Sprintf("SELECT count(*) FROM tasks WHERE %s", where)
	if err := s.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, apperror.NewDatabaseError("failed to count tasks", err)
	}

	listQuery := fmt.Sprintf(`
		SELECT id, title, description, completed, user_id, created_at, updated_at
		FROM tasks
		WHERE %s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d`, where, len(args)+1, len(args)+2)
	args = append(args, perPage, (page-1)*perPage)

	rows, err := s.db.Query(ctx, listQuery, args...)
	if err != nil {
		return nil, apperror.NewDatabaseError("failed to list tasks", err)
	}
	defer rows.Close()

	items := make([]Task, 0, perPage)
	for rows.Next() {
		var t Task
		if err := rows.Scan(&t.ID, &t.Title, &t.Description, &t.Completed, &t.UserID, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, apperror.NewDatabaseError("failed to scan task", err)
		}
		items = append(items, t)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.NewDatabaseError("failed to read tasks", err)
	}

	pages := (total + perPage - 1) / perPage
	return &TaskListResponse{
		Tasks: items,
		Pagination: Pagination{
			Total:   total,
			Page:    page,
			PerPage: perPage,
			Pages:   pages,
			HasNext: page < pages,
			HasPrev: page > 1 && total > 0,
		},
	}, nil
}

// Get returns a single task. A task owned by another user yields an
// authorization failure, not a not-found, matching the task's existence
// being non-secret among authenticated users.
func (s *TaskService) Get(ctx context.Context, taskID, userID int) (*Task, error) {
	return s.getForUser(ctx, s.db, taskID, userID)
}

// Create inserts a new task owned by the user.
func (s *TaskService) Create(ctx context.Context, userID int, req CreateTaskRequest) (*Task, error) {
	query := `
		INSERT INTO tasks (title, description, completed, user_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id, title, description, completed, user_id, created_at, updated_at`

	var t Task
	err := s.db.QueryRow(ctx, query, req.Title, req.Description, req.Completed, userID).
		Scan(&t.ID, &t.Title, &t.Description, &t.Completed, &t.UserID, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, apperror.NewDatabaseError("failed to create task", err)
	}
	return &t, nil
}

// Update applies a partial update to a task the user owns. The ownership
// check and the update run in one transaction; any failure rolls back.
func (s *TaskService) Update(ctx context.Context, taskID, userID int, req UpdateTaskRequest) (*Task, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, apperror.NewDatabaseError("failed to begin transaction", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // no-op after commit

	if _, err := s.getForUser(ctx, tx, taskID, userID); err != nil {
		return nil, err
	}

	var setClauses []string
	var args []any
	argID := 1

	if req.Title != nil {
		setClauses = append(setClauses, fmt.Sprintf("title = $%d", argID))
		args = append(args, *req.Title)
		argID++
	}
	if req.Description != nil {
		setClauses = append(setClauses, fmt.Sprintf("description = $%d", argID))
		args = append(args, *req.Description)
		argID++
	}
	if req.Completed != nil {
		setClauses = append(setClauses, fmt.Sprintf("completed = $%d", argID))
		args = append(args, *req.Completed)
		argID++
	}

	if len(setClauses) == 0 {
		return nil, apperror.NewValidationError("no fields provided for update", nil)
	}

	setClauses = append(setClauses, "updated_at = now()")
	args = append(args, taskID)

	query := fmt.Sprintf(`
		UPDATE tasks SET %s
		WHERE id = $%d
		RETURNING id, title, description, completed, user_id, created_at, updated_at`,
		strings.Join(setClauses, ", "), argID)

	var t Task
	err = tx.QueryRow(ctx, query, args...).
		Scan(&t.ID, &t.Title, &t.Description, &t.Completed, &t.UserID, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, apperror.NewDatabaseError("failed to update task", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, apperror.NewDatabaseError("failed to commit task update", err)
	}
	return &t, nil
}

// Delete removes a task the user owns. The ownership check and the delete
// run in one transaction; any failure rolls back.
func (s *TaskService) Delete(ctx context.Context, taskID, userID int) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return apperror.NewDatabaseError("failed to begin transaction", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // no-op after commit

	if _, err := s.getForUser(ctx, tx, taskID, userID); err != nil {
		return err
	}

	if _, err := tx.Exec(ctx, `DELETE FROM tasks WHERE id = $1`, taskID); err != nil {
		return apperror.NewDatabaseError("failed to delete task", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return apperror.NewDatabaseError("failed to commit task deletion", err)
	}
	return nil
}

// rowQuerier lets getForUser run against either the pool or a transaction.
type rowQuerier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func (s *TaskService) getForUser(ctx context.Context, q rowQuerier, taskID, userID int) (*Task, error) {
	query := `
		SELECT id, title, description, completed, user_id, created_at, updated_at
		FROM tasks WHERE id = $1`

	var t Task
	err := q.QueryRow(ctx, query, taskID).
		Scan(&t.ID, &t.Title, &t.Description, &t.Completed, &t.UserID, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NewNotFoundError(fmt.Sprintf("task with id %d not found", taskID), nil).
				WithDetails(map[string]any{"task_id": taskID})
		}
		return nil, apperror.NewDatabaseError("failed to get task", err)
	}
	if t.UserID != userID {
		return nil, apperror.NewAuthorizationError("you do not have permission to access this task", nil).
			WithDetails(map[string]any{"task_id": taskID})
	}
	return &t, nil
}
