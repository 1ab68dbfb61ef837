package tasks

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Leonardo-Reis-al74689/Exercise-Intern-Bosch/apperror"
)

var taskColumns = []string{"id", "title", "description", "completed", "user_id", "created_at", "updated_at"}

func strPtr(s string) *string { return &s }
func boolPtr(b bool) *bool    { return &b }

func taskRow(id int, title string, completed bool, userID int) *pgxmock.Rows {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	return pgxmock.NewRows(taskColumns).
		AddRow(id, title, strPtr("a description"), completed, userID, now, now)
}

func TestTaskServiceList(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err, "failed to create mock")
	defer mock.Close()

	mock.ExpectQuery(`SELECT count\(\*\) FROM tasks WHERE user_id = \$1`).
		WithArgs(1).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(42))
	mock.ExpectQuery(`SELECT id, title, description, completed, user_id, created_at, updated_at`).
		WithArgs(1, 20, 20).
		WillReturnRows(taskRow(5, "buy milk", false, 1))

	svc := NewTaskService(mock)
	resp, err := svc.List(context.Background(), 1, 2, 20, StatusAll)

	require.NoError(t, err)
	require.Len(t, resp.Tasks, 1)
	assert.Equal(t, "buy milk", resp.Tasks[0].Title)
	assert.Equal(t, 42, resp.Pagination.Total)
	assert.Equal(t, 2, resp.Pagination.Page)
	assert.Equal(t, 20, resp.Pagination.PerPage)
	assert.Equal(t, 3, resp.Pagination.Pages)
	assert.True(t, resp.Pagination.HasNext)
	assert.True(t, resp.Pagination.HasPrev)
	assert.NoError(t, mock.ExpectationsWereMet(), "unfulfilled expectations")
}

func TestTaskServiceListStatusFilter(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err, "failed to create mock")
	defer mock.Close()

	mock.ExpectQuery(`SELECT count\(\*\) FROM tasks WHERE user_id = \$1 AND completed = TRUE`).
		WithArgs(1).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery(`WHERE user_id = \$1 AND completed = TRUE`).
		WithArgs(1, 20, 0).
		WillReturnRows(pgxmock.NewRows(taskColumns))

	svc := NewTaskService(mock)
	resp, err := svc.List(context.Background(), 1, 1, 20, StatusCompleted)

	require.NoError(t, err)
	assert.Empty(t, resp.Tasks)
	assert.Equal(t, 0, resp.Pagination.Pages)
	assert.False(t, resp.Pagination.HasNext)
	assert.False(t, resp.Pagination.HasPrev)
	assert.NoError(t, mock.ExpectationsWereMet(), "unfulfilled expectations")
}

func TestTaskServiceListRejectsUnknownStatus(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err, "failed to create mock")
	defer mock.Close()

	svc := NewTaskService(mock)
	_, err = svc.List(context.Background(), 1, 1, 20, "finished")

	require.Error(t, err)
	assert.True(t, apperror.IsValidationError(err))
}

func TestTaskServiceListClampsPagination(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err, "failed to create mock")
	defer mock.Close()

	mock.ExpectQuery(`SELECT count\(\*\) FROM tasks WHERE user_id = \$1`).
		WithArgs(1).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(0))
	// page and per_page out of range collapse to page 1 of maxPerPage.
	mock.ExpectQuery(`SELECT id, title, description, completed, user_id, created_at, updated_at`).
		WithArgs(1, 100, 0).
		WillReturnRows(pgxmock.NewRows(taskColumns))

	svc := NewTaskService(mock)
	resp, err := svc.List(context.Background(), 1, -3, 500, "")

	require.NoError(t, err)
	assert.Equal(t, 1, resp.Pagination.Page)
	assert.Equal(t, 100, resp.Pagination.PerPage)
	assert.NoError(t, mock.ExpectationsWereMet(), "unfulfilled expectations")
}

func TestTaskServiceGet(t *testing.T) {
	tests := []struct {
		name      string
		setupMock func(mock pgxmock.PgxPoolIface)
		check     func(t *testing.T, task *Task, err error)
	}{
		{
			name: "owned task",
			setupMock: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(`FROM tasks WHERE id = \$1`).
					WithArgs(5).
					WillReturnRows(taskRow(5, "buy milk", false, 1))
			},
			check: func(t *testing.T, task *Task, err error) {
				require.NoError(t, err)
				assert.Equal(t, 5, task.ID)
				assert.Equal(t, "buy milk", task.Title)
			},
		},
		{
			name: "missing task",
			setupMock: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(`FROM tasks WHERE id = \$1`).
					WithArgs(5).
					WillReturnError(pgx.ErrNoRows)
			},
			check: func(t *testing.T, task *Task, err error) {
				require.Error(t, err)
				assert.True(t, apperror.IsNotFoundError(err))
			},
		},
		{
			name: "task owned by someone else",
			setupMock: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(`FROM tasks WHERE id = \$1`).
					WithArgs(5).
					WillReturnRows(taskRow(5, "buy milk", false, 99))
			},
			check: func(t *testing.T, task *Task, err error) {
				require.Error(t, err)
				assert.True(t, apperror.IsAuthorizationError(err))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock, err := pgxmock.NewPool()
			require.NoError(t, err, "failed to create mock")
			defer mock.Close()

			tt.setupMock(mock)

			svc := NewTaskService(mock)
			task, err := svc.Get(context.Background(), 5, 1)

			tt.check(t, task, err)
			assert.NoError(t, mock.ExpectationsWereMet(), "unfulfilled expectations")
		})
	}
}

func TestTaskServiceCreate(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err, "failed to create mock")
	defer mock.Close()

	mock.ExpectQuery(`INSERT INTO tasks`).
		WithArgs("buy milk", strPtr("a description"), false, 1).
		WillReturnRows(taskRow(5, "buy milk", false, 1))

	svc := NewTaskService(mock)
	task, err := svc.Create(context.Background(), 1, CreateTaskRequest{
		Title:       "buy milk",
		Description: strPtr("a description"),
	})

	require.NoError(t, err)
	assert.Equal(t, 5, task.ID)
	assert.Equal(t, 1, task.UserID)
	assert.False(t, task.Completed)
	assert.NoError(t, mock.ExpectationsWereMet(), "unfulfilled expectations")
}

func TestTaskServiceUpdate(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err, "failed to create mock")
	defer mock.Close()

	mock.ExpectBegin()
	mock.ExpectQuery(`FROM tasks WHERE id = \$1`).
		WithArgs(5).
		WillReturnRows(taskRow(5, "buy milk", false, 1))
	mock.ExpectQuery(`UPDATE tasks SET`).
		WithArgs("buy bread", true, 5).
		WillReturnRows(taskRow(5, "buy bread", true, 1))
	mock.ExpectCommit()

	svc := NewTaskService(mock)
	task, err := svc.Update(context.Background(), 5, 1, UpdateTaskRequest{
		Title:     strPtr("buy bread"),
		Completed: boolPtr(true),
	})

	require.NoError(t, err)
	assert.Equal(t, "buy bread", task.Title)
	assert.True(t, task.Completed)
	assert.NoError(t, mock.ExpectationsWereMet(), "unfulfilled expectations")
}

func TestTaskServiceUpdateForeignTaskRollsBack(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err, "failed to create mock")
	defer mock.Close()

	mock.ExpectBegin()
	mock.ExpectQuery(`FROM tasks WHERE id = \$1`).
		WithArgs(5).
		WillReturnRows(taskRow(5, "buy milk", false, 99))
	mock.ExpectRollback()

	svc := NewTaskService(mock)
	_, err = svc.Update(context.Background(), 5, 1, UpdateTaskRequest{Title: strPtr("hijacked")})

	require.Error(t, err)
	assert.True(t, apperror.IsAuthorizationError(err))
	assert.NoError(t, mock.ExpectationsWereMet(), "unfulfilled expectations")
}

func TestTaskServiceUpdateRequiresAtLeastOneField(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err, "failed to create mock")
	defer mock.Close()

	mock.ExpectBegin()
	mock.ExpectQuery(`FROM tasks WHERE id = \$1`).
		WithArgs(5).
		WillReturnRows(taskRow(5, "buy milk", false, 1))
	mock.ExpectRollback()

	svc := NewTaskService(mock)
	_, err = svc.Update(context.Background(), 5, 1, UpdateTaskRequest{})

	require.Error(t, err)
	assert.True(t, apperror.IsValidationError(err))
	assert.NoError(t, mock.ExpectationsWereMet(), "unfulfilled expectations")
}

func TestTaskServiceDelete(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err, "failed to create mock")
	defer mock.Close()

	mock.ExpectBegin()
	mock.ExpectQuery(`FROM tasks WHERE id = \$1`).
		WithArgs(5).
		WillReturnRows(taskRow(5, "buy milk", false, 1))
	mock.ExpectExec(`DELETE FROM tasks WHERE id = \$1`).
		WithArgs(5).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))
	mock.ExpectCommit()

	svc := NewTaskService(mock)
	err = svc.Delete(context.Background(), 5, 1)

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet(), "unfulfilled expectations")
}

func TestTaskServiceDeleteMissingTask(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err, "failed to create mock")
	defer mock.Close()

	mock.ExpectBegin()
	mock.ExpectQuery(`FROM tasks WHERE id = \$1`).
		WithArgs(5).
		WillReturnError(pgx.ErrNoRows)
	mock.ExpectRollback()

	svc := NewTaskService(mock)
	err = svc.Delete(context.Background(), 5, 1)

	require.Error(t, err)
	assert.True(t, apperror.IsNotFoundError(err))
	assert.NoError(t, mock.ExpectationsWereMet(), "unfulfilled expectations")
}
