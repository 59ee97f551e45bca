package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/magabrotheeeer/task-tracker/internal/lib/apperr"
	"github.com/magabrotheeeer/task-tracker/internal/models"
)

const taskColumns = `id, user_id, title, description, status, created_at, updated_at`

var errTaskNotFound = apperr.NotFound("task not found")

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(row rowScanner) (*models.Task, error) {
	var (
		t           models.Task
		description sql.NullString
		status      string
	)
	if err := row.Scan(&t.ID, &t.UserID, &t.Title, &description, &status, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return nil, err
	}
	if description.Valid {
		t.Description = &description.String
	}
	t.Status = models.TaskStatus(status)
	return &t, nil
}

// ListTasks возвращает задачи пользователя, новые первыми.
// Если status не nil, в выборку попадают только задачи с этим статусом.
func (s *Storage) ListTasks(ctx context.Context, userID int64, status *models.TaskStatus) ([]*models.Task, error) {
	const op = "storage.ListTasks"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	var statusArg sql.NullString
	if status != nil {
		statusArg = sql.NullString{String: string(*status), Valid: true}
	}

	query := `SELECT ` + taskColumns + `
			  FROM tasks
			  WHERE user_id = $1
			    AND ($2::text IS NULL OR status = $2)
			  ORDER BY created_at DESC, id DESC`
	rows, err := s.DB.QueryContext(ctx, query, userID, statusArg)
	if err != nil {
		return nil, wrap(op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	result := make([]*models.Task, 0)
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, wrap(op, err)
		}
		result = append(result, t)
	}
	if err = rows.Err(); err != nil {
		return nil, wrap(op, err)
	}
	return result, nil
}

// GetTask возвращает задачу, только если она принадлежит пользователю.
// Чужая и несуществующая задача неразличимы: обе дают apperr.KindNotFound.
func (s *Storage) GetTask(ctx context.Context, userID, taskID int64) (*models.Task, error) {
	const op = "storage.GetTask"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	query := `SELECT ` + taskColumns + `
			  FROM tasks
			  WHERE id = $1 AND user_id = $2`
	t, err := scanTask(s.DB.QueryRowContext(ctx, query, taskID, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, errTaskNotFound)
		}
		return nil, wrap(op, err)
	}
	return t, nil
}

// CreateTask сохраняет новую задачу пользователя с created_at = updated_at = now.
func (s *Storage) CreateTask(ctx context.Context, userID int64, task models.NewTask, now time.Time) (*models.Task, error) {
	const op = "storage.CreateTask"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	query := `INSERT INTO tasks (user_id, title, description, status, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5, $5)
			  RETURNING ` + taskColumns
	t, err := scanTask(s.DB.QueryRowContext(ctx, query,
		userID, task.Title, nullString(task.Description), string(task.Status), now))
	if err != nil {
		return nil, wrap(op, err)
	}
	return t, nil
}

// UpdateTask применяет частичное обновление одним атомарным запросом.
// Меняются только поля с выставленным флагом, updated_at всегда равен now.
func (s *Storage) UpdateTask(ctx context.Context, userID, taskID int64, patch models.TaskPatch, now time.Time) (*models.Task, error) {
	const op = "storage.UpdateTask"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	query := `UPDATE tasks
			  SET title       = CASE WHEN $1::boolean THEN $2::text ELSE title END,
			      description = CASE WHEN $3::boolean THEN $4::text ELSE description END,
			      status      = CASE WHEN $5::boolean THEN $6::text ELSE status END,
			      updated_at  = $7
			  WHERE id = $8 AND user_id = $9
			  RETURNING ` + taskColumns
	t, err := scanTask(s.DB.QueryRowContext(ctx, query,
		patch.SetTitle, patch.Title,
		patch.SetDescription, nullString(patch.Description),
		patch.SetStatus, string(patch.Status),
		now, taskID, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, errTaskNotFound)
		}
		return nil, wrap(op, err)
	}
	return t, nil
}

// DeleteTask удаляет задачу пользователя. Ноль затронутых строк даёт apperr.KindNotFound.
func (s *Storage) DeleteTask(ctx context.Context, userID, taskID int64) error {
	const op = "storage.DeleteTask"
	if err := checkCtx(ctx, op); err != nil {
		return err
	}

	result, err := s.DB.ExecContext(ctx, `DELETE FROM tasks WHERE id = $1 AND user_id = $2`, taskID, userID)
	if err != nil {
		return wrap(op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return wrap(op, err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("%s: %w", op, errTaskNotFound)
	}
	return nil
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}
