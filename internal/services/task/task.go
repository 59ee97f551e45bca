// Package task содержит бизнес-логику работы с задачами пользователя:
// проверку входных данных, вызовы репозитория и публикацию событий.
package task

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/magabrotheeeer/task-tracker/internal/lib/apperr"
	"github.com/magabrotheeeer/task-tracker/internal/lib/sl"
	"github.com/magabrotheeeer/task-tracker/internal/models"
)

const maxTitleLen = 255

// Repository описывает хранилище задач. Все операции ограничены владельцем.
type Repository interface {
	ListTasks(ctx context.Context, userID int64, status *models.TaskStatus) ([]*models.Task, error)
	GetTask(ctx context.Context, userID, taskID int64) (*models.Task, error)
	CreateTask(ctx context.Context, userID int64, task models.NewTask, now time.Time) (*models.Task, error)
	UpdateTask(ctx context.Context, userID, taskID int64, patch models.TaskPatch, now time.Time) (*models.Task, error)
	DeleteTask(ctx context.Context, userID, taskID int64) error
}

// EventPublisher публикует доменные события.
type EventPublisher interface {
	Publish(ctx context.Context, event models.Event) error
}

// TaskService реализует операции над задачами.
type TaskService struct {
	repo   Repository
	events EventPublisher
	log    *slog.Logger
	now    func() time.Time
}

// NewTaskService создает новый экземпляр TaskService.
func NewTaskService(repo Repository, events EventPublisher, log *slog.Logger) *TaskService {
	return &TaskService{
		repo:   repo,
		events: events,
		log:    log,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// List возвращает задачи пользователя, новые первыми.
// Фильтр применяется, только если это допустимый статус; иначе он игнорируется.
func (s *TaskService) List(ctx context.Context, userID int64, statusFilter string) ([]*models.Task, error) {
	const op = "task.List"

	var status *models.TaskStatus
	if st, ok := models.ParseTaskStatus(statusFilter); ok {
		status = &st
	}
	tasks, err := s.repo.ListTasks(ctx, userID, status)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return tasks, nil
}

// Get возвращает задачу пользователя.
func (s *TaskService) Get(ctx context.Context, userID, taskID int64) (*models.Task, error) {
	const op = "task.Get"

	t, err := s.repo.GetTask(ctx, userID, taskID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return t, nil
}

// Create проверяет данные и создает задачу.
// Отсутствующий или неизвестный статус заменяется на pending.
func (s *TaskService) Create(ctx context.Context, userID int64, in models.CreateTaskInput) (*models.Task, error) {
	const op = "task.Create"

	var title string
	if in.Title != nil {
		title = strings.TrimSpace(*in.Title)
	}
	if title == "" {
		return nil, apperr.Validation("title is required")
	}
	if err := checkTitleLen(title); err != nil {
		return nil, err
	}

	status := models.StatusPending
	if in.Status.Valid {
		if st, ok := models.ParseTaskStatus(in.Status.Value); ok {
			status = st
		}
	}

	t, err := s.repo.CreateTask(ctx, userID, models.NewTask{
		Title:       title,
		Description: normalizeDescription(in.Description),
		Status:      status,
	}, s.now())
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.publish(ctx, models.EventTaskCreated, userID, t.ID)
	return t, nil
}

// Update частично обновляет задачу: меняются только поля, присутствующие в запросе.
func (s *TaskService) Update(ctx context.Context, userID, taskID int64, in models.UpdateTaskInput) (*models.Task, error) {
	const op = "task.Update"

	patch, err := buildPatch(in)
	if err != nil {
		return nil, err
	}

	t, err := s.repo.UpdateTask(ctx, userID, taskID, patch, s.now())
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.publish(ctx, models.EventTaskUpdated, userID, t.ID)
	return t, nil
}

// Delete удаляет задачу пользователя.
func (s *TaskService) Delete(ctx context.Context, userID, taskID int64) error {
	const op = "task.Delete"

	if err := s.repo.DeleteTask(ctx, userID, taskID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	s.publish(ctx, models.EventTaskDeleted, userID, taskID)
	return nil
}

func buildPatch(in models.UpdateTaskInput) (models.TaskPatch, error) {
	var patch models.TaskPatch

	if in.Title.Set {
		title := strings.TrimSpace(in.Title.Value)
		if in.Title.Null || title == "" {
			return patch, apperr.Validation("title cannot be empty")
		}
		if err := checkTitleLen(title); err != nil {
			return patch, err
		}
		patch.SetTitle = true
		patch.Title = title
	}

	if in.Status.Set {
		st, ok := models.ParseTaskStatus(in.Status.Value)
		if in.Status.Null || !ok {
			return patch, apperr.Validation("invalid status")
		}
		patch.SetStatus = true
		patch.Status = st
	}

	if in.Description.Set {
		patch.SetDescription = true
		patch.Description = normalizeDescription(in.Description.Ptr())
	}

	if patch.Empty() {
		return patch, apperr.Validation("no fields to update")
	}
	return patch, nil
}

func checkTitleLen(title string) error {
	if utf8.RuneCountInString(title) > maxTitleLen {
		return apperr.Validation(fmt.Sprintf("title must be at most %d characters", maxTitleLen))
	}
	return nil
}

// normalizeDescription обрезает пробелы; пустое описание хранится как NULL.
func normalizeDescription(d *string) *string {
	if d == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*d)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func (s *TaskService) publish(ctx context.Context, eventType string, userID, taskID int64) {
	event := models.Event{Type: eventType, UserID: userID, TaskID: &taskID, OccurredAt: s.now()}
	if err := s.events.Publish(ctx, event); err != nil {
		s.log.Warn("failed to publish event",
			slog.String("type", eventType),
			slog.Int64("task_id", taskID),
			sl.Err(err),
		)
	}
}
