package task

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/task-tracker/internal/lib/apperr"
	"github.com/magabrotheeeer/task-tracker/internal/models"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) ListTasks(ctx context.Context, userID int64, status *models.TaskStatus) ([]*models.Task, error) {
	args := m.Called(ctx, userID, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Task), args.Error(1)
}

func (m *MockRepository) GetTask(ctx context.Context, userID, taskID int64) (*models.Task, error) {
	args := m.Called(ctx, userID, taskID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Task), args.Error(1)
}

func (m *MockRepository) CreateTask(ctx context.Context, userID int64, task models.NewTask, now time.Time) (*models.Task, error) {
	args := m.Called(ctx, userID, task, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Task), args.Error(1)
}

func (m *MockRepository) UpdateTask(ctx context.Context, userID, taskID int64, patch models.TaskPatch, now time.Time) (*models.Task, error) {
	args := m.Called(ctx, userID, taskID, patch, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Task), args.Error(1)
}

func (m *MockRepository) DeleteTask(ctx context.Context, userID, taskID int64) error {
	args := m.Called(ctx, userID, taskID)
	return args.Error(0)
}

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, event models.Event) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

var fixedNow = time.Date(2026, 5, 10, 9, 30, 0, 0, time.UTC)

func newTestService(repo Repository, events EventPublisher) *TaskService {
	svc := NewTaskService(repo, events, slog.New(slog.NewTextHandler(io.Discard, nil)))
	svc.now = func() time.Time { return fixedNow }
	return svc
}

func ptr[T any](v T) *T { return &v }

func eventOf(eventType string, userID, taskID int64) models.Event {
	return models.Event{Type: eventType, UserID: userID, TaskID: &taskID, OccurredAt: fixedNow}
}

func TestTaskService_List(t *testing.T) {
	tasks := []*models.Task{{ID: 2, Title: "b"}, {ID: 1, Title: "a"}}

	tests := []struct {
		name       string
		filter     string
		wantStatus *models.TaskStatus
	}{
		{name: "no filter", filter: "", wantStatus: nil},
		{name: "valid filter", filter: "completed", wantStatus: ptr(models.StatusCompleted)},
		{name: "invalid filter is ignored", filter: "done", wantStatus: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockRepository)
			repo.On("ListTasks", mock.Anything, int64(7), tt.wantStatus).Return(tasks, nil).Once()

			got, err := newTestService(repo, new(MockPublisher)).List(context.Background(), 7, tt.filter)
			require.NoError(t, err)
			assert.Equal(t, tasks, got)
			repo.AssertExpectations(t)
		})
	}
}

func TestTaskService_Get(t *testing.T) {
	repo := new(MockRepository)
	repo.On("GetTask", mock.Anything, int64(7), int64(1)).Return(&models.Task{ID: 1, UserID: 7}, nil).Once()
	repo.On("GetTask", mock.Anything, int64(7), int64(2)).Return(nil, apperr.NotFound("task not found")).Once()

	svc := newTestService(repo, new(MockPublisher))

	got, err := svc.Get(context.Background(), 7, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), got.ID)

	_, err = svc.Get(context.Background(), 7, 2)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
	assert.Equal(t, "task not found", apperr.Message(err))
}

func TestTaskService_Create(t *testing.T) {
	tests := []struct {
		name    string
		input   models.CreateTaskInput
		want    models.NewTask
		wantErr string
	}{
		{
			name:  "title only defaults to pending",
			input: models.CreateTaskInput{Title: ptr("  Buy milk  ")},
			want:  models.NewTask{Title: "Buy milk", Status: models.StatusPending},
		},
		{
			name: "all fields",
			input: models.CreateTaskInput{
				Title:       ptr("Buy milk"),
				Description: ptr("  2 litres "),
				Status:      models.LooseString{Value: "in_progress", Valid: true},
			},
			want: models.NewTask{Title: "Buy milk", Description: ptr("2 litres"), Status: models.StatusInProgress},
		},
		{
			name:  "unknown status falls back to pending",
			input: models.CreateTaskInput{Title: ptr("Buy milk"), Status: models.LooseString{Value: "bogus", Valid: true}},
			want:  models.NewTask{Title: "Buy milk", Status: models.StatusPending},
		},
		{
			name:  "non-string status falls back to pending",
			input: models.CreateTaskInput{Title: ptr("Buy milk"), Status: models.LooseString{Value: "completed"}},
			want:  models.NewTask{Title: "Buy milk", Status: models.StatusPending},
		},
		{
			name:  "blank description becomes null",
			input: models.CreateTaskInput{Title: ptr("Buy milk"), Description: ptr("   ")},
			want:  models.NewTask{Title: "Buy milk", Status: models.StatusPending},
		},
		{
			name:  "title at the limit",
			input: models.CreateTaskInput{Title: ptr(strings.Repeat("я", 255))},
			want:  models.NewTask{Title: strings.Repeat("я", 255), Status: models.StatusPending},
		},
		{
			name:    "missing title",
			input:   models.CreateTaskInput{},
			wantErr: "title is required",
		},
		{
			name:    "blank title",
			input:   models.CreateTaskInput{Title: ptr("   ")},
			wantErr: "title is required",
		},
		{
			name:    "title too long",
			input:   models.CreateTaskInput{Title: ptr(strings.Repeat("a", 256))},
			wantErr: "title must be at most 255 characters",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockRepository)
			publisher := new(MockPublisher)
			if tt.wantErr == "" {
				created := &models.Task{ID: 11, UserID: 7, Title: tt.want.Title}
				repo.On("CreateTask", mock.Anything, int64(7), tt.want, fixedNow).Return(created, nil).Once()
				publisher.On("Publish", mock.Anything, eventOf(models.EventTaskCreated, 7, 11)).Return(nil).Once()
			}

			got, err := newTestService(repo, publisher).Create(context.Background(), 7, tt.input)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.True(t, apperr.Is(err, apperr.KindValidation))
				assert.Equal(t, tt.wantErr, apperr.Message(err))
				repo.AssertNotCalled(t, "CreateTask", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, int64(11), got.ID)
			repo.AssertExpectations(t)
			publisher.AssertExpectations(t)
		})
	}
}

func TestTaskService_CreateRepositoryError(t *testing.T) {
	repo := new(MockRepository)
	publisher := new(MockPublisher)
	repo.On("CreateTask", mock.Anything, int64(7), mock.Anything, fixedNow).
		Return(nil, apperr.Unavailable("database not reachable", errors.New("dial tcp"))).Once()

	_, err := newTestService(repo, publisher).Create(context.Background(), 7, models.CreateTaskInput{Title: ptr("x")})
	assert.True(t, apperr.Is(err, apperr.KindUnavailable))
	publisher.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
}

func TestTaskService_CreatePublishFailureIsIgnored(t *testing.T) {
	repo := new(MockRepository)
	publisher := new(MockPublisher)
	repo.On("CreateTask", mock.Anything, int64(7), mock.Anything, fixedNow).Return(&models.Task{ID: 3}, nil).Once()
	publisher.On("Publish", mock.Anything, mock.Anything).Return(errors.New("broker down")).Once()

	got, err := newTestService(repo, publisher).Create(context.Background(), 7, models.CreateTaskInput{Title: ptr("x")})
	require.NoError(t, err)
	assert.Equal(t, int64(3), got.ID)
}

func decodeUpdate(t *testing.T, body string) models.UpdateTaskInput {
	t.Helper()
	var in models.UpdateTaskInput
	require.NoError(t, json.Unmarshal([]byte(body), &in))
	return in
}

func TestTaskService_Update(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		wantPatch models.TaskPatch
		wantErr   string
	}{
		{
			name:      "status only",
			body:      `{"status":"completed"}`,
			wantPatch: models.TaskPatch{SetStatus: true, Status: models.StatusCompleted},
		},
		{
			name:      "title is trimmed",
			body:      `{"title":"  New title "}`,
			wantPatch: models.TaskPatch{SetTitle: true, Title: "New title"},
		},
		{
			name:      "null description clears it",
			body:      `{"description":null}`,
			wantPatch: models.TaskPatch{SetDescription: true},
		},
		{
			name:      "blank description clears it",
			body:      `{"description":"   "}`,
			wantPatch: models.TaskPatch{SetDescription: true},
		},
		{
			name: "all fields",
			body: `{"title":"t","description":" d ","status":"in_progress"}`,
			wantPatch: models.TaskPatch{
				SetTitle: true, Title: "t",
				SetDescription: true, Description: ptr("d"),
				SetStatus: true, Status: models.StatusInProgress,
			},
		},
		{
			name:    "empty body",
			body:    `{}`,
			wantErr: "no fields to update",
		},
		{
			name:    "unknown fields only",
			body:    `{"priority":"high"}`,
			wantErr: "no fields to update",
		},
		{
			name:    "blank title",
			body:    `{"title":"  "}`,
			wantErr: "title cannot be empty",
		},
		{
			name:    "null title",
			body:    `{"title":null}`,
			wantErr: "title cannot be empty",
		},
		{
			name:    "invalid status",
			body:    `{"status":"done"}`,
			wantErr: "invalid status",
		},
		{
			name:    "null status",
			body:    `{"status":null}`,
			wantErr: "invalid status",
		},
		{
			name:    "title too long",
			body:    `{"title":"` + strings.Repeat("a", 256) + `"}`,
			wantErr: "title must be at most 255 characters",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockRepository)
			publisher := new(MockPublisher)
			if tt.wantErr == "" {
				repo.On("UpdateTask", mock.Anything, int64(7), int64(4), tt.wantPatch, fixedNow).
					Return(&models.Task{ID: 4, UserID: 7}, nil).Once()
				publisher.On("Publish", mock.Anything, eventOf(models.EventTaskUpdated, 7, 4)).Return(nil).Once()
			}

			got, err := newTestService(repo, publisher).Update(context.Background(), 7, 4, decodeUpdate(t, tt.body))
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.True(t, apperr.Is(err, apperr.KindValidation))
				assert.Equal(t, tt.wantErr, apperr.Message(err))
				repo.AssertNotCalled(t, "UpdateTask", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, int64(4), got.ID)
			repo.AssertExpectations(t)
			publisher.AssertExpectations(t)
		})
	}
}

func TestTaskService_UpdateNotFound(t *testing.T) {
	repo := new(MockRepository)
	publisher := new(MockPublisher)
	repo.On("UpdateTask", mock.Anything, int64(7), int64(99), mock.Anything, fixedNow).
		Return(nil, apperr.NotFound("task not found")).Once()

	_, err := newTestService(repo, publisher).Update(context.Background(), 7, 99, decodeUpdate(t, `{"status":"pending"}`))
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
	publisher.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
}

func TestTaskService_Delete(t *testing.T) {
	t.Run("success publishes event", func(t *testing.T) {
		repo := new(MockRepository)
		publisher := new(MockPublisher)
		repo.On("DeleteTask", mock.Anything, int64(7), int64(4)).Return(nil).Once()
		publisher.On("Publish", mock.Anything, eventOf(models.EventTaskDeleted, 7, 4)).Return(nil).Once()

		require.NoError(t, newTestService(repo, publisher).Delete(context.Background(), 7, 4))
		repo.AssertExpectations(t)
		publisher.AssertExpectations(t)
	})

	t.Run("not found", func(t *testing.T) {
		repo := new(MockRepository)
		publisher := new(MockPublisher)
		repo.On("DeleteTask", mock.Anything, int64(7), int64(4)).Return(apperr.NotFound("task not found")).Once()

		err := newTestService(repo, publisher).Delete(context.Background(), 7, 4)
		assert.True(t, apperr.Is(err, apperr.KindNotFound))
		publisher.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
	})
}
