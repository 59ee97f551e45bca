package read

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/task-tracker/internal/http/middlewarectx"
	"github.com/magabrotheeeer/task-tracker/internal/lib/apperr"
	"github.com/magabrotheeeer/task-tracker/internal/models"
)

// MockService реализует интерфейс read.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) Get(ctx context.Context, userID, taskID int64) (*models.Task, error) {
	args := m.Called(ctx, userID, taskID)
	if res := args.Get(0); res != nil {
		return res.(*models.Task), args.Error(1)
	}
	return nil, args.Error(1)
}

func TestReadHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	tests := []struct {
		name           string
		url            string
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "успешное чтение задачи",
			url:  "/tasks/123",
			setupMock: func(m *MockService) {
				m.On("Get", mock.Anything, int64(9), int64(123)).
					Return(&models.Task{ID: 123, UserID: 9, Title: "Read book", Status: models.StatusInProgress}, nil).Once()
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"title":"Read book"`,
		},
		{
			name:           "некорректный id в URL",
			url:            "/tasks/abc",
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusNotFound,
			expectedBody:   `{"error":"task not found"}`,
		},
		{
			name:           "отрицательный id",
			url:            "/tasks/-1",
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusNotFound,
			expectedBody:   `{"error":"task not found"}`,
		},
		{
			name: "чужая задача",
			url:  "/tasks/5",
			setupMock: func(m *MockService) {
				m.On("Get", mock.Anything, int64(9), int64(5)).Return(nil, apperr.NotFound("task not found")).Once()
			},
			expectedStatus: http.StatusNotFound,
			expectedBody:   `{"error":"task not found"}`,
		},
		{
			name: "ошибка сервиса",
			url:  "/tasks/777",
			setupMock: func(m *MockService) {
				m.On("Get", mock.Anything, int64(9), int64(777)).Return(nil, errors.New("db error")).Once()
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `{"error":"internal server error"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockService)
			tt.setupMock(svc)

			r := chi.NewRouter()
			r.Use(func(next http.Handler) http.Handler {
				return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
					ctx := middlewarectx.WithIdentity(req.Context(), middlewarectx.Identity{UserID: 9})
					next.ServeHTTP(w, req.WithContext(ctx))
				})
			})
			r.Method(http.MethodGet, "/tasks/{id}", New(logger, svc))

			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.url, nil))

			assert.Equal(t, tt.expectedStatus, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.expectedBody)
			svc.AssertExpectations(t)
		})
	}
}
