// Package list реализует HTTP-обработчик списка задач пользователя.
package list

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/task-tracker/internal/http/middlewarectx"
	"github.com/magabrotheeeer/task-tracker/internal/http/response"
	"github.com/magabrotheeeer/task-tracker/internal/models"
)

// Handler обрабатывает GET /tasks.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает получение списка задач.
type Service interface {
	List(ctx context.Context, userID int64, statusFilter string) ([]*models.Task, error)
}

// New создает новый Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Список задач
// @Description Возвращает задачи текущего пользователя, новые первыми. Неизвестный статус в фильтре игнорируется.
// @Tags Tasks
// @Produce  json
// @Param status query string false "Фильтр по статусу" Enums(pending, in_progress, completed)
// @Success 200 {array} models.Task
// @Failure 401 {object} response.ErrorResponse "Нет активной сессии"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /tasks [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.task.list"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	identity, ok := middlewarectx.IdentityFrom(r.Context())
	if !ok {
		log.Error("identity not found in context")
		render.Status(r, http.StatusUnauthorized)
		render.JSON(w, r, response.Error(response.MsgUnauthenticated))
		return
	}

	tasks, err := h.service.List(r.Context(), identity.UserID, r.URL.Query().Get("status"))
	if err != nil {
		response.WriteError(w, r, log, err)
		return
	}
	if tasks == nil {
		tasks = []*models.Task{}
	}

	log.Debug("tasks listed", slog.Int("count", len(tasks)))
	render.JSON(w, r, tasks)
}
