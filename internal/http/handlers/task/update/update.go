// Package update реализует HTTP-обработчик частичного обновления задачи.
//
// Меняются только переданные поля. Явный null в description очищает описание,
// null в title или status считается ошибкой валидации.
package update

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/task-tracker/internal/http/middlewarectx"
	"github.com/magabrotheeeer/task-tracker/internal/http/request"
	"github.com/magabrotheeeer/task-tracker/internal/http/response"
	"github.com/magabrotheeeer/task-tracker/internal/lib/apperr"
	"github.com/magabrotheeeer/task-tracker/internal/lib/sl"
	"github.com/magabrotheeeer/task-tracker/internal/models"
)

// Handler обрабатывает PUT /tasks/{id}.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает обновление задачи владельцем.
type Service interface {
	Update(ctx context.Context, userID, taskID int64, in models.UpdateTaskInput) (*models.Task, error)
}

// Request описывает тело PUT /tasks/{id} для документации; все поля необязательны.
// Разбор идет в models.UpdateTaskInput, чтобы отличать null от отсутствия поля.
type Request struct {
	Title       *string `json:"title,omitempty" example:"Buy milk"`
	Description *string `json:"description,omitempty" example:"2 litres"`
	Status      *string `json:"status,omitempty" enums:"pending,in_progress,completed" example:"completed"`
}

// New создает новый Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Обновить задачу
// @Description Частичное обновление: отсутствующие поля не меняются.
// @Tags Tasks
// @Accept  json
// @Produce  json
// @Param id path int true "ID задачи"
// @Param request body Request true "Изменяемые поля"
// @Success 200 {object} models.Task
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON или ошибка валидации"
// @Failure 401 {object} response.ErrorResponse "Нет активной сессии"
// @Failure 404 {object} response.ErrorResponse "Задача не найдена"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /tasks/{id} [put]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.task.update"
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

	taskID, ok := request.PathID(r, "id")
	if !ok {
		response.WriteError(w, r, log, apperr.NotFound(response.MsgTaskNotFound))
		return
	}

	var req models.UpdateTaskInput
	if err := request.DecodeJSON(r, &req); err != nil {
		log.Info("failed to decode request body", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error(response.MsgInvalidBody))
		return
	}

	task, err := h.service.Update(r.Context(), identity.UserID, taskID, req)
	if err != nil {
		response.WriteError(w, r, log, err)
		return
	}

	log.Info("task updated", slog.Int64("task_id", task.ID))
	render.JSON(w, r, task)
}
