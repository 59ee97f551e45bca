// Package remove реализует HTTP-обработчик удаления задачи.
package remove

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
)

// Handler обрабатывает DELETE /tasks/{id}.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает удаление задачи владельцем.
type Service interface {
	Delete(ctx context.Context, userID, taskID int64) error
}

// New создает новый Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Удалить задачу
// @Tags Tasks
// @Param id path int true "ID задачи"
// @Success 204 "Задача удалена"
// @Failure 401 {object} response.ErrorResponse "Нет активной сессии"
// @Failure 404 {object} response.ErrorResponse "Задача не найдена"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /tasks/{id} [delete]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.task.remove"
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

	if err := h.service.Delete(r.Context(), identity.UserID, taskID); err != nil {
		response.WriteError(w, r, log, err)
		return
	}

	log.Info("task deleted", slog.Int64("task_id", taskID))
	w.WriteHeader(http.StatusNoContent)
}
