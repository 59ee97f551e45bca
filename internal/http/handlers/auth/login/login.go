// Package login реализует HTTP-обработчик входа пользователя.
package login

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/task-tracker/internal/http/request"
	"github.com/magabrotheeeer/task-tracker/internal/http/response"
	"github.com/magabrotheeeer/task-tracker/internal/lib/sl"
	"github.com/magabrotheeeer/task-tracker/internal/models"
)

// Request входные данные для входа
type Request struct {
	Username string `json:"username" example:"alice"`
	Password string `json:"password" example:"secret123"`
}

// Service описывает проверку учётных данных.
type Service interface {
	Login(ctx context.Context, username, password string) (*models.Session, error)
}

// CookieWriter выставляет cookie сессии.
type CookieWriter interface {
	Write(w http.ResponseWriter, session *models.Session) error
}

// Handler обрабатывает POST /auth/login.
type Handler struct {
	log     *slog.Logger
	service Service
	cookies CookieWriter
}

// New создает новый Handler.
func New(log *slog.Logger, service Service, cookies CookieWriter) *Handler {
	return &Handler{
		log:     log,
		service: service,
		cookies: cookies,
	}
}

// ServeHTTP godoc
// @Summary Вход пользователя
// @Description Проверяет имя и пароль и открывает сессию (cookie).
// @Tags Auth
// @Accept  json
// @Produce  json
// @Param request body Request true "Имя пользователя и пароль"
// @Success 200 {object} models.Identity
// @Failure 400 {object} response.ErrorResponse "Не заданы имя или пароль"
// @Failure 401 {object} response.ErrorResponse "Неверное имя пользователя или пароль"
// @Failure 429 {object} response.ErrorResponse "Слишком много запросов"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /auth/login [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.login"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req Request
	if err := request.DecodeJSON(r, &req); err != nil {
		log.Info("failed to decode request body", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error(response.MsgInvalidBody))
		return
	}

	session, err := h.service.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		response.WriteError(w, r, log, err)
		return
	}

	if err := h.cookies.Write(w, session); err != nil {
		log.Error("failed to write session cookie", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error(response.MsgInternal))
		return
	}

	log.Info("user logged in", slog.Int64("user_id", session.UserID))
	render.JSON(w, r, session.Identity())
}
