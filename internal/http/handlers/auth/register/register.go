// Package register реализует HTTP-обработчик регистрации пользователя.
//
// После успешной регистрации пользователь сразу аутентифицирован:
// обработчик выставляет cookie новой сессии.
package register

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

// Request входные данные для регистрации
type Request struct {
	Username string `json:"username" example:"alice"`
	Password string `json:"password" example:"secret123"`
}

// Service описывает регистрацию пользователя.
type Service interface {
	Register(ctx context.Context, username, password string) (*models.Session, error)
}

// CookieWriter выставляет cookie сессии.
type CookieWriter interface {
	Write(w http.ResponseWriter, session *models.Session) error
}

// Handler обрабатывает POST /auth/register.
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
// @Summary Регистрация пользователя
// @Description Создает пользователя и открывает для него сессию (cookie).
// @Tags Auth
// @Accept  json
// @Produce  json
// @Param request body Request true "Имя пользователя и пароль"
// @Success 201 {object} models.Identity
// @Failure 400 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 409 {object} response.ErrorResponse "Имя пользователя занято"
// @Failure 429 {object} response.ErrorResponse "Слишком много запросов"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /auth/register [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.register"

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

	session, err := h.service.Register(r.Context(), req.Username, req.Password)
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

	log.Info("user registered", slog.Int64("user_id", session.UserID))
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, session.Identity())
}
