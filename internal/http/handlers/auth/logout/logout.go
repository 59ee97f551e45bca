// Package logout реализует HTTP-обработчик выхода пользователя.
//
// Выход идемпотентен: без cookie, с чужой или истёкшей сессией ответ тот же, 204.
// Если хранилище не смогло удалить сессию, cookie всё равно очищается, а клиент
// получает ошибку: серверная сессия остаётся действительной до истечения срока.
package logout

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"

	"github.com/magabrotheeeer/task-tracker/internal/http/response"
)

// Service описывает уничтожение сессии.
type Service interface {
	Logout(ctx context.Context, sessionID string) error
}

// Cookies читает и очищает cookie сессии.
type Cookies interface {
	SessionID(r *http.Request) (string, error)
	Clear(w http.ResponseWriter)
}

// Handler обрабатывает POST /auth/logout.
type Handler struct {
	log     *slog.Logger
	service Service
	cookies Cookies
}

// New создает новый Handler.
func New(log *slog.Logger, service Service, cookies Cookies) *Handler {
	return &Handler{
		log:     log,
		service: service,
		cookies: cookies,
	}
}

// ServeHTTP godoc
// @Summary Выход пользователя
// @Description Уничтожает текущую сессию и очищает cookie.
// @Tags Auth
// @Produce  json
// @Success 204 "Сессия завершена"
// @Failure 500 {object} response.ErrorResponse "Не удалось завершить сессию"
// @Router /auth/logout [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.logout"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var logoutErr error
	if sessionID, err := h.cookies.SessionID(r); err == nil {
		logoutErr = h.service.Logout(r.Context(), sessionID)
	}

	h.cookies.Clear(w)
	if logoutErr != nil {
		response.WriteError(w, r, log, logoutErr)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
