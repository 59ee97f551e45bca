package middlewarectx

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/task-tracker/internal/http/response"
	"github.com/magabrotheeeer/task-tracker/internal/lib/apperr"
	"github.com/magabrotheeeer/task-tracker/internal/lib/sl"
	"github.com/magabrotheeeer/task-tracker/internal/models"
)

// SessionReader извлекает идентификатор сессии из запроса.
type SessionReader interface {
	SessionID(r *http.Request) (string, error)
}

// SessionLookup проверяет сессию в хранилище.
type SessionLookup interface {
	Lookup(ctx context.Context, id string) (*models.Session, error)
}

// SessionMiddleware пропускает запрос дальше, только если cookie содержит
// подписанный идентификатор активной сессии. Сессия проверяется в хранилище
// на каждом запросе; результат проверки не кэшируется.
//
// Иначе отвечает 401 {"error": "authentication required"}.
func SessionMiddleware(log *slog.Logger, cookies SessionReader, sessions SessionLookup) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middlewarectx.SessionMiddleware"
			log := log.With(
				slog.String("op", op),
				slog.String("request_id", middleware.GetReqID(r.Context())),
			)

			sessionID, err := cookies.SessionID(r)
			if err != nil {
				log.Info("missing or invalid session cookie", sl.Err(err))
				unauthorized(w, r)
				return
			}

			session, err := sessions.Lookup(r.Context(), sessionID)
			if err != nil {
				if apperr.Is(err, apperr.KindAuth) {
					log.Info("session not active")
					unauthorized(w, r)
					return
				}
				response.WriteError(w, r, log, err)
				return
			}

			ctx := WithIdentity(r.Context(), Identity{
				UserID:    session.UserID,
				Username:  session.Username,
				SessionID: session.ID,
			})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func unauthorized(w http.ResponseWriter, r *http.Request) {
	render.Status(r, http.StatusUnauthorized)
	render.JSON(w, r, response.Error(response.MsgUnauthenticated))
}
