// Package middlewarectx содержит HTTP middleware трекера задач: проверку сессии,
// ограничение частоты запросов и сбор метрик.
package middlewarectx

import (
	"context"

	"github.com/magabrotheeeer/task-tracker/internal/models"
)

// Key тип для ключей контекста HTTP-запроса.
type Key string

// IdentityKey ключ, под которым в контексте хранится аутентифицированный пользователь.
const IdentityKey Key = "identity"

// Identity владелец текущего запроса.
type Identity struct {
	UserID    int64
	Username  string
	SessionID string
}

// Public возвращает представление пользователя для ответа клиенту.
func (i Identity) Public() models.Identity {
	return models.Identity{ID: i.UserID, Username: i.Username}
}

// WithIdentity кладёт пользователя в контекст.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, IdentityKey, id)
}

// IdentityFrom достаёт пользователя из контекста.
func IdentityFrom(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(IdentityKey).(Identity)
	return id, ok && id.UserID != 0
}
