// Package sessioncookie переносит идентификатор сессии между сервером и браузером.
//
// Значение cookie содержит подписанный токен с идентификатором сессии; подпись
// привязывает cookie к секрету сервера, но сессия всё равно проверяется в хранилище.
package sessioncookie

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/magabrotheeeer/task-tracker/internal/lib/jwt"
	"github.com/magabrotheeeer/task-tracker/internal/models"
)

// ErrNoCookie возвращается, если cookie сессии в запросе нет.
var ErrNoCookie = errors.New("session cookie not present")

// Codec пишет, читает и очищает cookie сессии.
type Codec struct {
	name   string
	secure bool
	tokens jwt.Maker
	now    func() time.Time
}

// New создает Codec. secure включает атрибут Secure (для prod).
func New(name string, secure bool, tokens jwt.Maker) *Codec {
	return &Codec{
		name:   name,
		secure: secure,
		tokens: tokens,
		now:    time.Now,
	}
}

// Name возвращает имя cookie.
func (c *Codec) Name() string {
	return c.name
}

// Write выставляет cookie для сессии; Max-Age равен оставшемуся сроку жизни сессии.
func (c *Codec) Write(w http.ResponseWriter, session *models.Session) error {
	const op = "sessioncookie.Write"

	token, err := c.tokens.GenerateToken(session.ID, session.ExpiresAt)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	maxAge := int(session.ExpiresAt.Sub(c.now()).Seconds())
	if maxAge <= 0 {
		return fmt.Errorf("%s: session already expired", op)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     c.name,
		Value:    token,
		Path:     "/",
		Expires:  session.ExpiresAt.UTC(),
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   c.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// Clear удаляет cookie в браузере.
func (c *Codec) Clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     c.name,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   c.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// SessionID извлекает идентификатор сессии из cookie и проверяет подпись.
func (c *Codec) SessionID(r *http.Request) (string, error) {
	const op = "sessioncookie.SessionID"

	cookie, err := r.Cookie(c.name)
	if err != nil || cookie.Value == "" {
		return "", ErrNoCookie
	}
	id, err := c.tokens.ParseToken(cookie.Value)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return id, nil
}
