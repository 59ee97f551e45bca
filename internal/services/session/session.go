// Package session управляет жизненным циклом сессий: создание, проверка и удаление.
// Сессия привязана к непрозрачному случайному идентификатору и имеет фиксированный срок жизни.
package session

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/task-tracker/internal/lib/apperr"
	"github.com/magabrotheeeer/task-tracker/internal/lib/sl"
	"github.com/magabrotheeeer/task-tracker/internal/models"
)

// Store описывает хранилище сессий (PostgreSQL или Redis).
type Store interface {
	CreateSession(ctx context.Context, session models.Session) error
	GetSession(ctx context.Context, id string) (*models.Session, error)
	DeleteSession(ctx context.Context, id string) error
	DeleteExpiredSessions(ctx context.Context, now time.Time) (int64, error)
}

// ErrNoSession возвращается, когда сессии нет или срок её действия истёк.
var ErrNoSession = apperr.Auth("not authenticated")

// Manager создаёт и проверяет сессии.
type Manager struct {
	store Store
	ttl   time.Duration
	log   *slog.Logger
	now   func() time.Time
	newID func() string
}

// NewManager создает менеджер сессий с фиксированным сроком жизни ttl.
func NewManager(store Store, ttl time.Duration, log *slog.Logger) *Manager {
	return &Manager{
		store: store,
		ttl:   ttl,
		log:   log,
		now:   func() time.Time { return time.Now().UTC() },
		newID: uuid.NewString,
	}
}

// TTL возвращает срок жизни новых сессий.
func (m *Manager) TTL() time.Duration {
	return m.ttl
}

// Create выдаёт новую сессию пользователю.
func (m *Manager) Create(ctx context.Context, userID int64, username string) (*models.Session, error) {
	const op = "session.Create"

	now := m.now()
	s := models.Session{
		ID:        m.newID(),
		UserID:    userID,
		Username:  username,
		ExpiresAt: now.Add(m.ttl),
		CreatedAt: now,
	}
	if err := m.store.CreateSession(ctx, s); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &s, nil
}

// Lookup возвращает активную сессию. Отсутствующая и истёкшая сессии
// неразличимы и дают ErrNoSession; истёкшая запись при этом удаляется.
func (m *Manager) Lookup(ctx context.Context, id string) (*models.Session, error) {
	const op = "session.Lookup"

	if id == "" {
		return nil, ErrNoSession
	}
	s, err := m.store.GetSession(ctx, id)
	if err != nil {
		if apperr.Is(err, apperr.KindNotFound) {
			return nil, ErrNoSession
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if s.Expired(m.now()) {
		if err := m.store.DeleteSession(ctx, id); err != nil {
			m.log.Warn("failed to delete expired session", sl.Op(op), sl.Err(err))
		}
		return nil, ErrNoSession
	}
	return s, nil
}

// Destroy удаляет сессию. Пустой или неизвестный идентификатор ошибкой не считается.
func (m *Manager) Destroy(ctx context.Context, id string) error {
	const op = "session.Destroy"

	if id == "" {
		return nil
	}
	if err := m.store.DeleteSession(ctx, id); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
