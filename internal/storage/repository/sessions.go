package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/magabrotheeeer/task-tracker/internal/lib/apperr"
	"github.com/magabrotheeeer/task-tracker/internal/models"
)

// CreateSession сохраняет новую сессию.
func (s *Storage) CreateSession(ctx context.Context, session models.Session) error {
	const op = "storage.CreateSession"
	if err := checkCtx(ctx, op); err != nil {
		return err
	}

	query := `INSERT INTO sessions (id, user_id, username, expires_at, created_at)
			  VALUES ($1, $2, $3, $4, $5)`
	_, err := s.DB.ExecContext(ctx, query,
		session.ID, session.UserID, session.Username, session.ExpiresAt, session.CreatedAt)
	if err != nil {
		return wrap(op, err)
	}
	return nil
}

// GetSession возвращает сессию по идентификатору (поиск по первичному ключу).
// Истёкшие сессии возвращаются как есть, решение принимает менеджер сессий.
func (s *Storage) GetSession(ctx context.Context, id string) (*models.Session, error) {
	const op = "storage.GetSession"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	query := `SELECT id, user_id, username, expires_at, created_at
			  FROM sessions
			  WHERE id = $1`
	session := &models.Session{}
	err := s.DB.QueryRowContext(ctx, query, id).
		Scan(&session.ID, &session.UserID, &session.Username, &session.ExpiresAt, &session.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, apperr.NotFound("session not found"))
		}
		return nil, wrap(op, err)
	}
	return session, nil
}

// DeleteSession удаляет сессию. Отсутствие сессии ошибкой не считается.
func (s *Storage) DeleteSession(ctx context.Context, id string) error {
	const op = "storage.DeleteSession"
	if err := checkCtx(ctx, op); err != nil {
		return err
	}

	if _, err := s.DB.ExecContext(ctx, `DELETE FROM sessions WHERE id = $1`, id); err != nil {
		return wrap(op, err)
	}
	return nil
}

// DeleteExpiredSessions удаляет все сессии, истёкшие к моменту now,
// и возвращает количество удалённых строк.
func (s *Storage) DeleteExpiredSessions(ctx context.Context, now time.Time) (int64, error) {
	const op = "storage.DeleteExpiredSessions"
	if err := checkCtx(ctx, op); err != nil {
		return 0, err
	}

	result, err := s.DB.ExecContext(ctx, `DELETE FROM sessions WHERE expires_at <= $1`, now)
	if err != nil {
		return 0, wrap(op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, wrap(op, err)
	}
	return rowsAffected, nil
}
