package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/magabrotheeeer/task-tracker/internal/lib/apperr"
	"github.com/magabrotheeeer/task-tracker/internal/models"
)

// CreateUser сохраняет нового пользователя и возвращает созданную запись.
//
// Нарушение уникальности имени возвращается как apperr.KindConflict.
func (s *Storage) CreateUser(ctx context.Context, username, passwordHash string) (*models.User, error) {
	const op = "storage.CreateUser"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	query := `INSERT INTO users (username, password_hash)
			  VALUES ($1, $2)
			  RETURNING id, username, password_hash, created_at`
	u := &models.User{}
	err := s.DB.QueryRowContext(ctx, query, username, passwordHash).
		Scan(&u.ID, &u.Username, &u.PasswordHash, &u.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("%s: %w", op, apperr.Conflict("username already taken", err))
		}
		return nil, wrap(op, err)
	}
	return u, nil
}

// GetUserByUsername возвращает пользователя по уже нормализованному имени.
func (s *Storage) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	const op = "storage.GetUserByUsername"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	query := `SELECT id, username, password_hash, created_at
			  FROM users
			  WHERE username = $1`
	u := &models.User{}
	err := s.DB.QueryRowContext(ctx, query, username).
		Scan(&u.ID, &u.Username, &u.PasswordHash, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, apperr.NotFound("user not found"))
		}
		return nil, wrap(op, err)
	}
	return u, nil
}

// DeleteUser удаляет пользователя; задачи и сессии удаляются каскадно.
// Отсутствующий пользователь не считается ошибкой.
func (s *Storage) DeleteUser(ctx context.Context, id int64) error {
	const op = "storage.DeleteUser"
	if err := checkCtx(ctx, op); err != nil {
		return err
	}

	if _, err := s.DB.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id); err != nil {
		return wrap(op, err)
	}
	return nil
}
