// Package auth содержит логику регистрации, входа и выхода пользователей.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/magabrotheeeer/task-tracker/internal/lib/apperr"
	"github.com/magabrotheeeer/task-tracker/internal/lib/password"
	"github.com/magabrotheeeer/task-tracker/internal/lib/sl"
	"github.com/magabrotheeeer/task-tracker/internal/models"
)

const (
	minUsernameLen   = 2
	maxUsernameLen   = 100
	minPasswordLen   = 6
	// bcrypt не принимает пароли длиннее 72 байт
	maxPasswordBytes = 72
)

// ErrInvalidCredentials одинакова для неизвестного пользователя и неверного пароля.
var ErrInvalidCredentials = apperr.Auth("invalid username or password")

// UserRepository описывает контракт хранилища учётных данных.
type UserRepository interface {
	// CreateUser сохраняет пользователя; занятое имя даёт apperr.KindConflict.
	CreateUser(ctx context.Context, username, passwordHash string) (*models.User, error)

	// GetUserByUsername возвращает пользователя или apperr.KindNotFound.
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)

	// DeleteUser удаляет пользователя вместе с его задачами и сессиями.
	DeleteUser(ctx context.Context, id int64) error
}

// SessionManager выдаёт и уничтожает сессии.
type SessionManager interface {
	Create(ctx context.Context, userID int64, username string) (*models.Session, error)
	Destroy(ctx context.Context, id string) error
}

// EventPublisher публикует доменные события.
type EventPublisher interface {
	Publish(ctx context.Context, event models.Event) error
}

// AuthService отвечает за регистрацию, вход и выход.
type AuthService struct {
	users    UserRepository
	sessions SessionManager
	events   EventPublisher
	log      *slog.Logger
	now      func() time.Time
}

// NewAuthService создает новый экземпляр AuthService.
func NewAuthService(users UserRepository, sessions SessionManager, events EventPublisher, log *slog.Logger) *AuthService {
	return &AuthService{
		users:    users,
		sessions: sessions,
		events:   events,
		log:      log,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// NormalizeUsername приводит имя к каноническому виду: без пробелов по краям, в нижнем регистре.
func NormalizeUsername(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}

// Register создает пользователя и сразу открывает для него сессию.
func (s *AuthService) Register(ctx context.Context, username, rawPassword string) (*models.Session, error) {
	const op = "auth.Register"

	username = NormalizeUsername(username)
	switch {
	case username == "":
		return nil, apperr.Validation("username is required")
	case utf8.RuneCountInString(rawPassword) < minPasswordLen:
		return nil, apperr.Validation(fmt.Sprintf("password must be at least %d characters", minPasswordLen))
	case len(rawPassword) > maxPasswordBytes:
		return nil, apperr.Validation(fmt.Sprintf("password must be at most %d bytes", maxPasswordBytes))
	case utf8.RuneCountInString(username) < minUsernameLen:
		return nil, apperr.Validation(fmt.Sprintf("username must be at least %d characters", minUsernameLen))
	case utf8.RuneCountInString(username) > maxUsernameLen:
		return nil, apperr.Validation(fmt.Sprintf("username must be at most %d characters", maxUsernameLen))
	}

	hashed, err := password.GetHash(rawPassword)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	user, err := s.users.CreateUser(ctx, username, hashed)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	session, err := s.sessions.Create(ctx, user.ID, user.Username)
	if err != nil {
		// без сессии регистрация не состоялась: имя должно остаться свободным для повтора
		if delErr := s.users.DeleteUser(context.WithoutCancel(ctx), user.ID); delErr != nil {
			s.log.Error("failed to roll back user after session error",
				slog.String("op", op),
				slog.Int64("user_id", user.ID),
				sl.Err(delErr),
			)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.publish(ctx, models.Event{Type: models.EventUserRegistered, UserID: user.ID, OccurredAt: s.now()})
	return session, nil
}

// Login проверяет пароль и открывает сессию.
// Для неизвестного пользователя сравнение с фиктивным хэшем всё равно выполняется.
func (s *AuthService) Login(ctx context.Context, username, rawPassword string) (*models.Session, error) {
	const op = "auth.Login"

	username = NormalizeUsername(username)
	if username == "" || rawPassword == "" {
		return nil, apperr.Validation("username and password required")
	}

	user, err := s.users.GetUserByUsername(ctx, username)
	if err != nil {
		if apperr.Is(err, apperr.KindNotFound) {
			_ = password.CompareDummy(rawPassword)
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := password.CompareHash(user.PasswordHash, rawPassword); err != nil {
		if errors.Is(err, password.ErrMismatch) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	session, err := s.sessions.Create(ctx, user.ID, user.Username)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return session, nil
}

// Logout уничтожает сессию. Отсутствующая сессия ошибкой не считается.
func (s *AuthService) Logout(ctx context.Context, sessionID string) error {
	const op = "auth.Logout"

	if err := s.sessions.Destroy(ctx, sessionID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (s *AuthService) publish(ctx context.Context, event models.Event) {
	if err := s.events.Publish(ctx, event); err != nil {
		s.log.Warn("failed to publish event", slog.String("type", event.Type), sl.Err(err))
	}
}
