// Package cache реализует хранилище сессий в Redis.
// Каждая сессия хранится как JSON под ключом session:<id> с TTL до момента истечения.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/magabrotheeeer/task-tracker/internal/config"
	"github.com/magabrotheeeer/task-tracker/internal/lib/apperr"
	"github.com/magabrotheeeer/task-tracker/internal/models"
)

const (
	sessionKeyPrefix = "session:"
	hintUnreachable  = "session store not reachable, check redis_connection and that Redis is running"
)

// Cache хранилище сессий поверх клиента Redis
type Cache struct {
	Db *redis.Client
}

// InitServer подключается к Redis и проверяет соединение
func InitServer(ctx context.Context, cfg config.RedisConnection) (*Cache, error) {
	const op = "cache.InitServer"
	db := redis.NewClient(&redis.Options{
		Addr:         cfg.Address,
		Password:     cfg.Password,
		DB:           cfg.DB,
		Username:     cfg.User,
		MaxRetries:   cfg.MaxRetries,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.Timeout,
		WriteTimeout: cfg.Timeout,
	})

	if err := db.Ping(ctx).Err(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%s: %w", op, classify(err))
	}
	return &Cache{Db: db}, nil
}

// Close закрывает клиент Redis
func (c *Cache) Close() error {
	return c.Db.Close()
}

func sessionKey(id string) string {
	return sessionKeyPrefix + id
}

// CreateSession сохраняет сессию; ключ живёт до ExpiresAt.
func (c *Cache) CreateSession(ctx context.Context, session models.Session) error {
	const op = "cache.CreateSession"

	ttl := time.Until(session.ExpiresAt)
	if ttl <= 0 {
		return nil
	}
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err = c.Db.Set(ctx, sessionKey(session.ID), data, ttl).Err(); err != nil {
		return fmt.Errorf("%s: %w", op, classify(err))
	}
	return nil
}

// GetSession возвращает сессию или apperr.KindNotFound, если ключа нет.
func (c *Cache) GetSession(ctx context.Context, id string) (*models.Session, error) {
	const op = "cache.GetSession"

	val, err := c.Db.Get(ctx, sessionKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("%s: %w", op, apperr.NotFound("session not found"))
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, classify(err))
	}

	var session models.Session
	if err = json.Unmarshal(val, &session); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &session, nil
}

// DeleteSession удаляет сессию; отсутствие ключа ошибкой не считается.
func (c *Cache) DeleteSession(ctx context.Context, id string) error {
	const op = "cache.DeleteSession"

	if err := c.Db.Del(ctx, sessionKey(id)).Err(); err != nil {
		return fmt.Errorf("%s: %w", op, classify(err))
	}
	return nil
}

// DeleteExpiredSessions ничего не делает: истёкшие ключи удаляет сам Redis.
func (c *Cache) DeleteExpiredSessions(_ context.Context, _ time.Time) (int64, error) {
	return 0, nil
}

func classify(err error) error {
	var netErr net.Error
	switch {
	case errors.As(err, &netErr),
		errors.Is(err, io.EOF),
		errors.Is(err, context.DeadlineExceeded),
		errors.Is(err, redis.ErrClosed):
		return apperr.Unavailable(hintUnreachable, err)
	}
	return err
}
