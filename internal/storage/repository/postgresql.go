// Package repository реализует хранилище трекера задач на основе PostgreSQL:
// учётные данные пользователей, сессии и задачи. Все запросы к задачам
// ограничены идентификатором владельца.
package repository

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	// Регистрация драйвера pgx для использования с database/sql.
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/magabrotheeeer/task-tracker/internal/lib/apperr"
)

const (
	hintUnreachable = "database not reachable, check storage_connection_string and that PostgreSQL is running"
	hintSchema      = "database schema outdated, run migrations"
)

// Storage инкапсулирует пул соединений с PostgreSQL.
type Storage struct {
	DB *sql.DB
}

// New открывает пул соединений с PostgreSQL и проверяет доступность базы.
func New(ctx context.Context, storageConnectionString string) (*Storage, error) {
	const op = "storage.New"

	db, err := sql.Open("pgx", storageConnectionString)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	if err = db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%s: %w", op, classify(err))
	}

	return &Storage{
		DB: db,
	}, nil
}

// Close закрывает пул соединений.
func (s *Storage) Close() error {
	return s.DB.Close()
}

// CheckDatabaseReady проверяет, что база доступна и все таблицы созданы миграциями.
func (s *Storage) CheckDatabaseReady(ctx context.Context) error {
	const op = "storage.CheckDatabaseReady"

	var users, tasks, sessions sql.NullString
	err := s.DB.QueryRowContext(ctx, `SELECT to_regclass('public.users'),
			       to_regclass('public.tasks'),
			       to_regclass('public.sessions')`).Scan(&users, &tasks, &sessions)
	if err != nil {
		return wrap(op, err)
	}
	if !users.Valid || !tasks.Valid || !sessions.Valid {
		return fmt.Errorf("%s: %w", op, apperr.Unavailable(hintSchema, errors.New("required tables missing")))
	}
	return nil
}

// wrap оборачивает ошибку драйвера именем операции, переводя
// недоступность базы и устаревшую схему в apperr.KindUnavailable.
func wrap(op string, err error) error {
	return fmt.Errorf("%s: %w", op, classify(err))
}

func classify(err error) error {
	var appErr *apperr.Error
	if errors.As(err, &appErr) {
		return err
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch {
		case pgErr.Code == pgerrcode.UndefinedTable, pgErr.Code == pgerrcode.UndefinedColumn:
			return apperr.Unavailable(hintSchema, err)
		case pgerrcode.IsConnectionException(pgErr.Code),
			pgErr.Code == pgerrcode.AdminShutdown,
			pgErr.Code == pgerrcode.CrashShutdown,
			pgErr.Code == pgerrcode.CannotConnectNow:
			return apperr.Unavailable(hintUnreachable, err)
		}
		return err
	}

	var connErr *pgconn.ConnectError
	var netErr net.Error
	switch {
	case errors.As(err, &connErr),
		errors.As(err, &netErr),
		errors.Is(err, driver.ErrBadConn),
		errors.Is(err, sql.ErrConnDone),
		errors.Is(err, context.DeadlineExceeded),
		pgconn.Timeout(err):
		return apperr.Unavailable(hintUnreachable, err)
	}
	return err
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation
}

func checkCtx(ctx context.Context, op string) error {
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
		return nil
	}
}
