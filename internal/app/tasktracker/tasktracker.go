package tasktracker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/task-tracker/internal/cache"
	"github.com/magabrotheeeer/task-tracker/internal/config"
	"github.com/magabrotheeeer/task-tracker/internal/http/middlewarectx"
	"github.com/magabrotheeeer/task-tracker/internal/http/sessioncookie"
	"github.com/magabrotheeeer/task-tracker/internal/lib/jwt"
	"github.com/magabrotheeeer/task-tracker/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/task-tracker/internal/lib/sl"
	"github.com/magabrotheeeer/task-tracker/internal/migrations"
	"github.com/magabrotheeeer/task-tracker/internal/services/auth"
	"github.com/magabrotheeeer/task-tracker/internal/services/session"
	"github.com/magabrotheeeer/task-tracker/internal/services/task"
	"github.com/magabrotheeeer/task-tracker/internal/storage/repository"
)

const (
	shutdownTimeout = 15 * time.Second
	tokenIssuer     = "task-tracker"
)

// EventPublisher публикует доменные события и освобождает ресурсы при остановке.
type EventPublisher interface {
	auth.EventPublisher
	Close() error
}

type noopCloser struct {
	rabbitmq.NoopPublisher
}

func (noopCloser) Close() error { return nil }

// App HTTP-сервер трекера задач со всеми зависимостями.
type App struct {
	server  *http.Server
	logger  *slog.Logger
	db      *repository.Storage
	cache   *cache.Cache
	amqp    *amqp.Connection
	events  EventPublisher
	janitor *session.Janitor
}

// New подключается к хранилищам, применяет миграции и собирает маршрутизатор.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	const op = "tasktracker.New"

	db, err := repository.New(ctx, cfg.StorageConnectionString)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err = migrations.Run(db.DB, cfg.MigrationsPath); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	app := &App{logger: logger, db: db}

	var store session.Store = db
	if cfg.Session.Store == config.SessionStoreRedis {
		app.cache, err = cache.InitServer(ctx, cfg.RedisConnection)
		if err != nil {
			app.close()
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		store = app.cache
	}
	logger.Info("session store selected", slog.String("store", cfg.Session.Store))

	app.events, err = app.setupEvents(ctx, cfg.RabbitMQ)
	if err != nil {
		app.close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	sessions := session.NewManager(store, cfg.Session.TTL, logger)
	app.janitor = session.NewJanitor(sessions, cfg.Session.CleanupInterval, logger)

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	router := NewRouter(Deps{
		Log:         logger,
		Auth:        auth.NewAuthService(db, sessions, app.events, logger),
		Tasks:       task.NewTaskService(db, app.events, logger),
		Sessions:    sessions,
		Cookies:     sessioncookie.New(cfg.Session.CookieName, cfg.Env == config.EnvProd, jwt.NewJWTMaker(cfg.Session.Secret, tokenIssuer)),
		Health:      db,
		Limiter:     middlewarectx.NewIPRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst),
		Registry:    registry,
		CORSOrigins: cfg.CORS.AllowedOrigins,
	})

	app.server = &http.Server{
		Addr:         cfg.HTTPServer.Address,
		Handler:      router,
		ReadTimeout:  cfg.HTTPServer.Timeout,
		WriteTimeout: cfg.HTTPServer.Timeout,
		IdleTimeout:  cfg.HTTPServer.IdleTimeout,
	}

	return app, nil
}

// setupEvents подключается к RabbitMQ; без URL события не публикуются.
func (a *App) setupEvents(ctx context.Context, cfg config.RabbitMQ) (EventPublisher, error) {
	if cfg.URL == "" {
		a.logger.Info("rabbitmq url not set, domain events disabled")
		return noopCloser{}, nil
	}

	conn, err := rabbitmq.Connect(ctx, cfg.URL, cfg.Retries, cfg.RetryDelay)
	if err != nil {
		return nil, err
	}
	ch, err := rabbitmq.SetupChannel(conn, cfg.Exchange, rabbitmq.GetEventQueues())
	if err != nil {
		_ = conn.Close()
		return nil, err
	}
	a.amqp = conn
	a.logger.Info("rabbitmq connected", slog.String("exchange", cfg.Exchange))
	return rabbitmq.NewEventPublisher(ch, cfg.Exchange), nil
}

// Run запускает HTTP-сервер и очистку сессий и блокируется до отмены ctx.
func (a *App) Run(ctx context.Context) error {
	janitorCtx, stopJanitor := context.WithCancel(ctx)
	defer stopJanitor()
	go a.janitor.Run(janitorCtx)

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		a.close()
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		a.close()
		return err
	}
}

func (a *App) close() {
	if a.events != nil {
		if err := a.events.Close(); err != nil {
			a.logger.Warn("failed to close event channel", sl.Err(err))
		}
	}
	if a.amqp != nil {
		if err := a.amqp.Close(); err != nil {
			a.logger.Warn("failed to close rabbitmq connection", sl.Err(err))
		}
	}
	if a.cache != nil {
		if err := a.cache.Close(); err != nil {
			a.logger.Warn("failed to close redis", sl.Err(err))
		}
	}
	if err := a.db.Close(); err != nil {
		a.logger.Warn("failed to close database", sl.Err(err))
	}
}
