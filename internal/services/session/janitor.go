package session

import (
	"context"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/task-tracker/internal/lib/sl"
)

// Janitor периодически удаляет истёкшие сессии из хранилища.
type Janitor struct {
	manager  *Manager
	interval time.Duration
	log      *slog.Logger
}

// NewJanitor создает фоновую очистку с заданным интервалом.
func NewJanitor(manager *Manager, interval time.Duration, log *slog.Logger) *Janitor {
	return &Janitor{
		manager:  manager,
		interval: interval,
		log:      log,
	}
}

// Run выполняет очистку каждые interval до отмены контекста.
func (j *Janitor) Run(ctx context.Context) {
	const op = "session.Janitor.Run"
	log := j.log.With(sl.Op(op))

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	log.Info("session janitor started", slog.Duration("interval", j.interval))
	for {
		select {
		case <-ctx.Done():
			log.Info("session janitor stopped")
			return
		case <-ticker.C:
			j.sweep(ctx, log)
		}
	}
}

func (j *Janitor) sweep(ctx context.Context, log *slog.Logger) {
	deleted, err := j.manager.store.DeleteExpiredSessions(ctx, j.manager.now())
	if err != nil {
		if ctx.Err() == nil {
			log.Error("failed to delete expired sessions", sl.Err(err))
		}
		return
	}
	if deleted > 0 {
		log.Info("expired sessions deleted", slog.Int64("count", deleted))
	}
}
