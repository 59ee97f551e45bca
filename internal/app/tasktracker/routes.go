// Package tasktracker собирает HTTP-приложение трекера задач.
package tasktracker

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/magabrotheeeer/task-tracker/internal/http/handlers/auth/login"
	"github.com/magabrotheeeer/task-tracker/internal/http/handlers/auth/logout"
	"github.com/magabrotheeeer/task-tracker/internal/http/handlers/auth/me"
	"github.com/magabrotheeeer/task-tracker/internal/http/handlers/auth/register"
	"github.com/magabrotheeeer/task-tracker/internal/http/handlers/health"
	"github.com/magabrotheeeer/task-tracker/internal/http/handlers/task/create"
	"github.com/magabrotheeeer/task-tracker/internal/http/handlers/task/list"
	"github.com/magabrotheeeer/task-tracker/internal/http/handlers/task/read"
	"github.com/magabrotheeeer/task-tracker/internal/http/handlers/task/remove"
	"github.com/magabrotheeeer/task-tracker/internal/http/handlers/task/update"
	"github.com/magabrotheeeer/task-tracker/internal/http/middlewarectx"
	"github.com/magabrotheeeer/task-tracker/internal/http/sessioncookie"
)

// AuthService объединяет операции аутентификации, нужные обработчикам.
type AuthService interface {
	register.Service
	login.Service
	logout.Service
}

// TaskService объединяет операции над задачами, нужные обработчикам.
type TaskService interface {
	create.Service
	list.Service
	read.Service
	update.Service
	remove.Service
}

// Deps зависимости маршрутизатора.
type Deps struct {
	Log         *slog.Logger
	Auth        AuthService
	Tasks       TaskService
	Sessions    middlewarectx.SessionLookup
	Cookies     *sessioncookie.Codec
	Health      health.Checker
	Limiter     *middlewarectx.IPRateLimiter
	Registry    *prometheus.Registry
	CORSOrigins []string
}

// NewRouter регистрирует все маршруты приложения.
//
// Бизнес-эндпоинты живут под /api, служебные (/health, /metrics, /docs) в корне.
func NewRouter(d Deps) http.Handler {
	r := chi.NewRouter()
	metrics := middlewarectx.NewMetrics(d.Registry)

	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.RealIP,
		middleware.Logger,
		middleware.Recoverer,
		metrics.Middleware,
		cors.Handler(cors.Options{
			AllowedOrigins:   d.CORSOrigins,
			AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
			AllowedHeaders:   []string{"Accept", "Content-Type"},
			AllowCredentials: true,
			MaxAge:           300,
		}),
	)

	r.Route("/api", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.RateLimitMiddleware(d.Log, d.Limiter))
			r.Post("/auth/register", register.New(d.Log, d.Auth, d.Cookies).ServeHTTP)
			r.Post("/auth/login", login.New(d.Log, d.Auth, d.Cookies).ServeHTTP)
		})
		r.Post("/auth/logout", logout.New(d.Log, d.Auth, d.Cookies).ServeHTTP)

		// Группа с проверкой сессии
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.SessionMiddleware(d.Log, d.Cookies, d.Sessions))
			r.Get("/auth/me", me.New(d.Log).ServeHTTP)
			r.Get("/tasks", list.New(d.Log, d.Tasks).ServeHTTP)
			r.Post("/tasks", create.New(d.Log, d.Tasks).ServeHTTP)
			r.Get("/tasks/{id}", read.New(d.Log, d.Tasks).ServeHTTP)
			r.Put("/tasks/{id}", update.New(d.Log, d.Tasks).ServeHTTP)
			r.Delete("/tasks/{id}", remove.New(d.Log, d.Tasks).ServeHTTP)
		})
	})

	r.Get("/health", health.New(d.Log, d.Health).ServeHTTP)
	r.Handle("/metrics", promhttp.HandlerFor(d.Registry, promhttp.HandlerOpts{}))
	r.Get("/docs/*", httpSwagger.WrapHandler)

	return r
}
