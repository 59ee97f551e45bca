// Package response содержит вспомогательные типы и функции для формирования
// унифицированных JSON-ответов HTTP-обработчиков: тело ошибки всегда имеет вид
// {"error": "<message>"}.
package response

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/task-tracker/internal/lib/apperr"
	"github.com/magabrotheeeer/task-tracker/internal/lib/sl"
)

// Сообщения, общие для всех обработчиков.
const (
	MsgInvalidBody     = "invalid request body"
	MsgInternal        = "internal server error"
	MsgUnauthenticated = "authentication required"
	MsgTooManyRequests = "too many requests"
	MsgTaskNotFound    = "task not found"
)

// ErrorResponse тело ответа с ошибкой.
// Используется в аннотациях @Failure как возвращаемый тип ошибки.
type ErrorResponse struct {
	Error string `json:"error" example:"invalid request body"`
}

// Error возвращает ErrorResponse с переданным сообщением.
func Error(msg string) ErrorResponse {
	return ErrorResponse{
		Error: msg,
	}
}

// ValidationError формирует ErrorResponse на основе ошибок валидации.
// Каждое нарушение формируется в человеко-читаемый текст, объединённый через запятую.
func ValidationError(errs validator.ValidationErrors) ErrorResponse {
	var errsMsgs []string

	for _, err := range errs {
		switch err.ActualTag() {
		case "required":
			errsMsgs = append(errsMsgs, fmt.Sprintf("%s is required", err.Field()))
		case "max":
			errsMsgs = append(errsMsgs, fmt.Sprintf("%s must be at most %s characters", err.Field(), err.Param()))
		default:
			errsMsgs = append(errsMsgs, fmt.Sprintf("%s is not valid", err.Field()))
		}
	}
	return Error(strings.Join(errsMsgs, ", "))
}

// StatusFor возвращает HTTP-статус для вида ошибки.
func StatusFor(kind apperr.Kind) int {
	switch kind {
	case apperr.KindValidation:
		return http.StatusBadRequest
	case apperr.KindAuth:
		return http.StatusUnauthorized
	case apperr.KindConflict:
		return http.StatusConflict
	case apperr.KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// WriteError пишет ответ для ошибки сервиса. Клиент видит только сообщение
// из таксономии; текст ошибок драйвера попадает лишь в лог.
func WriteError(w http.ResponseWriter, r *http.Request, log *slog.Logger, err error) {
	kind := apperr.KindOf(err)
	msg := apperr.Message(err)

	switch kind {
	case apperr.KindInternal:
		log.Error("internal error", sl.Err(err))
		msg = MsgInternal
	case apperr.KindUnavailable:
		log.Error("storage unavailable", sl.Err(err))
	default:
		log.Info("request rejected", slog.String("kind", kind.String()), slog.String("reason", msg))
	}

	render.Status(r, StatusFor(kind))
	render.JSON(w, r, Error(msg))
}
