// Package apperr описывает таксономию ошибок приложения.
//
// Каждая ошибка несёт вид (Kind) и стабильное сообщение для клиента.
// Слои выше сравнивают ошибки по виду через errors.As, а не по тексту.
// Исходная ошибка драйвера хранится в поле Err и попадает только в логи.
package apperr

import (
	"errors"
	"fmt"
)

// Kind вид ошибки приложения.
type Kind int

const (
	// KindInternal непредвиденная ошибка, клиенту детали не раскрываются.
	KindInternal Kind = iota
	// KindValidation некорректные или отсутствующие входные данные.
	KindValidation
	// KindAuth нет валидной сессии или неверные учётные данные.
	KindAuth
	// KindConflict нарушение уникальности.
	KindConflict
	// KindNotFound ресурс не существует или принадлежит другому пользователю.
	KindNotFound
	// KindUnavailable хранилище недоступно или схема устарела.
	KindUnavailable
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindAuth:
		return "auth"
	case KindConflict:
		return "conflict"
	case KindNotFound:
		return "not_found"
	case KindUnavailable:
		return "unavailable"
	default:
		return "internal"
	}
}

// Error ошибка приложения с видом и сообщением для клиента.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Validation создаёт ошибку валидации.
func Validation(msg string) *Error {
	return &Error{Kind: KindValidation, Message: msg}
}

// Auth создаёт ошибку аутентификации.
func Auth(msg string) *Error {
	return &Error{Kind: KindAuth, Message: msg}
}

// Conflict создаёт ошибку конфликта.
func Conflict(msg string, err error) *Error {
	return &Error{Kind: KindConflict, Message: msg, Err: err}
}

// NotFound создаёт ошибку отсутствия ресурса.
func NotFound(msg string) *Error {
	return &Error{Kind: KindNotFound, Message: msg}
}

// Unavailable создаёт ошибку недоступности хранилища с подсказкой по исправлению.
func Unavailable(hint string, err error) *Error {
	return &Error{Kind: KindUnavailable, Message: hint, Err: err}
}

// KindOf возвращает вид ошибки; для ошибок вне таксономии KindInternal.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

// Is сообщает, относится ли ошибка к указанному виду.
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// Message возвращает сообщение для клиента или пустую строку для ошибок вне таксономии.
func Message(err error) string {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return ""
}
