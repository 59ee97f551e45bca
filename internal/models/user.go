// Package models содержит доменные модели трекера задач:
// пользователя, сессию и задачу, а также типы входных данных для них.
package models

import "time"

// User представляет зарегистрированного пользователя системы.
type User struct {
	ID           int64     // Уникальный идентификатор пользователя
	Username     string    // Имя пользователя (уникальное, в нижнем регистре)
	PasswordHash string    // Хэш пароля пользователя
	CreatedAt    time.Time // Дата регистрации
}

// Identity публичное представление пользователя. Хэш пароля сюда не попадает.
type Identity struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
}
