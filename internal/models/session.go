package models

import "time"

// Session серверная запись об аутентификации пользователя.
type Session struct {
	ID        string    `json:"id"`
	UserID    int64     `json:"user_id"`
	Username  string    `json:"username"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

// Expired сообщает, истекла ли сессия к моменту now.
func (s *Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

// Identity возвращает владельца сессии.
func (s *Session) Identity() Identity {
	return Identity{ID: s.UserID, Username: s.Username}
}
