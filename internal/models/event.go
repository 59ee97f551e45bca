package models

import "time"

// Типы доменных событий; совпадают с routing key в RabbitMQ.
const (
	EventUserRegistered = "user.registered"
	EventTaskCreated    = "task.created"
	EventTaskUpdated    = "task.updated"
	EventTaskDeleted    = "task.deleted"
)

// Event доменное событие, публикуемое после успешного изменения данных.
type Event struct {
	Type       string    `json:"type"`
	UserID     int64     `json:"user_id"`
	TaskID     *int64    `json:"task_id,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}
