package models

import "time"

// TaskStatus статус задачи.
type TaskStatus string

const (
	StatusPending    TaskStatus = "pending"
	StatusInProgress TaskStatus = "in_progress"
	StatusCompleted  TaskStatus = "completed"
)

// ParseTaskStatus возвращает статус и true, если строка является допустимым значением.
func ParseTaskStatus(s string) (TaskStatus, bool) {
	switch st := TaskStatus(s); st {
	case StatusPending, StatusInProgress, StatusCompleted:
		return st, true
	default:
		return "", false
	}
}

// Task задача, принадлежащая ровно одному пользователю.
type Task struct {
	ID          int64      `json:"id"`
	UserID      int64      `json:"-"`
	Title       string     `json:"title"`
	Description *string    `json:"description"`
	Status      TaskStatus `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// NewTask проверенные данные для создания задачи.
type NewTask struct {
	Title       string
	Description *string
	Status      TaskStatus
}

// TaskPatch проверенные данные частичного обновления.
// Поле изменяется, только если соответствующий флаг Set* выставлен.
type TaskPatch struct {
	SetTitle       bool
	Title          string
	SetDescription bool
	Description    *string
	SetStatus      bool
	Status         TaskStatus
}

// Empty сообщает, что в обновлении нет ни одного поля.
func (p TaskPatch) Empty() bool {
	return !p.SetTitle && !p.SetDescription && !p.SetStatus
}
