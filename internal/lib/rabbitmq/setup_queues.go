package rabbitmq

import "github.com/magabrotheeeer/task-tracker/internal/models"

// QueueConfig описывает очередь и ключи, по которым она привязана к exchange.
type QueueConfig struct {
	QueueName   string
	RoutingKeys []string
}

// GetEventQueues возвращает очереди, которые объявляются вместе с exchange.
// Очередь аудита получает все доменные события.
func GetEventQueues() []QueueConfig {
	return []QueueConfig{
		{
			QueueName: "task-tracker.audit",
			RoutingKeys: []string{
				models.EventUserRegistered,
				models.EventTaskCreated,
				models.EventTaskUpdated,
				models.EventTaskDeleted,
			},
		},
	}
}
