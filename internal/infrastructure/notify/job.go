// Package notify delivers roster notifications to users, either in-process
// or through a RabbitMQ queue.
package notify

import (
	"sportmeet/internal/domain/entities"
)

// Kind names a notification type.
type Kind string

const (
	KindPromoted Kind = "promoted"
	KindReminder Kind = "reminder"
)

// Job is one notification for one user, as queued on the broker.
type Job struct {
	Kind   Kind                  `json:"kind"`
	UserID string                `json:"user_id"`
	Event  entities.EventContext `json:"event"`
}
