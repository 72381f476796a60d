package output

import (
	"context"
	"time"

	"sportmeet/internal/domain/entities"
)

type ChatRepository interface {
	Create(ctx context.Context, message *entities.ChatMessage) error
	// FindByEventID lists messages sent after since (zero = all), oldest first.
	FindByEventID(ctx context.Context, eventID string, since time.Time) ([]entities.ChatMessage, error)
}
