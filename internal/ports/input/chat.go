package input

import (
	"context"
	"time"

	"sportmeet/internal/domain/entities"
)

type ChatUseCase interface {
	PostMessage(ctx context.Context, eventID, userID, text string) (*entities.ChatMessage, error)
	ListMessages(ctx context.Context, eventID string, since time.Time) ([]entities.ChatMessage, error)
}
