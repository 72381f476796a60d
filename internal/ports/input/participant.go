package input

import (
	"context"

	"sportmeet/internal/domain"
	"sportmeet/internal/domain/entities"
)

type ParticipantUseCase interface {
	Join(ctx context.Context, eventID, userID string) (domain.Status, error)
	Leave(ctx context.Context, eventID, userID string) error
	// GetStatus returns "" when the user has no active participation.
	GetStatus(ctx context.Context, eventID, userID string) (domain.Status, error)
	ListRoster(ctx context.Context, eventID string) ([]entities.Participant, error)
}
