package input

import (
	"context"

	"sportmeet/internal/domain/entities"
)

type ProfilePatch struct {
	Name      *string
	PhotoURL  *string
	Location  *string
	Language  *string
	DiscordID *string
}

type ProfileUseCase interface {
	GetStats(ctx context.Context, userID string) (entities.UserStats, error)
	UpdateProfile(ctx context.Context, userID string, patch ProfilePatch) (*entities.User, error)
	SavePushToken(ctx context.Context, userID, deviceToken, platform string) error
}
