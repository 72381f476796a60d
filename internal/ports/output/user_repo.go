package output

import (
	"context"

	"sportmeet/internal/domain/entities"
)

type UserRepository interface {
	Create(ctx context.Context, user *entities.User) error
	FindByID(ctx context.Context, id string) (*entities.User, error)
	FindByEmail(ctx context.Context, email string) (*entities.User, error)
	Update(ctx context.Context, user *entities.User) error
	UpsertPushToken(ctx context.Context, token *entities.PushToken) error
	FindPushTokens(ctx context.Context, userID string) ([]entities.PushToken, error)
}
