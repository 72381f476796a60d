package input

import (
	"context"
	"time"

	"sportmeet/internal/domain/entities"
)

type RegisterInput struct {
	Email    string
	Password string
	Name     string
	Location string
}

type AuthResult struct {
	AccessToken string
	ExpiresAt   time.Time
	User        *entities.User
}

type Profile struct {
	User  *entities.User
	Stats entities.UserStats
}

type AuthUseCase interface {
	Register(ctx context.Context, in RegisterInput) (*AuthResult, error)
	Login(ctx context.Context, email, password string) (*AuthResult, error)
	// Authenticate verifies an access token and returns the user id.
	Authenticate(ctx context.Context, token string) (string, error)
	Me(ctx context.Context, userID string) (*Profile, error)
}
