package application

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"

	"sportmeet/internal/domain"
	"sportmeet/internal/domain/entities"
	"sportmeet/internal/ports/input"
	"sportmeet/internal/ports/output"
)

var _ input.ProfileUseCase = (*ProfileService)(nil)

var pushPlatforms = map[string]bool{"ios": true, "android": true, "web": true}

type ProfileService struct {
	userRepo        output.UserRepository
	participantRepo output.ParticipantRepository
	now             func() time.Time
}

func NewProfileService(userRepo output.UserRepository, participantRepo output.ParticipantRepository) *ProfileService {
	return &ProfileService{
		userRepo:        userRepo,
		participantRepo: participantRepo,
		now:             time.Now,
	}
}

// GetStats counts the user's confirmed games and their scheduled hours.
func (s *ProfileService) GetStats(ctx context.Context, userID string) (entities.UserStats, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return entities.UserStats{}, err
	}
	events, err := s.participantRepo.FindConfirmedEvents(ctx, userID)
	if err != nil {
		return entities.UserStats{}, fmt.Errorf("load confirmed events: %w", err)
	}
	var played time.Duration
	for i := range events {
		played += events[i].Duration()
	}
	return entities.UserStats{
		TotalGames: len(events),
		TotalHours: int(math.Round(played.Hours())),
		NoShows:    user.NoShows,
	}, nil
}

func (s *ProfileService) UpdateProfile(ctx context.Context, userID string, patch input.ProfilePatch) (*entities.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: name must not be empty", domain.ErrInvalidRequest)
		}
		user.Name = name
	}
	if patch.PhotoURL != nil {
		user.PhotoURL = strings.TrimSpace(*patch.PhotoURL)
	}
	if patch.Location != nil {
		user.Location = strings.TrimSpace(*patch.Location)
	}
	if patch.Language != nil {
		if !domain.IsLanguage(*patch.Language) {
			return nil, fmt.Errorf("%w: unsupported language %q", domain.ErrInvalidRequest, *patch.Language)
		}
		user.Language = *patch.Language
	}
	if patch.DiscordID != nil {
		user.DiscordID = strings.TrimSpace(*patch.DiscordID)
	}
	user.UpdatedAt = s.now()
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}
	return user, nil
}

func (s *ProfileService) SavePushToken(ctx context.Context, userID, deviceToken, platform string) error {
	deviceToken = strings.TrimSpace(deviceToken)
	if deviceToken == "" {
		return fmt.Errorf("%w: device token is required", domain.ErrInvalidRequest)
	}
	if !pushPlatforms[platform] {
		return fmt.Errorf("%w: unsupported platform %q", domain.ErrInvalidRequest, platform)
	}
	now := s.now()
	return s.userRepo.UpsertPushToken(ctx, &entities.PushToken{
		ID:          uuid.NewString(),
		UserID:      userID,
		DeviceToken: deviceToken,
		Platform:    platform,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
}
