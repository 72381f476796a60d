package application

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"sportmeet/internal/domain"
	"sportmeet/internal/domain/entities"
	"sportmeet/internal/ports/input"
	"sportmeet/internal/ports/output"
)

var _ input.AuthUseCase = (*AuthService)(nil)

const minPasswordLength = 8

type AuthService struct {
	userRepo output.UserRepository
	hasher   output.PasswordHasher
	tokens   output.TokenIssuer
	stats    *ProfileService
	log      zerolog.Logger
	now      func() time.Time
}

func NewAuthService(
	userRepo output.UserRepository,
	hasher output.PasswordHasher,
	tokens output.TokenIssuer,
	stats *ProfileService,
	log zerolog.Logger,
) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		hasher:   hasher,
		tokens:   tokens,
		stats:    stats,
		log:      log.With().Str("component", "auth").Logger(),
		now:      time.Now,
	}
}

func (s *AuthService) Register(ctx context.Context, in input.RegisterInput) (*input.AuthResult, error) {
	email := normalizeEmail(in.Email)
	name := strings.TrimSpace(in.Name)
	if email == "" || !strings.Contains(email, "@") || name == "" {
		return nil, fmt.Errorf("%w: email and name are required", domain.ErrInvalidRequest)
	}
	if len(in.Password) < minPasswordLength {
		return nil, fmt.Errorf("%w: password must have at least %d characters", domain.ErrInvalidRequest, minPasswordLength)
	}

	_, err := s.userRepo.FindByEmail(ctx, email)
	switch {
	case err == nil:
		return nil, domain.ErrEmailTaken
	case !errors.Is(err, domain.ErrUserNotFound):
		return nil, fmt.Errorf("lookup email: %w", err)
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	now := s.now()
	user := &entities.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: hash,
		Name:         name,
		Location:     strings.TrimSpace(in.Location),
		Language:     domain.LanguageCzech,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	s.log.Info().Str("user_id", user.ID).Msg("user registered")
	return s.issue(user)
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*input.AuthResult, error) {
	user, err := s.userRepo.FindByEmail(ctx, normalizeEmail(email))
	if isNotFound(err) {
		return nil, domain.ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("lookup email: %w", err)
	}
	if !s.hasher.Compare(user.PasswordHash, password) {
		return nil, domain.ErrInvalidCredentials
	}
	return s.issue(user)
}

func (s *AuthService) Authenticate(ctx context.Context, token string) (string, error) {
	userID, err := s.tokens.Parse(token)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrUnauthorized, err)
	}
	if _, err := s.userRepo.FindByID(ctx, userID); err != nil {
		if isNotFound(err) {
			return "", domain.ErrUnauthorized
		}
		return "", err
	}
	return userID, nil
}

func (s *AuthService) Me(ctx context.Context, userID string) (*input.Profile, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	stats, err := s.stats.GetStats(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &input.Profile{User: user, Stats: stats}, nil
}

func (s *AuthService) issue(user *entities.User) (*input.AuthResult, error) {
	token, expiresAt, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	return &input.AuthResult{AccessToken: token, ExpiresAt: expiresAt, User: user}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// isNotFound reports whether err is a NotFound domain error.
func isNotFound(err error) bool {
	var de *domain.Error
	return errors.As(err, &de) && de.Kind == domain.KindNotFound
}
