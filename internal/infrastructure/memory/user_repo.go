package memory

import (
	"context"
	"sort"
	"strings"

	"sportmeet/internal/domain"
	"sportmeet/internal/domain/entities"
	"sportmeet/internal/ports/output"
)

var _ output.UserRepository = (*UserRepository)(nil)

type UserRepository struct {
	s *Store
}

func NewUserRepository(s *Store) *UserRepository {
	return &UserRepository{s: s}
}

func (r *UserRepository) Create(_ context.Context, user *entities.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if strings.EqualFold(u.Email, user.Email) {
			return domain.ErrEmailTaken
		}
	}
	r.s.users[user.ID] = *user
	return nil
}

func (r *UserRepository) FindByID(_ context.Context, id string) (*entities.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return &u, nil
}

func (r *UserRepository) FindByEmail(_ context.Context, email string) (*entities.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, u := range r.s.users {
		if strings.EqualFold(u.Email, email) {
			return &u, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *UserRepository) Update(_ context.Context, user *entities.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.users[user.ID]; !ok {
		return domain.ErrUserNotFound
	}
	r.s.users[user.ID] = *user
	return nil
}

func (r *UserRepository) UpsertPushToken(_ context.Context, token *entities.PushToken) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	key := token.UserID + "/" + token.DeviceToken
	if old, ok := r.s.pushTokens[key]; ok {
		old.Platform = token.Platform
		old.UpdatedAt = token.UpdatedAt
		r.s.pushTokens[key] = old
		return nil
	}
	r.s.pushTokens[key] = *token
	return nil
}

func (r *UserRepository) FindPushTokens(_ context.Context, userID string) ([]entities.PushToken, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []entities.PushToken
	for _, t := range r.s.pushTokens {
		if t.UserID == userID {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}
