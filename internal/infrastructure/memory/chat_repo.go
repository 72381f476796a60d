package memory

import (
	"context"
	"sort"
	"time"

	"sportmeet/internal/domain"
	"sportmeet/internal/domain/entities"
	"sportmeet/internal/ports/output"
)

var _ output.ChatRepository = (*ChatRepository)(nil)

type ChatRepository struct {
	s *Store
}

func NewChatRepository(s *Store) *ChatRepository {
	return &ChatRepository{s: s}
}

func (r *ChatRepository) Create(_ context.Context, m *entities.ChatMessage) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.events[m.EventID]; !ok {
		return domain.ErrEventNotFound
	}
	r.s.messages = append(r.s.messages, *m)
	return nil
}

func (r *ChatRepository) FindByEventID(_ context.Context, eventID string, since time.Time) ([]entities.ChatMessage, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := []entities.ChatMessage{}
	for _, m := range r.s.messages {
		if m.EventID == eventID && m.SentAt.After(since) {
			if u, ok := r.s.users[m.UserID]; ok {
				m.UserName, m.UserPhotoURL = u.Name, u.PhotoURL
			}
			out = append(out, m)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].SentAt.Before(out[j].SentAt) })
	return out, nil
}
