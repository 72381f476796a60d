package memory

import (
	"context"
	"time"

	"sportmeet/internal/domain"
	"sportmeet/internal/domain/entities"
	"sportmeet/internal/ports/output"
)

var _ output.EventRepository = (*EventRepository)(nil)

type EventRepository struct {
	s *Store
}

func NewEventRepository(s *Store) *EventRepository {
	return &EventRepository{s: s}
}

func (r *EventRepository) Create(_ context.Context, event *entities.Event, organizer *entities.Participant) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.events[event.ID]; ok {
		return domain.ErrInvalidRequest
	}
	r.s.events[event.ID] = *event
	if organizer != nil {
		r.s.participants[organizer.ID] = *organizer
	}
	return nil
}

func (r *EventRepository) FindByID(_ context.Context, id string) (*entities.Event, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	e, ok := r.s.events[id]
	if !ok {
		return nil, domain.ErrEventNotFound
	}
	e = r.s.withOrganizer(e)
	return &e, nil
}

func (r *EventRepository) FindFrom(_ context.Context, from time.Time) ([]entities.Event, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []entities.Event
	for _, e := range r.s.events {
		if !e.Date.Before(from) {
			out = append(out, r.s.withOrganizer(e))
		}
	}
	sortEvents(out)
	return out, nil
}

func (r *EventRepository) FindByMember(_ context.Context, userID string) ([]entities.Event, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	member := map[string]bool{}
	for _, p := range r.s.participants {
		if p.UserID == userID && p.IsConfirmed() {
			member[p.EventID] = true
		}
	}
	var out []entities.Event
	for _, e := range r.s.events {
		if e.OrganizerID == userID || member[e.ID] {
			out = append(out, r.s.withOrganizer(e))
		}
	}
	sortEvents(out)
	return out, nil
}

func (r *EventRepository) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.events[id]; !ok {
		return domain.ErrEventNotFound
	}
	delete(r.s.events, id)
	for pid, p := range r.s.participants {
		if p.EventID == id {
			delete(r.s.participants, pid)
		}
	}
	for key, n := range r.s.noShows {
		if n.EventID == id {
			delete(r.s.noShows, key)
		}
	}
	kept := r.s.messages[:0]
	for _, m := range r.s.messages {
		if m.EventID != id {
			kept = append(kept, m)
		}
	}
	r.s.messages = kept
	return nil
}

func (r *EventRepository) FindNeedingReminder(_ context.Context, from, to time.Time) ([]entities.Event, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []entities.Event
	for _, e := range r.s.events {
		if e.RemindedAt.IsZero() && !e.Date.Before(from) && !e.Date.After(to) {
			out = append(out, e)
		}
	}
	sortEvents(out)
	return out, nil
}

func (r *EventRepository) MarkReminded(_ context.Context, id string, at time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	e, ok := r.s.events[id]
	if !ok {
		return domain.ErrEventNotFound
	}
	e.RemindedAt = at
	r.s.events[id] = e
	return nil
}

func (r *EventRepository) CreateNoShow(_ context.Context, n *entities.NoShow) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	key := n.EventID + "/" + n.UserID
	if _, ok := r.s.noShows[key]; ok {
		return domain.ErrNoShowExists
	}
	u, ok := r.s.users[n.UserID]
	if !ok {
		return domain.ErrUserNotFound
	}
	r.s.noShows[key] = *n
	u.NoShows++
	r.s.users[n.UserID] = u
	return nil
}
