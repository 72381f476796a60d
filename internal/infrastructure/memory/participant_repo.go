package memory

import (
	"context"

	"sportmeet/internal/domain"
	"sportmeet/internal/domain/entities"
	"sportmeet/internal/ports/output"
)

var _ output.ParticipantRepository = (*ParticipantRepository)(nil)

type ParticipantRepository struct {
	s *Store
}

func NewParticipantRepository(s *Store) *ParticipantRepository {
	return &ParticipantRepository{s: s}
}

// WithinEventLock stages fn's writes and commits them only when fn succeeds.
func (r *ParticipantRepository) WithinEventLock(ctx context.Context, eventID string, fn func(ctx context.Context, tx output.RosterTx) error) error {
	lock := r.s.eventLock(eventID)
	lock.Lock()
	defer lock.Unlock()

	r.s.mu.RLock()
	event, ok := r.s.events[eventID]
	var rows []entities.Participant
	if ok {
		event = r.s.withOrganizer(event)
		rows = r.s.rowsOf(eventID)
	}
	r.s.mu.RUnlock()
	if !ok {
		return domain.ErrEventNotFound
	}

	tx := &rosterTx{event: event, rows: map[string]entities.Participant{}}
	for _, p := range rows {
		tx.rows[p.ID] = p
		tx.order = append(tx.order, p.ID)
	}
	if err := fn(ctx, tx); err != nil {
		return err
	}

	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.events[eventID]; !ok {
		return domain.ErrEventNotFound
	}
	if tx.eventDirty {
		r.s.events[eventID] = tx.event
	}
	for _, id := range tx.deleted {
		delete(r.s.participants, id)
	}
	for _, id := range tx.order {
		if p, ok := tx.rows[id]; ok && tx.dirty[id] {
			r.s.participants[id] = p
		}
	}
	return nil
}

func (r *ParticipantRepository) FindByEventID(_ context.Context, eventID string) ([]entities.Participant, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return active(r.s.rowsOf(eventID)), nil
}

func (r *ParticipantRepository) FindByEventIDs(_ context.Context, eventIDs []string) (map[string][]entities.Participant, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make(map[string][]entities.Participant, len(eventIDs))
	for _, id := range eventIDs {
		out[id] = active(r.s.rowsOf(id))
	}
	return out, nil
}

func (r *ParticipantRepository) FindByEventIDAndUserID(_ context.Context, eventID, userID string) (*entities.Participant, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, p := range r.s.participants {
		if p.EventID == eventID && p.UserID == userID {
			p = r.s.withNames(p)
			return &p, nil
		}
	}
	return nil, domain.ErrParticipantNotFound
}

func (r *ParticipantRepository) FindConfirmedEvents(_ context.Context, userID string) ([]entities.Event, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []entities.Event
	for _, p := range r.s.participants {
		if p.UserID != userID || !p.IsConfirmed() {
			continue
		}
		if e, ok := r.s.events[p.EventID]; ok {
			out = append(out, e)
		}
	}
	sortEvents(out)
	return out, nil
}

func active(rows []entities.Participant) []entities.Participant {
	out := rows[:0]
	for _, p := range rows {
		if p.Status.Active() {
			out = append(out, p)
		}
	}
	return out
}

type rosterTx struct {
	event      entities.Event
	eventDirty bool
	rows       map[string]entities.Participant
	order      []string
	dirty      map[string]bool
	deleted    []string
}

func (t *rosterTx) Event() *entities.Event {
	e := t.event
	return &e
}

func (t *rosterTx) Participants() []entities.Participant {
	out := make([]entities.Participant, 0, len(t.order))
	for _, id := range t.order {
		if p, ok := t.rows[id]; ok {
			out = append(out, p)
		}
	}
	return out
}

func (t *rosterTx) mark(id string) {
	if t.dirty == nil {
		t.dirty = map[string]bool{}
	}
	t.dirty[id] = true
}

func (t *rosterTx) Insert(_ context.Context, p *entities.Participant) error {
	for _, row := range t.rows {
		if row.UserID == p.UserID {
			return domain.ErrParticipantExists
		}
	}
	t.rows[p.ID] = *p
	t.order = append(t.order, p.ID)
	t.mark(p.ID)
	return nil
}

func (t *rosterTx) Update(_ context.Context, p entities.Participant) error {
	if _, ok := t.rows[p.ID]; !ok {
		return domain.ErrParticipantNotFound
	}
	t.rows[p.ID] = p
	t.mark(p.ID)
	return nil
}

func (t *rosterTx) Delete(_ context.Context, id string) error {
	if _, ok := t.rows[id]; !ok {
		return domain.ErrParticipantNotFound
	}
	delete(t.rows, id)
	t.deleted = append(t.deleted, id)
	return nil
}

func (t *rosterTx) UpdateEvent(_ context.Context, e *entities.Event) error {
	t.event = *e
	t.eventDirty = true
	return nil
}
