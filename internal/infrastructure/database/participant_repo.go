package database

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"sportmeet/internal/domain"
	"sportmeet/internal/domain/entities"
	"sportmeet/internal/ports/output"
)

var _ output.ParticipantRepository = (*ParticipantRepository)(nil)

// ParticipantRepository implements output.ParticipantRepository on pgx.
type ParticipantRepository struct {
	pool *pgxpool.Pool
}

func NewParticipantRepository(pool *pgxpool.Pool) *ParticipantRepository {
	return &ParticipantRepository{pool: pool}
}

// WithinEventLock locks the event row FOR UPDATE, so concurrent roster
// writes of the same event run one after another.
func (r *ParticipantRepository) WithinEventLock(ctx context.Context, eventID string, fn func(ctx context.Context, tx output.RosterTx) error) error {
	return withTx(ctx, r.pool, func(tx pgx.Tx) error {
		event, err := scanEvent(tx.QueryRow(ctx, `SELECT `+eventColumns+` WHERE e.id = $1 FOR UPDATE OF e`, eventID))
		if err != nil {
			return queryError("lock event", err, domain.ErrEventNotFound)
		}
		rows, err := tx.Query(ctx, `SELECT `+participantColumns+` WHERE p.event_id = $1 ORDER BY p.joined_at, p.id`, eventID)
		if err != nil {
			return queryError("load roster", err, nil)
		}
		participants, err := pgx.CollectRows(rows, collectParticipant)
		if err != nil {
			return queryError("load roster", err, nil)
		}
		return fn(ctx, &rosterTx{tx: tx, event: event, participants: participants})
	})
}

func (r *ParticipantRepository) FindByEventID(ctx context.Context, eventID string) ([]entities.Participant, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+participantColumns+`
		WHERE p.event_id = $1 AND p.status IN ('confirmed', 'waiting')
		ORDER BY p.joined_at, p.id`, eventID)
	if err != nil {
		return nil, queryError("list participants", err, nil)
	}
	participants, err := pgx.CollectRows(rows, collectParticipant)
	if err != nil {
		return nil, queryError("list participants", err, nil)
	}
	return participants, nil
}

func (r *ParticipantRepository) FindByEventIDs(ctx context.Context, eventIDs []string) (map[string][]entities.Participant, error) {
	out := make(map[string][]entities.Participant, len(eventIDs))
	if len(eventIDs) == 0 {
		return out, nil
	}
	rows, err := r.pool.Query(ctx, `SELECT `+participantColumns+`
		WHERE p.event_id = ANY($1) AND p.status IN ('confirmed', 'waiting')
		ORDER BY p.joined_at, p.id`, eventIDs)
	if err != nil {
		return nil, queryError("list participants", err, nil)
	}
	participants, err := pgx.CollectRows(rows, collectParticipant)
	if err != nil {
		return nil, queryError("list participants", err, nil)
	}
	for _, p := range participants {
		out[p.EventID] = append(out[p.EventID], p)
	}
	return out, nil
}

func (r *ParticipantRepository) FindByEventIDAndUserID(ctx context.Context, eventID, userID string) (*entities.Participant, error) {
	p, err := scanParticipant(r.pool.QueryRow(ctx, `SELECT `+participantColumns+`
		WHERE p.event_id = $1 AND p.user_id = $2`, eventID, userID))
	if err != nil {
		return nil, queryError("get participant", err, domain.ErrParticipantNotFound)
	}
	return &p, nil
}

func (r *ParticipantRepository) FindConfirmedEvents(ctx context.Context, userID string) ([]entities.Event, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+eventColumns+`
		JOIN event_players p ON p.event_id = e.id
		WHERE p.user_id = $1 AND p.status = 'confirmed'
		ORDER BY e.date, e.time_start, e.id`, userID)
	if err != nil {
		return nil, queryError("list confirmed events", err, nil)
	}
	events, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (entities.Event, error) {
		return scanEvent(row)
	})
	if err != nil {
		return nil, queryError("list confirmed events", err, nil)
	}
	return events, nil
}

func collectParticipant(row pgx.CollectableRow) (entities.Participant, error) {
	return scanParticipant(row)
}

func insertParticipant(ctx context.Context, db DBTX, p *entities.Participant) error {
	_, err := db.Exec(ctx, `
		INSERT INTO event_players (id, event_id, user_id, status, waiting_position, joined_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		p.ID, p.EventID, p.UserID, string(p.Status), waitingPosition(p.WaitingPosition), p.JoinedAt,
	)
	switch pgCode(err) {
	case uniqueViolation:
		return domain.ErrParticipantExists
	case foreignKeyViolation:
		return domain.ErrUserNotFound
	}
	if err != nil {
		return queryError("insert participant", err, nil)
	}
	return nil
}

// rosterTx is the locked view handed to WithinEventLock callbacks.
type rosterTx struct {
	tx           pgx.Tx
	event        entities.Event
	participants []entities.Participant
}

func (t *rosterTx) Event() *entities.Event {
	e := t.event
	return &e
}

func (t *rosterTx) Participants() []entities.Participant {
	out := make([]entities.Participant, len(t.participants))
	copy(out, t.participants)
	return out
}

func (t *rosterTx) Insert(ctx context.Context, p *entities.Participant) error {
	return insertParticipant(ctx, t.tx, p)
}

func (t *rosterTx) Update(ctx context.Context, p entities.Participant) error {
	tag, err := t.tx.Exec(ctx, `UPDATE event_players SET status = $2, waiting_position = $3 WHERE id = $1`,
		p.ID, string(p.Status), waitingPosition(p.WaitingPosition))
	if err != nil {
		return queryError("update participant", err, nil)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrParticipantNotFound
	}
	return nil
}

func (t *rosterTx) Delete(ctx context.Context, participantID string) error {
	tag, err := t.tx.Exec(ctx, `DELETE FROM event_players WHERE id = $1`, participantID)
	if err != nil {
		return queryError("delete participant", err, nil)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrParticipantNotFound
	}
	return nil
}

func (t *rosterTx) UpdateEvent(ctx context.Context, e *entities.Event) error {
	_, err := t.tx.Exec(ctx, `
		UPDATE events SET sport_id = $2, venue_id = $3, date = $4, time_start = $5, time_end = $6,
			place_name = $7, reservation_type = $8, player_count_total = $9, skill_min = $10,
			skill_max = $11, description = $12, updated_at = $13
		WHERE id = $1`,
		e.ID, e.SportID, e.VenueID, e.Date, e.TimeStart, e.TimeEnd, e.PlaceName, e.ReservationType,
		e.PlayerCountTotal, e.SkillMin, e.SkillMax, e.Description, e.UpdatedAt,
	)
	if err != nil {
		return queryError("update event", err, nil)
	}
	t.event = *e
	return nil
}
