package database

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"sportmeet/internal/domain"
	"sportmeet/internal/domain/entities"
	"sportmeet/internal/ports/output"
)

var _ output.EventRepository = (*EventRepository)(nil)

// EventRepository implements output.EventRepository on pgx.
type EventRepository struct {
	pool *pgxpool.Pool
}

func NewEventRepository(pool *pgxpool.Pool) *EventRepository {
	return &EventRepository{pool: pool}
}

func (r *EventRepository) Create(ctx context.Context, event *entities.Event, organizer *entities.Participant) error {
	return withTx(ctx, r.pool, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `
			INSERT INTO events (id, organizer_id, sport_id, venue_id, date, time_start, time_end, place_name,
				reservation_type, player_count_total, skill_min, skill_max, description, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`,
			event.ID, event.OrganizerID, event.SportID, event.VenueID, event.Date, event.TimeStart, event.TimeEnd,
			event.PlaceName, event.ReservationType, event.PlayerCountTotal, event.SkillMin, event.SkillMax,
			event.Description, event.CreatedAt, event.UpdatedAt,
		)
		if err != nil {
			if pgCode(err) == foreignKeyViolation {
				return domain.ErrUserNotFound
			}
			return queryError("insert event", err, nil)
		}
		return insertParticipant(ctx, tx, organizer)
	})
}

func (r *EventRepository) FindByID(ctx context.Context, id string) (*entities.Event, error) {
	e, err := scanEvent(r.pool.QueryRow(ctx, `SELECT `+eventColumns+` WHERE e.id = $1`, id))
	if err != nil {
		return nil, queryError("get event", err, domain.ErrEventNotFound)
	}
	return &e, nil
}

func (r *EventRepository) FindFrom(ctx context.Context, from time.Time) ([]entities.Event, error) {
	return r.list(ctx, "list events", `SELECT `+eventColumns+`
		WHERE e.date >= $1
		ORDER BY e.date, e.time_start, e.id`, from)
}

func (r *EventRepository) FindByMember(ctx context.Context, userID string) ([]entities.Event, error) {
	return r.list(ctx, "list member events", `SELECT `+eventColumns+`
		WHERE e.organizer_id = $1 OR EXISTS (
			SELECT 1 FROM event_players p
			WHERE p.event_id = e.id AND p.user_id = $1 AND p.status = 'confirmed'
		)
		ORDER BY e.date, e.time_start, e.id`, userID)
}

func (r *EventRepository) FindNeedingReminder(ctx context.Context, from, to time.Time) ([]entities.Event, error) {
	return r.list(ctx, "list events to remind", `SELECT `+eventColumns+`
		WHERE e.reminded_at IS NULL AND e.date BETWEEN $1 AND $2
		ORDER BY e.date, e.time_start, e.id`, from, to)
}

func (r *EventRepository) list(ctx context.Context, op, sql string, args ...any) ([]entities.Event, error) {
	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, queryError(op, err, nil)
	}
	events, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (entities.Event, error) {
		return scanEvent(row)
	})
	if err != nil {
		return nil, queryError(op, err, nil)
	}
	return events, nil
}

func (r *EventRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM events WHERE id = $1`, id)
	if err != nil {
		return queryError("delete event", err, nil)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrEventNotFound
	}
	return nil
}

func (r *EventRepository) MarkReminded(ctx context.Context, id string, at time.Time) error {
	tag, err := r.pool.Exec(ctx, `UPDATE events SET reminded_at = $2 WHERE id = $1`, id, at)
	if err != nil {
		return queryError("mark reminded", err, nil)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrEventNotFound
	}
	return nil
}

func (r *EventRepository) CreateNoShow(ctx context.Context, n *entities.NoShow) error {
	return withTx(ctx, r.pool, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `
			INSERT INTO event_no_shows (id, event_id, user_id, reported_by_id, created_at)
			VALUES ($1, $2, $3, $4, $5)`,
			n.ID, n.EventID, n.UserID, n.ReportedByID, n.CreatedAt,
		)
		if err != nil {
			switch pgCode(err) {
			case uniqueViolation:
				return domain.ErrNoShowExists
			case foreignKeyViolation:
				return domain.ErrUserNotFound
			}
			return queryError("insert no-show", err, nil)
		}
		_, err = tx.Exec(ctx, `UPDATE users SET no_shows = no_shows + 1, updated_at = NOW() WHERE id = $1`, n.UserID)
		if err != nil {
			return queryError("count no-show", err, nil)
		}
		return nil
	})
}
