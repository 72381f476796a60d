package database

import (
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgtype"

	"sportmeet/internal/domain"
	"sportmeet/internal/domain/entities"
)

// scanner is implemented by pgx.Row and pgx.CollectableRow.
type scanner interface {
	Scan(dest ...any) error
}

// pgtypeTimestamptzToTime returns t.Time when Valid, else zero time.
func pgtypeTimestamptzToTime(t pgtype.Timestamptz) time.Time {
	if !t.Valid {
		return time.Time{}
	}
	return t.Time
}

func timeToTimestamptz(t time.Time) pgtype.Timestamptz {
	return pgtype.Timestamptz{Time: t, Valid: !t.IsZero()}
}

// waitingPosition stores 0 as NULL.
func waitingPosition(pos int) pgtype.Int4 {
	return pgtype.Int4{Int32: int32(pos), Valid: pos > 0}
}

const eventColumns = `
	e.id, e.organizer_id, u.name, e.sport_id, e.venue_id, e.date, e.time_start, e.time_end,
	e.place_name, e.reservation_type, e.player_count_total, e.skill_min, e.skill_max,
	e.description, e.reminded_at, e.created_at, e.updated_at
FROM events e
JOIN users u ON u.id = e.organizer_id`

func scanEvent(row scanner) (entities.Event, error) {
	var (
		e        entities.Event
		date     pgtype.Date
		reminded pgtype.Timestamptz
	)
	err := row.Scan(
		&e.ID, &e.OrganizerID, &e.OrganizerName, &e.SportID, &e.VenueID, &date, &e.TimeStart, &e.TimeEnd,
		&e.PlaceName, &e.ReservationType, &e.PlayerCountTotal, &e.SkillMin, &e.SkillMax,
		&e.Description, &reminded, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		return entities.Event{}, err
	}
	e.Date = date.Time
	e.RemindedAt = pgtypeTimestamptzToTime(reminded)
	return e, nil
}

const participantColumns = `
	p.id, p.event_id, p.user_id, u.name, p.status, p.waiting_position, p.joined_at
FROM event_players p
JOIN users u ON u.id = p.user_id`

func scanParticipant(row scanner) (entities.Participant, error) {
	var (
		p      entities.Participant
		status string
		pos    pgtype.Int4
	)
	if err := row.Scan(&p.ID, &p.EventID, &p.UserID, &p.UserName, &status, &pos, &p.JoinedAt); err != nil {
		return entities.Participant{}, err
	}
	st, err := domain.ParseStatus(status)
	if err != nil {
		return entities.Participant{}, fmt.Errorf("participant %s: %w", p.ID, err)
	}
	p.Status = st
	if pos.Valid {
		p.WaitingPosition = int(pos.Int32)
	}
	return p, nil
}

const userColumns = `
	id, email, password_hash, name, photo_url, location, language, discord_id, no_shows, created_at, updated_at
FROM users`

func scanUser(row scanner) (entities.User, error) {
	var u entities.User
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Name, &u.PhotoURL, &u.Location,
		&u.Language, &u.DiscordID, &u.NoShows, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}
