package entities

import (
	"time"

	"sportmeet/pkg/tz"
)

type Event struct {
	ID               string
	OrganizerID      string
	OrganizerName    string
	SportID          string
	VenueID          string // empty = no venue
	Date             time.Time
	TimeStart        string // HH:MM
	TimeEnd          string // HH:MM
	PlaceName        string
	ReservationType  string
	PlayerCountTotal int
	SkillMin         int
	SkillMax         int
	Description      string
	RemindedAt       time.Time // zero = no reminder sent
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// StartsAt returns the event start in Prague time. Malformed clocks yield midnight.
func (e *Event) StartsAt() time.Time {
	m, _ := tz.ParseClock(e.TimeStart)
	return tz.At(e.Date, m)
}

func (e *Event) EndsAt() time.Time {
	m, _ := tz.ParseClock(e.TimeEnd)
	return tz.At(e.Date, m)
}

// Duration is the scheduled play time; zero when the clocks are malformed or inverted.
func (e *Event) Duration() time.Duration {
	start, err1 := tz.ParseClock(e.TimeStart)
	end, err2 := tz.ParseClock(e.TimeEnd)
	if err1 != nil || err2 != nil || end <= start {
		return 0
	}
	return time.Duration(end-start) * time.Minute
}

// Context is the slice of event data notifications need.
func (e *Event) Context() EventContext {
	return EventContext{
		EventID:   e.ID,
		SportID:   e.SportID,
		PlaceName: e.PlaceName,
		StartsAt:  e.StartsAt(),
	}
}

// EventContext identifies an event towards the Notifier.
type EventContext struct {
	EventID   string    `json:"event_id"`
	SportID   string    `json:"sport_id"`
	PlaceName string    `json:"place_name"`
	StartsAt  time.Time `json:"starts_at"`
}

// EventSummary is an event as seen by one viewer.
type EventSummary struct {
	Event
	ConfirmedCount int
	WaitingCount   int
	IsMine         bool
	MyStatus       string // "", "confirmed" or "waiting"
}

// NoShow records that a confirmed player did not turn up.
type NoShow struct {
	ID           string
	EventID      string
	UserID       string
	ReportedByID string
	CreatedAt    time.Time
}
