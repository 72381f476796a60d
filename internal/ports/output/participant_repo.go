package output

import (
	"context"

	"sportmeet/internal/domain/entities"
)

// RosterTx is the view of one event's roster inside a locked transaction.
type RosterTx interface {
	Event() *entities.Event
	// Participants returns every row of the event, tombstones included.
	Participants() []entities.Participant
	Insert(ctx context.Context, participant *entities.Participant) error
	Update(ctx context.Context, participant entities.Participant) error
	Delete(ctx context.Context, participantID string) error
	UpdateEvent(ctx context.Context, event *entities.Event) error
}

type ParticipantRepository interface {
	// WithinEventLock runs fn in a transaction that serializes all roster
	// writes of eventID. fn's error rolls the transaction back.
	WithinEventLock(ctx context.Context, eventID string, fn func(ctx context.Context, tx RosterTx) error) error
	// FindByEventID returns the active participants of an event.
	FindByEventID(ctx context.Context, eventID string) ([]entities.Participant, error)
	FindByEventIDs(ctx context.Context, eventIDs []string) (map[string][]entities.Participant, error)
	FindByEventIDAndUserID(ctx context.Context, eventID, userID string) (*entities.Participant, error)
	// FindConfirmedEvents lists the events userID is confirmed in.
	FindConfirmedEvents(ctx context.Context, userID string) ([]entities.Event, error)
}
