package input

import (
	"context"

	"sportmeet/internal/domain/entities"
)

// EventInput carries the fields of a new event.
type EventInput struct {
	SportID          string
	VenueID          string
	Date             string // YYYY-MM-DD
	TimeStart        string // HH:MM
	TimeEnd          string // HH:MM
	PlaceName        string
	ReservationType  string
	PlayerCountTotal int
	SkillMin         int
	SkillMax         int
	Description      string
}

// EventPatch carries optional event changes; nil fields are left untouched.
type EventPatch struct {
	SportID          *string
	VenueID          *string
	Date             *string
	TimeStart        *string
	TimeEnd          *string
	PlaceName        *string
	ReservationType  *string
	PlayerCountTotal *int
	SkillMin         *int
	SkillMax         *int
	Description      *string
}

type EventDetails struct {
	entities.EventSummary
	Players []entities.Participant
}

type EventUseCase interface {
	CreateEvent(ctx context.Context, organizerID string, in EventInput) (*entities.EventSummary, error)
	GetEvent(ctx context.Context, id, viewerID string) (*EventDetails, error)
	ListUpcoming(ctx context.Context, viewerID string) ([]entities.EventSummary, error)
	ListMine(ctx context.Context, userID string) ([]entities.EventSummary, error)
	UpdateEvent(ctx context.Context, id, userID string, patch EventPatch) (*entities.EventSummary, error)
	DeleteEvent(ctx context.Context, id, userID string) error
	ReportNoShow(ctx context.Context, eventID, reporterID, userID string) error
}
