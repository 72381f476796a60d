package output

import (
	"context"
	"time"

	"sportmeet/internal/domain/entities"
)

type EventRepository interface {
	// Create stores the event and the organizer's confirmed participation in one transaction.
	Create(ctx context.Context, event *entities.Event, organizer *entities.Participant) error
	FindByID(ctx context.Context, id string) (*entities.Event, error)
	// FindFrom lists events dated on or after from, by date and start time.
	FindFrom(ctx context.Context, from time.Time) ([]entities.Event, error)
	// FindByMember lists events the user organizes or is confirmed in.
	FindByMember(ctx context.Context, userID string) ([]entities.Event, error)
	Delete(ctx context.Context, id string) error
	// FindNeedingReminder lists unreminded events whose date falls in [from, to].
	FindNeedingReminder(ctx context.Context, from, to time.Time) ([]entities.Event, error)
	MarkReminded(ctx context.Context, id string, at time.Time) error
	// CreateNoShow stores the report and bumps the user's no-show counter.
	CreateNoShow(ctx context.Context, noShow *entities.NoShow) error
}
