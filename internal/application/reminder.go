package application

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"sportmeet/internal/ports/output"
	"sportmeet/pkg/tz"
)

// ReminderService notifies confirmed players shortly before their event starts.
type ReminderService struct {
	eventRepo       output.EventRepository
	participantRepo output.ParticipantRepository
	notifier        output.Notifier
	metrics         output.RosterMetrics
	lead            time.Duration
	log             zerolog.Logger
}

func NewReminderService(
	eventRepo output.EventRepository,
	participantRepo output.ParticipantRepository,
	notifier output.Notifier,
	metrics output.RosterMetrics,
	lead time.Duration,
	log zerolog.Logger,
) *ReminderService {
	return &ReminderService{
		eventRepo:       eventRepo,
		participantRepo: participantRepo,
		notifier:        notifier,
		metrics:         orNoopMetrics(metrics),
		lead:            lead,
		log:             log.With().Str("component", "reminder").Logger(),
	}
}

// SendReminders handles every unreminded event starting in (now, now+lead]
// and returns how many events were marked reminded.
func (s *ReminderService) SendReminders(ctx context.Context, now time.Time) (int, error) {
	until := now.Add(s.lead)
	events, err := s.eventRepo.FindNeedingReminder(ctx, tz.Today(now), tz.Today(until))
	if err != nil {
		return 0, fmt.Errorf("find events to remind: %w", err)
	}

	sent := 0
	for i := range events {
		event := &events[i]
		starts := event.StartsAt()
		if !starts.After(now) || starts.After(until) {
			continue
		}
		players, err := s.participantRepo.FindByEventID(ctx, event.ID)
		if err != nil {
			s.log.Error().Err(err).Str("event_id", event.ID).Msg("load roster for reminder")
			continue
		}
		evCtx := event.Context()
		for _, p := range players {
			if !p.IsConfirmed() {
				continue
			}
			if err := s.notifier.NotifyReminder(ctx, p.UserID, evCtx); err != nil {
				s.metrics.NotificationFailed("reminder")
				s.log.Warn().Err(err).Str("event_id", event.ID).Str("user_id", p.UserID).Msg("reminder notification failed")
			}
		}
		if err := s.eventRepo.MarkReminded(ctx, event.ID, now); err != nil {
			s.log.Error().Err(err).Str("event_id", event.ID).Msg("mark event reminded")
			continue
		}
		sent++
	}
	return sent, nil
}
