package application

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"sportmeet/internal/domain"
	"sportmeet/internal/domain/entities"
	"sportmeet/internal/domain/roster"
	"sportmeet/internal/ports/input"
	"sportmeet/internal/ports/output"
	"sportmeet/pkg/tz"
)

var _ input.EventUseCase = (*EventService)(nil)

const (
	skillLowest  = 1
	skillHighest = 4
)

type EventService struct {
	eventRepo       output.EventRepository
	participantRepo output.ParticipantRepository
	notifier        output.Notifier
	metrics         output.RosterMetrics
	log             zerolog.Logger
	now             func() time.Time
}

func NewEventService(
	eventRepo output.EventRepository,
	participantRepo output.ParticipantRepository,
	notifier output.Notifier,
	metrics output.RosterMetrics,
	log zerolog.Logger,
) *EventService {
	return &EventService{
		eventRepo:       eventRepo,
		participantRepo: participantRepo,
		notifier:        notifier,
		metrics:         orNoopMetrics(metrics),
		log:             log.With().Str("component", "events").Logger(),
		now:             time.Now,
	}
}

// CreateEvent stores a new event together with the organizer's confirmed seat.
func (s *EventService) CreateEvent(ctx context.Context, organizerID string, in input.EventInput) (*entities.EventSummary, error) {
	now := s.now()
	event := &entities.Event{
		ID:               uuid.NewString(),
		OrganizerID:      organizerID,
		SportID:          in.SportID,
		VenueID:          strings.TrimSpace(in.VenueID),
		TimeStart:        in.TimeStart,
		TimeEnd:          in.TimeEnd,
		PlaceName:        strings.TrimSpace(in.PlaceName),
		ReservationType:  in.ReservationType,
		PlayerCountTotal: in.PlayerCountTotal,
		SkillMin:         in.SkillMin,
		SkillMax:         in.SkillMax,
		Description:      strings.TrimSpace(in.Description),
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if event.ReservationType == "" {
		event.ReservationType = domain.ReservationToBeArranged
	}
	date, err := tz.ParseDate(in.Date)
	if err != nil {
		return nil, fmt.Errorf("%w: date %q", domain.ErrInvalidRequest, in.Date)
	}
	event.Date = date
	if err := s.validate(event, true); err != nil {
		return nil, err
	}

	organizer := &entities.Participant{
		ID:       uuid.NewString(),
		EventID:  event.ID,
		UserID:   organizerID,
		Status:   domain.StatusConfirmed,
		JoinedAt: now,
	}
	if err := s.eventRepo.Create(ctx, event, organizer); err != nil {
		return nil, fmt.Errorf("create event: %w", err)
	}
	s.log.Info().Str("event_id", event.ID).Str("organizer_id", organizerID).Msg("event created")

	return &entities.EventSummary{
		Event:          *event,
		ConfirmedCount: 1,
		IsMine:         true,
		MyStatus:       string(domain.StatusConfirmed),
	}, nil
}

func (s *EventService) GetEvent(ctx context.Context, id, viewerID string) (*input.EventDetails, error) {
	event, err := s.eventRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	players, err := s.participantRepo.FindByEventID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load roster: %w", err)
	}
	roster.SortRoster(players)
	return &input.EventDetails{
		EventSummary: summarize(*event, players, viewerID),
		Players:      players,
	}, nil
}

func (s *EventService) ListUpcoming(ctx context.Context, viewerID string) ([]entities.EventSummary, error) {
	events, err := s.eventRepo.FindFrom(ctx, tz.Today(s.now()))
	if err != nil {
		return nil, err
	}
	return s.summarizeAll(ctx, events, viewerID)
}

func (s *EventService) ListMine(ctx context.Context, userID string) ([]entities.EventSummary, error) {
	events, err := s.eventRepo.FindByMember(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.summarizeAll(ctx, events, userID)
}

// UpdateEvent applies patch under the roster lock. A capacity change runs
// through the roster so that new slots are filled from the waiting list.
func (s *EventService) UpdateEvent(ctx context.Context, id, userID string, patch input.EventPatch) (*entities.EventSummary, error) {
	var (
		updated  entities.Event
		players  []entities.Participant
		promoted []entities.Participant
	)
	err := s.participantRepo.WithinEventLock(ctx, id, func(ctx context.Context, tx output.RosterTx) error {
		current := tx.Event()
		if current.OrganizerID != userID {
			return domain.ErrNotOrganizer
		}
		next := *current
		if err := applyPatch(&next, patch); err != nil {
			return err
		}
		if err := s.validate(&next, patch.Date != nil); err != nil {
			return err
		}

		r := roster.New(current, tx.Participants())
		var ch roster.Changes
		if next.PlayerCountTotal != current.PlayerCountTotal {
			var err error
			if ch, err = r.Resize(next.PlayerCountTotal); err != nil {
				return err
			}
		}
		next.UpdatedAt = s.now()
		if err := tx.UpdateEvent(ctx, &next); err != nil {
			return fmt.Errorf("update event: %w", err)
		}
		if err := applyChanges(ctx, tx, ch); err != nil {
			return err
		}
		updated, players, promoted = next, r.Ordered(), ch.Promoted
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("event_id", id).Int("capacity", updated.PlayerCountTotal).Msg("event updated")
	notifyPromoted(ctx, s.log, s.notifier, s.metrics, updated.Context(), promoted)
	summary := summarize(updated, players, userID)
	return &summary, nil
}

func (s *EventService) DeleteEvent(ctx context.Context, id, userID string) error {
	event, err := s.eventRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if event.OrganizerID != userID {
		return domain.ErrNotOrganizer
	}
	if err := s.eventRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete event: %w", err)
	}
	s.log.Info().Str("event_id", id).Msg("event deleted")
	return nil
}

// ReportNoShow records that a confirmed player missed a finished event.
func (s *EventService) ReportNoShow(ctx context.Context, eventID, reporterID, userID string) error {
	event, err := s.eventRepo.FindByID(ctx, eventID)
	if err != nil {
		return err
	}
	if event.OrganizerID != reporterID {
		return domain.ErrNotOrganizer
	}
	if userID == reporterID {
		return fmt.Errorf("%w: organizer cannot report themselves", domain.ErrInvalidRequest)
	}
	if s.now().Before(event.EndsAt()) {
		return domain.ErrEventNotEnded
	}
	p, err := s.participantRepo.FindByEventIDAndUserID(ctx, eventID, userID)
	if err != nil {
		return err
	}
	if !p.IsConfirmed() {
		return domain.ErrParticipantNotFound
	}
	err = s.eventRepo.CreateNoShow(ctx, &entities.NoShow{
		ID:           uuid.NewString(),
		EventID:      eventID,
		UserID:       userID,
		ReportedByID: reporterID,
		CreatedAt:    s.now(),
	})
	if err != nil {
		return err
	}
	s.log.Info().Str("event_id", eventID).Str("user_id", userID).Msg("no-show reported")
	return nil
}

// validate checks e and rewrites its clocks as zero-padded "HH:MM" so that
// they order correctly as strings. The past-date check runs only when
// checkDate is set, so finished events stay editable.
func (s *EventService) validate(e *entities.Event, checkDate bool) error {
	if !domain.IsSport(e.SportID) {
		return domain.ErrUnknownSport
	}
	if e.ReservationType != domain.ReservationReserved && e.ReservationType != domain.ReservationToBeArranged {
		return fmt.Errorf("%w: reservation type %q", domain.ErrInvalidRequest, e.ReservationType)
	}
	if e.PlaceName == "" {
		return fmt.Errorf("%w: place name is required", domain.ErrInvalidRequest)
	}
	if checkDate && e.Date.Before(tz.Today(s.now())) {
		return domain.ErrDateInPast
	}
	start, err := tz.ParseClock(e.TimeStart)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidRequest, err)
	}
	end, err := tz.ParseClock(e.TimeEnd)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidRequest, err)
	}
	if start >= end {
		return domain.ErrInvalidTimeRange
	}
	e.TimeStart, e.TimeEnd = tz.FormatClock(start), tz.FormatClock(end)
	if e.SkillMin < skillLowest || e.SkillMax > skillHighest || e.SkillMin > e.SkillMax {
		return domain.ErrInvalidSkillRange
	}
	if e.PlayerCountTotal < 1 {
		return domain.ErrInvalidCapacity
	}
	return nil
}

func applyPatch(e *entities.Event, p input.EventPatch) error {
	if p.SportID != nil {
		e.SportID = *p.SportID
	}
	if p.VenueID != nil {
		e.VenueID = strings.TrimSpace(*p.VenueID)
	}
	if p.Date != nil {
		date, err := tz.ParseDate(*p.Date)
		if err != nil {
			return fmt.Errorf("%w: date %q", domain.ErrInvalidRequest, *p.Date)
		}
		e.Date = date
	}
	if p.TimeStart != nil {
		e.TimeStart = *p.TimeStart
	}
	if p.TimeEnd != nil {
		e.TimeEnd = *p.TimeEnd
	}
	if p.PlaceName != nil {
		e.PlaceName = strings.TrimSpace(*p.PlaceName)
	}
	if p.ReservationType != nil {
		e.ReservationType = *p.ReservationType
	}
	if p.PlayerCountTotal != nil {
		e.PlayerCountTotal = *p.PlayerCountTotal
	}
	if p.SkillMin != nil {
		e.SkillMin = *p.SkillMin
	}
	if p.SkillMax != nil {
		e.SkillMax = *p.SkillMax
	}
	if p.Description != nil {
		e.Description = strings.TrimSpace(*p.Description)
	}
	return nil
}

func (s *EventService) summarizeAll(ctx context.Context, events []entities.Event, viewerID string) ([]entities.EventSummary, error) {
	ids := make([]string, len(events))
	for i := range events {
		ids[i] = events[i].ID
	}
	byEvent, err := s.participantRepo.FindByEventIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load rosters: %w", err)
	}
	out := make([]entities.EventSummary, 0, len(events))
	for _, e := range events {
		out = append(out, summarize(e, byEvent[e.ID], viewerID))
	}
	return out, nil
}

func summarize(e entities.Event, players []entities.Participant, viewerID string) entities.EventSummary {
	sum := entities.EventSummary{Event: e, IsMine: viewerID != "" && e.OrganizerID == viewerID}
	for _, p := range players {
		switch p.Status {
		case domain.StatusConfirmed:
			sum.ConfirmedCount++
		case domain.StatusWaiting:
			sum.WaitingCount++
		default:
			continue
		}
		if viewerID != "" && p.UserID == viewerID {
			sum.MyStatus = string(p.Status)
		}
	}
	return sum
}
