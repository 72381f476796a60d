package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"sportmeet/internal/domain"
	"sportmeet/internal/domain/entities"
	"sportmeet/internal/domain/roster"
	"sportmeet/internal/ports/input"
	"sportmeet/internal/ports/output"
)

var _ input.ParticipantUseCase = (*ParticipantService)(nil)

// ParticipantService is the event roster manager: join, leave, promotion and
// waiting-list renumbering, each committed under the event's roster lock.
type ParticipantService struct {
	participantRepo output.ParticipantRepository
	eventRepo       output.EventRepository
	notifier        output.Notifier
	metrics         output.RosterMetrics
	log             zerolog.Logger
	now             func() time.Time
}

func NewParticipantService(
	participantRepo output.ParticipantRepository,
	eventRepo output.EventRepository,
	notifier output.Notifier,
	metrics output.RosterMetrics,
	log zerolog.Logger,
) *ParticipantService {
	return &ParticipantService{
		participantRepo: participantRepo,
		eventRepo:       eventRepo,
		notifier:        notifier,
		metrics:         orNoopMetrics(metrics),
		log:             log.With().Str("component", "roster").Logger(),
		now:             time.Now,
	}
}

func (s *ParticipantService) Join(ctx context.Context, eventID, userID string) (domain.Status, error) {
	var joined entities.Participant
	err := s.participantRepo.WithinEventLock(ctx, eventID, func(ctx context.Context, tx output.RosterTx) error {
		r := roster.New(tx.Event(), tx.Participants())
		p, ch, err := r.Join(uuid.NewString(), userID, s.now())
		if err != nil {
			return err
		}
		if err := applyChanges(ctx, tx, ch); err != nil {
			return err
		}
		joined = p
		return nil
	})
	if err != nil {
		return "", err
	}

	s.metrics.Joined(joined.Status)
	s.log.Info().
		Str("event_id", eventID).
		Str("user_id", userID).
		Str("status", string(joined.Status)).
		Int("waiting_position", joined.WaitingPosition).
		Msg("participant joined")
	return joined.Status, nil
}

func (s *ParticipantService) Leave(ctx context.Context, eventID, userID string) error {
	var (
		left     entities.Participant
		promoted []entities.Participant
		evCtx    entities.EventContext
	)
	err := s.participantRepo.WithinEventLock(ctx, eventID, func(ctx context.Context, tx output.RosterTx) error {
		r := roster.New(tx.Event(), tx.Participants())
		p, ch, err := r.Leave(userID)
		if err != nil {
			return err
		}
		if err := applyChanges(ctx, tx, ch); err != nil {
			return err
		}
		left, promoted, evCtx = p, ch.Promoted, tx.Event().Context()
		return nil
	})
	if err != nil {
		return err
	}

	s.metrics.Left(left.Status)
	s.log.Info().
		Str("event_id", eventID).
		Str("user_id", userID).
		Str("status", string(left.Status)).
		Int("promoted", len(promoted)).
		Msg("participant left")
	notifyPromoted(ctx, s.log, s.notifier, s.metrics, evCtx, promoted)
	return nil
}

func (s *ParticipantService) GetStatus(ctx context.Context, eventID, userID string) (domain.Status, error) {
	p, err := s.participantRepo.FindByEventIDAndUserID(ctx, eventID, userID)
	if errors.Is(err, domain.ErrParticipantNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	if !p.Status.Active() {
		return "", nil
	}
	return p.Status, nil
}

func (s *ParticipantService) ListRoster(ctx context.Context, eventID string) ([]entities.Participant, error) {
	if _, err := s.eventRepo.FindByID(ctx, eventID); err != nil {
		return nil, err
	}
	players, err := s.participantRepo.FindByEventID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	roster.SortRoster(players)
	return players, nil
}

// applyChanges writes a roster plan: the delete first, then the insert, then
// promotions and renumbered positions in order.
func applyChanges(ctx context.Context, tx output.RosterTx, ch roster.Changes) error {
	if ch.Delete != nil {
		if err := tx.Delete(ctx, ch.Delete.ID); err != nil {
			return fmt.Errorf("delete participant: %w", err)
		}
	}
	if ch.Insert != nil {
		if err := tx.Insert(ctx, ch.Insert); err != nil {
			return fmt.Errorf("insert participant: %w", err)
		}
	}
	for _, p := range ch.Updates {
		if err := tx.Update(ctx, p); err != nil {
			return fmt.Errorf("update participant: %w", err)
		}
	}
	return nil
}

// notifyPromoted tells each promoted user about the free slot. Failures are
// logged and dropped; the promotion is already committed.
func notifyPromoted(ctx context.Context, log zerolog.Logger, notifier output.Notifier, metrics output.RosterMetrics, ev entities.EventContext, promoted []entities.Participant) {
	if len(promoted) == 0 {
		return
	}
	metrics.Promoted(len(promoted))
	for _, p := range promoted {
		log.Info().Str("event_id", ev.EventID).Str("user_id", p.UserID).Msg("promoted from waiting list")
		if notifier == nil {
			continue
		}
		if err := notifier.NotifyPromoted(ctx, p.UserID, ev); err != nil {
			metrics.NotificationFailed("promoted")
			log.Warn().Err(err).Str("event_id", ev.EventID).Str("user_id", p.UserID).Msg("promotion notification failed")
		}
	}
}

type noopMetrics struct{}

func (noopMetrics) Joined(domain.Status)      {}
func (noopMetrics) Left(domain.Status)        {}
func (noopMetrics) Promoted(int)              {}
func (noopMetrics) NotificationFailed(string) {}

func orNoopMetrics(m output.RosterMetrics) output.RosterMetrics {
	if m == nil {
		return noopMetrics{}
	}
	return m
}
