package notify

import (
	"context"

	"github.com/rs/zerolog"

	"sportmeet/internal/domain/entities"
	"sportmeet/internal/ports/output"
)

// PushLogSender records the push notifications a device would receive.
// There is no push gateway behind it.
type PushLogSender struct {
	users output.UserRepository
	log   zerolog.Logger
}

func NewPushLogSender(users output.UserRepository, log zerolog.Logger) *PushLogSender {
	return &PushLogSender{users: users, log: log.With().Str("sender", "push").Logger()}
}

func (s *PushLogSender) Name() string { return "push" }

func (s *PushLogSender) Send(ctx context.Context, user *entities.User, msg Message) error {
	tokens, err := s.users.FindPushTokens(ctx, user.ID)
	if err != nil {
		return err
	}
	for _, t := range tokens {
		s.log.Info().
			Str("user_id", user.ID).
			Str("platform", t.Platform).
			Str("event_id", msg.EventID).
			Str("title", msg.Title).
			Str("body", msg.Text).
			Msg("push notification")
	}
	return nil
}
