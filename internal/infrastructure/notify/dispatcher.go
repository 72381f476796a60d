package notify

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"sportmeet/internal/domain/entities"
	"sportmeet/internal/ports/output"
	"sportmeet/pkg/tz"
)

// Message is a notification rendered in the recipient's language.
type Message struct {
	Kind     Kind
	Title    string
	Text     string
	Place    string
	StartsAt time.Time
	EventID  string
	// Labels for the place and time fields, already localized.
	PlaceLabel string
	WhenLabel  string
}

// Sender delivers a rendered message over one channel.
type Sender interface {
	Name() string
	Send(ctx context.Context, user *entities.User, msg Message) error
}

// Dispatcher renders a Job for its recipient and hands it to every sender.
type Dispatcher struct {
	users   output.UserRepository
	tr      output.T
	senders []Sender
	log     zerolog.Logger
}

func NewDispatcher(users output.UserRepository, tr output.T, log zerolog.Logger, senders ...Sender) *Dispatcher {
	return &Dispatcher{users: users, tr: tr, senders: senders, log: log.With().Str("component", "notify").Logger()}
}

// Dispatch sends job through all senders. Every sender is tried; their
// errors are joined.
func (d *Dispatcher) Dispatch(ctx context.Context, job Job) error {
	user, err := d.users.FindByID(ctx, job.UserID)
	if err != nil {
		return fmt.Errorf("load recipient: %w", err)
	}
	msg := d.render(user.Language, job)

	var errs []error
	for _, s := range d.senders {
		if err := s.Send(ctx, user, msg); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", s.Name(), err))
			continue
		}
		d.log.Debug().Str("sender", s.Name()).Str("user_id", user.ID).Str("kind", string(job.Kind)).Msg("notification sent")
	}
	return errors.Join(errs...)
}

func (d *Dispatcher) render(lang string, job Job) Message {
	ev := job.Event
	when := ev.StartsAt.In(tz.Prague).Format("02.01.2006 15:04")
	data := map[string]any{
		"Sport": d.tr.T(lang, "sport."+ev.SportID, nil),
		"Place": ev.PlaceName,
		"When":  when,
	}
	key := "notify." + string(job.Kind)
	return Message{
		Kind:       job.Kind,
		Title:      d.tr.T(lang, key+".title", nil),
		Text:       d.tr.T(lang, key, data),
		Place:      ev.PlaceName,
		StartsAt:   ev.StartsAt,
		EventID:    ev.EventID,
		PlaceLabel: d.tr.T(lang, "notify.field.place", nil),
		WhenLabel:  d.tr.T(lang, "notify.field.when", nil),
	}
}
