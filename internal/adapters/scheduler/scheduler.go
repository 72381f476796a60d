// Package scheduler runs periodic jobs on a cron schedule.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"sportmeet/pkg/tz"
)

// ReminderSender sends the reminders due at now and reports how many events were reminded.
type ReminderSender interface {
	SendReminders(ctx context.Context, now time.Time) (int, error)
}

type Scheduler struct {
	cron      *cron.Cron
	reminders ReminderSender
	timeout   time.Duration
	log       zerolog.Logger
	now       func() time.Time
}

// New registers the reminder job under schedule, e.g. "@every 10m" or "*/5 * * * *".
// Overlapping runs are skipped and panics are recovered.
func New(schedule string, reminders ReminderSender, log zerolog.Logger) (*Scheduler, error) {
	log = log.With().Str("component", "scheduler").Logger()
	logger := cronLogger{log: log}
	s := &Scheduler{
		cron: cron.New(
			cron.WithLocation(tz.Prague),
			cron.WithLogger(logger),
			cron.WithChain(cron.Recover(logger), cron.SkipIfStillRunning(logger)),
		),
		reminders: reminders,
		timeout:   time.Minute,
		log:       log,
		now:       time.Now,
	}
	if _, err := s.cron.AddFunc(schedule, s.runReminders); err != nil {
		return nil, fmt.Errorf("scheduler: reminder schedule %q: %w", schedule, err)
	}
	return s, nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
	s.log.Info().Int("jobs", len(s.cron.Entries())).Msg("scheduler started")
}

// Stop prevents new runs and waits for a running job or ctx, whichever ends first.
func (s *Scheduler) Stop(ctx context.Context) {
	done := s.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
		s.log.Warn().Msg("scheduler stop timed out")
	}
}

func (s *Scheduler) runReminders() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	n, err := s.reminders.SendReminders(ctx, s.now())
	if err != nil {
		s.log.Error().Err(err).Msg("reminder job failed")
		return
	}
	if n > 0 {
		s.log.Info().Int("events", n).Msg("reminders sent")
	}
}

// cronLogger routes cron's internal logging into zerolog.
type cronLogger struct {
	log zerolog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Debug().Fields(keysAndValues).Msg("cron: " + msg)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.log.Error().Err(err).Fields(keysAndValues).Msg("cron: " + msg)
}
