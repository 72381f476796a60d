package notify

import (
	"context"
	"encoding/json"

	"github.com/rs/zerolog"

	"sportmeet/internal/domain"
)

// Source is the broker side the Consumer reads from.
type Source interface {
	Consume(handler func([]byte) error) error
}

// Consumer drains the notification queue into a Dispatcher.
type Consumer struct {
	src        Source
	dispatcher *Dispatcher
	log        zerolog.Logger
	done       chan struct{}
	cancel     context.CancelFunc
}

func NewConsumer(src Source, d *Dispatcher, log zerolog.Logger) *Consumer {
	return &Consumer{
		src:        src,
		dispatcher: d,
		log:        log.With().Str("component", "notify-consumer").Logger(),
		done:       make(chan struct{}),
	}
}

// Start consumes in the background until ctx ends or Stop is called.
func (c *Consumer) Start(ctx context.Context) {
	cctx, cancel := context.WithCancel(ctx)
	c.cancel = cancel

	go func() {
		defer close(c.done)
		if err := c.src.Consume(func(body []byte) error { return c.Handle(cctx, body) }); err != nil {
			c.log.Error().Err(err).Msg("failed to start consuming")
			return
		}
		c.log.Info().Msg("notification consumer started")
		<-cctx.Done()
		c.log.Info().Msg("notification consumer stopped")
	}()
}

func (c *Consumer) Stop() {
	if c.cancel != nil {
		c.cancel()
		<-c.done
	}
}

// Handle processes one queued job. Only storage outages are returned, so the
// broker redelivers; malformed jobs and delivery failures are logged and dropped.
func (c *Consumer) Handle(ctx context.Context, body []byte) error {
	var job Job
	if err := json.Unmarshal(body, &job); err != nil {
		c.log.Error().Err(err).Bytes("body", body).Msg("drop malformed notification job")
		return nil
	}
	err := c.dispatcher.Dispatch(ctx, job)
	if err == nil {
		return nil
	}
	if domain.KindOf(err) == domain.KindUnavailable {
		return err
	}
	c.log.Warn().Err(err).Str("user_id", job.UserID).Str("kind", string(job.Kind)).Msg("notification delivery failed")
	return nil
}
