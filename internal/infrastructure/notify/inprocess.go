package notify

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"sportmeet/internal/domain/entities"
	"sportmeet/internal/ports/output"
)

var _ output.Notifier = (*InProcess)(nil)

const inProcessTimeout = 30 * time.Second

// InProcess dispatches notifications in background goroutines, without a
// broker. Delivery is detached from the caller's context, so a finished
// request neither waits for nor cancels it.
type InProcess struct {
	dispatcher *Dispatcher
	timeout    time.Duration
	log        zerolog.Logger
	wg         sync.WaitGroup
}

func NewInProcess(d *Dispatcher, log zerolog.Logger) *InProcess {
	return &InProcess{
		dispatcher: d,
		timeout:    inProcessTimeout,
		log:        log.With().Str("component", "notify-inprocess").Logger(),
	}
}

func (n *InProcess) NotifyPromoted(ctx context.Context, userID string, event entities.EventContext) error {
	n.dispatch(ctx, Job{Kind: KindPromoted, UserID: userID, Event: event})
	return nil
}

func (n *InProcess) NotifyReminder(ctx context.Context, userID string, event entities.EventContext) error {
	n.dispatch(ctx, Job{Kind: KindReminder, UserID: userID, Event: event})
	return nil
}

func (n *InProcess) dispatch(ctx context.Context, job Job) {
	n.wg.Add(1)
	go func() {
		defer n.wg.Done()
		dctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), n.timeout)
		defer cancel()
		if err := n.dispatcher.Dispatch(dctx, job); err != nil {
			n.log.Warn().Err(err).Str("user_id", job.UserID).Str("kind", string(job.Kind)).Msg("notification delivery failed")
		}
	}()
}

// Close waits for in-flight deliveries.
func (n *InProcess) Close() {
	n.wg.Wait()
}
