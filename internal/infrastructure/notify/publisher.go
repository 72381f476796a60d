package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"sportmeet/internal/domain/entities"
	"sportmeet/internal/ports/output"
)

var _ output.Notifier = (*RabbitPublisher)(nil)

// Publisher is the broker side RabbitPublisher writes to.
type Publisher interface {
	Publish(ctx context.Context, body []byte) error
}

// RabbitPublisher queues notification jobs for the Consumer.
type RabbitPublisher struct {
	pub Publisher
}

func NewRabbitPublisher(pub Publisher) *RabbitPublisher {
	return &RabbitPublisher{pub: pub}
}

func (p *RabbitPublisher) NotifyPromoted(ctx context.Context, userID string, event entities.EventContext) error {
	return p.publish(ctx, Job{Kind: KindPromoted, UserID: userID, Event: event})
}

func (p *RabbitPublisher) NotifyReminder(ctx context.Context, userID string, event entities.EventContext) error {
	return p.publish(ctx, Job{Kind: KindReminder, UserID: userID, Event: event})
}

func (p *RabbitPublisher) publish(ctx context.Context, job Job) error {
	body, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("encode job: %w", err)
	}
	if err := p.pub.Publish(ctx, body); err != nil {
		return fmt.Errorf("publish %s job: %w", job.Kind, err)
	}
	return nil
}
