package notify

import (
	"context"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"
)

// Client owns one AMQP connection and channel bound to a durable queue.
type Client struct {
	conn     *amqp.Connection
	channel  *amqp.Channel
	exchange string
	queue    string
	log      zerolog.Logger

	maxAttempts int
	retryDelay  time.Duration

	mu sync.Mutex // amqp channels are not safe for concurrent publishing
}

// NewRabbit dials url and declares exchange and queue, bound together.
func NewRabbit(url, exchange, queue string, log zerolog.Logger) (*Client, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("connect to rabbitmq: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("open rabbitmq channel: %w", err)
	}

	c := &Client{
		conn: conn, channel: ch, exchange: exchange, queue: queue, log: log,
		maxAttempts: defaultMaxAttempts, retryDelay: defaultRetryDelay,
	}

	if err := ch.ExchangeDeclare(exchange, amqp.ExchangeDirect, true, false, false, false, nil); err != nil {
		c.Close()
		return nil, fmt.Errorf("declare exchange: %w", err)
	}
	if _, err := ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		c.Close()
		return nil, fmt.Errorf("declare queue: %w", err)
	}
	if err := ch.QueueBind(queue, queue, exchange, false, nil); err != nil {
		c.Close()
		return nil, fmt.Errorf("bind queue: %w", err)
	}

	log.Info().Str("exchange", exchange).Str("queue", queue).Msg("rabbitmq initialized")
	return c, nil
}

func (c *Client) Close() {
	if c.channel != nil {
		_ = c.channel.Close()
	}
	if c.conn != nil {
		_ = c.conn.Close()
	}
	c.log.Info().Msg("rabbitmq connection closed")
}

// Publish sends a persistent JSON message routed to the queue.
func (c *Client) Publish(ctx context.Context, body []byte) error {
	return c.publish(ctx, body, nil)
}

func (c *Client) publish(ctx context.Context, body []byte, headers amqp.Table) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.channel.PublishWithContext(ctx, c.exchange, c.queue, false, false, amqp.Publishing{
		Headers:      headers,
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now(),
		Body:         body,
	})
}

// Consume delivers each message to handler in a background goroutine.
// Success acks the message. A handler error republishes it after a growing
// delay with an incremented attempts header; after maxAttempts it is
// rejected without requeue, which dead-letters it when the queue has a DLX.
func (c *Client) Consume(handler func([]byte) error) error {
	msgs, err := c.channel.Consume(c.queue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("start consuming: %w", err)
	}

	go func() {
		for d := range msgs {
			if err := handler(d.Body); err != nil {
				c.retry(d, err)
				continue
			}
			_ = d.Ack(false)
		}
	}()

	c.log.Info().Str("queue", c.queue).Msg("started consuming")
	return nil
}

const (
	attemptsHeader     = "x-attempts"
	defaultMaxAttempts = 5
	defaultRetryDelay  = time.Second
	maxRetryDelay      = time.Minute
)

func (c *Client) retry(d amqp.Delivery, cause error) {
	attempts := attemptsOf(d.Headers) + 1
	if attempts >= c.maxAttempts {
		c.log.Error().Err(cause).Int("attempts", attempts).Msg("giving up on message")
		_ = d.Nack(false, false)
		return
	}

	delay := retryBackoff(c.retryDelay, attempts)
	c.log.Warn().Err(cause).Int("attempts", attempts).Dur("delay", delay).Msg("failed to process message, retrying")
	time.Sleep(delay)

	headers := amqp.Table{}
	for k, v := range d.Headers {
		headers[k] = v
	}
	headers[attemptsHeader] = int32(attempts)
	if err := c.publish(context.Background(), d.Body, headers); err != nil {
		c.log.Error().Err(err).Msg("republish failed, requeueing")
		_ = d.Nack(false, true)
		return
	}
	_ = d.Ack(false)
}

// attemptsOf reads the failed-attempt counter; brokers may hand back any integer width.
func attemptsOf(h amqp.Table) int {
	switch v := h[attemptsHeader].(type) {
	case int32:
		return int(v)
	case int64:
		return int(v)
	case int:
		return v
	case int16:
		return int(v)
	case int8:
		return int(v)
	}
	return 0
}

// retryBackoff doubles base for every attempt after the first, capped at maxRetryDelay.
func retryBackoff(base time.Duration, attempts int) time.Duration {
	d := base
	for i := 1; i < attempts; i++ {
		d *= 2
		if d >= maxRetryDelay {
			return maxRetryDelay
		}
	}
	return d
}
