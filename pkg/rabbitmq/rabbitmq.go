package rabbitmq

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v5"
	amqp "github.com/streadway/amqp"
	"go.uber.org/zap"
)

// Client holds the RabbitMQ connection and channel.
type Client struct {
	conn     *amqp.Connection
	channel  *amqp.Channel
	exchange string
	logger   *zap.Logger
	// amqp channels are not safe for concurrent publishing.
	mu sync.Mutex
}

// Config holds RabbitMQ connection details.
type Config struct {
	URL      string
	Exchange string
	Logger   *zap.Logger
}

// NewClient connects to RabbitMQ, opens a channel and declares the durable
// topic exchange every message is published to.
func NewClient(cfg Config) (*Client, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	err = ch.ExchangeDeclare(
		cfg.Exchange, // name
		"topic",      // kind
		true,         // durable
		false,        // auto-deleted
		false,        // internal
		false,        // no-wait
		nil,          // arguments
	)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare exchange %s: %w", cfg.Exchange, err)
	}

	logger.Info("rabbitmq connected", zap.String("exchange", cfg.Exchange))

	return &Client{
		conn:     conn,
		channel:  ch,
		exchange: cfg.Exchange,
		logger:   logger,
	}, nil
}

// Close closes the RabbitMQ connection and channel.
func (c *Client) Close() error {
	var errs []error
	if c.channel != nil {
		if err := c.channel.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close channel: %w", err))
		}
	}
	if c.conn != nil {
		if err := c.conn.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close connection: %w", err))
		}
	}
	return errors.Join(errs...)
}

// Publish sends a persistent JSON message to the exchange under routingKey.
func (c *Client) Publish(routingKey string, body []byte) error {
	if c.channel == nil {
		return fmt.Errorf("RabbitMQ channel is not available")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	err := c.channel.Publish(
		c.exchange, // exchange
		routingKey, // routing key
		false,      // mandatory
		false,      // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now(),
		})
	if err != nil {
		return fmt.Errorf("failed to publish message: %w", err)
	}

	c.logger.Debug("message published", zap.String("routing_key", routingKey))
	return nil
}

// discardError marks a handler failure that retrying cannot fix.
type discardError struct{ err error }

func (e discardError) Error() string { return e.err.Error() }
func (e discardError) Unwrap() error { return e.err }

// Discard wraps err so the consumer drops the message instead of requeueing it.
func Discard(err error) error {
	return discardError{err: err}
}

// Settle acknowledges msg according to the handler result: nil acks, a
// Discard error nacks without requeue, any other error nacks with requeue.
func Settle(msg amqp.Acknowledger, tag uint64, handlerErr error) error {
	var discard discardError
	switch {
	case handlerErr == nil:
		return msg.Ack(tag, false)
	case errors.As(handlerErr, &discard):
		return msg.Nack(tag, false, false)
	default:
		return msg.Nack(tag, false, true)
	}
}

// Consume declares queue, binds it to the exchange with bindingKey and runs
// handler for every delivery until ctx is cancelled or the channel closes.
func (c *Client) Consume(ctx context.Context, queue, bindingKey string, handler func(msg amqp.Delivery) error) error {
	if c.channel == nil {
		return fmt.Errorf("RabbitMQ channel is not available for consumption")
	}

	q, err := c.channel.QueueDeclare(
		queue, // name
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,   // arguments
	)
	if err != nil {
		return fmt.Errorf("failed to declare queue %s: %w", queue, err)
	}

	if err := c.channel.QueueBind(q.Name, bindingKey, c.exchange, false, nil); err != nil {
		return fmt.Errorf("failed to bind queue %s: %w", queue, err)
	}

	// One unacknowledged delivery at a time, so a message waiting out its retry
	// delay holds back the rest of the queue on the broker.
	if err := c.channel.Qos(1, 0, false); err != nil {
		return fmt.Errorf("failed to set prefetch: %w", err)
	}

	msgs, err := c.channel.Consume(
		q.Name, // queue
		"",     // consumer tag
		false,  // auto-ack
		false,  // exclusive
		false,  // no-local
		false,  // no-wait
		nil,    // args
	)
	if err != nil {
		return fmt.Errorf("failed to register consumer: %w", err)
	}

	c.logger.Info("consuming", zap.String("queue", q.Name), zap.String("binding", bindingKey))

	go drain(ctx, msgs, handler, NewRetryBackOff(), c.logger.With(zap.String("queue", q.Name)))

	return nil
}

// NewRetryBackOff is the delay schedule applied before a failed delivery is
// requeued: 1s doubling up to 1m, with jitter.
func NewRetryBackOff() backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = time.Second
	b.MaxInterval = time.Minute
	return b
}

// drain handles deliveries until ctx is cancelled or msgs closes. A failure
// that will be requeued first waits out the next retry delay; any other
// outcome resets the schedule.
func drain(ctx context.Context, msgs <-chan amqp.Delivery, handler func(msg amqp.Delivery) error, retry backoff.BackOff, logger *zap.Logger) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-msgs:
			if !ok {
				logger.Warn("delivery channel closed")
				return
			}
			handlerErr := handler(msg)
			if handlerErr != nil {
				logger.Error("failed to process message",
					zap.Uint64("delivery_tag", msg.DeliveryTag),
					zap.Error(handlerErr))
			}

			if requeues(handlerErr) {
				delay := retry.NextBackOff()
				logger.Warn("delaying requeue", zap.Uint64("delivery_tag", msg.DeliveryTag), zap.Duration("delay", delay))
				wait(ctx, delay)
			} else {
				retry.Reset()
			}

			if err := Settle(msg.Acknowledger, msg.DeliveryTag, handlerErr); err != nil {
				logger.Error("failed to settle message", zap.Uint64("delivery_tag", msg.DeliveryTag), zap.Error(err))
			}
		}
	}
}

func requeues(err error) bool {
	var discard discardError
	return err != nil && !errors.As(err, &discard)
}

func wait(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}
