package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/streadway/amqp"
	"go.uber.org/zap"

	"storefront/pkg/rabbitmq"
	"storefront/pkg/workflow"
)

// Trigger calls one workflow webhook.
type Trigger interface {
	Trigger(ctx context.Context, path string, payload any) error
}

// Relay forwards consumed events to workflow webhooks.
type Relay struct {
	trigger Trigger
	logger  *zap.Logger
	timeout time.Duration
}

// NewRelay creates a new Relay.
func NewRelay(trigger Trigger, logger *zap.Logger) *Relay {
	return &Relay{
		trigger: trigger,
		logger:  logger.Named("relay"),
		timeout: 10 * time.Second,
	}
}

// WebhookPath maps an event type to its webhook, e.g. product.created to
// product-created.
func WebhookPath(eventType string) string {
	return strings.ReplaceAll(eventType, ".", "-")
}

// Handle processes one delivery. Undecodable messages are discarded,
// transport failures are returned for requeue, and webhook rejections are
// logged and acknowledged.
func (r *Relay) Handle(msg amqp.Delivery) error {
	var event Event
	if err := json.Unmarshal(msg.Body, &event); err != nil || event.Type == "" {
		if err == nil {
			err = errors.New("missing event type")
		}
		return rabbitmq.Discard(fmt.Errorf("failed to decode event: %w", err))
	}

	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()

	path := WebhookPath(event.Type)
	err := r.trigger.Trigger(ctx, path, event)

	var statusErr *workflow.StatusError
	switch {
	case err == nil:
		r.logger.Debug("event relayed", zap.String("type", event.Type), zap.Uint("product_id", event.ProductID))
		return nil
	case errors.As(err, &statusErr):
		r.logger.Warn("webhook rejected event",
			zap.String("type", event.Type),
			zap.String("path", path),
			zap.Int("status", statusErr.Status))
		return nil
	default:
		return err
	}
}
