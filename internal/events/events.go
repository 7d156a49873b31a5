// Package events defines the product domain events, publishes them to the
// broker and relays consumed events to workflow webhooks.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// Event types; they double as AMQP routing keys.
const (
	ProductCreated      = "product.created"
	ProductStockChanged = "product.stock_changed"
	ProductPriceChanged = "product.price_changed"
	ProductActivated    = "product.activated"
	ProductDeactivated  = "product.deactivated"
)

// BindingKey matches every product event on the topic exchange.
const BindingKey = "product.#"

// Event is the JSON envelope sent over the broker.
type Event struct {
	Type       string          `json:"type"`
	ProductID  uint            `json:"product_id"`
	Payload    json.RawMessage `json:"payload"`
	OccurredAt time.Time       `json:"occurred_at"`
}

// New builds an event for productID with payload encoded as JSON.
func New(eventType string, productID uint, payload any) (Event, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return Event{}, fmt.Errorf("failed to encode %s payload: %w", eventType, err)
	}
	return Event{
		Type:       eventType,
		ProductID:  productID,
		Payload:    body,
		OccurredAt: time.Now().UTC(),
	}, nil
}

// Publisher sends domain events somewhere interested parties can see them.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// NopPublisher drops every event. It is used when no broker is configured.
type NopPublisher struct{}

// Publish discards event.
func (NopPublisher) Publish(context.Context, Event) error { return nil }

// Broker is the part of the RabbitMQ client the publisher needs.
type Broker interface {
	Publish(routingKey string, body []byte) error
}

// AMQPPublisher publishes events with their type as routing key.
type AMQPPublisher struct {
	broker Broker
}

// NewAMQPPublisher creates a new AMQPPublisher.
func NewAMQPPublisher(broker Broker) *AMQPPublisher {
	return &AMQPPublisher{broker: broker}
}

// Publish sends event to the exchange with its type as routing key.
func (p *AMQPPublisher) Publish(_ context.Context, event Event) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to encode event %s: %w", event.Type, err)
	}
	if err := p.broker.Publish(event.Type, body); err != nil {
		return fmt.Errorf("failed to publish event %s: %w", event.Type, err)
	}
	return nil
}
