package eventbus

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/felixgeelhaar/rendezvous/internal/shared/domain"
)

// Publisher defines the interface for publishing events to a message broker.
type Publisher interface {
	// Publish sends a message to the event bus.
	Publish(ctx context.Context, routingKey string, payload []byte) error

	// Close closes the publisher connection.
	Close() error
}

// Envelope is the wire form of a published domain event.
type Envelope struct {
	EventID       uuid.UUID            `json:"event_id"`
	AggregateType string               `json:"aggregate_type"`
	AggregateID   string               `json:"aggregate_id"`
	RoutingKey    string               `json:"routing_key"`
	OccurredAt    time.Time            `json:"occurred_at"`
	Metadata      domain.EventMetadata `json:"metadata"`
	Payload       json.RawMessage      `json:"payload"`
}

// NewEnvelope wraps a domain event for publishing.
func NewEnvelope(event domain.DomainEvent) (*Envelope, error) {
	payload, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("marshal %s: %w", event.RoutingKey(), err)
	}

	return &Envelope{
		EventID:       event.EventID(),
		AggregateType: event.AggregateType(),
		AggregateID:   event.AggregateID(),
		RoutingKey:    event.RoutingKey(),
		OccurredAt:    event.OccurredAt(),
		Metadata:      event.Metadata(),
		Payload:       payload,
	}, nil
}

// EventPublisher publishes domain events through a Publisher. Failures are
// logged and returned but callers treat delivery as best-effort.
type EventPublisher struct {
	publisher Publisher
	logger    *slog.Logger
}

// NewEventPublisher creates an event publisher.
func NewEventPublisher(publisher Publisher, logger *slog.Logger) *EventPublisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &EventPublisher{publisher: publisher, logger: logger}
}

// PublishEvents publishes each event in order and joins the failures.
func (p *EventPublisher) PublishEvents(ctx context.Context, events ...domain.DomainEvent) error {
	var errs []error
	for _, event := range events {
		envelope, err := NewEnvelope(event)
		if err != nil {
			errs = append(errs, err)
			continue
		}

		body, err := json.Marshal(envelope)
		if err != nil {
			errs = append(errs, fmt.Errorf("marshal envelope: %w", err))
			continue
		}

		if err := p.publisher.Publish(ctx, event.RoutingKey(), body); err != nil {
			p.logger.WarnContext(ctx, "domain event not published",
				"routing_key", event.RoutingKey(),
				"aggregate_id", event.AggregateID(),
				"error", err,
			)
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
