package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/bibbank/fraud-detection/pkg/events"
	pkgkafka "github.com/bibbank/fraud-detection/pkg/kafka"
)

const (
	aggregateType = "prediction"
	source        = "fraud-detection"
)

// Producer is the subset of pkg/kafka.Producer the publisher needs.
type Producer interface {
	Publish(ctx context.Context, topic string, messages ...pkgkafka.Message) error
}

// domainEvent is satisfied by every event in internal/domain/event.
type domainEvent interface {
	EventType() string
	AggregateID() uuid.UUID
}

// KafkaPublisher implements port.EventPublisher using Kafka.
type KafkaPublisher struct {
	producer Producer
	logger   *slog.Logger
	topic    string
}

// NewKafkaPublisher creates a new Kafka event publisher.
func NewKafkaPublisher(producer Producer, topic string, logger *slog.Logger) *KafkaPublisher {
	return &KafkaPublisher{
		producer: producer,
		topic:    topic,
		logger:   logger,
	}
}

// Publish sends domain events to Kafka in one batch, keyed by prediction ID.
func (p *KafkaPublisher) Publish(ctx context.Context, evts ...interface{}) error {
	messages := make([]pkgkafka.Message, 0, len(evts))
	for _, evt := range evts {
		de, ok := evt.(domainEvent)
		if !ok {
			return fmt.Errorf("unsupported event type %T", evt)
		}
		eventType := de.EventType()

		payload, err := json.Marshal(evt)
		if err != nil {
			return fmt.Errorf("failed to marshal event %s: %w", eventType, err)
		}

		envelope := events.New(eventType, de.AggregateID(), aggregateType, source, payload)

		p.logger.DebugContext(ctx, "publishing event",
			slog.String("event_type", eventType),
			slog.String("event_id", envelope.ID.String()),
			slog.String("topic", p.topic),
			slog.Int("payload_size", len(payload)),
		)

		messages = append(messages, pkgkafka.Message{
			Key:     []byte(envelope.AggregateID.String()),
			Value:   envelope.Payload,
			Headers: envelope.Headers(),
		})
	}

	if len(messages) == 0 {
		return nil
	}

	if err := p.producer.Publish(ctx, p.topic, messages...); err != nil {
		return fmt.Errorf("failed to publish events to topic %s: %w", p.topic, err)
	}

	return nil
}
