// Package events defines the metadata carried alongside every event the
// service emits. The metadata travels as transport headers so consumers can
// route on it without decoding the payload.
package events

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Header keys.
const (
	HeaderEventID       = "event_id"
	HeaderEventType     = "event_type"
	HeaderAggregateID   = "aggregate_id"
	HeaderAggregateType = "aggregate_type"
	HeaderOccurredAt    = "occurred_at"
	HeaderSource        = "source"
	HeaderContentType   = "content_type"
)

// ContentTypeJSON is the only payload encoding produced.
const ContentTypeJSON = "application/json"

// Envelope describes one published event.
type Envelope struct {
	OccurredAt    time.Time
	Type          string
	AggregateType string
	// Source names the emitting service.
	Source      string
	Payload     []byte
	ID          uuid.UUID
	AggregateID uuid.UUID
}

// New wraps payload in an Envelope with a fresh ID, stamped now.
func New(eventType string, aggregateID uuid.UUID, aggregateType, source string, payload []byte) Envelope {
	return Envelope{
		ID:            uuid.New(),
		Type:          eventType,
		AggregateID:   aggregateID,
		AggregateType: aggregateType,
		Source:        source,
		OccurredAt:    time.Now().UTC(),
		Payload:       payload,
	}
}

// Headers returns the transport headers describing the envelope.
func (e Envelope) Headers() map[string]string {
	h := map[string]string{
		HeaderEventID:       e.ID.String(),
		HeaderEventType:     e.Type,
		HeaderAggregateID:   e.AggregateID.String(),
		HeaderAggregateType: e.AggregateType,
		HeaderOccurredAt:    e.OccurredAt.Format(time.RFC3339Nano),
		HeaderContentType:   ContentTypeJSON,
	}
	if e.Source != "" {
		h[HeaderSource] = e.Source
	}
	return h
}

// FromHeaders rebuilds an Envelope from transport headers and a payload.
func FromHeaders(h map[string]string, payload []byte) (Envelope, error) {
	id, err := uuid.Parse(h[HeaderEventID])
	if err != nil {
		return Envelope{}, fmt.Errorf("events: %s: %w", HeaderEventID, err)
	}
	aggregateID, err := uuid.Parse(h[HeaderAggregateID])
	if err != nil {
		return Envelope{}, fmt.Errorf("events: %s: %w", HeaderAggregateID, err)
	}
	occurredAt, err := time.Parse(time.RFC3339Nano, h[HeaderOccurredAt])
	if err != nil {
		return Envelope{}, fmt.Errorf("events: %s: %w", HeaderOccurredAt, err)
	}
	if h[HeaderEventType] == "" {
		return Envelope{}, fmt.Errorf("events: missing %s", HeaderEventType)
	}
	return Envelope{
		ID:            id,
		Type:          h[HeaderEventType],
		AggregateID:   aggregateID,
		AggregateType: h[HeaderAggregateType],
		Source:        h[HeaderSource],
		OccurredAt:    occurredAt,
		Payload:       payload,
	}, nil
}
