package audit

import (
	"context"

	"github.com/bibbank/fraud-detection/internal/domain/event"
	"github.com/bibbank/fraud-detection/internal/domain/model"
	"github.com/bibbank/fraud-detection/internal/domain/port"
)

// EventSink publishes a completion event for every record, plus a high-risk
// event for records in a top risk bucket.
type EventSink struct {
	publisher port.EventPublisher
}

// NewEventSink creates a sink over an event publisher.
func NewEventSink(publisher port.EventPublisher) *EventSink {
	return &EventSink{publisher: publisher}
}

// Name implements Sink.
func (s *EventSink) Name() string { return "events" }

// Write implements Sink.
func (s *EventSink) Write(ctx context.Context, record model.PredictionRecord) error {
	evts := []interface{}{event.NewPredictionCompleted(record)}
	if hr, ok := event.NewHighRiskDetected(record); ok {
		evts = append(evts, hr)
	}
	return s.publisher.Publish(ctx, evts...)
}

// RepositorySink stores every record in the prediction repository.
type RepositorySink struct {
	repo port.PredictionRepository
}

// NewRepositorySink creates a sink over a prediction repository.
func NewRepositorySink(repo port.PredictionRepository) *RepositorySink {
	return &RepositorySink{repo: repo}
}

// Name implements Sink.
func (s *RepositorySink) Name() string { return "repository" }

// Write implements Sink.
func (s *RepositorySink) Write(ctx context.Context, record model.PredictionRecord) error {
	return s.repo.Save(ctx, record)
}
