package port

import (
	"context"

	"github.com/bibbank/fraud-detection/internal/domain/model"
	"github.com/bibbank/fraud-detection/internal/domain/valueobject"
)

// ModelLoader is one strategy for obtaining a model bundle from a backing store.
// An unavailable store is reported as an error, never a panic.
type ModelLoader interface {
	// Source names the backing store this loader reads from.
	Source() valueobject.ModelSource

	// Load fetches and decodes the model bundle.
	Load(ctx context.Context) (*model.Bundle, error)
}

// ModelRegistry defines the port for browsing registered model versions.
type ModelRegistry interface {
	// ListVersions returns every registered version of the served model.
	ListVersions(ctx context.Context) ([]model.ModelVersion, error)
}

// PredictionRecorder accepts completed predictions for the audit trail.
// Implementations must not block the caller.
type PredictionRecorder interface {
	Record(ctx context.Context, record model.PredictionRecord)
}

// EventPublisher defines the port for publishing domain events.
type EventPublisher interface {
	// Publish sends one or more domain events to the messaging infrastructure.
	Publish(ctx context.Context, events ...interface{}) error
}

// PredictionRepository defines the persistence port for prediction records.
type PredictionRepository interface {
	// Save persists a prediction record.
	Save(ctx context.Context, record model.PredictionRecord) error
}
