package event

import (
	"time"

	"github.com/google/uuid"

	"github.com/bibbank/fraud-detection/internal/domain/model"
)

const (
	// EventTypePredictionCompleted is emitted for every served prediction.
	EventTypePredictionCompleted = "fraud.prediction.completed"

	// EventTypeHighRiskDetected is emitted when a prediction lands in the top risk bucket.
	EventTypeHighRiskDetected = "fraud.high_risk.detected"
)

// PredictionCompleted is published when a transaction has been scored.
type PredictionCompleted struct {
	PredictionID     uuid.UUID `json:"prediction_id"`
	Prediction       string    `json:"prediction"`
	RiskLevel        string    `json:"risk_level"`
	ModelName        string    `json:"model_name"`
	ModelVersion     string    `json:"model_version"`
	ModelSource      string    `json:"model_source"`
	Amount           string    `json:"amount"`
	ProbabilityFraud float64   `json:"probability_fraud"`
	PredictedAt      time.Time `json:"predicted_at"`
}

// EventType returns the event type identifier.
func (e PredictionCompleted) EventType() string {
	return EventTypePredictionCompleted
}

// AggregateID returns the prediction ID as the aggregate identifier.
func (e PredictionCompleted) AggregateID() uuid.UUID {
	return e.PredictionID
}

// HighRiskDetected is published when a transaction is scored in the highest
// risk bucket, so downstream review queues can pick it up.
type HighRiskDetected struct {
	PredictionID     uuid.UUID `json:"prediction_id"`
	RiskLevel        string    `json:"risk_level"`
	ModelVersion     string    `json:"model_version"`
	Amount           string    `json:"amount"`
	ProbabilityFraud float64   `json:"probability_fraud"`
	DetectedAt       time.Time `json:"detected_at"`
}

// EventType returns the event type identifier.
func (e HighRiskDetected) EventType() string {
	return EventTypeHighRiskDetected
}

// AggregateID returns the prediction ID as the aggregate identifier.
func (e HighRiskDetected) AggregateID() uuid.UUID {
	return e.PredictionID
}

// NewPredictionCompleted builds the completion event for an audit record.
func NewPredictionCompleted(r model.PredictionRecord) PredictionCompleted {
	return PredictionCompleted{
		PredictionID:     r.ID,
		Prediction:       r.Result.Label.String(),
		RiskLevel:        r.Result.RiskLevel.String(),
		ModelName:        r.ModelName,
		ModelVersion:     r.Result.ModelVersion,
		ModelSource:      r.Result.ModelSource.String(),
		Amount:           r.Amount.String(),
		ProbabilityFraud: r.Result.ProbabilityFraud,
		PredictedAt:      r.Result.Timestamp,
	}
}

// NewHighRiskDetected builds the high-risk event for an audit record. ok is false
// when the record is not in a top risk bucket.
func NewHighRiskDetected(r model.PredictionRecord) (HighRiskDetected, bool) {
	if !r.Result.RiskLevel.IsHigh() {
		return HighRiskDetected{}, false
	}
	return HighRiskDetected{
		PredictionID:     r.ID,
		RiskLevel:        r.Result.RiskLevel.String(),
		ModelVersion:     r.Result.ModelVersion,
		Amount:           r.Amount.String(),
		ProbabilityFraud: r.Result.ProbabilityFraud,
		DetectedAt:       r.Result.Timestamp,
	}, true
}
