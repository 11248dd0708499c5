package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/bibbank/fraud-detection/internal/domain/valueobject"
)

// PredictionResult is the outcome of scoring one transaction.
type PredictionResult struct {
	Timestamp         time.Time
	Label             valueobject.PredictionLabel
	RiskLevel         valueobject.RiskLevel
	ModelSource       valueobject.ModelSource
	ModelVersion      string
	ProbabilityFraud  float64
	ProbabilityNormal float64
	ConfidenceScore   float64
}

// PredictionRecord is the audit form of a prediction: the result plus the raw
// transaction amount and time it was computed for.
type PredictionRecord struct {
	Result      PredictionResult
	Amount      decimal.Decimal
	ID          uuid.UUID
	ModelName   string
	TimeFeature float64
}

// NewPredictionRecord builds an audit record for a prediction on the given features.
func NewPredictionRecord(features FeatureVector, result PredictionResult, modelName string) PredictionRecord {
	return PredictionRecord{
		ID:          uuid.New(),
		Result:      result,
		Amount:      decimal.NewFromFloat(features.Amount()),
		TimeFeature: features.Time(),
		ModelName:   modelName,
	}
}
