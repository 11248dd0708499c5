package event_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bibbank/fraud-detection/internal/domain/event"
	"github.com/bibbank/fraud-detection/internal/domain/model"
	"github.com/bibbank/fraud-detection/internal/domain/valueobject"
)

func TestPredictionCompleted_Identity(t *testing.T) {
	id := uuid.New()
	e := event.PredictionCompleted{PredictionID: id}

	assert.Equal(t, event.EventTypePredictionCompleted, e.EventType())
	assert.Equal(t, id, e.AggregateID())
}

func TestHighRiskDetected_JSON(t *testing.T) {
	e := event.HighRiskDetected{
		PredictionID:     uuid.New(),
		RiskLevel:        "High",
		ModelVersion:     "3",
		Amount:           "149.62",
		ProbabilityFraud: 0.93,
		DetectedAt:       time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
	}

	data, err := json.Marshal(e)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "High", decoded["risk_level"])
	assert.Equal(t, "149.62", decoded["amount"])
	assert.Equal(t, 0.93, decoded["probability_fraud"])
	assert.Equal(t, event.EventTypeHighRiskDetected, e.EventType())
}

func testRecord(level valueobject.RiskLevel, p float64) model.PredictionRecord {
	return model.PredictionRecord{
		ID:        uuid.New(),
		Amount:    decimal.RequireFromString("149.62"),
		ModelName: "fraud-detector",
		Result: model.PredictionResult{
			Timestamp:        time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC),
			Label:            valueobject.LabelFromProbability(p),
			RiskLevel:        level,
			ModelSource:      valueobject.SourceHub,
			ModelVersion:     "latest",
			ProbabilityFraud: p,
		},
	}
}

func TestNewPredictionCompleted(t *testing.T) {
	r := testRecord(valueobject.RiskLevelLow, 0.01)
	e := event.NewPredictionCompleted(r)

	assert.Equal(t, r.ID, e.AggregateID())
	assert.Equal(t, "Normal", e.Prediction)
	assert.Equal(t, "Low", e.RiskLevel)
	assert.Equal(t, "hub", e.ModelSource)
	assert.Equal(t, "149.62", e.Amount)
	assert.Equal(t, r.Result.Timestamp, e.PredictedAt)
}

func TestNewHighRiskDetected(t *testing.T) {
	tests := []struct {
		level valueobject.RiskLevel
		want  bool
	}{
		{valueobject.RiskLevelLow, false},
		{valueobject.RiskLevelMedium, false},
		{valueobject.RiskLevelHigh, true},
		{valueobject.RiskLevelHighTier5, true},
		{valueobject.RiskLevelVeryHigh, true},
		{valueobject.RiskLevelMediumTier5, false},
	}
	for _, tt := range tests {
		t.Run(tt.level.String(), func(t *testing.T) {
			e, ok := event.NewHighRiskDetected(testRecord(tt.level, 0.9))
			assert.Equal(t, tt.want, ok)
			if ok {
				assert.Equal(t, tt.level.String(), e.RiskLevel)
				assert.Equal(t, "149.62", e.Amount)
			}
		})
	}
}
