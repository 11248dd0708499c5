//go:build integration

package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bibbank/fraud-detection/internal/domain/model"
	"github.com/bibbank/fraud-detection/internal/domain/valueobject"
	"github.com/bibbank/fraud-detection/internal/infrastructure/postgres"
	"github.com/bibbank/fraud-detection/pkg/testutil"
)

func TestPredictionRepository_SaveAndFind(t *testing.T) {
	ctx := context.Background()
	repo := postgres.NewPredictionRepository(testutil.StartAuditStore(ctx, t))

	record := model.PredictionRecord{
		ID:          testutil.TestPredictionID,
		Amount:      decimal.RequireFromString("149.62"),
		TimeFeature: 406,
		ModelName:   "fraud-detector",
		Result: model.PredictionResult{
			Timestamp:         time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC),
			Label:             valueobject.LabelFraud,
			RiskLevel:         valueobject.RiskLevelVeryHigh,
			ModelSource:       valueobject.SourceRegistry,
			ModelVersion:      "7",
			ProbabilityFraud:  0.91,
			ProbabilityNormal: 0.09,
			ConfidenceScore:   0.91,
		},
	}

	require.NoError(t, repo.Save(ctx, record))
	require.NoError(t, repo.Save(ctx, record), "saving twice is idempotent")

	got, err := repo.FindByID(ctx, record.ID)
	require.NoError(t, err)
	require.NotNil(t, got)

	assert.True(t, record.Amount.Equal(got.Amount))
	assert.Equal(t, record.Result.Label, got.Result.Label)
	assert.Equal(t, record.Result.RiskLevel, got.Result.RiskLevel)
	assert.Equal(t, record.Result.ModelSource, got.Result.ModelSource)
	assert.Equal(t, record.Result.Timestamp, got.Result.Timestamp)
	assert.InDelta(t, 0.91, got.Result.ProbabilityFraud, 1e-12)

	missing, err := repo.FindByID(ctx, uuid.New())
	require.NoError(t, err)
	assert.Nil(t, missing)
}
