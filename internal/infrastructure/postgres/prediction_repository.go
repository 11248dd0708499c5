package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/bibbank/fraud-detection/internal/domain/model"
	"github.com/bibbank/fraud-detection/internal/domain/valueobject"
)

// MigrationsDir is the directory of migrations.FS holding the schema.
const MigrationsDir = "."

// PredictionRepository implements port.PredictionRepository using PostgreSQL.
type PredictionRepository struct {
	pool *pgxpool.Pool
}

// NewPredictionRepository creates a new PostgreSQL-backed prediction repository.
func NewPredictionRepository(pool *pgxpool.Pool) *PredictionRepository {
	return &PredictionRepository{pool: pool}
}

// Save persists a prediction record. Saving the same record twice is a no-op.
func (r *PredictionRepository) Save(ctx context.Context, record model.PredictionRecord) error {
	query := `
		INSERT INTO prediction_audit (
			id, prediction, risk_level,
			probability_fraud, probability_normal, confidence_score,
			amount, time_feature,
			model_name, model_version, model_source,
			predicted_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (id) DO NOTHING
	`

	res := record.Result
	_, err := r.pool.Exec(ctx, query,
		record.ID,
		res.Label.String(),
		res.RiskLevel.String(),
		res.ProbabilityFraud,
		res.ProbabilityNormal,
		res.ConfidenceScore,
		record.Amount,
		record.TimeFeature,
		record.ModelName,
		res.ModelVersion,
		res.ModelSource.String(),
		res.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("failed to save prediction: %w", err)
	}
	return nil
}

// FindByID retrieves a prediction record. It returns (nil, nil) when absent.
func (r *PredictionRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.PredictionRecord, error) {
	query := `
		SELECT id, prediction, risk_level,
			probability_fraud, probability_normal, confidence_score,
			amount, time_feature,
			model_name, model_version, model_source,
			predicted_at
		FROM prediction_audit
		WHERE id = $1
	`

	var (
		recordID     uuid.UUID
		labelStr     string
		riskLevelStr string
		pFraud       float64
		pNormal      float64
		confidence   float64
		amount       decimal.Decimal
		timeFeature  float64
		modelName    string
		modelVersion string
		modelSource  string
		predictedAt  time.Time
	)

	err := r.pool.QueryRow(ctx, query, id).Scan(
		&recordID, &labelStr, &riskLevelStr,
		&pFraud, &pNormal, &confidence,
		&amount, &timeFeature,
		&modelName, &modelVersion, &modelSource,
		&predictedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to scan prediction: %w", err)
	}

	label, err := valueobject.PredictionLabelFromString(labelStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse prediction label: %w", err)
	}
	riskLevel, err := valueobject.RiskLevelFromString(riskLevelStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse risk level: %w", err)
	}
	source, err := valueobject.ModelSourceFromString(modelSource)
	if err != nil {
		return nil, fmt.Errorf("failed to parse model source: %w", err)
	}

	return &model.PredictionRecord{
		ID:          recordID,
		Amount:      amount,
		TimeFeature: timeFeature,
		ModelName:   modelName,
		Result: model.PredictionResult{
			Timestamp:         predictedAt.UTC(),
			Label:             label,
			RiskLevel:         riskLevel,
			ModelSource:       source,
			ModelVersion:      modelVersion,
			ProbabilityFraud:  pFraud,
			ProbabilityNormal: pNormal,
			ConfidenceScore:   confidence,
		},
	}, nil
}
