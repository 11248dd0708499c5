package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/bibbank/fraud-detection/internal/application/dto"
	"github.com/bibbank/fraud-detection/internal/domain/model"
	"github.com/bibbank/fraud-detection/internal/domain/port"
	"github.com/bibbank/fraud-detection/internal/domain/service"
)

// PayloadValidator checks a raw payload against the transaction schema.
// A failing payload yields a *model.ValidationError.
type PayloadValidator interface {
	Validate(payload *model.Payload) error
}

// PredictionObserver receives prediction telemetry.
type PredictionObserver interface {
	ObservePrediction(ctx context.Context, result model.PredictionResult, elapsed time.Duration)
	ObserveValidationFailure(ctx context.Context)
}

// PredictTransaction is the use case for scoring one transaction payload.
type PredictTransaction struct {
	predictor *service.Predictor
	validator PayloadValidator
	recorder  port.PredictionRecorder
	observer  PredictionObserver
}

// NewPredictTransaction creates a new PredictTransaction use case. recorder and
// observer may be nil.
func NewPredictTransaction(
	predictor *service.Predictor,
	validator PayloadValidator,
	recorder port.PredictionRecorder,
	observer PredictionObserver,
) *PredictTransaction {
	return &PredictTransaction{
		predictor: predictor,
		validator: validator,
		recorder:  recorder,
		observer:  observer,
	}
}

// Execute validates the payload, scores it and hands the result to the audit trail.
func (uc *PredictTransaction) Execute(ctx context.Context, payload *model.Payload) (dto.PredictionResponse, error) {
	start := time.Now()
	if err := uc.validator.Validate(payload); err != nil {
		if uc.observer != nil {
			uc.observer.ObserveValidationFailure(ctx)
		}
		return dto.PredictionResponse{}, err
	}

	features, err := featuresFromPayload(payload)
	if err != nil {
		return dto.PredictionResponse{}, err
	}

	result, err := uc.predictor.Predict(ctx, features)
	if err != nil {
		return dto.PredictionResponse{}, err
	}

	if uc.observer != nil {
		uc.observer.ObservePrediction(ctx, result, time.Since(start))
	}
	if uc.recorder != nil {
		name := ""
		if b := uc.predictor.Bundle(); b != nil {
			name = b.Name()
		}
		uc.recorder.Record(ctx, model.NewPredictionRecord(features, result, name))
	}

	return dto.FromResult(result), nil
}

func featuresFromPayload(payload *model.Payload) (model.FeatureVector, error) {
	named := make(map[string]float64, model.NumFeatures)
	var fields []model.FieldError
	for _, name := range model.FeatureNames {
		raw, ok := payload.Get(name)
		if !ok {
			fields = append(fields, model.FieldError{
				Loc:     []string{"body", name},
				Message: model.MissingFieldMessage,
				Type:    model.FieldErrorMissing,
			})
			continue
		}
		v, ok := toFloat(raw)
		if !ok {
			fields = append(fields, model.FieldError{
				Loc:     []string{"body", name},
				Message: model.NotNumberMessage,
				Type:    model.FieldErrorNotNumber,
			})
			continue
		}
		named[name] = v
	}
	if len(fields) > 0 {
		return model.FeatureVector{}, &model.ValidationError{Fields: fields}
	}

	fv, err := model.NewFeatureVector(named)
	if err != nil {
		return model.FeatureVector{}, fmt.Errorf("building feature vector: %w", err)
	}
	return fv, nil
}
