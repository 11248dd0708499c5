package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/bibbank/fraud-detection/internal/domain/model"
	"github.com/bibbank/fraud-detection/internal/domain/valueobject"
)

// ErrModelNotLoaded is returned when no bundle was resolved at startup.
var ErrModelNotLoaded = errors.New("model not loaded")

// PredictorConfig selects how raw scorer output is read and bucketed.
type PredictorConfig struct {
	RiskScheme  valueobject.RiskScheme
	ScoreOutput valueobject.ScoreOutput
}

// Predictor is a domain service that turns a feature vector into a prediction
// using a fixed model bundle. It holds no mutable state and is safe for
// concurrent use.
type Predictor struct {
	bundle *model.Bundle
	now    func() time.Time
	cfg    PredictorConfig
}

// NewPredictor creates a Predictor over bundle. A nil bundle yields a predictor
// that reports ErrModelNotLoaded for every call.
func NewPredictor(bundle *model.Bundle, cfg PredictorConfig) *Predictor {
	if cfg.RiskScheme == "" {
		cfg.RiskScheme = valueobject.RiskSchemeThreeTier
	}
	if cfg.ScoreOutput == "" {
		cfg.ScoreOutput = valueobject.ScoreOutputProbability
	}
	return &Predictor{
		bundle: bundle,
		cfg:    cfg,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Ready reports whether a model bundle is available.
func (p *Predictor) Ready() bool {
	return p.bundle != nil
}

// Bundle returns the bundle in use, or nil.
func (p *Predictor) Bundle() *model.Bundle {
	return p.bundle
}

// Predict scales Time and Amount when a scaler is present, scores the vector and
// derives label, probabilities and risk level from the fraud probability.
func (p *Predictor) Predict(_ context.Context, features model.FeatureVector) (model.PredictionResult, error) {
	if p.bundle == nil {
		return model.PredictionResult{}, ErrModelNotLoaded
	}

	fraud, err := p.score(features)
	if err != nil {
		return model.PredictionResult{}, err
	}
	normal := 1 - fraud

	return model.PredictionResult{
		Label:             valueobject.LabelFromProbability(fraud),
		ProbabilityFraud:  fraud,
		ProbabilityNormal: normal,
		ConfidenceScore:   math.Max(fraud, normal),
		RiskLevel:         p.cfg.RiskScheme.Classify(fraud),
		ModelVersion:      p.bundle.Version(),
		ModelSource:       p.bundle.Source(),
		Timestamp:         p.now(),
	}, nil
}

// Verify scores an all-zero vector to check that the bundle's output matches
// the configured ScoreOutput convention.
func (p *Predictor) Verify(_ context.Context) error {
	if p.bundle == nil {
		return ErrModelNotLoaded
	}
	_, err := p.score(model.FeatureVector{})
	return err
}

func (p *Predictor) score(features model.FeatureVector) (float64, error) {
	input := features
	if scaler := p.bundle.Scaler(); scaler != nil {
		t, amount := scaler.Transform(features.Time(), features.Amount())
		input = features.WithTimeAmount(t, amount)
	}

	raw, err := p.bundle.Scorer().Predict(input.Values())
	if err != nil {
		return 0, fmt.Errorf("scoring transaction: %w", err)
	}

	fraud, err := p.cfg.ScoreOutput.FraudProbability(raw)
	if err != nil {
		return 0, fmt.Errorf("reading scorer output: %w", err)
	}
	return fraud, nil
}
