package artifact

import (
	"encoding/json"
	"fmt"

	"github.com/bibbank/fraud-detection/internal/domain/model"
)

type logisticFile struct {
	Output       string    `json:"output"`
	FeatureNames []string  `json:"feature_names"`
	Coefficients []float64 `json:"coefficients"`
	Intercept    float64   `json:"intercept"`
}

// Logistic is a fitted logistic regression over the full feature vector.
type Logistic struct {
	output       string
	coefficients []float64
	intercept    float64
}

func decodeLogistic(data []byte) (*Logistic, error) {
	var f logisticFile
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("artifact: decode logistic model: %w", err)
	}
	if len(f.Coefficients) != model.NumFeatures {
		return nil, fmt.Errorf("artifact: logistic model has %d coefficients, want %d", len(f.Coefficients), model.NumFeatures)
	}
	if err := checkFeatureNames(f.FeatureNames); err != nil {
		return nil, err
	}
	if err := checkOutput(f.Output); err != nil {
		return nil, err
	}
	return &Logistic{output: f.Output, coefficients: f.Coefficients, intercept: f.Intercept}, nil
}

// Predict returns the fraud probability for features in training order.
func (l *Logistic) Predict(features []float64) ([]float64, error) {
	if len(features) != len(l.coefficients) {
		return nil, fmt.Errorf("logistic: expected %d features, got %d", len(l.coefficients), len(features))
	}
	z := l.intercept
	for i, c := range l.coefficients {
		z += c * features[i]
	}
	return emit(sigmoid(z), l.output), nil
}
