// Package artifact decodes the portable model, scaler and metadata files that
// every model store serves.
package artifact

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"

	"github.com/bibbank/fraud-detection/internal/domain/model"
)

// Well-known artifact file names.
const (
	ModelFile    = "model.json"
	ScalerFile   = "scaler.json"
	MetadataFile = "metadata.json"
)

// Supported model formats.
const (
	FormatGBDT     = "gbdt"
	FormatLogistic = "logistic"
)

// Output conventions a model file may declare.
const (
	outputProbability = "probability"
	outputClassPair   = "class_pair"
)

// ErrUnsupportedFormat is returned for a model file whose format is not known.
var ErrUnsupportedFormat = errors.New("unsupported model format")

type header struct {
	Format string `json:"format"`
}

// DecodeModel decodes a model file into a Scorer.
func DecodeModel(data []byte) (model.Scorer, error) {
	var h header
	if err := json.Unmarshal(data, &h); err != nil {
		return nil, fmt.Errorf("artifact: decode model header: %w", err)
	}

	switch h.Format {
	case FormatGBDT:
		return decodeGBDT(data)
	case FormatLogistic:
		return decodeLogistic(data)
	default:
		return nil, fmt.Errorf("artifact: %w: %q", ErrUnsupportedFormat, h.Format)
	}
}

// checkFeatureNames verifies that a model was trained on the expected columns in order.
func checkFeatureNames(names []string) error {
	if len(names) == 0 {
		return nil
	}
	if len(names) != model.NumFeatures {
		return fmt.Errorf("artifact: model expects %d features, want %d", len(names), model.NumFeatures)
	}
	for i, name := range names {
		if name != model.FeatureNames[i] {
			return fmt.Errorf("artifact: feature %d is %q, want %q", i, name, model.FeatureNames[i])
		}
	}
	return nil
}

func checkOutput(output string) error {
	switch output {
	case "", outputProbability, outputClassPair:
		return nil
	default:
		return fmt.Errorf("artifact: unknown output convention %q", output)
	}
}

func emit(p float64, output string) []float64 {
	if output == outputClassPair {
		return []float64{1 - p, p}
	}
	return []float64{p}
}

func sigmoid(x float64) float64 {
	return 1 / (1 + math.Exp(-x))
}
