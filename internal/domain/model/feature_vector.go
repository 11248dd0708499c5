package model

import (
	"fmt"
	"strings"
)

// NumFeatures is the width of the classifier input.
const NumFeatures = 30

// FeatureNames lists the classifier inputs in training order. Scorers and
// scalers consume positional arrays, so this order is part of the model contract.
var FeatureNames = [NumFeatures]string{
	"Time",
	"V1", "V2", "V3", "V4", "V5", "V6", "V7", "V8", "V9", "V10",
	"V11", "V12", "V13", "V14", "V15", "V16", "V17", "V18", "V19", "V20",
	"V21", "V22", "V23", "V24", "V25", "V26", "V27", "V28",
	"Amount",
}

// Positions of the scaled features within FeatureNames.
const (
	TimeIndex   = 0
	AmountIndex = NumFeatures - 1
)

var featureIndex = func() map[string]int {
	idx := make(map[string]int, NumFeatures)
	for i, name := range FeatureNames {
		idx[name] = i
	}
	return idx
}()

// FeatureIndex returns the training-order position of a feature name.
func FeatureIndex(name string) (int, bool) {
	i, ok := featureIndex[name]
	return i, ok
}

// IsFeature reports whether name is one of the 30 expected fields.
func IsFeature(name string) bool {
	_, ok := featureIndex[name]
	return ok
}

// FeatureVector is a complete, ordered transaction feature vector.
type FeatureVector struct {
	values [NumFeatures]float64
}

// NewFeatureVector builds a vector from named values. Every expected field must be
// present; unknown names are ignored.
func NewFeatureVector(named map[string]float64) (FeatureVector, error) {
	var fv FeatureVector
	var missing []string
	for i, name := range FeatureNames {
		v, ok := named[name]
		if !ok {
			missing = append(missing, name)
			continue
		}
		fv.values[i] = v
	}
	if len(missing) > 0 {
		return FeatureVector{}, fmt.Errorf("missing features: %s", strings.Join(missing, ", "))
	}
	return fv, nil
}

// FeatureVectorFromValues builds a vector from values already in training order.
func FeatureVectorFromValues(values []float64) (FeatureVector, error) {
	if len(values) != NumFeatures {
		return FeatureVector{}, fmt.Errorf("expected %d features, got %d", NumFeatures, len(values))
	}
	var fv FeatureVector
	copy(fv.values[:], values)
	return fv, nil
}

// Values returns a copy of the values in training order.
func (f FeatureVector) Values() []float64 {
	out := make([]float64, NumFeatures)
	copy(out, f.values[:])
	return out
}

// Get returns the value of a named feature.
func (f FeatureVector) Get(name string) (float64, bool) {
	i, ok := featureIndex[name]
	if !ok {
		return 0, false
	}
	return f.values[i], true
}

// Time returns the Time feature.
func (f FeatureVector) Time() float64 { return f.values[TimeIndex] }

// Amount returns the Amount feature.
func (f FeatureVector) Amount() float64 { return f.values[AmountIndex] }

// WithTimeAmount returns a copy with Time and Amount replaced. V1..V28 are unchanged.
func (f FeatureVector) WithTimeAmount(t, amount float64) FeatureVector {
	f.values[TimeIndex] = t
	f.values[AmountIndex] = amount
	return f
}
