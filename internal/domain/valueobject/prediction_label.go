package valueobject

import "fmt"

// FraudThreshold is the fraud probability above which a transaction is labelled Fraud.
const FraudThreshold = 0.5

// PredictionLabel is an immutable value object for the discrete classifier outcome.
type PredictionLabel struct {
	value string
}

var (
	LabelNormal = PredictionLabel{value: "Normal"}
	LabelFraud  = PredictionLabel{value: "Fraud"}
)

// LabelFromProbability labels a transaction Fraud when the probability is strictly above FraudThreshold.
func LabelFromProbability(fraudProbability float64) PredictionLabel {
	if fraudProbability > FraudThreshold {
		return LabelFraud
	}
	return LabelNormal
}

// PredictionLabelFromString reconstructs a label from its string representation.
func PredictionLabelFromString(s string) (PredictionLabel, error) {
	switch s {
	case "Normal":
		return LabelNormal, nil
	case "Fraud":
		return LabelFraud, nil
	default:
		return PredictionLabel{}, fmt.Errorf("invalid prediction label: %s", s)
	}
}

// String returns the string representation.
func (l PredictionLabel) String() string {
	return l.value
}

// IsFraud reports whether the label is Fraud.
func (l PredictionLabel) IsFraud() bool {
	return l == LabelFraud
}

// MarshalText implements encoding.TextMarshaler.
func (l PredictionLabel) MarshalText() ([]byte, error) {
	return []byte(l.value), nil
}
