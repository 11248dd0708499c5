package valueobject

import (
	"fmt"
	"math"
	"strings"
)

// ScoreOutput names the convention a scoring function uses to report fraud probability.
type ScoreOutput string

const (
	// ScoreOutputProbability expects a single value: the probability of the positive (fraud) class.
	ScoreOutputProbability ScoreOutput = "probability"
	// ScoreOutputClassPair expects two values: [P(normal), P(fraud)].
	ScoreOutputClassPair ScoreOutput = "class_pair"
	// ScoreOutputAuto accepts either form, decided by the output length.
	ScoreOutputAuto ScoreOutput = "auto"
)

// ScoreOutputFromString parses a convention name. The empty string selects ScoreOutputProbability.
func ScoreOutputFromString(s string) (ScoreOutput, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "probability":
		return ScoreOutputProbability, nil
	case "class_pair", "pair", "proba":
		return ScoreOutputClassPair, nil
	case "auto":
		return ScoreOutputAuto, nil
	default:
		return "", fmt.Errorf("invalid score output: %q", s)
	}
}

// FraudProbability reduces raw scorer output to a single fraud probability.
func (o ScoreOutput) FraudProbability(raw []float64) (float64, error) {
	var p float64
	switch {
	case o == ScoreOutputProbability && len(raw) == 1,
		o == ScoreOutputAuto && len(raw) == 1:
		p = raw[0]
	case o == ScoreOutputClassPair && len(raw) == 2,
		o == ScoreOutputAuto && len(raw) == 2:
		p = raw[1]
	default:
		return 0, fmt.Errorf("score output %q: unexpected output width %d", o, len(raw))
	}

	if math.IsNaN(p) || p < 0 || p > 1 {
		return 0, fmt.Errorf("score output %q: fraud probability %v out of range", o, p)
	}
	return p, nil
}

// String returns the convention name.
func (o ScoreOutput) String() string {
	return string(o)
}
