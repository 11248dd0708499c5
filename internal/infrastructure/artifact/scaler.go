package artifact

import (
	"encoding/json"
	"fmt"
)

type scalerFile struct {
	FeatureNamesIn []string  `json:"feature_names_in"`
	Mean           []float64 `json:"mean"`
	Scale          []float64 `json:"scale"`
}

// StandardScaler standardises the Time and Amount columns as (x - mean) / scale.
type StandardScaler struct {
	meanTime, meanAmount   float64
	scaleTime, scaleAmount float64
}

// DecodeScaler decodes a fitted standard scaler over Time and Amount. Columns may
// appear in either order when feature_names_in is given; otherwise [Time, Amount]
// is assumed.
func DecodeScaler(data []byte) (*StandardScaler, error) {
	var f scalerFile
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("artifact: decode scaler: %w", err)
	}
	if len(f.Mean) != 2 || len(f.Scale) != 2 {
		return nil, fmt.Errorf("artifact: scaler must cover 2 columns, got mean=%d scale=%d", len(f.Mean), len(f.Scale))
	}

	ti, ai := 0, 1
	if len(f.FeatureNamesIn) > 0 {
		idx := map[string]int{}
		for i, name := range f.FeatureNamesIn {
			idx[name] = i
		}
		var okT, okA bool
		ti, okT = idx["Time"]
		ai, okA = idx["Amount"]
		if len(f.FeatureNamesIn) != 2 || !okT || !okA {
			return nil, fmt.Errorf("artifact: scaler columns %v, want [Time Amount]", f.FeatureNamesIn)
		}
	}

	return &StandardScaler{
		meanTime:    f.Mean[ti],
		meanAmount:  f.Mean[ai],
		scaleTime:   nonZero(f.Scale[ti]),
		scaleAmount: nonZero(f.Scale[ai]),
	}, nil
}

// Transform standardises a Time and Amount pair.
func (s *StandardScaler) Transform(timeValue, amount float64) (float64, float64) {
	return (timeValue - s.meanTime) / s.scaleTime, (amount - s.meanAmount) / s.scaleAmount
}

// nonZero mirrors sklearn, which leaves constant columns unscaled.
func nonZero(v float64) float64 {
	if v == 0 {
		return 1
	}
	return v
}
