package valueobject_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bibbank/fraud-detection/internal/domain/valueobject"
)

func TestScoreOutput_FraudProbability(t *testing.T) {
	tests := []struct {
		name    string
		output  valueobject.ScoreOutput
		raw     []float64
		want    float64
		wantErr bool
	}{
		{name: "probability single value", output: valueobject.ScoreOutputProbability, raw: []float64{0.12}, want: 0.12},
		{name: "probability rejects pair", output: valueobject.ScoreOutputProbability, raw: []float64{0.88, 0.12}, wantErr: true},
		{name: "class pair takes second column", output: valueobject.ScoreOutputClassPair, raw: []float64{0.88, 0.12}, want: 0.12},
		{name: "class pair rejects single", output: valueobject.ScoreOutputClassPair, raw: []float64{0.12}, wantErr: true},
		{name: "auto single", output: valueobject.ScoreOutputAuto, raw: []float64{0.7}, want: 0.7},
		{name: "auto pair", output: valueobject.ScoreOutputAuto, raw: []float64{0.3, 0.7}, want: 0.7},
		{name: "auto rejects empty", output: valueobject.ScoreOutputAuto, raw: nil, wantErr: true},
		{name: "auto rejects triple", output: valueobject.ScoreOutputAuto, raw: []float64{0.1, 0.2, 0.7}, wantErr: true},
		{name: "out of range", output: valueobject.ScoreOutputProbability, raw: []float64{1.2}, wantErr: true},
		{name: "negative", output: valueobject.ScoreOutputProbability, raw: []float64{-0.1}, wantErr: true},
		{name: "nan", output: valueobject.ScoreOutputProbability, raw: []float64{math.NaN()}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.output.FraudProbability(tt.raw)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-12)
		})
	}
}

func TestScoreOutputFromString(t *testing.T) {
	o, err := valueobject.ScoreOutputFromString("")
	require.NoError(t, err)
	assert.Equal(t, valueobject.ScoreOutputProbability, o)

	o, err = valueobject.ScoreOutputFromString("class_pair")
	require.NoError(t, err)
	assert.Equal(t, valueobject.ScoreOutputClassPair, o)

	o, err = valueobject.ScoreOutputFromString("AUTO")
	require.NoError(t, err)
	assert.Equal(t, valueobject.ScoreOutputAuto, o)

	_, err = valueobject.ScoreOutputFromString("logits")
	require.Error(t, err)
}

func TestModelSourceFromString(t *testing.T) {
	tests := []struct {
		input   string
		want    valueobject.ModelSource
		wantErr bool
	}{
		{"", valueobject.SourceRegistry, false},
		{"mlflow", valueobject.SourceRegistry, false},
		{"registry", valueobject.SourceRegistry, false},
		{"huggingface", valueobject.SourceHub, false},
		{"HUB", valueobject.SourceHub, false},
		{"local", valueobject.SourceLocal, false},
		{"s3", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := valueobject.ModelSourceFromString(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLabelFromProbability(t *testing.T) {
	assert.Equal(t, valueobject.LabelNormal, valueobject.LabelFromProbability(0.5))
	assert.Equal(t, valueobject.LabelFraud, valueobject.LabelFromProbability(0.5000001))
	assert.Equal(t, valueobject.LabelNormal, valueobject.LabelFromProbability(0))
	assert.True(t, valueobject.LabelFromProbability(0.99).IsFraud())

	l, err := valueobject.PredictionLabelFromString("Fraud")
	require.NoError(t, err)
	assert.Equal(t, valueobject.LabelFraud, l)
	_, err = valueobject.PredictionLabelFromString("fraud")
	require.Error(t, err)
}
