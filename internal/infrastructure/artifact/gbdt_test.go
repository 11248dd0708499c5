package artifact_test

import (
	"fmt"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bibbank/fraud-detection/internal/domain/model"
	"github.com/bibbank/fraud-detection/internal/infrastructure/artifact"
)

// splitOnV14 sends V14 <= -2 to a strong fraud leaf.
const splitOnV14 = `{
	"split_index": 0,
	"split_feature": 14,
	"threshold": -2.0,
	"decision_type": "<=",
	"default_left": %t,
	"missing_type": "%s",
	"left_child": {"leaf_index": 0, "leaf_value": 3.0},
	"right_child": {
		"split_index": 1,
		"split_feature": 29,
		"threshold": 1000.0,
		"decision_type": "<=",
		"default_left": true,
		"missing_type": "None",
		"left_child": {"leaf_index": 1, "leaf_value": -4.0},
		"right_child": {"leaf_index": 2, "leaf_value": 0.5}
	}
}`

func featureNamesJSON() string {
	quoted := make([]string, 0, model.NumFeatures)
	for _, n := range model.FeatureNames {
		quoted = append(quoted, `"`+n+`"`)
	}
	return "[" + strings.Join(quoted, ",") + "]"
}

func gbdtJSON(objective, output string, defaultLeft bool, missing string) []byte {
	return []byte(fmt.Sprintf(`{
		"format": "gbdt",
		"objective": %q,
		"output": %q,
		"max_feature_idx": 29,
		"feature_names": %s,
		"tree_info": [
			{"tree_index": 0, "tree_structure": `+splitOnV14+`},
			{"tree_index": 1, "tree_structure": {"leaf_value": 0.25}}
		]
	}`, objective, output, featureNamesJSON(), defaultLeft, missing))
}

func vector(v14, amount float64) []float64 {
	out := make([]float64, model.NumFeatures)
	out[14] = v14
	out[29] = amount
	return out
}

func TestGBDT_Traversal(t *testing.T) {
	scorer, err := artifact.DecodeModel(gbdtJSON("binary sigmoid:1", "", false, "None"))
	require.NoError(t, err)

	tests := []struct {
		name   string
		v14    float64
		amount float64
		raw    float64
	}{
		{name: "left leaf", v14: -5, amount: 10, raw: 3.0 + 0.25},
		{name: "threshold is inclusive", v14: -2, amount: 10, raw: 3.0 + 0.25},
		{name: "right then left", v14: 1, amount: 10, raw: -4.0 + 0.25},
		{name: "right then right", v14: 1, amount: 5000, raw: 0.5 + 0.25},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := scorer.Predict(vector(tt.v14, tt.amount))
			require.NoError(t, err)
			require.Len(t, out, 1)
			assert.InDelta(t, 1/(1+math.Exp(-tt.raw)), out[0], 1e-12)
		})
	}
}

func TestGBDT_MissingValues(t *testing.T) {
	tests := []struct {
		name        string
		missing     string
		defaultLeft bool
		v14         float64
		wantLeft    bool
	}{
		{name: "nan follows default left", missing: "NaN", defaultLeft: true, v14: math.NaN(), wantLeft: true},
		{name: "nan follows default right", missing: "NaN", defaultLeft: false, v14: math.NaN(), wantLeft: false},
		{name: "none treats nan as zero", missing: "None", defaultLeft: true, v14: math.NaN(), wantLeft: false},
		{name: "zero routes zero by default", missing: "Zero", defaultLeft: true, v14: 0, wantLeft: true},
		{name: "zero leaves others alone", missing: "Zero", defaultLeft: true, v14: 1, wantLeft: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			scorer, err := artifact.DecodeModel(gbdtJSON("regression", "", tt.defaultLeft, tt.missing))
			require.NoError(t, err)

			out, err := scorer.Predict(vector(tt.v14, 10))
			require.NoError(t, err)

			want := -4.0 + 0.25
			if tt.wantLeft {
				want = 3.0 + 0.25
			}
			assert.InDelta(t, want, out[0], 1e-12)
		})
	}
}

func TestGBDT_SigmoidSlopeAndClassPair(t *testing.T) {
	scorer, err := artifact.DecodeModel(gbdtJSON("binary sigmoid:2", "class_pair", false, "None"))
	require.NoError(t, err)

	out, err := scorer.Predict(vector(-5, 10))
	require.NoError(t, err)
	require.Len(t, out, 2)

	p := 1 / (1 + math.Exp(-2*3.25))
	assert.InDelta(t, p, out[1], 1e-12)
	assert.InDelta(t, 1-p, out[0], 1e-12)
}

func TestGBDT_AverageOutputAndInitScore(t *testing.T) {
	data := []byte(`{
		"format": "gbdt",
		"objective": "regression",
		"average_output": true,
		"init_score": 0.1,
		"tree_info": [
			{"tree_structure": {"leaf_value": 0.2}},
			{"tree_structure": {"leaf_value": 0.4}}
		]
	}`)
	scorer, err := artifact.DecodeModel(data)
	require.NoError(t, err)

	out, err := scorer.Predict(vector(0, 0))
	require.NoError(t, err)
	assert.InDelta(t, 0.4, out[0], 1e-12)
}

func TestGBDT_DecodeErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
		want string
	}{
		{name: "no trees", data: `{"format":"gbdt","tree_info":[]}`, want: "no trees"},
		{name: "multiclass", data: `{"format":"gbdt","num_class":3,"tree_info":[{"tree_structure":{"leaf_value":1}}]}`, want: "not a binary"},
		{name: "wrong feature count", data: `{"format":"gbdt","feature_names":["Time","Amount"],"tree_info":[{"tree_structure":{"leaf_value":1}}]}`, want: "expects 2 features"},
		{name: "wrong max feature idx", data: `{"format":"gbdt","max_feature_idx":12,"tree_info":[{"tree_structure":{"leaf_value":1}}]}`, want: "max_feature_idx"},
		{name: "categorical split", data: `{"format":"gbdt","tree_info":[{"tree_structure":{"split_feature":1,"threshold":"1||2","decision_type":"==","left_child":{"leaf_value":1},"right_child":{"leaf_value":0}}}]}`, want: "decision type"},
		{name: "feature out of range", data: `{"format":"gbdt","tree_info":[{"tree_structure":{"split_feature":30,"threshold":1,"left_child":{"leaf_value":1},"right_child":{"leaf_value":0}}}]}`, want: "out of range"},
		{name: "dangling split", data: `{"format":"gbdt","tree_info":[{"tree_structure":{"split_feature":3,"threshold":1,"left_child":{"leaf_value":1}}}]}`, want: "missing a child"},
		{name: "empty node", data: `{"format":"gbdt","tree_info":[{"tree_structure":{}}]}`, want: "neither a split nor a leaf"},
		{name: "unknown objective", data: `{"format":"gbdt","objective":"lambdarank","tree_info":[{"tree_structure":{"leaf_value":1}}]}`, want: "unsupported objective"},
		{name: "unknown output", data: `{"format":"gbdt","output":"logits","tree_info":[{"tree_structure":{"leaf_value":1}}]}`, want: "output convention"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := artifact.DecodeModel([]byte(tt.data))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestGBDT_WrongInputWidth(t *testing.T) {
	scorer, err := artifact.DecodeModel(gbdtJSON("binary", "", false, "None"))
	require.NoError(t, err)

	_, err = scorer.Predict([]float64{1, 2, 3})
	assert.Error(t, err)
}

func TestDecodeModel_UnknownFormat(t *testing.T) {
	_, err := artifact.DecodeModel([]byte(`{"format":"onnx"}`))
	assert.ErrorIs(t, err, artifact.ErrUnsupportedFormat)

	_, err = artifact.DecodeModel([]byte(`not json`))
	assert.Error(t, err)
}
