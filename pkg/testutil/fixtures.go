package testutil

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/bibbank/fraud-detection/internal/domain/model"
)

// TestPredictionID is a fixed UUID for deterministic testing.
var TestPredictionID = uuid.MustParse("00000000-0000-0000-0000-000000000001")

// SampleTransactionValues is the first row of the public credit-card dataset,
// in training order. It is a known normal transaction.
var SampleTransactionValues = [model.NumFeatures]float64{
	406.0,
	-1.3598071336738, -0.0727811733098497, 2.53634673796914, 1.37815522427443,
	-0.338320769942518, 0.462387777762292, 0.239598554061257, 0.0986979012610507,
	0.363786969611213, 0.0907941719789316, -0.551599533260813, -0.617800855762348,
	-0.991389847235408, -0.311169353699879, 1.46817697209427, -0.470400525259478,
	0.207971241929242, 0.0257905801985591, 0.403992960255733, 0.251412098239705,
	-0.018306777944153, 0.277837575558899, -0.110473910188767, 0.0669280749146731,
	0.128539358273528, -0.189114843888824, 0.133558376740387, -0.0210530534538215,
	149.62,
}

// SampleTransaction returns SampleTransactionValues keyed by feature name.
func SampleTransaction() map[string]any {
	out := make(map[string]any, model.NumFeatures)
	for i, name := range model.FeatureNames {
		out[name] = SampleTransactionValues[i]
	}
	return out
}

// SamplePayload returns SampleTransactionValues as an ordered payload.
func SamplePayload() *model.Payload {
	p := model.NewPayload()
	for i, name := range model.FeatureNames {
		p.Set(name, SampleTransactionValues[i])
	}
	return p
}

// SampleFeatureVector returns SampleTransactionValues as a feature vector.
func SampleFeatureVector() model.FeatureVector {
	fv, err := model.FeatureVectorFromValues(SampleTransactionValues[:])
	if err != nil {
		panic(err)
	}
	return fv
}

// LogisticModelJSON returns a logistic model file whose only non-zero weight is
// on Amount: P(fraud) = sigmoid(intercept + amountWeight*Amount).
func LogisticModelJSON(intercept, amountWeight float64) []byte {
	coefs := make([]float64, model.NumFeatures)
	coefs[model.AmountIndex] = amountWeight
	data, err := json.Marshal(map[string]any{
		"format":        "logistic",
		"intercept":     intercept,
		"coefficients":  coefs,
		"feature_names": model.FeatureNames,
	})
	if err != nil {
		panic(err)
	}
	return data
}

// ScalerJSON returns a standard scaler file over Time and Amount.
func ScalerJSON(meanTime, scaleTime, meanAmount, scaleAmount float64) []byte {
	return []byte(fmt.Sprintf(
		`{"feature_names_in":["Time","Amount"],"mean":[%g,%g],"scale":[%g,%g]}`,
		meanTime, meanAmount, scaleTime, scaleAmount,
	))
}

// MetadataJSON is a minimal training metadata sidecar.
const MetadataJSON = `{"model_name":"lightgbm_fraud","model_type":"LGBMClassifier","trained_at":"2025-01-10T12:00:00","metrics":{"roc_auc":0.97}}`
