package model

// Metadata is the optional training sidecar shipped next to a model artifact.
type Metadata struct {
	TrainedAt         string             `json:"trained_at,omitempty"`
	TrainingParams    map[string]any     `json:"training_params,omitempty"`
	Metrics           map[string]float64 `json:"metrics,omitempty"`
	FeatureImportance map[string]float64 `json:"feature_importance,omitempty"`
	ModelName         string             `json:"model_name,omitempty"`
	ModelType         string             `json:"model_type,omitempty"`
	FeatureNames      []string           `json:"feature_names,omitempty"`
}
