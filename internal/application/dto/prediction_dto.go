package dto

import (
	"time"

	"github.com/bibbank/fraud-detection/internal/domain/model"
)

// PredictionResponse is the output DTO returned for a scored transaction.
type PredictionResponse struct {
	Timestamp         time.Time `json:"timestamp"`
	Prediction        string    `json:"prediction"`
	RiskLevel         string    `json:"risk_level"`
	ModelVersion      string    `json:"model_version"`
	ProbabilityFraud  float64   `json:"probability_fraud"`
	ProbabilityNormal float64   `json:"probability_normal"`
	ConfidenceScore   float64   `json:"confidence_score"`
}

// FromResult converts a domain PredictionResult into a PredictionResponse DTO.
func FromResult(r model.PredictionResult) PredictionResponse {
	return PredictionResponse{
		Prediction:        r.Label.String(),
		ProbabilityFraud:  r.ProbabilityFraud,
		ProbabilityNormal: r.ProbabilityNormal,
		ConfidenceScore:   r.ConfidenceScore,
		RiskLevel:         r.RiskLevel.String(),
		ModelVersion:      r.ModelVersion,
		Timestamp:         r.Timestamp,
	}
}

// HealthResponse reports whether a model is being served.
type HealthResponse struct {
	Timestamp    time.Time `json:"timestamp"`
	Status       string    `json:"status"`
	Message      string    `json:"message"`
	ModelName    string    `json:"model_name"`
	ModelVersion string    `json:"model_version"`
	ModelStage   string    `json:"model_stage"`
	ModelSource  string    `json:"model_source"`
	ModelLoaded  bool      `json:"model_loaded"`
	ScalerLoaded bool      `json:"scaler_loaded"`
}

// Health statuses.
const (
	StatusHealthy   = "healthy"
	StatusDegraded  = "degraded"
	StatusUnhealthy = "unhealthy"
)

// ModelVersionResponse is one entry of the model catalog.
type ModelVersionResponse struct {
	Name        string `json:"name"`
	Version     string `json:"version"`
	Stage       string `json:"stage"`
	RunID       string `json:"run_id"`
	Description string `json:"description"`
}

// FromModelVersions converts registry versions into response DTOs.
func FromModelVersions(versions []model.ModelVersion) []ModelVersionResponse {
	out := make([]ModelVersionResponse, 0, len(versions))
	for _, v := range versions {
		out = append(out, ModelVersionResponse{
			Name:        v.Name,
			Version:     v.Version,
			Stage:       v.Stage,
			RunID:       v.RunID,
			Description: v.Description,
		})
	}
	return out
}
