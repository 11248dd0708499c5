package usecase

import (
	"time"

	"github.com/bibbank/fraud-detection/internal/application/dto"
	"github.com/bibbank/fraud-detection/internal/domain/service"
)

const notAvailable = "N/A"

// GetHealth is the use case that reports serving readiness.
type GetHealth struct {
	predictor *service.Predictor
}

// NewGetHealth creates a new GetHealth use case.
func NewGetHealth(predictor *service.Predictor) *GetHealth {
	return &GetHealth{predictor: predictor}
}

// Execute builds the health report. A model without a scaler is degraded.
func (uc *GetHealth) Execute() dto.HealthResponse {
	resp := dto.HealthResponse{
		ModelName:    notAvailable,
		ModelVersion: notAvailable,
		ModelStage:   notAvailable,
		ModelSource:  notAvailable,
		Timestamp:    time.Now().UTC(),
	}

	bundle := uc.predictor.Bundle()
	switch {
	case bundle == nil:
		resp.Status = dto.StatusUnhealthy
		resp.Message = "Model not loaded"
		return resp
	case bundle.HasScaler():
		resp.Status = dto.StatusHealthy
		resp.Message = "Fraud Detection API is running"
	default:
		resp.Status = dto.StatusDegraded
		resp.Message = "Model loaded without scaler"
	}

	resp.ModelLoaded = true
	resp.ScalerLoaded = bundle.HasScaler()
	resp.ModelName = bundle.Name()
	resp.ModelVersion = bundle.Version()
	resp.ModelStage = bundle.Stage()
	resp.ModelSource = bundle.Source().String()
	return resp
}
