package usecase

import (
	"github.com/bibbank/fraud-detection/internal/domain/model"
	"github.com/bibbank/fraud-detection/internal/domain/service"
)

// ValidatePayload is the use case behind the diagnostic endpoint. It never predicts.
type ValidatePayload struct{}

// NewValidatePayload creates a new ValidatePayload use case.
func NewValidatePayload() *ValidatePayload {
	return &ValidatePayload{}
}

// Execute returns the diagnostic report for payload.
func (uc *ValidatePayload) Execute(payload *model.Payload) model.ValidationReport {
	return service.Diagnose(payload)
}
