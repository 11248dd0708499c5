package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/bibbank/fraud-detection/internal/application/dto"
	"github.com/bibbank/fraud-detection/internal/domain/port"
)

// ErrRegistryNotConfigured is returned when the catalog is asked for without a registry.
var ErrRegistryNotConfigured = errors.New("model registry client not initialized")

// ListModels is the use case for browsing registered model versions.
type ListModels struct {
	registry port.ModelRegistry
}

// NewListModels creates a new ListModels use case. A nil registry is allowed.
func NewListModels(registry port.ModelRegistry) *ListModels {
	return &ListModels{registry: registry}
}

// Execute lists every version of the served model.
func (uc *ListModels) Execute(ctx context.Context) ([]dto.ModelVersionResponse, error) {
	if uc.registry == nil {
		return nil, ErrRegistryNotConfigured
	}

	versions, err := uc.registry.ListVersions(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list models: %w", err)
	}
	return dto.FromModelVersions(versions), nil
}
