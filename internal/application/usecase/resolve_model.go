package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/bibbank/fraud-detection/internal/domain/model"
	"github.com/bibbank/fraud-detection/internal/domain/port"
	"github.com/bibbank/fraud-detection/internal/domain/valueobject"
)

// ErrNoModelAvailable is returned when every loader failed.
var ErrNoModelAvailable = errors.New("no model available from any source")

// ResolutionOrder returns the stores to try, in order, for a configured primary source.
func ResolutionOrder(primary valueobject.ModelSource) []valueobject.ModelSource {
	switch primary {
	case valueobject.SourceHub:
		return []valueobject.ModelSource{valueobject.SourceHub, valueobject.SourceRegistry, valueobject.SourceLocal}
	case valueobject.SourceLocal:
		return []valueobject.ModelSource{valueobject.SourceLocal}
	default:
		return []valueobject.ModelSource{valueobject.SourceRegistry, valueobject.SourceHub, valueobject.SourceLocal}
	}
}

// ResolveModel is the use case that picks the model bundle served by the process.
type ResolveModel struct {
	logger  *slog.Logger
	loaders []port.ModelLoader
}

// NewResolveModel orders the available loaders for the primary source. Loaders
// whose store is not part of the resolution order are ignored.
func NewResolveModel(primary valueobject.ModelSource, available []port.ModelLoader, logger *slog.Logger) *ResolveModel {
	bySource := make(map[valueobject.ModelSource]port.ModelLoader, len(available))
	for _, l := range available {
		bySource[l.Source()] = l
	}

	ordered := make([]port.ModelLoader, 0, len(available))
	for _, src := range ResolutionOrder(primary) {
		if l, ok := bySource[src]; ok {
			ordered = append(ordered, l)
		}
	}

	return &ResolveModel{loaders: ordered, logger: logger}
}

// Loaders returns the loaders in the order they are tried.
func (uc *ResolveModel) Loaders() []port.ModelLoader {
	return uc.loaders
}

// Execute tries each loader in order and returns the first bundle obtained.
// When all fail the returned error wraps ErrNoModelAvailable and every loader error.
func (uc *ResolveModel) Execute(ctx context.Context) (*model.Bundle, error) {
	errs := []error{ErrNoModelAvailable}

	for _, loader := range uc.loaders {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}

		bundle, err := loader.Load(ctx)
		if err != nil {
			uc.logger.Warn("model source failed",
				"source", loader.Source().String(),
				"error", err,
			)
			errs = append(errs, fmt.Errorf("%s: %w", loader.Source(), err))
			continue
		}

		uc.logger.Info("model resolved",
			"source", bundle.Source().String(),
			"name", bundle.Name(),
			"version", bundle.Version(),
			"stage", bundle.Stage(),
			"scaler", bundle.HasScaler(),
			"location", bundle.Location(),
			"loaded_at", bundle.LoadedAt(),
		)
		return bundle, nil
	}

	return nil, errors.Join(errs...)
}
