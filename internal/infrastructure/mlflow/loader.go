package mlflow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path"

	"github.com/bibbank/fraud-detection/internal/domain/model"
	"github.com/bibbank/fraud-detection/internal/domain/valueobject"
	"github.com/bibbank/fraud-detection/internal/infrastructure/artifact"
	"github.com/bibbank/fraud-detection/internal/infrastructure/httpclient"
)

// ErrNoVersion is returned when the registry holds no usable version of the model.
var ErrNoVersion = errors.New("mlflow: no registered version found")

// Loader implements port.ModelLoader against the model registry.
type Loader struct {
	client *Client
	logger *slog.Logger
	name   string
	stage  string
}

// NewLoader creates a registry loader. A nil client makes every Load fail with
// ErrUnsupportedURI, so an unreachable registry still takes part in fallback.
func NewLoader(client *Client, name, stage string, logger *slog.Logger) *Loader {
	return &Loader{client: client, name: name, stage: stage, logger: logger}
}

// Source implements port.ModelLoader.
func (l *Loader) Source() valueobject.ModelSource {
	return valueobject.SourceRegistry
}

// Load resolves the model version for the configured stage, falling back to the
// highest numeric version, and downloads its artifacts.
func (l *Loader) Load(ctx context.Context) (*model.Bundle, error) {
	if l.client == nil {
		return nil, ErrUnsupportedURI
	}

	version, err := l.resolveVersion(ctx)
	if err != nil {
		return nil, err
	}

	dir := artifactDir(version.Source)

	descriptor, err := l.client.DownloadArtifact(ctx, version.RunID, path.Join(dir, artifact.MLmodelFile))
	if err != nil {
		return nil, err
	}
	mlmodel, err := artifact.DecodeMLmodel(descriptor)
	if err != nil {
		return nil, err
	}
	if !mlmodel.HasFlavor(artifact.GoFlavor) {
		l.logger.Warn("MLmodel declares no go_json flavor, trying default model file",
			slog.String("run_id", version.RunID),
			slog.String("file", artifact.ModelFile),
		)
	}

	data, err := l.client.DownloadArtifact(ctx, version.RunID, path.Join(dir, mlmodel.DataFile()))
	if err != nil {
		return nil, err
	}
	scorer, err := artifact.DecodeModel(data)
	if err != nil {
		return nil, err
	}

	spec := model.BundleSpec{
		Scorer:   scorer,
		Source:   valueobject.SourceRegistry,
		Name:     l.name,
		Version:  version.Version,
		Stage:    version.CurrentStage,
		RunID:    version.RunID,
		Location: fmt.Sprintf("models:/%s/%s", l.name, version.Version),
	}
	if spec.Stage == "" {
		spec.Stage = l.stage
	}

	if scaler := l.optional(ctx, version.RunID, artifact.ScalerFile); scaler != nil {
		if spec.Scaler, err = artifact.DecodeScaler(scaler); err != nil {
			return nil, err
		}
	} else {
		l.logger.Warn("registry model has no scaler", slog.String("run_id", version.RunID))
	}

	if meta := l.optional(ctx, version.RunID, artifact.MetadataFile); meta != nil {
		if spec.Metadata, err = artifact.DecodeMetadata(meta); err != nil {
			return nil, err
		}
	}

	return model.NewBundle(spec)
}

func (l *Loader) resolveVersion(ctx context.Context) (modelVersion, error) {
	latest, err := l.client.LatestVersions(ctx, l.name, l.stage)
	if err == nil && len(latest) > 0 {
		return latest[0], nil
	}
	if err != nil {
		l.logger.Debug("stage lookup failed, searching all versions",
			slog.String("stage", l.stage),
			slog.String("error", err.Error()),
		)
	}

	all, err := l.client.SearchVersions(ctx, l.name)
	if err != nil {
		return modelVersion{}, err
	}
	v, ok := highestVersion(all)
	if !ok {
		return modelVersion{}, fmt.Errorf("%w: %s", ErrNoVersion, l.name)
	}
	return v, nil
}

// optional downloads a run artifact that may be absent. Any download failure
// yields nil data; servers backed by a local artifact store answer a missing
// file with a 500 rather than a 404.
func (l *Loader) optional(ctx context.Context, runID, name string) []byte {
	data, err := l.client.DownloadArtifact(ctx, runID, name)
	if err != nil {
		if !httpclient.IsNotFound(err) {
			l.logger.Warn("optional registry artifact unavailable",
				slog.String("run_id", runID),
				slog.String("file", name),
				slog.String("error", err.Error()),
			)
		}
		return nil
	}
	return data
}
