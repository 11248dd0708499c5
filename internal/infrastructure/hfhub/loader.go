package hfhub

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

// ErrNoRepo is returned when no hub repository is configured.
var ErrNoRepo = errors.New("hfhub: model repository not configured")

// ScalerCandidates are probed in order; the first file present is used.
var ScalerCandidates = []string{"scaler.json", "scaler_lgbm.json", "scaler.joblib.json"}

const (
	defaultRevision = "main"
	hubStage        = "Production"
)

// Loader implements port.ModelLoader against a hub repository.
type Loader struct {
	client   *Client
	logger   *slog.Logger
	repo     string
	revision string
}

// NewLoader creates a hub loader for repo at revision.
func NewLoader(client *Client, repo, revision string, logger *slog.Logger) *Loader {
	if revision == "" {
		revision = defaultRevision
	}
	return &Loader{client: client, repo: repo, revision: revision, logger: logger}
}

// Source implements port.ModelLoader.
func (l *Loader) Source() valueobject.ModelSource {
	return valueobject.SourceHub
}

// Load downloads the model, the first available scaler and the optional metadata.
func (l *Loader) Load(ctx context.Context) (*model.Bundle, error) {
	if l.repo == "" {
		return nil, ErrNoRepo
	}

	data, err := l.client.Download(ctx, l.repo, l.revision, artifact.ModelFile)
	if err != nil {
		return nil, err
	}
	scorer, err := artifact.DecodeModel(data)
	if err != nil {
		return nil, err
	}

	version := l.revision
	if version == defaultRevision {
		version = "latest"
	}
	spec := model.BundleSpec{
		Scorer:   scorer,
		Source:   valueobject.SourceHub,
		Name:     path.Base(l.repo),
		Version:  version,
		Stage:    hubStage,
		Location: fmt.Sprintf("%s@%s", l.repo, l.revision),
	}

	if spec.Scaler, err = l.scaler(ctx); err != nil {
		return nil, err
	}

	meta, err := l.client.Download(ctx, l.repo, l.revision, artifact.MetadataFile)
	switch {
	case err == nil:
		if spec.Metadata, err = artifact.DecodeMetadata(meta); err != nil {
			return nil, err
		}
	case !httpclient.IsNotFound(err):
		l.logger.Warn("hub metadata unavailable, proceeding without metadata",
			slog.String("repo", l.repo),
			slog.String("error", err.Error()),
		)
	}

	return model.NewBundle(spec)
}

func (l *Loader) scaler(ctx context.Context) (model.Scaler, error) {
	for _, name := range ScalerCandidates {
		data, err := l.client.Download(ctx, l.repo, l.revision, name)
		if err != nil {
			if !httpclient.IsNotFound(err) {
				l.logger.Warn("scaler candidate unavailable",
					slog.String("file", name),
					slog.String("error", err.Error()),
				)
			}
			continue
		}

		l.logger.Info("found scaler", slog.String("file", name))
		return artifact.DecodeScaler(data)
	}

	l.logger.Warn("no scaler found in hub repository, proceeding without scaler",
		slog.String("repo", l.repo),
	)
	return nil, nil
}
