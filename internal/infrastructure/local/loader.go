// Package local loads a model bundle from the filesystem.
package local

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/bibbank/fraud-detection/internal/domain/model"
	"github.com/bibbank/fraud-detection/internal/domain/valueobject"
	"github.com/bibbank/fraud-detection/internal/infrastructure/artifact"
)

// ErrNoModelFile is returned when none of the candidate paths holds a model.
var ErrNoModelFile = errors.New("local: no model file found")

const (
	localName    = "fraud-detector"
	localVersion = "local"
	localStage   = "Development"
)

// Loader implements port.ModelLoader over a list of candidate model paths.
type Loader struct {
	logger *slog.Logger
	paths  []string
}

// NewLoader creates a loader trying paths in order.
func NewLoader(paths []string, logger *slog.Logger) *Loader {
	return &Loader{paths: paths, logger: logger}
}

// Source implements port.ModelLoader.
func (l *Loader) Source() valueobject.ModelSource {
	return valueobject.SourceLocal
}

// Load decodes the first model file found, plus the scaler and metadata next to it.
func (l *Loader) Load(ctx context.Context) (*model.Bundle, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	modelPath, data, err := l.firstModel()
	if err != nil {
		return nil, err
	}
	scorer, err := artifact.DecodeModel(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", modelPath, err)
	}

	spec := model.BundleSpec{
		Scorer:   scorer,
		Source:   valueobject.SourceLocal,
		Name:     localName,
		Version:  localVersion,
		Stage:    localStage,
		Location: modelPath,
	}

	dir := filepath.Dir(modelPath)

	scaler, err := readOptional(filepath.Join(dir, artifact.ScalerFile))
	if err != nil {
		return nil, err
	}
	if scaler != nil {
		if spec.Scaler, err = artifact.DecodeScaler(scaler); err != nil {
			return nil, err
		}
	} else {
		l.logger.Warn("no scaler next to local model", slog.String("dir", dir))
	}

	meta, err := readOptional(filepath.Join(dir, artifact.MetadataFile))
	if err != nil {
		return nil, err
	}
	if meta != nil {
		if spec.Metadata, err = artifact.DecodeMetadata(meta); err != nil {
			return nil, err
		}
	}

	return model.NewBundle(spec)
}

func (l *Loader) firstModel() (string, []byte, error) {
	for _, p := range l.paths {
		data, err := os.ReadFile(p)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return "", nil, fmt.Errorf("local: read %s: %w", p, err)
		}
		return p, data, nil
	}
	return "", nil, fmt.Errorf("%w in %v", ErrNoModelFile, l.paths)
}

func readOptional(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("local: read %s: %w", path, err)
	}
	return data, nil
}
