package model

import (
	"time"

	"github.com/bibbank/fraud-detection/internal/domain/valueobject"
)

// Scorer is a fitted classifier. Predict receives features in training order and
// returns either [P(fraud)] or [P(normal), P(fraud)] depending on the model.
type Scorer interface {
	Predict(features []float64) ([]float64, error)
}

// Scaler is a fitted transform applied to the Time and Amount columns.
type Scaler interface {
	Transform(timeValue, amount float64) (float64, float64)
}

// BundleSpec carries the parts of a bundle assembled by a loader.
type BundleSpec struct {
	Scorer   Scorer
	Scaler   Scaler
	Metadata *Metadata
	Source   valueobject.ModelSource
	Name     string
	Version  string
	Stage    string
	RunID    string
	Location string
}

// Bundle is the resolved model used to serve predictions. It is immutable after
// construction and safe for concurrent reads.
type Bundle struct {
	loadedAt time.Time
	scorer   Scorer
	scaler   Scaler
	metadata *Metadata
	source   valueobject.ModelSource
	name     string
	version  string
	stage    string
	runID    string
	location string
}

// NewBundle validates a spec and freezes it into a Bundle. A nil scaler is allowed.
func NewBundle(spec BundleSpec) (*Bundle, error) {
	if spec.Scorer == nil {
		return nil, errNilScorer
	}
	if spec.Source == "" {
		return nil, errNoSource
	}
	return &Bundle{
		loadedAt: time.Now().UTC(),
		scorer:   spec.Scorer,
		scaler:   spec.Scaler,
		metadata: spec.Metadata,
		source:   spec.Source,
		name:     spec.Name,
		version:  spec.Version,
		stage:    spec.Stage,
		runID:    spec.RunID,
		location: spec.Location,
	}, nil
}

// --- Accessors ---

func (b *Bundle) Scorer() Scorer { return b.scorer }
func (b *Bundle) Scaler() Scaler { return b.scaler }
func (b *Bundle) HasScaler() bool { return b.scaler != nil }
func (b *Bundle) Metadata() *Metadata { return b.metadata }
func (b *Bundle) Source() valueobject.ModelSource { return b.source }
func (b *Bundle) Name() string { return b.name }
func (b *Bundle) Version() string { return b.version }
func (b *Bundle) Stage() string { return b.stage }
func (b *Bundle) RunID() string { return b.runID }
func (b *Bundle) Location() string { return b.location }
func (b *Bundle) LoadedAt() time.Time { return b.loadedAt }
