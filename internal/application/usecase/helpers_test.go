package usecase_test

import (
	"context"
	"log/slog"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/bibbank/fraud-detection/internal/domain/model"
	"github.com/bibbank/fraud-detection/internal/domain/valueobject"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

// --- Mock implementations ---

type fixedScorer struct {
	out []float64
}

func (s fixedScorer) Predict([]float64) ([]float64, error) { return s.out, nil }

type identityScaler struct{}

func (identityScaler) Transform(t, a float64) (float64, float64) { return t, a }

func newTestBundle(t *testing.T, src valueobject.ModelSource, prob float64, withScaler bool) *model.Bundle {
	t.Helper()
	spec := model.BundleSpec{
		Scorer:  fixedScorer{out: []float64{prob}},
		Source:  src,
		Name:    "fraud-detector",
		Version: "3",
		Stage:   "Production",
	}
	if withScaler {
		spec.Scaler = identityScaler{}
	}
	b, err := model.NewBundle(spec)
	require.NoError(t, err)
	return b
}

type mockLoader struct {
	bundle *model.Bundle
	err    error
	source valueobject.ModelSource
	calls  int
}

func (m *mockLoader) Source() valueobject.ModelSource { return m.source }

func (m *mockLoader) Load(context.Context) (*model.Bundle, error) {
	m.calls++
	return m.bundle, m.err
}

type mockRecorder struct {
	records []model.PredictionRecord
	mu      sync.Mutex
}

func (m *mockRecorder) Record(_ context.Context, r model.PredictionRecord) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = append(m.records, r)
}

type mockObserver struct {
	predictions int
	failures    int
	elapsed     time.Duration
}

func (m *mockObserver) ObservePrediction(_ context.Context, _ model.PredictionResult, elapsed time.Duration) {
	m.predictions++
	m.elapsed = elapsed
}

func (m *mockObserver) ObserveValidationFailure(context.Context) {
	m.failures++
}

type mockValidator struct {
	err   error
	delay time.Duration
}

func (m mockValidator) Validate(*model.Payload) error {
	time.Sleep(m.delay)
	return m.err
}

type mockRegistry struct {
	err      error
	versions []model.ModelVersion
}

func (m mockRegistry) ListVersions(context.Context) ([]model.ModelVersion, error) {
	return m.versions, m.err
}

func validPayload() *model.Payload {
	p := model.NewPayload()
	p.Set("Time", 406.0)
	for i := 1; i <= 28; i++ {
		p.Set(model.FeatureNames[i], 0.1*float64(i))
	}
	p.Set("Amount", 149.62)
	return p
}
