package local_test

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bibbank/fraud-detection/internal/domain/valueobject"
	"github.com/bibbank/fraud-detection/internal/infrastructure/local"
	"github.com/bibbank/fraud-detection/pkg/testutil"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func writeFile(t *testing.T, path string, data []byte) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, data, 0o600))
}

func TestLoader_FirstCandidateWins(t *testing.T) {
	root := t.TempDir()
	first := filepath.Join(root, "models", "model.json")
	second := filepath.Join(root, "artifacts", "model", "model.json")

	writeFile(t, second, testutil.LogisticModelJSON(-1, 0))
	writeFile(t, filepath.Join(root, "artifacts", "model", "scaler.json"), testutil.ScalerJSON(0, 1, 0, 1))
	writeFile(t, filepath.Join(root, "artifacts", "model", "metadata.json"), []byte(testutil.MetadataJSON))

	loader := local.NewLoader([]string{first, second}, testLogger())
	assert.Equal(t, valueobject.SourceLocal, loader.Source())

	bundle, err := loader.Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, second, bundle.Location())
	assert.Equal(t, "fraud-detector", bundle.Name())
	assert.Equal(t, "local", bundle.Version())
	assert.Equal(t, "Development", bundle.Stage())
	assert.Equal(t, valueobject.SourceLocal, bundle.Source())
	assert.True(t, bundle.HasScaler())
	assert.NotNil(t, bundle.Metadata())

	writeFile(t, first, testutil.LogisticModelJSON(-1, 0))
	bundle, err = loader.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, first, bundle.Location())
	assert.False(t, bundle.HasScaler())
	assert.Nil(t, bundle.Metadata())
}

func TestLoader_NoModelFile(t *testing.T) {
	loader := local.NewLoader([]string{filepath.Join(t.TempDir(), "missing.json")}, testLogger())

	_, err := loader.Load(context.Background())
	assert.ErrorIs(t, err, local.ErrNoModelFile)
}

func TestLoader_CorruptModel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model.json")
	writeFile(t, path, []byte(`{"format":"svm"}`))

	_, err := local.NewLoader([]string{path}, testLogger()).Load(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), path)
}

func TestLoader_CorruptScaler(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "model.json"), testutil.LogisticModelJSON(-1, 0))
	writeFile(t, filepath.Join(dir, "scaler.json"), []byte(`{"mean":[1]}`))

	_, err := local.NewLoader([]string{filepath.Join(dir, "model.json")}, testLogger()).Load(context.Background())
	assert.Error(t, err)
}

func TestLoader_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := local.NewLoader(nil, testLogger()).Load(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
