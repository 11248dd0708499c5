package valueobject

import (
	"fmt"
	"strings"
)

// ModelSource identifies the backing store a model bundle was loaded from.
type ModelSource string

const (
	SourceRegistry ModelSource = "registry"
	SourceHub      ModelSource = "hub"
	SourceLocal    ModelSource = "local"
)

// ModelSourceFromString parses a configured source preference.
// "mlflow" and "huggingface" are accepted as aliases; empty selects the registry.
func ModelSourceFromString(s string) (ModelSource, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "registry", "mlflow":
		return SourceRegistry, nil
	case "hub", "huggingface", "hf":
		return SourceHub, nil
	case "local":
		return SourceLocal, nil
	default:
		return "", fmt.Errorf("invalid model source: %q", s)
	}
}

// String returns the source tag.
func (s ModelSource) String() string {
	return string(s)
}
