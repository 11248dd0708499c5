package artifact

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// MLmodelFile is the descriptor MLflow writes next to every logged model.
const MLmodelFile = "MLmodel"

// GoFlavor is the flavor name carrying the portable model file.
const GoFlavor = "go_json"

// MLmodel is the subset of an MLflow model descriptor the registry loader reads.
type MLmodel struct {
	Flavors        map[string]map[string]any `yaml:"flavors"`
	ArtifactPath   string                    `yaml:"artifact_path"`
	RunID          string                    `yaml:"run_id"`
	ModelUUID      string                    `yaml:"model_uuid"`
	UTCTimeCreated string                    `yaml:"utc_time_created"`
}

// DecodeMLmodel parses an MLmodel YAML descriptor.
func DecodeMLmodel(data []byte) (*MLmodel, error) {
	var m MLmodel
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("artifact: decode MLmodel: %w", err)
	}
	return &m, nil
}

// DataFile returns the model file named by the go_json flavor, or ModelFile.
func (m *MLmodel) DataFile() string {
	if flavor, ok := m.Flavors[GoFlavor]; ok {
		if data, ok := flavor["data"].(string); ok && data != "" {
			return data
		}
	}
	return ModelFile
}

// HasFlavor reports whether the descriptor declares the named flavor.
func (m *MLmodel) HasFlavor(name string) bool {
	_, ok := m.Flavors[name]
	return ok
}
