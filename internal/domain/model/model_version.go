package model

// ModelVersion is one registered version of a model in the registry.
type ModelVersion struct {
	Name        string
	Version     string
	Stage       string
	RunID       string
	Description string
}
